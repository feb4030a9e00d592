package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/auth"
	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/postgres"
	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/rabbitmq"
	"github.com/miruku-pixel/poddo-pos-engine/internal/app/billing"
	"github.com/miruku-pixel/poddo-pos-engine/internal/app/lifecycle"
	"github.com/miruku-pixel/poddo-pos-engine/internal/app/reconciliation"
	"github.com/miruku-pixel/poddo-pos-engine/internal/config"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"

	amqpAdapter "github.com/miruku-pixel/poddo-pos-engine/internal/adapter/amqp"
	httpAdapter "github.com/miruku-pixel/poddo-pos-engine/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: api-server, kitchen-display, receipt-printer")
	port := flag.Int("port", 0, "HTTP port (api-server); overrides server.port from config")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count (kitchen-display)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	// Connect to RabbitMQ (all modes use the event fabric)
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api-server":
		// Connect to PostgreSQL
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		runAPIServer(db, mqConn, cfg, lgr, resolvePort(*port, cfg))

	case "kitchen-display":
		runKitchenDisplay(ctx, mqConn, lgr, *prefetch)

	case "receipt-printer":
		runReceiptPrinter(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

// resolvePort prefers the --port flag, then server.port from config,
// then the stock default.
func resolvePort(flagPort int, cfg *config.Config) int {
	if flagPort > 0 {
		return flagPort
	}
	if cfg.Server.Port > 0 {
		return cfg.Server.Port
	}
	return 3000
}

func runAPIServer(db postgres.DB, mqConn rabbitmq.Connection, cfg *config.Config, lgr logger.Logger, port int) {
	// Initialize repositories
	orderRepo := postgres.NewOrderRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	reconciliationRepo := postgres.NewReconciliationRepository(db)

	// Initialize messaging
	publisher := rabbitmq.NewPublisher(mqConn)

	// Initialize services
	profile := domain.LifecycleProfile(cfg.Lifecycle.Profile)
	lifecycleService := lifecycle.NewService(profile, orderRepo, publisher, lgr)
	billingSession := billing.NewSession(orderRepo, billingRepo, billing.NewCalculator(billing.ZeroTax), publisher, lgr)
	reconciliationService := reconciliation.NewService(reconciliationRepo, billingRepo, lgr)

	// Initialize HTTP surface
	verifier := auth.NewStaticVerifier(cfg.Auth)
	handler := httpAdapter.NewRouter(
		httpAdapter.NewOrderHandler(lifecycleService, lgr),
		httpAdapter.NewBillingHandler(billingSession, lgr),
		httpAdapter.NewReconciliationHandler(reconciliationService, lgr),
		verifier,
		lgr,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API server started on port %d", port), "startup", map[string]interface{}{
		"port":    port,
		"profile": cfg.Lifecycle.Profile,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runKitchenDisplay(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger, prefetch int) {
	consumer := rabbitmq.NewConsumer(mqConn, prefetch)
	ticketHandler := amqpAdapter.NewTicketHandler(lgr)

	lgr.Info("service_started", "Kitchen display started", "startup", map[string]interface{}{
		"prefetch": prefetch,
	})

	go func() {
		if err := consumer.ConsumeKitchenTickets(ctx, ticketHandler.HandleTicket); err != nil {
			lgr.Error("consumer_error", "Error consuming kitchen tickets", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down kitchen display", "shutdown", nil)
}

func runReceiptPrinter(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn, 1)
	receiptHandler := amqpAdapter.NewReceiptHandler(lgr)

	lgr.Info("service_started", "Receipt printer started", "startup", nil)

	go func() {
		if err := consumer.ConsumeReceipts(ctx, receiptHandler.HandleReceipt); err != nil {
			lgr.Error("consumer_error", "Error consuming receipts", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down receipt printer", "shutdown", nil)
}

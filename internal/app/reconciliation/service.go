package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// Service runs the per-(outlet, date) daily cash protocol: OPEN until
// submit locks the record, admin unlock reopens it. The server copy is
// authoritative; every mutation returns the re-fetched record instead of
// the locally staged one.
type Service struct {
	repo     interfaces.ReconciliationRepository
	billings interfaces.BillingRepository
	logger   logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(
	repo interfaces.ReconciliationRepository,
	billings interfaces.BillingRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		billings: billings,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// RevenueSummary builds the read model behind the reconciliation screen:
// paid revenue by payment type plus the current record with its lock flag.
func (s *Service) RevenueSummary(ctx context.Context, outletID int, date time.Time) (*interfaces.RevenueSummary, error) {
	byType, err := s.billings.RevenueByPaymentType(ctx, outletID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue: %w", err)
	}

	summary := &interfaces.RevenueSummary{
		OutletID:      outletID,
		Date:          date,
		ByPaymentType: byType,
		CashRevenue:   byType[domain.PaymentCash],
	}
	for _, amount := range byType {
		summary.TotalRevenue += amount
	}

	record, err := s.repo.Find(ctx, outletID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciliation record: %w", err)
	}
	summary.Reconciliation = record

	return summary, nil
}

// Submit persists the day's deposit and locks the record. A locked record
// rejects the submit before any write; re-submission after unlock
// overwrites prior values.
func (s *Service) Submit(ctx context.Context, cmd interfaces.SubmitCashCommand) (*domain.DailyCashRecord, error) {
	// 1. One outstanding request per ledger entry.
	key := ledgerKey(cmd.OutletID, cmd.Date)
	if !s.acquire(key) {
		return nil, &domain.Error{Kind: domain.KindConflict, Message: domain.ErrLedgerInFlight.Error(), Err: domain.ErrLedgerInFlight}
	}
	defer s.release(key)

	// 2. Locked means no write and no retry; the operator must unlock.
	existing, err := s.repo.Find(ctx, cmd.OutletID, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciliation record: %w", err)
	}
	if existing != nil && existing.Locked {
		return nil, &domain.Error{Kind: domain.KindConflict, Message: domain.ErrLedgerLocked.Error(), Err: domain.ErrLedgerLocked}
	}

	if cmd.CashDeposit == nil {
		return nil, domain.NewValidationError("cash_deposit", "cash deposit is required")
	}
	if *cmd.CashDeposit < 0 {
		return nil, domain.NewValidationError("cash_deposit", "cash deposit must not be negative")
	}

	// 3. Adjustment is an admin-only field.
	adjustment := cmd.Adjustment
	if cmd.Actor.Role != domain.RoleAdmin {
		adjustment = 0
	}

	// 4. Assemble the record from authoritative inputs.
	previous, err := s.repo.PreviousRemaining(ctx, cmd.OutletID, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous balance: %w", err)
	}

	byType, err := s.billings.RevenueByPaymentType(ctx, cmd.OutletID, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue: %w", err)
	}

	record := &domain.DailyCashRecord{
		OutletID:        cmd.OutletID,
		Date:            cmd.Date,
		PreviousBalance: previous,
		CashRevenue:     byType[domain.PaymentCash],
		CashDeposit:     *cmd.CashDeposit,
		Adjustment:      adjustment,
		Remarks:         cmd.Remarks,
		Locked:          true,
		SubmittedBy:     cmd.Actor.DisplayName,
		SubmittedAt:     time.Now(),
	}
	record.RemainingBalance = record.ComputeRemaining()

	// 5. Persist and re-fetch: lock state is only authoritative after a
	// successful round trip.
	if err := s.repo.Upsert(ctx, record); err != nil {
		s.logger.Error("reconciliation_submit_failed", "Failed to submit daily cash", "", map[string]interface{}{
			"outlet_id": cmd.OutletID,
		}, err)
		return nil, err
	}

	s.logger.Info("reconciliation_submitted", fmt.Sprintf("Daily cash locked for outlet %d", cmd.OutletID), "", map[string]interface{}{
		"outlet_id": cmd.OutletID,
		"date":      cmd.Date.Format("2006-01-02"),
		"remaining": record.RemainingBalance,
	})

	return s.repo.Find(ctx, cmd.OutletID, cmd.Date)
}

// Unlock clears the lock flag without deleting prior values. Admin only.
func (s *Service) Unlock(ctx context.Context, cmd interfaces.UnlockCommand) (*domain.DailyCashRecord, error) {
	if cmd.Actor.Role != domain.RoleAdmin {
		return nil, &domain.Error{Kind: domain.KindAuthorization, Message: domain.ErrUnlockRequiresAdmin.Error(), Err: domain.ErrUnlockRequiresAdmin}
	}

	key := ledgerKey(cmd.OutletID, cmd.Date)
	if !s.acquire(key) {
		return nil, &domain.Error{Kind: domain.KindConflict, Message: domain.ErrLedgerInFlight.Error(), Err: domain.ErrLedgerInFlight}
	}
	defer s.release(key)

	if err := s.repo.Unlock(ctx, cmd.OutletID, cmd.Date); err != nil {
		s.logger.Error("reconciliation_unlock_failed", "Failed to unlock daily cash", "", map[string]interface{}{
			"outlet_id": cmd.OutletID,
		}, err)
		return nil, err
	}

	s.logger.Info("reconciliation_unlocked", fmt.Sprintf("Daily cash unlocked for outlet %d", cmd.OutletID), "", map[string]interface{}{
		"outlet_id": cmd.OutletID,
		"date":      cmd.Date.Format("2006-01-02"),
	})

	// Full re-fetch so callers see the authoritative server state.
	return s.repo.Find(ctx, cmd.OutletID, cmd.Date)
}

func ledgerKey(outletID int, date time.Time) string {
	return fmt.Sprintf("%d:%s", outletID, date.Format("2006-01-02"))
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

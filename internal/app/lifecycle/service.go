package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// Service governs order creation, item edits and status transitions under
// the configured lifecycle profile.
type Service struct {
	profile   domain.LifecycleProfile
	repo      interfaces.OrderRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger

	mu       sync.Mutex
	inFlight map[int]struct{}
}

func NewService(
	profile domain.LifecycleProfile,
	repo interfaces.OrderRepository,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
) *Service {
	if !profile.Valid() {
		profile = domain.ProfileFourState
	}
	return &Service{
		profile:   profile,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		inFlight:  make(map[int]struct{}),
	}
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	// 1. Convert the command into domain entities.
	items := convertItems(cmd.Items)

	order, err := domain.NewOrder(cmd.OutletID, domain.OrderType(cmd.OrderType), items, cmd.TableNumber, cmd.CustomerName, cmd.OnlineCode, cmd.Actor)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", nil, err)
		return nil, err
	}
	order.Remark = cmd.Remark
	order.DiscountPct = cmd.DiscountPct

	// 2. Generate the human-readable number.
	number, err := s.repo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.Number = number

	// 3. Persist transactionally together with the status log.
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", "", nil, err)
		return nil, err
	}

	// 4. Hand the ticket to the kitchen lane.
	s.publishTicket(ctx, order)

	s.logger.Debug("order_created", fmt.Sprintf("Order %s created", order.Number), "", map[string]interface{}{
		"order_number": order.Number,
		"order_type":   order.Type,
	})

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// GetStatusHistory returns the audit trail of status changes, oldest first.
func (s *Service) GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error) {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, orderID)
}

// RequestTransition applies (order, target, actor) against the profile's
// transition table. While one transition for an order is in flight, a
// second request for the same order is rejected, not queued. On any
// rejection the order's status is left unchanged.
func (s *Service) RequestTransition(ctx context.Context, cmd interfaces.TransitionCommand) (*domain.Order, error) {
	// 1. Per-order in-flight guard, released on every exit path.
	if !s.acquire(cmd.OrderID) {
		return nil, &domain.Error{Kind: domain.KindConflict, Message: domain.ErrTransitionInFlight.Error(), Err: domain.ErrTransitionInFlight}
	}
	defer s.release(cmd.OrderID)

	// 2. Load the order snapshot.
	order, err := s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	// 3. Authorize before dispatch.
	if err := s.authorize(order, cmd); err != nil {
		return nil, err
	}

	// 4. Cancels are two-phase: propose then confirm, for every role.
	if cmd.Target == domain.StatusCanceled && !cmd.Confirmed {
		return nil, &domain.Error{Kind: domain.KindValidation, Message: domain.ErrCancelNotConfirmed.Error(), Err: domain.ErrCancelNotConfirmed}
	}

	// 5. Check the profile's transition table.
	if !s.profile.CanTransition(order.Status, cmd.Target) {
		return nil, &domain.Error{Kind: domain.KindValidation, Message: domain.ErrInvalidStatusTransition.Error(), Err: domain.ErrInvalidStatusTransition}
	}

	// 6. Persist status plus audit log; the in-memory order is only
	// touched after the write succeeds.
	if err := s.repo.UpdateStatusWithLog(ctx, order, cmd.Target, cmd.Actor.DisplayName); err != nil {
		s.logger.Error("status_update_failed", "Failed to update order status", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = cmd.Target
	order.UpdatedAt = time.Now()

	// 7. Emit the refresh signal so dependent views resynchronize from
	// the source of truth. Publish failure never fails the transition.
	refresh := interfaces.OrderRefreshMessage{
		CorrelationID: uuid.NewString(),
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		NewStatus:     order.Status,
		ChangedBy:     cmd.Actor.DisplayName,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.PublishOrderRefresh(ctx, refresh); err != nil {
		s.logger.Error("refresh_publish_failed", "Failed to publish refresh signal", "", nil, err)
	}

	s.logger.Debug("status_changed", fmt.Sprintf("Order %s is now %s", order.Number, order.Status), "", map[string]interface{}{
		"order_number": order.Number,
		"status":       order.Status,
		"changed_by":   cmd.Actor.DisplayName,
	})

	return order, nil
}

// AddItems appends lines to an order that is still open for edits and
// re-sends a kitchen ticket for the new lines only.
func (s *Service) AddItems(ctx context.Context, cmd interfaces.AddItemsCommand) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := s.authorizeEdit(order, cmd.Actor); err != nil {
		return nil, err
	}
	if s.profile.Terminal(order.Status) {
		return nil, domain.NewValidationError("status", "order is closed for edits")
	}
	if len(cmd.Items) == 0 {
		return nil, domain.NewValidationError("items", "at least one item is required")
	}

	items := convertItems(cmd.Items)
	if err := s.repo.AddItems(ctx, order.ID, items); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to add items", "", nil, err)
		return nil, err
	}

	order, err = s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	added := &domain.Order{
		Number:      order.Number,
		Type:        order.Type,
		TableNumber: order.TableNumber,
		Items:       items,
	}
	s.publishTicket(ctx, added)

	return order, nil
}

// CancelItem marks a line (or a single option when OptionID is set)
// CANCELED. The line is kept for audit; pricing and tickets exclude it.
func (s *Service) CancelItem(ctx context.Context, cmd interfaces.CancelItemCommand) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := s.authorizeEdit(order, cmd.Actor); err != nil {
		return nil, err
	}
	if s.profile.Terminal(order.Status) {
		return nil, domain.NewValidationError("status", "order is closed for edits")
	}

	// Validate against the in-memory copy first so a bad id never
	// reaches the database.
	if cmd.OptionID != nil {
		if err := order.CancelOption(cmd.ItemID, *cmd.OptionID); err != nil {
			return nil, err
		}
		if err := s.repo.CancelOption(ctx, order.ID, cmd.ItemID, *cmd.OptionID); err != nil {
			return nil, err
		}
	} else {
		if err := order.CancelItem(cmd.ItemID); err != nil {
			return nil, err
		}
		if err := s.repo.CancelItem(ctx, order.ID, cmd.ItemID); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, cmd.OrderID)
}

func (s *Service) authorize(order *domain.Order, cmd interfaces.TransitionCommand) error {
	switch cmd.Actor.Role {
	case domain.RoleCashier, domain.RoleAdmin:
		return nil
	case domain.RoleWaiter:
		if !order.OwnedBy(cmd.Actor) {
			return &domain.Error{Kind: domain.KindAuthorization, Message: domain.ErrNotOrderOwner.Error(), Err: domain.ErrNotOrderOwner}
		}
		if !s.profile.WaiterMayRequest(order.Status, cmd.Target) {
			return domain.NewAuthorizationError("waiters may not request this transition")
		}
		return nil
	default:
		return domain.NewAuthorizationError("unknown role")
	}
}

func (s *Service) authorizeEdit(order *domain.Order, actor domain.Actor) error {
	if actor.Role == domain.RoleWaiter && !order.OwnedBy(actor) {
		return &domain.Error{Kind: domain.KindAuthorization, Message: domain.ErrNotOrderOwner.Error(), Err: domain.ErrNotOrderOwner}
	}
	return nil
}

// publishTicket groups active lines by category for the kitchen stations.
func (s *Service) publishTicket(ctx context.Context, order *domain.Order) {
	groups := buildTicketGroups(order)
	if len(groups) == 0 {
		return
	}

	msg := interfaces.KitchenTicketMessage{
		CorrelationID: uuid.NewString(),
		OrderNumber:   order.Number,
		OrderType:     order.Type,
		TableNumber:   order.TableNumber,
		Groups:        groups,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.PublishKitchenTicket(ctx, msg); err != nil {
		s.logger.Error("ticket_publish_failed", "Failed to publish kitchen ticket", "", nil, err)
	}
}

func buildTicketGroups(order *domain.Order) []interfaces.TicketGroup {
	var groups []interfaces.TicketGroup
	index := make(map[string]int)

	for _, item := range order.Items {
		if !item.Active() {
			continue
		}
		line := interfaces.TicketLine{Name: item.Name, Quantity: item.Quantity}
		for _, opt := range item.Options {
			if opt.Active() {
				line.Options = append(line.Options, opt.Name)
			}
		}

		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, interfaces.TicketGroup{Category: item.Category})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}

	return groups
}

func convertItems(cmds []interfaces.OrderItemCommand) []domain.OrderItem {
	items := make([]domain.OrderItem, len(cmds))
	for i, c := range cmds {
		options := make([]domain.OrderItemOption, len(c.Options))
		for j, o := range c.Options {
			options[j] = domain.OrderItemOption{
				Name:      o.Name,
				Quantity:  o.Quantity,
				UnitPrice: o.UnitPrice,
				Status:    domain.ItemActive,
			}
		}
		items[i] = domain.OrderItem{
			FoodID:    c.FoodID,
			Name:      c.Name,
			Category:  c.Category,
			Quantity:  c.Quantity,
			UnitPrice: c.UnitPrice,
			Status:    domain.ItemActive,
			Options:   options,
		}
		items[i].Normalize()
	}
	return items
}

func (s *Service) acquire(orderID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[orderID]; busy {
		return false
	}
	s.inFlight[orderID] = struct{}{}
	return true
}

func (s *Service) release(orderID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, orderID)
}

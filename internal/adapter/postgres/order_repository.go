package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (number, outlet_id, type, status, table_number, customer_name,
		                    online_code, waiter_id, waiter_name, remark, discount_pct,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.Number, order.OutletID, order.Type, order.Status, order.TableNumber,
		order.CustomerName, order.OnlineCode, order.WaiterID, order.WaiterName,
		order.Remark, order.DiscountPct, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		if err := insertItem(ctx, tx, order.ID, &order.Items[i]); err != nil {
			return err
		}
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, logQuery, order.ID, order.Status, order.WaiterName, time.Now()); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func insertItem(ctx context.Context, tx Tx, orderID int, item *domain.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, food_id, name, category, quantity, unit_price,
		                         total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := tx.QueryRow(ctx, query,
		orderID, item.FoodID, item.Name, item.Category, item.Quantity,
		item.UnitPrice, item.Total, item.Status, time.Now(),
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	item.OrderID = orderID

	for j := range item.Options {
		optQuery := `
			INSERT INTO order_item_options (item_id, name, quantity, unit_price, total, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRow(ctx, optQuery,
			item.ID, item.Options[j].Name, item.Options[j].Quantity,
			item.Options[j].UnitPrice, item.Options[j].Total, item.Options[j].Status,
		).Scan(&item.Options[j].ID)
		if err != nil {
			return fmt.Errorf("failed to insert item option: %w", err)
		}
		item.Options[j].ItemID = item.ID
	}

	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `
		SELECT id, number, outlet_id, type, status, table_number, customer_name,
		       online_code, waiter_id, waiter_name, remark, discount_pct,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.Number, &order.OutletID, &order.Type, &order.Status,
		&order.TableNumber, &order.CustomerName, &order.OnlineCode, &order.WaiterID,
		&order.WaiterName, &order.Remark, &order.DiscountPct,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	itemsQuery := `
		SELECT id, order_id, food_id, name, category, quantity, unit_price, total, status
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.Name,
			&item.Category, &item.Quantity, &item.UnitPrice, &item.Total, &item.Status); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	rows.Close()

	for i := range order.Items {
		optQuery := `
			SELECT id, item_id, name, quantity, unit_price, total, status
			FROM order_item_options
			WHERE item_id = $1
			ORDER BY id
		`
		optRows, err := r.db.Query(ctx, optQuery, order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to load item options: %w", err)
		}
		for optRows.Next() {
			var opt domain.OrderItemOption
			if err := optRows.Scan(&opt.ID, &opt.ItemID, &opt.Name, &opt.Quantity,
				&opt.UnitPrice, &opt.Total, &opt.Status); err != nil {
				optRows.Close()
				return fmt.Errorf("failed to scan item option: %w", err)
			}
			order.Items[i].Options = append(order.Items[i].Options, opt)
		}
		optRows.Close()
	}

	return nil
}

func (r *orderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	prefix := fmt.Sprintf("ORD_%s_", now.Format("20060102"))

	query := `
		SELECT COUNT(*) FROM orders
		WHERE number LIKE $1 AND DATE(created_at) = $2
	`

	var count int
	err := r.db.QueryRow(ctx, query, prefix+"%", now.Format("2006-01-02")).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (r *orderRepository) UpdateStatusWithLog(ctx context.Context, order *domain.Order, status domain.Status, changedBy string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := tx.Exec(ctx, query, status, time.Now(), order.ID); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, logQuery, order.ID, status, changedBy, time.Now()); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) AddItems(ctx context.Context, orderID int, items []domain.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range items {
		if err := insertItem(ctx, tx, orderID, &items[i]); err != nil {
			return err
		}
	}

	query := `UPDATE orders SET updated_at = $1 WHERE id = $2`
	if _, err := tx.Exec(ctx, query, time.Now(), orderID); err != nil {
		return fmt.Errorf("failed to touch order: %w", err)
	}

	return tx.Commit(ctx)
}

// CancelItem marks the line CANCELED and cascades to its options. Rows
// are never deleted.
func (r *orderRepository) CancelItem(ctx context.Context, orderID, itemID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	itemQuery := `
		UPDATE order_items SET status = $1
		WHERE id = $2 AND order_id = $3
	`
	tag, err := tx.Exec(ctx, itemQuery, domain.ItemCanceled, itemID, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewValidationError("item_id", "item does not belong to this order")
	}

	optQuery := `UPDATE order_item_options SET status = $1 WHERE item_id = $2`
	if _, err := tx.Exec(ctx, optQuery, domain.ItemCanceled, itemID); err != nil {
		return fmt.Errorf("failed to cancel item options: %w", err)
	}

	touch := `UPDATE orders SET updated_at = $1 WHERE id = $2`
	if _, err := tx.Exec(ctx, touch, time.Now(), orderID); err != nil {
		return fmt.Errorf("failed to touch order: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) CancelOption(ctx context.Context, orderID, itemID, optionID int) error {
	query := `
		UPDATE order_item_options SET status = $1
		FROM order_items
		WHERE order_item_options.id = $2
		  AND order_item_options.item_id = order_items.id
		  AND order_items.id = $3
		  AND order_items.order_id = $4
	`
	tag, err := r.db.Exec(ctx, query, domain.ItemCanceled, optionID, itemID, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewValidationError("option_id", "option does not belong to this item")
	}
	return nil
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error) {
	query := `
		SELECT id, order_id, status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt, &log.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, nil
}

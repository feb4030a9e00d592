package domain

import (
	"time"
)

// Order represents a restaurant order entity.
type Order struct {
	ID           int
	Number       string
	OutletID     int
	Type         OrderType
	Status       Status
	TableNumber  *int
	CustomerName *string
	OnlineCode   *string
	WaiterID     int
	WaiterName   string
	Remark       *string
	Items        []OrderItem
	// DiscountPct is the order-type discount percentage (0.10 = 10%),
	// nil when the type carries none.
	DiscountPct *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is a line on an order. Canceled lines are kept for audit and
// excluded from pricing and kitchen tickets.
type OrderItem struct {
	ID        int
	OrderID   int
	FoodID    int
	Name      string
	Category  string
	Quantity  int
	UnitPrice int64
	Total     int64
	Status    ItemStatus
	Options   []OrderItemOption
}

// OrderItemOption is an add-on under a single item, with the same
// cancel-in-place semantics as the item itself.
type OrderItemOption struct {
	ID        int
	ItemID    int
	Name      string
	Quantity  int
	UnitPrice int64
	Total     int64
	Status    ItemStatus
}

// NewOrder creates a new order with business rules applied.
func NewOrder(outletID int, orderType OrderType, items []OrderItem, tableNumber *int, customerName, onlineCode *string, waiter Actor) (*Order, error) {
	order := &Order{
		OutletID:     outletID,
		Type:         orderType,
		Status:       StatusPending,
		TableNumber:  tableNumber,
		CustomerName: customerName,
		OnlineCode:   onlineCode,
		WaiterID:     waiter.ID,
		WaiterName:   waiter.DisplayName,
		Items:        items,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for i := range order.Items {
		order.Items[i].Normalize()
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate applies the per-order-type required-field rules and basic line
// checks.
func (o *Order) Validate() error {
	if !o.Type.Valid() {
		return NewValidationError("order_type", "invalid order type")
	}

	policy := o.Type.Policy()

	// Exactly one of table number / customer name / online code is
	// required, decided by the order type.
	if policy.RequiresTableNumber {
		if o.TableNumber == nil || *o.TableNumber < 1 {
			return NewValidationError("table_number", "table number is required for dine-in orders")
		}
	} else if o.TableNumber != nil {
		return NewValidationError("table_number", "table number is only valid for dine-in orders")
	}

	if policy.RequiresCustomerName {
		if o.CustomerName == nil || *o.CustomerName == "" {
			return NewValidationError("customer_name", "customer name is required for this order type")
		}
	}

	if policy.RequiresOnlineCode {
		if o.OnlineCode == nil || *o.OnlineCode == "" {
			return NewValidationError("online_code", "online code is required for delivery orders")
		}
	} else if o.OnlineCode != nil {
		return NewValidationError("online_code", "online code is only valid for delivery orders")
	}

	if len(o.Items) < 1 {
		return NewValidationError("items", "order must contain at least 1 item")
	}

	for _, item := range o.Items {
		if err := item.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (i OrderItem) validate() error {
	if i.Name == "" {
		return NewValidationError("items", "item name is required")
	}
	if i.Quantity < 0 {
		return NewValidationError("items", "item quantity must not be negative")
	}
	if i.UnitPrice < 0 {
		return NewValidationError("items", "item price must not be negative")
	}
	for _, opt := range i.Options {
		if opt.Quantity < 0 {
			return NewValidationError("items", "option quantity must not be negative")
		}
		if opt.UnitPrice < 0 {
			return NewValidationError("items", "option price must not be negative")
		}
	}
	return nil
}

// Normalize fills defaults and recomputes the stored line totals.
func (i *OrderItem) Normalize() {
	if i.Status == "" {
		i.Status = ItemActive
	}
	for j := range i.Options {
		if i.Options[j].Status == "" {
			i.Options[j].Status = ItemActive
		}
		i.Options[j].Total = int64(i.Options[j].Quantity) * i.Options[j].UnitPrice
	}
	i.Total = int64(i.Quantity) * i.UnitPrice
}

// Active reports whether the line still counts toward pricing and tickets.
func (i OrderItem) Active() bool { return i.Status == ItemActive }

func (opt OrderItemOption) Active() bool { return opt.Status == ItemActive }

// ActiveItems returns the lines that still count, in order.
func (o *Order) ActiveItems() []OrderItem {
	var active []OrderItem
	for _, item := range o.Items {
		if item.Active() {
			active = append(active, item)
		}
	}
	return active
}

func (o *Order) HasActiveItems() bool {
	for _, item := range o.Items {
		if item.Active() {
			return true
		}
	}
	return false
}

// CancelItem marks the line CANCELED and cascades to all of its options.
// The line is retained for audit, never deleted.
func (o *Order) CancelItem(itemID int) error {
	for i := range o.Items {
		if o.Items[i].ID != itemID {
			continue
		}
		o.Items[i].Status = ItemCanceled
		for j := range o.Items[i].Options {
			o.Items[i].Options[j].Status = ItemCanceled
		}
		o.UpdatedAt = time.Now()
		return nil
	}
	return NewValidationError("item_id", "item does not belong to this order")
}

// CancelOption marks a single option CANCELED, leaving its parent item
// active.
func (o *Order) CancelOption(itemID, optionID int) error {
	for i := range o.Items {
		if o.Items[i].ID != itemID {
			continue
		}
		for j := range o.Items[i].Options {
			if o.Items[i].Options[j].ID == optionID {
				o.Items[i].Options[j].Status = ItemCanceled
				o.UpdatedAt = time.Now()
				return nil
			}
		}
		return NewValidationError("option_id", "option does not belong to this item")
	}
	return NewValidationError("item_id", "item does not belong to this order")
}

// OwnedBy reports whether the order belongs to the given waiter.
func (o *Order) OwnedBy(actor Actor) bool {
	return o.WaiterID == actor.ID
}

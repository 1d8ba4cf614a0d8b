package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var (
	ErrEmptyOrder        = errors.New("order must have at least one item")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyCancelled  = errors.New("order is already cancelled")
	ErrNotEditable       = errors.New("order is not editable")
)

// validTransitions is the full transition graph. DELIVERED and CANCELLED
// are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := validTransitions[st]
	return st, ok
}

type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	AddressID string `json:"addressId,omitempty"`

	Items       []OrderItem     `json:"items"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`

	// Shipping fields are snapshots taken at creation time; they are never
	// re-derived from the identity service afterwards.
	ShippingAddress string `json:"shippingAddress"`
	City            string `json:"city"`
	ZipCode         string `json:"zipCode"`
	PhoneNumber     string `json:"phoneNumber"`

	Notes        string     `json:"notes,omitempty"`
	OrderDate    time.Time  `json:"orderDate"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// AddItem appends an item, computing its subtotal when absent, and keeps
// TotalAmount equal to the sum of item subtotals.
func (o *Order) AddItem(item OrderItem) {
	if item.Subtotal.IsZero() {
		item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.recomputeTotal()
}

// ReplaceItems swaps the whole item collection. The aggregate never holds an
// empty collection.
func (o *Order) ReplaceItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	o.Items = nil
	for _, it := range items {
		o.AddItem(it)
	}
	return nil
}

func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	o.TotalAmount = total
}

func (o *Order) CanTransitionTo(target Status) bool {
	for _, s := range validTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo mutates the status after validating the transition. On
// DELIVERED the delivery date is stamped if not already set.
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return o.transitionError(target)
	}
	o.Status = target
	now := time.Now()
	if target == StatusDelivered && o.DeliveryDate == nil {
		o.DeliveryDate = &now
	}
	o.UpdatedAt = now
	return nil
}

func (o *Order) transitionError(target Status) error {
	switch {
	case target == StatusCancelled && o.Status == StatusCancelled:
		return ErrAlreadyCancelled
	case target == StatusCancelled:
		return fmt.Errorf("%w: Cannot cancel order with status: %s", ErrInvalidTransition, o.Status)
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, o.Status, target)
	}
}

// Editable reports whether the order still accepts content updates.
// Only PENDING orders are editable.
func (o *Order) Editable() bool {
	return o.Status == StatusPending
}

// Validate checks the aggregate invariants: at least one item, and the total
// equal to the sum of item subtotals.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Subtotal)
	}
	if !o.TotalAmount.Equal(sum) {
		return fmt.Errorf("total amount %s does not match item subtotals %s", o.TotalAmount, sum)
	}
	return nil
}

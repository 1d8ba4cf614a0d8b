package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys on the order events exchange.
const (
	RoutingKeyOrderCreated  = "order.created"
	RoutingKeyStatusChanged = "order.status_changed"
)

// OrderItemMsg mirrors one line of the created order. Events carry the full
// snapshot so consumers never need a synchronous lookup.
type OrderItemMsg struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderCreatedMsg struct {
	OrderID         string          `json:"orderId"`
	UserID          string          `json:"userId"`
	Email           string          `json:"email"`
	FullName        string          `json:"fullName"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	City            string          `json:"city"`
	ZipCode         string          `json:"zipCode"`
	PhoneNumber     string          `json:"phoneNumber"`
	OrderDate       time.Time       `json:"orderDate"`
	Items           []OrderItemMsg  `json:"items"`
}

type OrderStatusChangedMsg struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}

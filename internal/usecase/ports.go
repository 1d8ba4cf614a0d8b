package usecase

import (
	"context"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/shopspring/decimal"
)

// UserInfo is the identity service's view of a user, including the default
// address used for shipping snapshots.
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

func (u UserInfo) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

type ProductInfo struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

const InventoryStatusUnavailable = "UNAVAILABLE"

type InventoryInfo struct {
	ID               string `json:"id"`
	ProductID        string `json:"productId"`
	Quantity         int    `json:"quantity"`
	ReservedQuantity int    `json:"reservedQuantity"`
	Status           string `json:"status"`
}

// Available is the quantity not yet claimed by reservations.
func (i InventoryInfo) Available() int {
	return i.Quantity - i.ReservedQuantity
}

// IdentityGateway resolves users against the identity service. A nil UserInfo
// with a nil error means not found (or degraded, which is treated the same:
// no shipping snapshot can be derived from it).
type IdentityGateway interface {
	GetUser(ctx context.Context, userID string) (*UserInfo, error)
}

// CatalogGateway resolves products against the catalog service.
type CatalogGateway interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)
}

// InventoryGateway talks to the inventory service. CheckAvailability takes
// the whole order in one batch; Reserve and Release act on a single
// inventory record.
type InventoryGateway interface {
	GetInventoryByProduct(ctx context.Context, productID string) (*InventoryInfo, error)
	CheckAvailability(ctx context.Context, requested map[string]int) (map[string]bool, error)
	Reserve(ctx context.Context, inventoryID string, quantity int) (*InventoryInfo, error)
	Release(ctx context.Context, inventoryID string, quantity int) (*InventoryInfo, error)
}

// OrderRepo persists the order aggregate. Create and Update write the order
// and its items in one transaction.
type OrderRepo interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	ListByStatus(ctx context.Context, status entity.Status) ([]entity.Order, error)
	// UpdateStatusIf commits a transition only if the row is still in the
	// expected status; the false return surfaces a lost concurrent race.
	UpdateStatusIf(ctx context.Context, id string, from, to entity.Status, deliveredAt *time.Time) (bool, error)
	Update(ctx context.Context, o *entity.Order) error
}

// EventPublisher hands domain events to the message channel. Callers treat
// failures as best-effort: log and move on.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg OrderCreatedMsg) error
	PublishStatusChanged(ctx context.Context, msg OrderStatusChangedMsg) error
}

// StatusCache is a best-effort cache of order status for cheap reads.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

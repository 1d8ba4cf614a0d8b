package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/erenulutas0/doranV5-sub000/internal/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	UserID    string
	AddressID string

	// Optional explicit shipping snapshot. When ShippingAddress is empty the
	// user's default address is copied in instead.
	ShippingAddress string
	City            string
	ZipCode         string
	PhoneNumber     string

	Notes string
	Items []CreateOrderItemInput
}

type CreateOrderItemInput struct {
	ProductID string
	Quantity  int
	// Price overrides the catalog price when set; otherwise the catalog
	// price at creation time is snapshotted.
	Price *decimal.Decimal
}

// CreateOrder drives the order admission workflow: resolve the user, resolve
// every product and inventory record, run one all-or-nothing availability
// check, snapshot catalog data into the aggregate, persist atomically, then
// emit the created event best-effort.
type CreateOrder struct {
	repo      OrderRepo
	identity  IdentityGateway
	catalog   CatalogGateway
	inventory InventoryGateway
	publisher EventPublisher
}

func NewCreateOrder(repo OrderRepo, identity IdentityGateway, catalog CatalogGateway, inventory InventoryGateway, publisher EventPublisher) *CreateOrder {
	return &CreateOrder{
		repo:      repo,
		identity:  identity,
		catalog:   catalog,
		inventory: inventory,
		publisher: publisher,
	}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	log := logging.FromCtx(ctx)

	// 1. The user must resolve; without it no shipping snapshot can be built.
	user, err := uc.identity.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %s: %w", in.UserID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, in.UserID)
	}

	if len(in.Items) == 0 {
		return nil, entity.ErrEmptyOrder
	}

	now := time.Now()
	order := &entity.Order{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		AddressID: in.AddressID,
		Status:    entity.StatusPending,
		Notes:     in.Notes,
		OrderDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 2. Shipping snapshot: explicit address wins, otherwise the user's
	// stored default address is copied at creation time.
	if in.ShippingAddress != "" {
		order.ShippingAddress = in.ShippingAddress
		order.City = in.City
		order.ZipCode = in.ZipCode
		order.PhoneNumber = in.PhoneNumber
	} else {
		order.ShippingAddress = user.Address
		order.City = user.City
		order.ZipCode = user.ZipCode
		order.PhoneNumber = user.Phone
	}

	// 3-4. Resolve every product and inventory record up front. The maps are
	// reused by the availability check and the snapshot step, which is why
	// the gateway calls stay sequential.
	products := make(map[string]*ProductInfo, len(in.Items))
	inventories := make(map[string]*InventoryInfo, len(in.Items))
	requested := make(map[string]int, len(in.Items))
	for _, item := range in.Items {
		product, err := uc.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		inv, err := uc.inventory.GetInventoryByProduct(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve inventory for product %s: %w", item.ProductID, err)
		}
		if inv == nil {
			return nil, fmt.Errorf("%w: product %s", ErrInventoryNotFound, item.ProductID)
		}
		products[item.ProductID] = product
		inventories[item.ProductID] = inv
		requested[item.ProductID] += item.Quantity
	}

	// 5. One batch availability check for the whole order. Any short item
	// denies the whole order; no partial orders.
	available, err := uc.inventory.CheckAvailability(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	for productID, qty := range requested {
		if !available[productID] {
			return nil, &InsufficientStockError{
				ProductID: productID,
				Requested: qty,
				Available: inventories[productID].Available(),
			}
		}
	}

	// 6-7. Snapshot the catalog name and price into each item; AddItem keeps
	// the total in sync.
	for _, item := range in.Items {
		product := products[item.ProductID]
		price := product.Price
		if item.Price != nil {
			price = *item.Price
		}
		order.AddItem(entity.OrderItem{
			ID:          uuid.NewString(),
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Price:       price,
			Quantity:    item.Quantity,
		})
	}

	// 8. Order and items land in one transaction.
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// 9. Fire-and-forget after the write committed; a publish failure never
	// rolls back the order.
	msg := buildOrderCreatedMsg(order, user)
	if err := uc.publisher.PublishOrderCreated(ctx, msg); err != nil {
		log.Warn("order created event publish failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}

func buildOrderCreatedMsg(order *entity.Order, user *UserInfo) OrderCreatedMsg {
	items := make([]OrderItemMsg, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderItemMsg{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal,
		})
	}
	return OrderCreatedMsg{
		OrderID:         order.ID,
		UserID:          order.UserID,
		Email:           user.Email,
		FullName:        user.FullName(),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		City:            order.City,
		ZipCode:         order.ZipCode,
		PhoneNumber:     order.PhoneNumber,
		OrderDate:       order.OrderDate,
		Items:           items,
	}
}

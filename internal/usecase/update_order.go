package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/google/uuid"
)

type UpdateOrderInput struct {
	ShippingAddress string
	City            string
	ZipCode         string
	PhoneNumber     string
	Notes           string

	// Items, when non-empty, replaces the whole item collection. Names and
	// prices are snapshotted from the catalog again at update time.
	Items []CreateOrderItemInput
}

// UpdateOrder edits an order's shipping snapshot and optionally replaces its
// items. Only PENDING orders are editable.
type UpdateOrder struct {
	repo    OrderRepo
	catalog CatalogGateway
}

func NewUpdateOrder(repo OrderRepo, catalog CatalogGateway) *UpdateOrder {
	return &UpdateOrder{repo: repo, catalog: catalog}
}

func (uc *UpdateOrder) Execute(ctx context.Context, orderID string, in UpdateOrderInput) (*entity.Order, error) {
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if !order.Editable() {
		return nil, fmt.Errorf("%w: order %s has status %s", entity.ErrNotEditable, order.ID, order.Status)
	}

	if in.ShippingAddress != "" {
		order.ShippingAddress = in.ShippingAddress
	}
	if in.City != "" {
		order.City = in.City
	}
	if in.ZipCode != "" {
		order.ZipCode = in.ZipCode
	}
	if in.PhoneNumber != "" {
		order.PhoneNumber = in.PhoneNumber
	}
	if in.Notes != "" {
		order.Notes = in.Notes
	}

	if len(in.Items) > 0 {
		items := make([]entity.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			product, err := uc.catalog.GetProduct(ctx, item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
			}
			if product == nil {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}
			price := product.Price
			if item.Price != nil {
				price = *item.Price
			}
			items = append(items, entity.OrderItem{
				ID:          uuid.NewString(),
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Price:       price,
				Quantity:    item.Quantity,
			})
		}
		if err := order.ReplaceItems(items); err != nil {
			return nil, err
		}
	}

	order.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order %s: %w", order.ID, err)
	}
	return order, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/erenulutas0/doranV5-sub000/internal/logging"
)

// UpdateOrderStatus drives the order state machine. Confirming reserves
// stock per item; cancelling a confirmed-or-later order releases it again.
// Reserve/release failures are logged and do not abort the transition unless
// strict mode is on.
type UpdateOrderStatus struct {
	repo      OrderRepo
	identity  IdentityGateway
	inventory InventoryGateway
	publisher EventPublisher
	cache     StatusCache

	// strict aborts PENDING -> CONFIRMED when any reservation fails instead
	// of trading inventory consistency for workflow availability.
	strict bool
}

func NewUpdateOrderStatus(repo OrderRepo, identity IdentityGateway, inventory InventoryGateway, publisher EventPublisher, cache StatusCache, strict bool) *UpdateOrderStatus {
	return &UpdateOrderStatus{
		repo:      repo,
		identity:  identity,
		inventory: inventory,
		publisher: publisher,
		cache:     cache,
		strict:    strict,
	}
}

func (uc *UpdateOrderStatus) Execute(ctx context.Context, orderID string, target entity.Status) (*entity.Order, error) {
	log := logging.FromCtx(ctx)

	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	from := order.Status
	if err := order.TransitionTo(target); err != nil {
		return nil, err
	}

	// Side effects run before the commit; both directions are best-effort
	// against the inventory service.
	switch {
	case from == entity.StatusPending && target == entity.StatusConfirmed:
		if err := uc.reserveItems(ctx, order); err != nil {
			return nil, err
		}
	case target == entity.StatusCancelled && from != entity.StatusPending:
		uc.releaseItems(ctx, order)
	}

	// Guarded update: a concurrent transition on the same order loses the
	// race at the database and surfaces here instead of overwriting.
	ok, err := uc.repo.UpdateStatusIf(ctx, order.ID, from, target, order.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("persist status of order %s: %w", order.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s is no longer in status %s", entity.ErrInvalidTransition, order.ID, from)
	}

	if uc.cache != nil {
		if err := uc.cache.SetStatus(ctx, order.ID, string(target)); err != nil {
			log.Warn("status cache update failed", "order_id", order.ID, "error", err)
		}
	}

	uc.publishStatusChanged(ctx, order, from, target)
	return order, nil
}

func (uc *UpdateOrderStatus) reserveItems(ctx context.Context, order *entity.Order) error {
	log := logging.FromCtx(ctx)
	for _, item := range order.Items {
		inv, err := uc.inventory.GetInventoryByProduct(ctx, item.ProductID)
		if err == nil && inv == nil {
			err = fmt.Errorf("%w: product %s", ErrInventoryNotFound, item.ProductID)
		}
		if err == nil {
			var res *InventoryInfo
			res, err = uc.inventory.Reserve(ctx, inv.ID, item.Quantity)
			if err == nil && res != nil && res.Status == InventoryStatusUnavailable {
				err = fmt.Errorf("inventory service degraded reserving %s", inv.ID)
			}
		}
		if err != nil {
			if uc.strict {
				return fmt.Errorf("reserve stock for product %s: %w", item.ProductID, err)
			}
			log.Warn("stock reservation failed, confirming anyway",
				"order_id", order.ID, "product_id", item.ProductID, "quantity", item.Quantity, "error", err)
		}
	}
	return nil
}

func (uc *UpdateOrderStatus) releaseItems(ctx context.Context, order *entity.Order) {
	log := logging.FromCtx(ctx)
	for _, item := range order.Items {
		inv, err := uc.inventory.GetInventoryByProduct(ctx, item.ProductID)
		if err == nil && inv == nil {
			err = fmt.Errorf("%w: product %s", ErrInventoryNotFound, item.ProductID)
		}
		if err == nil {
			_, err = uc.inventory.Release(ctx, inv.ID, item.Quantity)
		}
		if err != nil {
			log.Warn("stock release failed",
				"order_id", order.ID, "product_id", item.ProductID, "quantity", item.Quantity, "error", err)
		}
	}
}

// publishStatusChanged looks the user up for the notification recipient. If
// the lookup fails the event is skipped, not retried.
func (uc *UpdateOrderStatus) publishStatusChanged(ctx context.Context, order *entity.Order, from, to entity.Status) {
	log := logging.FromCtx(ctx)

	user, err := uc.identity.GetUser(ctx, order.UserID)
	if err != nil || user == nil {
		log.Warn("skipping status changed event, user lookup failed",
			"order_id", order.ID, "user_id", order.UserID, "error", err)
		return
	}

	msg := OrderStatusChangedMsg{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Email:     user.Email,
		FullName:  user.FullName(),
		OldStatus: string(from),
		NewStatus: string(to),
		ChangedAt: time.Now(),
	}
	if err := uc.publisher.PublishStatusChanged(ctx, msg); err != nil {
		log.Warn("status changed event publish failed", "order_id", order.ID, "error", err)
	}
}

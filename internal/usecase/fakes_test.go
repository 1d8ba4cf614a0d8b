package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
)

// fakeRepo keeps orders in memory and records calls.
type fakeRepo struct {
	orders    map[string]*entity.Order
	createErr error

	updateStatusIfOK  bool
	updateStatusCalls []statusCall
}

type statusCall struct {
	id       string
	from, to entity.Status
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[string]*entity.Order{}, updateStatusIfOK: true}
}

func (r *fakeRepo) Create(_ context.Context, o *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return r.orders[id], nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByStatus(_ context.Context, status entity.Status) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatusIf(_ context.Context, id string, from, to entity.Status, _ *time.Time) (bool, error) {
	r.updateStatusCalls = append(r.updateStatusCalls, statusCall{id: id, from: from, to: to})
	if !r.updateStatusIfOK {
		return false, nil
	}
	if o, ok := r.orders[id]; ok {
		o.Status = to
	}
	return true, nil
}

func (r *fakeRepo) Update(_ context.Context, o *entity.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return errors.New("missing order")
	}
	r.orders[o.ID] = o
	return nil
}

type fakeIdentity struct {
	users    map[string]*UserInfo
	err      error
	getCalls int
}

func (g *fakeIdentity) GetUser(_ context.Context, userID string) (*UserInfo, error) {
	g.getCalls++
	if g.err != nil {
		return nil, g.err
	}
	return g.users[userID], nil
}

type fakeCatalog struct {
	products map[string]*ProductInfo
}

func (g *fakeCatalog) GetProduct(_ context.Context, productID string) (*ProductInfo, error) {
	return g.products[productID], nil
}

type invCall struct {
	inventoryID string
	quantity    int
}

type fakeInventory struct {
	inventories map[string]*InventoryInfo // by productID
	unavailable map[string]bool           // productIDs reported short

	checkCalls   []map[string]int
	reserveCalls []invCall
	releaseCalls []invCall
	reserveErr   error
	releaseErr   error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		inventories: map[string]*InventoryInfo{},
		unavailable: map[string]bool{},
	}
}

func (g *fakeInventory) GetInventoryByProduct(_ context.Context, productID string) (*InventoryInfo, error) {
	return g.inventories[productID], nil
}

func (g *fakeInventory) CheckAvailability(_ context.Context, requested map[string]int) (map[string]bool, error) {
	g.checkCalls = append(g.checkCalls, requested)
	out := make(map[string]bool, len(requested))
	for id := range requested {
		out[id] = !g.unavailable[id]
	}
	return out, nil
}

func (g *fakeInventory) Reserve(_ context.Context, inventoryID string, quantity int) (*InventoryInfo, error) {
	if g.reserveErr != nil {
		return nil, g.reserveErr
	}
	g.reserveCalls = append(g.reserveCalls, invCall{inventoryID: inventoryID, quantity: quantity})
	return &InventoryInfo{ID: inventoryID, Status: "IN_STOCK"}, nil
}

func (g *fakeInventory) Release(_ context.Context, inventoryID string, quantity int) (*InventoryInfo, error) {
	if g.releaseErr != nil {
		return nil, g.releaseErr
	}
	g.releaseCalls = append(g.releaseCalls, invCall{inventoryID: inventoryID, quantity: quantity})
	return &InventoryInfo{ID: inventoryID, Status: "IN_STOCK"}, nil
}

type fakePublisher struct {
	created       []OrderCreatedMsg
	statusChanged []OrderStatusChangedMsg
	createdErr    error
	statusErr     error
}

func (p *fakePublisher) PublishOrderCreated(_ context.Context, msg OrderCreatedMsg) error {
	if p.createdErr != nil {
		return p.createdErr
	}
	p.created = append(p.created, msg)
	return nil
}

func (p *fakePublisher) PublishStatusChanged(_ context.Context, msg OrderStatusChangedMsg) error {
	if p.statusErr != nil {
		return p.statusErr
	}
	p.statusChanged = append(p.statusChanged, msg)
	return nil
}

type fakeCache struct {
	statuses map[string]string
	setErr   error
}

func newFakeCache() *fakeCache { return &fakeCache{statuses: map[string]string{}} }

func (c *fakeCache) SetStatus(_ context.Context, orderID, status string) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.statuses[orderID] = status
	return nil
}

func (c *fakeCache) GetStatus(_ context.Context, orderID string) (string, bool, error) {
	s, ok := c.statuses[orderID]
	return s, ok, nil
}

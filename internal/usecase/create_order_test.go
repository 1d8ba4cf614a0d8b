package usecase

import (
	"context"
	"testing"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createFixture struct {
	repo      *fakeRepo
	identity  *fakeIdentity
	catalog   *fakeCatalog
	inventory *fakeInventory
	publisher *fakePublisher
	uc        *CreateOrder
}

func newCreateFixture() *createFixture {
	f := &createFixture{
		repo: newFakeRepo(),
		identity: &fakeIdentity{users: map[string]*UserInfo{
			"user-1": {
				ID: "user-1", Email: "ayse@example.com", FirstName: "Ayse", LastName: "Yilmaz",
				Phone: "5551234567", Address: "Levent", City: "Istanbul", ZipCode: "34394",
			},
		}},
		catalog: &fakeCatalog{products: map[string]*ProductInfo{
			"P1": {ID: "P1", Name: "Laptop", Price: decimal.NewFromFloat(45000.00)},
			"P2": {ID: "P2", Name: "Monitor", Price: decimal.NewFromFloat(35000.00)},
		}},
		inventory: newFakeInventory(),
		publisher: &fakePublisher{},
	}
	f.inventory.inventories["P1"] = &InventoryInfo{ID: "inv-1", ProductID: "P1", Quantity: 100, ReservedQuantity: 0}
	f.inventory.inventories["P2"] = &InventoryInfo{ID: "inv-2", ProductID: "P2", Quantity: 50, ReservedQuantity: 10}
	f.uc = NewCreateOrder(f.repo, f.identity, f.catalog, f.inventory, f.publisher)
	return f
}

func draft(items ...CreateOrderItemInput) CreateOrderInput {
	return CreateOrderInput{UserID: "user-1", Items: items}
}

func TestCreateOrder_SingleItem(t *testing.T) {
	f := newCreateFixture()

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 2},
	))

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Laptop", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(45000)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(90000)), "total = %s", order.TotalAmount)
	require.NoError(t, order.Validate())

	assert.Len(t, f.repo.orders, 1, "order persisted")
}

func TestCreateOrder_MultipleItems(t *testing.T) {
	f := newCreateFixture()

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 1},
		CreateOrderItemInput{ProductID: "P2", Quantity: 2},
	))

	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(115000)), "total = %s", order.TotalAmount)
}

func TestCreateOrder_UserNotFound(t *testing.T) {
	f := newCreateFixture()

	_, err := f.uc.Execute(context.Background(), CreateOrderInput{
		UserID: "nobody",
		Items:  []CreateOrderItemInput{{ProductID: "P1", Quantity: 1}},
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_EmptyOrder(t *testing.T) {
	f := newCreateFixture()

	_, err := f.uc.Execute(context.Background(), draft())

	assert.ErrorIs(t, err, entity.ErrEmptyOrder)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.inventory.checkCalls, "no availability check for an empty draft")
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	f := newCreateFixture()

	_, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P-missing", Quantity: 1},
	))

	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, err.Error(), "P-missing")
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_InventoryNotFound(t *testing.T) {
	f := newCreateFixture()
	delete(f.inventory.inventories, "P2")

	_, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P2", Quantity: 1},
	))

	assert.ErrorIs(t, err, ErrInventoryNotFound)
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	f := newCreateFixture()
	f.inventory.inventories["P1"] = &InventoryInfo{ID: "inv-1", ProductID: "P1", Quantity: 100, ReservedQuantity: 0}
	f.inventory.unavailable["P1"] = true

	_, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 200},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P1", stockErr.ProductID)
	assert.Equal(t, 200, stockErr.Requested)
	assert.Equal(t, 100, stockErr.Available)
	assert.Contains(t, err.Error(), "P1")
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "100")
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	f := newCreateFixture()
	f.inventory.unavailable["P2"] = true

	_, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 1},
		CreateOrderItemInput{ProductID: "P2", Quantity: 2},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Empty(t, f.repo.orders, "nothing persisted")
	assert.Empty(t, f.inventory.reserveCalls, "no reservations for a denied draft")
	assert.Empty(t, f.publisher.created, "no event for a denied draft")
	require.Len(t, f.inventory.checkCalls, 1, "one batch check for the whole order")
	assert.Equal(t, map[string]int{"P1": 1, "P2": 2}, f.inventory.checkCalls[0])
}

func TestCreateOrder_DefaultAddressSnapshot(t *testing.T) {
	f := newCreateFixture()

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 1},
	))

	require.NoError(t, err)
	assert.Equal(t, "Levent", order.ShippingAddress)
	assert.Equal(t, "Istanbul", order.City)
	assert.Equal(t, "34394", order.ZipCode)
	assert.Equal(t, "5551234567", order.PhoneNumber)
}

func TestCreateOrder_ExplicitAddressWins(t *testing.T) {
	f := newCreateFixture()
	in := draft(CreateOrderItemInput{ProductID: "P1", Quantity: 1})
	in.ShippingAddress = "Kadikoy"
	in.City = "Istanbul"
	in.ZipCode = "34710"
	in.PhoneNumber = "5559876543"

	order, err := f.uc.Execute(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "Kadikoy", order.ShippingAddress)
	assert.Equal(t, "34710", order.ZipCode)
}

func TestCreateOrder_PriceSnapshotIsImmutable(t *testing.T) {
	f := newCreateFixture()

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 2},
	))
	require.NoError(t, err)

	// catalog price changes after the order was created
	f.catalog.products["P1"].Price = decimal.NewFromInt(99999)
	f.catalog.products["P1"].Name = "Renamed Laptop"

	persisted := f.repo.orders[order.ID]
	assert.True(t, persisted.Items[0].Price.Equal(decimal.NewFromInt(45000)))
	assert.True(t, persisted.Items[0].Subtotal.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, "Laptop", persisted.Items[0].ProductName)
}

func TestCreateOrder_ExplicitPriceOverridesCatalog(t *testing.T) {
	f := newCreateFixture()
	price := decimal.NewFromInt(40000)

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 1, Price: &price},
	))

	require.NoError(t, err)
	assert.True(t, order.Items[0].Price.Equal(price))
	assert.True(t, order.TotalAmount.Equal(price))
}

func TestCreateOrder_EmitsCreatedEvent(t *testing.T) {
	f := newCreateFixture()

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 2},
	))

	require.NoError(t, err)
	require.Len(t, f.publisher.created, 1)
	msg := f.publisher.created[0]
	assert.Equal(t, order.ID, msg.OrderID)
	assert.Equal(t, "ayse@example.com", msg.Email)
	assert.Equal(t, "Ayse Yilmaz", msg.FullName)
	assert.True(t, msg.TotalAmount.Equal(decimal.NewFromInt(90000)))
	require.Len(t, msg.Items, 1)
	assert.Equal(t, "Laptop", msg.Items[0].ProductName)
}

func TestCreateOrder_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newCreateFixture()
	f.publisher.createdErr = assert.AnError

	order, err := f.uc.Execute(context.Background(), draft(
		CreateOrderItemInput{ProductID: "P1", Quantity: 1},
	))

	require.NoError(t, err)
	assert.Contains(t, f.repo.orders, order.ID, "order persisted despite publish failure")
}

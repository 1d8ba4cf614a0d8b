package usecase

import (
	"context"
	"testing"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpdateFixture(status entity.Status) (*UpdateOrder, *fakeRepo) {
	repo := newFakeRepo()
	o := &entity.Order{ID: "order-1", UserID: "user-1", Status: status, ShippingAddress: "Levent", City: "Istanbul"}
	o.AddItem(entity.OrderItem{ID: "item-P1", ProductID: "P1", ProductName: "Laptop", Price: decimal.NewFromInt(45000), Quantity: 1})
	repo.orders[o.ID] = o

	catalog := &fakeCatalog{products: map[string]*ProductInfo{
		"P1": {ID: "P1", Name: "Laptop", Price: decimal.NewFromInt(45000)},
		"P2": {ID: "P2", Name: "Monitor", Price: decimal.NewFromInt(35000)},
	}}
	return NewUpdateOrder(repo, catalog), repo
}

func TestUpdateOrder_NotEditable(t *testing.T) {
	for _, status := range []entity.Status{
		entity.StatusConfirmed, entity.StatusProcessing, entity.StatusShipped, entity.StatusDelivered, entity.StatusCancelled,
	} {
		uc, _ := newUpdateFixture(status)

		_, err := uc.Execute(context.Background(), "order-1", UpdateOrderInput{Notes: "hi"})

		require.ErrorIs(t, err, entity.ErrNotEditable, "status %s", status)
		assert.Contains(t, err.Error(), string(status))
	}
}

func TestUpdateOrder_NotFound(t *testing.T) {
	uc, _ := newUpdateFixture(entity.StatusPending)

	_, err := uc.Execute(context.Background(), "missing", UpdateOrderInput{})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrder_ShippingFields(t *testing.T) {
	uc, repo := newUpdateFixture(entity.StatusPending)

	order, err := uc.Execute(context.Background(), "order-1", UpdateOrderInput{
		ShippingAddress: "Kadikoy",
		ZipCode:         "34710",
	})

	require.NoError(t, err)
	assert.Equal(t, "Kadikoy", order.ShippingAddress)
	assert.Equal(t, "34710", order.ZipCode)
	assert.Equal(t, "Istanbul", order.City, "untouched fields keep their value")
	assert.Equal(t, "Kadikoy", repo.orders["order-1"].ShippingAddress, "update persisted")
}

func TestUpdateOrder_ReplacesItemsAndRecomputesTotal(t *testing.T) {
	uc, _ := newUpdateFixture(entity.StatusPending)

	order, err := uc.Execute(context.Background(), "order-1", UpdateOrderInput{
		Items: []CreateOrderItemInput{{ProductID: "P2", Quantity: 2}},
	})

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "P2", order.Items[0].ProductID)
	assert.Equal(t, "Monitor", order.Items[0].ProductName)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(70000)), "total = %s", order.TotalAmount)
}

func TestUpdateOrder_EmptyItemsLeaveCollectionAlone(t *testing.T) {
	uc, _ := newUpdateFixture(entity.StatusPending)

	order, err := uc.Execute(context.Background(), "order-1", UpdateOrderInput{Notes: "gift wrap"})

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "P1", order.Items[0].ProductID)
	assert.Equal(t, "gift wrap", order.Notes)
}

func TestUpdateOrder_UnknownProduct(t *testing.T) {
	uc, repo := newUpdateFixture(entity.StatusPending)

	_, err := uc.Execute(context.Background(), "order-1", UpdateOrderInput{
		Items: []CreateOrderItemInput{{ProductID: "P-missing", Quantity: 1}},
	})

	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, "P1", repo.orders["order-1"].Items[0].ProductID, "failed update must not persist")
}

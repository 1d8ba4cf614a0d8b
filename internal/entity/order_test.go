package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID string, qty int, price float64) OrderItem {
	return OrderItem{
		ID:        "item-" + productID,
		ProductID: productID,
		Price:     decimal.NewFromFloat(price),
		Quantity:  qty,
	}
}

func TestAddItem_ComputesSubtotalAndTotal(t *testing.T) {
	o := &Order{ID: "order-1", Status: StatusPending}

	o.AddItem(item("P1", 2, 45000.00))

	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].Subtotal.Equal(decimal.NewFromInt(90000)), "subtotal = %s", o.Items[0].Subtotal)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(90000)), "total = %s", o.TotalAmount)
	assert.Equal(t, "order-1", o.Items[0].OrderID)
}

func TestAddItem_KeepsExplicitSubtotal(t *testing.T) {
	o := &Order{ID: "order-1"}
	it := item("P1", 3, 100)
	it.Subtotal = decimal.NewFromInt(250) // pre-computed upstream

	o.AddItem(it)

	assert.True(t, o.Items[0].Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(250)))
}

func TestTotal_SumsAcrossItems(t *testing.T) {
	o := &Order{ID: "order-1"}
	o.AddItem(item("P1", 1, 45000.00))
	o.AddItem(item("P2", 2, 35000.00))

	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(115000)), "total = %s", o.TotalAmount)
	require.NoError(t, o.Validate())
}

func TestReplaceItems_Empty(t *testing.T) {
	o := &Order{ID: "order-1"}
	o.AddItem(item("P1", 1, 10))

	err := o.ReplaceItems(nil)

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Len(t, o.Items, 1, "existing items must survive a rejected replace")
}

func TestReplaceItems_RecomputesTotal(t *testing.T) {
	o := &Order{ID: "order-1"}
	o.AddItem(item("P1", 1, 10))

	err := o.ReplaceItems([]OrderItem{item("P2", 4, 25)})

	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "P2", o.Items[0].ProductID)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestValidate_EmptyOrder(t *testing.T) {
	o := &Order{ID: "order-1"}
	assert.ErrorIs(t, o.Validate(), ErrEmptyOrder)
}

func TestValidate_TotalMismatch(t *testing.T) {
	o := &Order{ID: "order-1"}
	o.AddItem(item("P1", 2, 50))
	o.TotalAmount = decimal.NewFromInt(42)

	assert.Error(t, o.Validate())
}

func TestTransitions_ForwardPath(t *testing.T) {
	o := &Order{Status: StatusPending}

	for _, next := range []Status{StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered} {
		require.NoError(t, o.TransitionTo(next), "transition to %s", next)
		assert.Equal(t, next, o.Status)
	}
	require.NotNil(t, o.DeliveryDate, "delivery date set on DELIVERED")
}

func TestTransitions_TerminalStates(t *testing.T) {
	targets := []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		for _, target := range targets {
			o := &Order{Status: terminal}
			err := o.TransitionTo(target)
			require.Error(t, err, "%s -> %s must fail", terminal, target)
			if terminal == StatusCancelled && target == StatusCancelled {
				assert.ErrorIs(t, err, ErrAlreadyCancelled)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
			assert.Equal(t, terminal, o.Status, "failed transition must not mutate status")
		}
	}
}

func TestTransitions_SkippingStates(t *testing.T) {
	o := &Order{Status: StatusPending}
	assert.ErrorIs(t, o.TransitionTo(StatusShipped), ErrInvalidTransition)
	assert.Equal(t, StatusPending, o.Status)
}

func TestCancel_FromShipped(t *testing.T) {
	o := &Order{Status: StatusShipped}
	err := o.TransitionTo(StatusCancelled)

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Cannot cancel order with status: SHIPPED")
}

func TestCancel_FromDelivered(t *testing.T) {
	o := &Order{Status: StatusDelivered}
	err := o.TransitionTo(StatusCancelled)

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Cannot cancel order with status: DELIVERED")
}

func TestCancel_AllowedStates(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusProcessing} {
		o := &Order{Status: from}
		require.NoError(t, o.TransitionTo(StatusCancelled), "cancel from %s", from)
		assert.Equal(t, StatusCancelled, o.Status)
	}
}

func TestDelivered_KeepsExistingDeliveryDate(t *testing.T) {
	o := &Order{Status: StatusShipped}
	existing := o.OrderDate
	o.DeliveryDate = &existing

	require.NoError(t, o.TransitionTo(StatusDelivered))
	assert.Equal(t, &existing, o.DeliveryDate)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("CONFIRMED")
	require.True(t, ok)
	assert.Equal(t, StatusConfirmed, st)

	_, ok = ParseStatus("SOMETHING_ELSE")
	assert.False(t, ok)
}

func TestEditable(t *testing.T) {
	assert.True(t, (&Order{Status: StatusPending}).Editable())
	for _, s := range []Status{StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.False(t, (&Order{Status: s}).Editable(), "status %s", s)
	}
}

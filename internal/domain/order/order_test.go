package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorverse/backend/internal/domain/shared/valueobject"
)

func testAddress(t *testing.T) valueobject.ShippingAddress {
	t.Helper()
	addr, err := valueobject.NewShippingAddress("Asha Rao", "9876543210", "12 MG Road", "", "Bengaluru", "Karnataka", "560001", "")
	require.NoError(t, err)
	return addr
}

func testItem(t *testing.T, unitPrice int64, quantity int) OrderItem {
	t.Helper()
	item, err := NewOrderItem(uuid.Nil, uuid.New(), uuid.New(), "Test Product", "img.jpg", "TP-01",
		valueobject.NewMoneyINR(decimal.NewFromInt(unitPrice)), quantity)
	require.NoError(t, err)
	return *item
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusReturned, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusReturned, OrderStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending order with computed pricing", func(t *testing.T) {
		items := []OrderItem{testItem(t, 300, 2)} // subtotal 600
		o, err := NewOrder("VV2608ABC123", userID, testAddress(t), PaymentMethodCOD, items)
		require.NoError(t, err)
		require.NotNil(t, o)

		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.Payment.Status)
		assert.Equal(t, PaymentMethodCOD, o.Payment.Method)
		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(600)))
		assert.True(t, o.ShippingFee.IsZero(), "free shipping above threshold")
		assert.True(t, o.Tax.Equal(decimal.NewFromInt(108)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(708)))
		assert.Equal(t, o.ID, o.Items[0].OrderID)
	})

	t.Run("charges flat shipping below threshold", func(t *testing.T) {
		items := []OrderItem{testItem(t, 100, 2)} // subtotal 200
		o, err := NewOrder("VV2608ABC124", userID, testAddress(t), PaymentMethodUPI, items)
		require.NoError(t, err)

		assert.True(t, o.ShippingFee.Equal(decimal.NewFromInt(40)))
		assert.True(t, o.Tax.Equal(decimal.NewFromInt(36)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(276)))
	})

	t.Run("fails with no items", func(t *testing.T) {
		_, err := NewOrder("VV2608ABC125", userID, testAddress(t), PaymentMethodCOD, nil)
		require.Error(t, err)
	})

	t.Run("fails with unknown payment method", func(t *testing.T) {
		items := []OrderItem{testItem(t, 100, 1)}
		_, err := NewOrder("VV2608ABC126", userID, testAddress(t), PaymentMethod("cheque"), items)
		require.Error(t, err)
	})

	t.Run("fails with invalid address", func(t *testing.T) {
		bad := valueobject.ShippingAddress{FullName: "Asha Rao", Phone: "98765", AddressLine1: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "56"}
		items := []OrderItem{testItem(t, 100, 1)}
		_, err := NewOrder("VV2608ABC127", userID, bad, PaymentMethodCOD, items)
		require.Error(t, err)
	})

	t.Run("fails with empty order number", func(t *testing.T) {
		items := []OrderItem{testItem(t, 100, 1)}
		_, err := NewOrder("", userID, testAddress(t), PaymentMethodCOD, items)
		require.Error(t, err)
	})
}

func TestComputePricing(t *testing.T) {
	t.Run("exactly at threshold still pays shipping", func(t *testing.T) {
		p := ComputePricing(decimal.NewFromInt(499))
		assert.True(t, p.ShippingFee.Equal(decimal.NewFromInt(40)))
	})

	t.Run("tax rounds to nearest rupee", func(t *testing.T) {
		// 250 * 0.18 = 45
		p := ComputePricing(decimal.NewFromInt(250))
		assert.True(t, p.Tax.Equal(decimal.NewFromInt(45)))

		// 253 * 0.18 = 45.54 -> 46
		p = ComputePricing(decimal.NewFromInt(253))
		assert.True(t, p.Tax.Equal(decimal.NewFromInt(46)))

		// 247 * 0.18 = 44.46 -> 44
		p = ComputePricing(decimal.NewFromInt(247))
		assert.True(t, p.Tax.Equal(decimal.NewFromInt(44)))
	})

	t.Run("total sums all components", func(t *testing.T) {
		p := ComputePricing(decimal.NewFromInt(200))
		assert.True(t, p.Total.Equal(decimal.NewFromInt(276)))
	})
}

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("walks the full lifecycle", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCard)

		require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
		require.NoError(t, o.UpdateStatus(OrderStatusProcessing))
		require.NoError(t, o.UpdateStatus(OrderStatusShipped))
		require.NoError(t, o.UpdateStatus(OrderStatusDelivered))

		assert.Equal(t, OrderStatusDelivered, o.Status)
		require.NotNil(t, o.DeliveredAt)
	})

	t.Run("delivery settles a pending payment", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCOD)
		require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
		require.NoError(t, o.UpdateStatus(OrderStatusProcessing))
		require.NoError(t, o.UpdateStatus(OrderStatusShipped))
		require.NoError(t, o.UpdateStatus(OrderStatusDelivered))

		assert.Equal(t, PaymentStatusPaid, o.Payment.Status)
		assert.NotNil(t, o.Payment.PaidAt)
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCOD)
		err := o.UpdateStatus(OrderStatusDelivered)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transition")
		assert.Equal(t, OrderStatusPending, o.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCOD)
		require.Error(t, o.UpdateStatus(OrderStatus("misplaced")))
	})

	t.Run("return refunds a paid order", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodUPI)
		require.NoError(t, o.MarkPaid("txn-1"))
		require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
		require.NoError(t, o.UpdateStatus(OrderStatusProcessing))
		require.NoError(t, o.UpdateStatus(OrderStatusShipped))
		require.NoError(t, o.UpdateStatus(OrderStatusDelivered))
		require.NoError(t, o.UpdateStatus(OrderStatusReturned))

		assert.Equal(t, PaymentStatusRefunded, o.Payment.Status)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancels a pending order", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCOD)
		require.NoError(t, o.Cancel("changed my mind"))

		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "changed my mind", o.CancelReason)
		assert.NotNil(t, o.CancelledAt)
	})

	t.Run("refunds a paid order on cancel", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCard)
		require.NoError(t, o.MarkPaid("txn-2"))
		require.NoError(t, o.Cancel(""))
		assert.Equal(t, PaymentStatusRefunded, o.Payment.Status)
	})

	t.Run("rejects cancelling a shipped order", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCOD)
		require.NoError(t, o.UpdateStatus(OrderStatusConfirmed))
		require.NoError(t, o.UpdateStatus(OrderStatusProcessing))
		require.NoError(t, o.UpdateStatus(OrderStatusShipped))

		assert.False(t, o.CanBeCancelled())
		require.Error(t, o.Cancel("too late"))
		assert.Equal(t, OrderStatusShipped, o.Status)
	})

	t.Run("rejects double cancel", func(t *testing.T) {
		o := mustOrder(t, PaymentMethodCOD)
		require.NoError(t, o.Cancel(""))
		require.Error(t, o.Cancel(""))
	})
}

func TestOrder_MarkPaid(t *testing.T) {
	o := mustOrder(t, PaymentMethodCard)

	require.NoError(t, o.MarkPaid("txn-42"))
	assert.Equal(t, PaymentStatusPaid, o.Payment.Status)
	assert.Equal(t, "txn-42", o.Payment.TransactionID)
	require.NotNil(t, o.Payment.PaidAt)

	require.Error(t, o.MarkPaid("txn-43"))
}

func TestOrder_SetTracking(t *testing.T) {
	o := mustOrder(t, PaymentMethodCOD)

	assert.True(t, o.Tracking.IsZero())

	o.SetTracking("Delhivery", "DL123456789", "https://www.delhivery.com/track/DL123456789")
	assert.False(t, o.Tracking.IsZero())
	assert.Equal(t, "Delhivery", o.Tracking.Carrier)
	assert.Equal(t, "DL123456789", o.Tracking.Number)
	assert.Equal(t, "https://www.delhivery.com/track/DL123456789", o.Tracking.URL)
}

func TestOrder_Ownership(t *testing.T) {
	o := mustOrder(t, PaymentMethodCOD)

	assert.True(t, o.BelongsTo(o.UserID))
	assert.False(t, o.BelongsTo(uuid.New()))

	assert.True(t, o.ContainsSeller(o.Items[0].SellerID))
	assert.False(t, o.ContainsSeller(uuid.New()))
}

func TestNewOrderNumber(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		number, err := NewOrderNumber()
		require.NoError(t, err)
		assert.Regexp(t, `^VV\d{4}[A-Z0-9]{6}$`, number)
		seen[number] = struct{}{}
	}
	// 36^6 combinations make repeats in 100 draws vanishingly unlikely
	assert.Greater(t, len(seen), 95)
}

func mustOrder(t *testing.T, method PaymentMethod) *Order {
	t.Helper()
	number, err := NewOrderNumber()
	require.NoError(t, err)
	o, err := NewOrder(number, uuid.New(), testAddress(t), method, []OrderItem{testItem(t, 300, 2)})
	require.NoError(t, err)
	return o
}

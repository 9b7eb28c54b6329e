package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanBeCancelled(t *testing.T) {
	assert.True(t, OrderStatusPending.CanBeCancelled())
	assert.True(t, OrderStatusProcessing.CanBeCancelled())
	assert.False(t, OrderStatusCompleted.CanBeCancelled())
	assert.False(t, OrderStatusCancelled.CanBeCancelled())
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodStore.IsValid())
	assert.True(t, PaymentMethodCOD.IsValid())
	assert.False(t, PaymentMethod("credit_card").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestDeliveryType_IsValid(t *testing.T) {
	assert.True(t, DeliveryTypePickup.IsValid())
	assert.True(t, DeliveryTypeDelivery.IsValid())
	assert.False(t, DeliveryType("drone").IsValid())
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := &OrderItem{
		Quantity: 3,
		Price:    decimal.NewFromFloat(12.50),
	}

	assert.True(t, item.Subtotal().Equal(decimal.NewFromFloat(37.50)))
}

func TestOrder_TotalItems(t *testing.T) {
	order := &Order{
		Items: []*OrderItem{
			{ProductID: uuid.New(), Quantity: 2},
			{ProductID: uuid.New(), Quantity: 5},
		},
	}

	assert.Equal(t, 7, order.TotalItems())
}

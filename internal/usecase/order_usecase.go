package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CheckoutInput defines the data required to convert the active cart into an order.
type CheckoutInput struct {
	PaymentMethod   entity.PaymentMethod
	DeliveryType    entity.DeliveryType
	DeliveryAddress string
	CustomerPhone   string
	Notes           string
}

// Actor identifies who is performing an order operation, so ownership and
// admin override rules can be applied.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// OrderUsecase defines the interface for order lifecycle operations.
type OrderUsecase interface {
	// Checkout atomically converts the user's active cart into a pending
	// order. Every line is re-validated against live stock; if any line
	// cannot be fulfilled the whole checkout fails and nothing changes.
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*entity.Order, error)

	// ListOrders returns the user's own orders, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// GetOrder returns a single order. Customers can only read their own;
	// admins can read any.
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*entity.Order, error)

	// CancelOrder cancels a pending or processing order and restores stock
	// for every line. Only the owner may cancel.
	CancelOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*entity.Order, error)

	// ApproveOrder completes a pending order, stamping its completion time.
	// The owner or an admin may approve.
	ApproveOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*entity.Order, error)
}

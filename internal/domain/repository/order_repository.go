package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrStatusConflict is returned by TransitionStatus when the order is no
	// longer in any of the expected source statuses.
	ErrStatusConflict = errors.New("order status conflict")
)

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// Create persists a new order together with its line items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order with its items loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListByUser retrieves a user's orders with items, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListAll retrieves every order with owner and items, newest first.
	ListAll(ctx context.Context) ([]*entity.Order, error)

	// TransitionStatus moves an order to a new status only if its current
	// status is one of from; otherwise ErrStatusConflict is returned and
	// nothing changes. completedAt is persisted when non-nil.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []entity.OrderStatus, to entity.OrderStatus, completedAt *time.Time) error

	// DeleteItemsByUser removes every order line item belonging to the user's orders.
	DeleteItemsByUser(ctx context.Context, userID uuid.UUID) error

	// DeleteByUser removes every order belonging to the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

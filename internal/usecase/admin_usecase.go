package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AdminUsecase defines the interface for the administration panel. All
// operations require the admin role, enforced at the routing layer.
type AdminUsecase interface {
	// ListUsers returns every registered account.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// DeleteUser removes an account together with its carts, orders and
	// order items, all in one transaction. Stock is not restored.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// ListAllOrders returns every order with its owner, newest first.
	ListAllOrders(ctx context.Context) ([]*entity.Order, error)
}

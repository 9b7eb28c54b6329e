package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrCartNotFound is returned when a user has no active cart.
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartItemNotFound is returned when a cart line item does not exist.
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the standard operations for cart persistence.
type CartRepository interface {
	// GetOrCreateActive returns the user's active cart, creating an empty one
	// if none exists. Items and their products are loaded. Idempotent.
	GetOrCreateActive(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// FindActiveByUser returns the user's active cart with items and products
	// loaded, or ErrCartNotFound.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// FindItemByID returns a line item with its product loaded. Ownership is
	// checked by the caller against the user's active cart.
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error)

	// CreateItem persists a new line item.
	CreateItem(ctx context.Context, item *entity.CartItem) error

	// UpdateItemQuantity sets the quantity of an existing line item.
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// DeleteItem removes a line item.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// ClearItems removes all line items from a cart without deleting the cart.
	ClearItems(ctx context.Context, cartID uuid.UUID) error

	// UpdateStatus transitions a cart between active and checked_out.
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status entity.CartStatus) error

	// DeleteByUser removes all of a user's carts and their items.
	// Used by the admin cascade delete.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

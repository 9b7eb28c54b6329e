package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddCartItemInput defines the data required to put a product in the cart.
type AddCartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpdateCartItemInput defines the data required to change a line's quantity.
type UpdateCartItemInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// CartUsecase defines the interface for shopping cart operations. Every
// operation acts on the calling user's single active cart.
type CartUsecase interface {
	// GetCart returns the user's active cart, creating an empty one when the
	// user has none.
	GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// AddItem puts a product in the cart. Adding a product already in the
	// cart merges quantities; the combined quantity is validated against
	// current stock.
	AddItem(ctx context.Context, userID uuid.UUID, input AddCartItemInput) (*entity.Cart, error)

	// UpdateItem sets a line's quantity, validated against current stock.
	UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateCartItemInput) (*entity.Cart, error)

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*entity.Cart, error)

	// ClearCart removes every line from the cart.
	ClearCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
}

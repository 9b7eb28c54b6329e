package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrProductNotFound is returned when a product does not exist or is soft-deleted.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned by DecreaseStock when the guarded update
	// matches no row, meaning current stock is below the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the standard operations for catalog persistence.
type ProductRepository interface {
	// FindByID retrieves a product regardless of its active flag.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindActiveByID retrieves a product only if it is active.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListActive retrieves all active products. When popular is true the list
	// is ordered by total quantity sold descending, otherwise by name.
	ListActive(ctx context.Context, popular bool) ([]*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update persists changes to an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product from the catalog (soft delete; order item
	// snapshots keep referencing it).
	Delete(ctx context.Context, id uuid.UUID) error

	// DecreaseStock atomically subtracts quantity from the product's stock.
	// The update is guarded by "stock >= quantity"; when no row matches,
	// ErrInsufficientStock is returned and nothing is mutated.
	DecreaseStock(ctx context.Context, id uuid.UUID, quantity int) error

	// IncreaseStock atomically adds quantity back to the product's stock.
	// Used as the compensating action during order cancellation.
	IncreaseStock(ctx context.Context, id uuid.UUID, quantity int) error
}

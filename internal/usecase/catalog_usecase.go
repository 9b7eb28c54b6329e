package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// ListProductsInput controls catalog listing.
type ListProductsInput struct {
	// Category filters by exact category label when non-empty.
	Category string
	// SortByPopularity orders products by total quantity sold instead of name.
	SortByPopularity bool
}

// CreateProductInput defines the data required to add a catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Image       string
	IsActive    bool
}

// UpdateProductInput defines the data for editing a catalog entry. All fields
// are written; callers send the full product state.
type UpdateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Image       string
	IsActive    bool
}

// --- Output DTOs ---

// StockCheckOutput reports whether a requested quantity can be fulfilled.
type StockCheckOutput struct {
	ProductID      uuid.UUID
	Available      bool
	AvailableStock int
}

// CatalogUsecase defines the interface for product catalog operations.
// Read operations serve the storefront; mutations are restricted to
// administrators at the routing layer.
type CatalogUsecase interface {
	// ListProducts returns active products for the storefront.
	ListProducts(ctx context.Context, input ListProductsInput) ([]*entity.Product, error)

	// GetProduct returns a single active product.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// CheckStock reports whether quantity units of the product are available.
	CheckStock(ctx context.Context, id uuid.UUID, quantity int) (*StockCheckOutput, error)

	// CreateProduct adds a catalog entry.
	CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error)

	// UpdateProduct edits a catalog entry. Existing cart lines and order item
	// snapshots are not touched.
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*entity.Product, error)

	// DeleteProduct removes a catalog entry.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock and price invariants (both non-negative)
// are enforced by the persistence layer's guarded updates and by input
// validation; the entity itself only carries state.
type Product struct {
	ID          uuid.UUID       // The unique identifier for the product.
	Name        string          // Display name.
	Description string          // Free-form description.
	Category    string          // Category label used for browsing.
	Price       decimal.Decimal // Unit price, never negative.
	Stock       int             // Units on hand, never negative.
	Image       string          // Image URL, may be empty.
	IsActive    bool            // Inactive products are hidden and unsellable.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsInStock reports whether the product can currently be sold.
func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.IsActive
}

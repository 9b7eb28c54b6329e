package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStatus represents the lifecycle state of a cart.
type CartStatus string

const (
	// CartStatusActive marks the single cart per user that accepts item additions.
	CartStatusActive CartStatus = "active"
	// CartStatusCheckedOut marks a cart that has been converted into an order.
	CartStatusCheckedOut CartStatus = "checked_out"
)

// Cart is a user's shopping cart. At most one active cart exists per user;
// it is created lazily on the first add-to-cart.
type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    CartStatus
	Items     []*CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total returns the sum of item subtotals. Computed on read, never stored.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}

	return total
}

// TotalItems returns the sum of item quantities.
func (c *Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemByProduct returns the line item for the given product, or nil.
func (c *Cart) FindItemByProduct(productID uuid.UUID) *CartItem {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item
		}
	}

	return nil
}

// CartItem is a single line in a cart. Price is snapshotted at add time;
// quantity validity is re-checked against live stock on every mutation.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product // Loaded alongside the item for stock checks and display.
	Quantity  int
	Price     decimal.Decimal // Unit price captured when the item was first added.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal returns price times quantity for this line.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

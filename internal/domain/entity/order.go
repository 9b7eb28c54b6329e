package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state after checkout.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing is cancel-eligible but never produced by any
	// transition in this system; it is kept for forward compatibility.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusCompleted is terminal.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled is terminal.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// CanBeCancelled reports whether an order in this status may be cancelled.
func (s OrderStatus) CanBeCancelled() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	// PaymentMethodStore means payment at the store counter.
	PaymentMethodStore PaymentMethod = "store"
	// PaymentMethodCOD means cash on delivery.
	PaymentMethodCOD PaymentMethod = "cod"
)

// IsValid checks if the PaymentMethod is a valid value.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodStore || m == PaymentMethodCOD
}

// DeliveryType is how the order reaches the customer.
type DeliveryType string

const (
	// DeliveryTypePickup means the customer collects the order.
	DeliveryTypePickup DeliveryType = "pickup"
	// DeliveryTypeDelivery means the order is shipped, incurring the shipping fee.
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// IsValid checks if the DeliveryType is a valid value.
func (d DeliveryType) IsValid() bool {
	return d == DeliveryTypePickup || d == DeliveryTypeDelivery
}

// Order is an immutable snapshot of a completed checkout. Line items freeze
// product name, price and quantity at creation time, independent of later
// catalog changes.
type Order struct {
	ID              uuid.UUID
	OrderNumber     string // Human-facing unique number, distinct from ID.
	UserID          uuid.UUID
	User            *User // Loaded for admin listings only.
	Items           []*OrderItem
	TotalAmount     decimal.Decimal // Sum of line subtotals plus shipping cost.
	ShippingCost    decimal.Decimal
	PaymentMethod   PaymentMethod
	DeliveryType    DeliveryType
	DeliveryAddress string // Required iff DeliveryType is delivery.
	CustomerPhone   string
	Notes           string
	Status          OrderStatus
	CompletedAt     *time.Time // Set only when the order completes.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalItems returns the sum of line quantities.
func (o *Order) TotalItems() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}

	return count
}

// OrderItem is a single line in an order. Snapshot fields never change after
// creation, even if the referenced product is later edited or deleted.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string // Name snapshot taken at checkout.
	Quantity    int
	Price       decimal.Decimal // Unit price snapshot taken at checkout.
	CreatedAt   time.Time
}

// Subtotal returns price times quantity for this line.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

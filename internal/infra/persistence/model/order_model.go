package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderNumber     string          `gorm:"type:varchar(40);unique;not null"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null"`
	DeliveryType    string          `gorm:"type:varchar(20);not null"`
	DeliveryAddress string          `gorm:"type:text"`
	CustomerPhone   string          `gorm:"type:varchar(20);not null"`
	Notes           string          `gorm:"type:text"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	CompletedAt     *time.Time
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	User  *UserModel        `gorm:"foreignKey:UserID"`
	Items []*OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. ProductName and Price are
// snapshots frozen at checkout; they never follow later catalog edits.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    int             `gorm:"not null;check:quantity > 0"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

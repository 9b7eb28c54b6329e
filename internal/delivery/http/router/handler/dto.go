package handler

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Response models exist so that entities never leak directly to the API;
// the password hash in particular must stay server-side.

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *entity.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Roles:     user.Roles.ToStrings(),
		CreatedAt: user.CreatedAt,
	}
}

func newUserListResponse(users []*entity.User) []*userResponse {
	out := make([]*userResponse, len(users))
	for i, user := range users {
		out[i] = newUserResponse(user)
	}

	return out
}

type loginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *userResponse `json:"user"`
}

type productResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newProductResponse(product *entity.Product) *productResponse {
	return &productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Stock:       product.Stock,
		Image:       product.Image,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func newProductListResponse(products []*entity.Product) []*productResponse {
	out := make([]*productResponse, len(products))
	for i, product := range products {
		out[i] = newProductResponse(product)
	}

	return out
}

type cartItemResponse struct {
	ID        uuid.UUID        `json:"id"`
	ProductID uuid.UUID        `json:"product_id"`
	Product   *productResponse `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
}

type cartResponse struct {
	ID         uuid.UUID           `json:"id"`
	Status     string              `json:"status"`
	Items      []*cartItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	TotalItems int                 `json:"total_items"`
}

func newCartResponse(cart *entity.Cart) *cartResponse {
	items := make([]*cartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = &cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal(),
		}
		if item.Product != nil {
			items[i].Product = newProductResponse(item.Product)
		}
	}

	return &cartResponse{
		ID:         cart.ID,
		Status:     string(cart.Status),
		Items:      items,
		Total:      cart.Total(),
		TotalItems: cart.TotalItems(),
	}
}

type orderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     string               `json:"order_number"`
	Status          string               `json:"status"`
	User            *userResponse        `json:"user,omitempty"`
	Items           []*orderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	ShippingCost    decimal.Decimal      `json:"shipping_cost"`
	PaymentMethod   string               `json:"payment_method"`
	DeliveryType    string               `json:"delivery_type"`
	DeliveryAddress string               `json:"delivery_address,omitempty"`
	CustomerPhone   string               `json:"customer_phone"`
	Notes           string               `json:"notes,omitempty"`
	TotalItems      int                  `json:"total_items"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func newOrderResponse(order *entity.Order) *orderResponse {
	items := make([]*orderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = &orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		}
	}

	out := &orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          string(order.Status),
		Items:           items,
		TotalAmount:     order.TotalAmount,
		ShippingCost:    order.ShippingCost,
		PaymentMethod:   string(order.PaymentMethod),
		DeliveryType:    string(order.DeliveryType),
		DeliveryAddress: order.DeliveryAddress,
		CustomerPhone:   order.CustomerPhone,
		Notes:           order.Notes,
		TotalItems:      order.TotalItems(),
		CompletedAt:     order.CompletedAt,
		CreatedAt:       order.CreatedAt,
	}
	if order.User != nil {
		out.User = newUserResponse(order.User)
	}

	return out
}

func newOrderListResponse(orders []*entity.Order) []*orderResponse {
	out := make([]*orderResponse, len(orders))
	for i, order := range orders {
		out[i] = newOrderResponse(order)
	}

	return out
}

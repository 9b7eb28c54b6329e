package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order together with its line items in one insert
// batch. GORM writes the order row first and propagates its ID to the items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Omit("User").Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "order number collision")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, itemM := range orderM.Items {
		order.Items[i].ID = itemM.ID
		order.Items[i].OrderID = itemM.OrderID
		order.Items[i].CreatedAt = itemM.CreatedAt
	}

	return nil
}

// FindByID retrieves an order with its items loaded.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		First(&orderM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// ListByUser retrieves a user's orders with items, newest first.
func (repo *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by user")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// ListAll retrieves every order with owner and items, newest first. Used by
// the admin panel.
func (repo *orderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Order("created_at DESC").
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all orders")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// TransitionStatus moves an order to a new status only if its current status
// is one of from. The guard runs inside the UPDATE itself, so two concurrent
// transitions cannot both succeed: the loser matches zero rows and gets
// ErrStatusConflict.
func (repo *orderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []entity.OrderStatus, to entity.OrderStatus, completedAt *time.Time) error {
	fromValues := make([]string, 0, len(from))
	for _, status := range from {
		fromValues = append(fromValues, status.String())
	}

	updates := map[string]any{"status": to.String()}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status IN ?", id, fromValues).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to transition order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}

	return nil
}

// DeleteItemsByUser removes every order line item belonging to the user's
// orders. Part of the admin cascade delete.
func (repo *orderRepository) DeleteItemsByUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("order_id IN (?)", repo.db.Model(&model.OrderModel{}).Select("id").Where("user_id = ?", userID)).
		Delete(&model.OrderItemModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete order items by user")
	}

	return nil
}

// DeleteByUser removes every order belonging to the user.
func (repo *orderRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Delete(&model.OrderModel{}, "user_id = ?", userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete orders by user")
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, toOrderItemDomain(itemM))
	}

	return &entity.Order{
		ID:              data.ID,
		OrderNumber:     data.OrderNumber,
		UserID:          data.UserID,
		User:            toUserDomain(data.User),
		Items:           items,
		TotalAmount:     data.TotalAmount,
		ShippingCost:    data.ShippingCost,
		PaymentMethod:   entity.PaymentMethod(data.PaymentMethod),
		DeliveryType:    entity.DeliveryType(data.DeliveryType),
		DeliveryAddress: data.DeliveryAddress,
		CustomerPhone:   data.CustomerPhone,
		Notes:           data.Notes,
		Status:          entity.OrderStatus(data.Status),
		CompletedAt:     data.CompletedAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// toOrderItemDomain converts a GORM OrderItemModel to a domain OrderItem entity.
func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	if data == nil {
		return nil
	}

	return &entity.OrderItem{
		ID:          data.ID,
		OrderID:     data.OrderID,
		ProductID:   data.ProductID,
		ProductName: data.ProductName,
		Quantity:    data.Quantity,
		Price:       data.Price,
		CreatedAt:   data.CreatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]*model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, &model.OrderItemModel{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	return &model.OrderModel{
		ID:              data.ID,
		OrderNumber:     data.OrderNumber,
		UserID:          data.UserID,
		Items:           items,
		TotalAmount:     data.TotalAmount,
		ShippingCost:    data.ShippingCost,
		PaymentMethod:   string(data.PaymentMethod),
		DeliveryType:    string(data.DeliveryType),
		DeliveryAddress: data.DeliveryAddress,
		CustomerPhone:   data.CustomerPhone,
		Notes:           data.Notes,
		Status:          string(data.Status),
		CompletedAt:     data.CompletedAt,
	}
}

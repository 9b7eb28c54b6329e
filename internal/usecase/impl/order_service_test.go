package impl

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
type orderServiceFixtures struct {
	service   usecase.OrderUsecase
	txManager *mockRepo.MockTransactionManager
	orderRepo *mockRepo.MockOrderRepository
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewOrderService(OrderServiceParams{
		TxManager: txManager,
		OrderRepo: orderRepo,
		Config:    &config.Config{},
		Logger:    logger,
	})

	return orderServiceFixtures{
		service:   service,
		txManager: txManager,
		orderRepo: orderRepo,
	}
}

func deliveryCheckoutInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		PaymentMethod:   entity.PaymentMethodCOD,
		DeliveryType:    entity.DeliveryTypeDelivery,
		DeliveryAddress: "1 Main Street",
		CustomerPhone:   "0912345678",
	}
}

func TestOrderService_Checkout_Success(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Beans",
		Price:    decimal.NewFromInt(350),
		Stock:    10,
		IsActive: true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{
					ID:     cartID,
					UserID: userID,
					Status: entity.CartStatusActive,
					Items: []*entity.CartItem{{
						ID:        uuid.New(),
						CartID:    cartID,
						ProductID: productID,
						Quantity:  2,
						Price:     decimal.NewFromInt(300), // price snapshot from add time
					}},
				}, nil)

			mockProductRepo.EXPECT().FindActiveByID(ctx, productID).Return(product, nil)
			mockProductRepo.EXPECT().DecreaseStock(ctx, productID, 2).Return(nil)

			mockOrderRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					order.ID = uuid.New()

					assert.Equal(t, userID, order.UserID)
					assert.Equal(t, entity.OrderStatusPending, order.Status)
					require.Len(t, order.Items, 1)
					// Snapshot keeps the cart's unit price, not the current catalog price.
					assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(300)))
					assert.Equal(t, "Espresso Beans", order.Items[0].ProductName)
					// 2 * 300 + 10000 shipping.
					assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(10600)))
					assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(10000)))
				}).
				Return(nil)

			mockCartRepo.EXPECT().ClearItems(ctx, cartID).Return(nil)
			mockCartRepo.EXPECT().UpdateStatus(ctx, cartID, entity.CartStatusCheckedOut).Return(nil)

			return fn(mockFactory)
		})

	order, err := fx.service.Checkout(ctx, userID, deliveryCheckoutInput())

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{13}$`), order.OrderNumber)
}

func TestOrderService_Checkout_PickupSkipsShipping(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Beans",
		Price:    decimal.NewFromInt(350),
		Stock:    10,
		IsActive: true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{
					ID:     cartID,
					UserID: userID,
					Status: entity.CartStatusActive,
					Items: []*entity.CartItem{{
						ID:        uuid.New(),
						CartID:    cartID,
						ProductID: productID,
						Quantity:  1,
						Price:     decimal.NewFromInt(350),
					}},
				}, nil)

			mockProductRepo.EXPECT().FindActiveByID(ctx, productID).Return(product, nil)
			mockProductRepo.EXPECT().DecreaseStock(ctx, productID, 1).Return(nil)

			mockOrderRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					assert.True(t, order.ShippingCost.IsZero())
					assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(350)))
				}).
				Return(nil)

			mockCartRepo.EXPECT().ClearItems(ctx, cartID).Return(nil)
			mockCartRepo.EXPECT().UpdateStatus(ctx, cartID, entity.CartStatusCheckedOut).Return(nil)

			return fn(mockFactory)
		})

	_, err := fx.service.Checkout(ctx, userID, usecase.CheckoutInput{
		PaymentMethod: entity.PaymentMethodStore,
		DeliveryType:  entity.DeliveryTypePickup,
		CustomerPhone: "0912345678",
	})

	require.NoError(t, err)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{ID: uuid.New(), UserID: userID, Status: entity.CartStatusActive}, nil)

			return fn(mockFactory)
		})

	order, err := fx.service.Checkout(ctx, userID, deliveryCheckoutInput())

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)
}

func TestOrderService_Checkout_InsufficientStockAborts(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Beans",
		Price:    decimal.NewFromInt(350),
		Stock:    1,
		IsActive: true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{
					ID:     cartID,
					UserID: userID,
					Status: entity.CartStatusActive,
					Items: []*entity.CartItem{{
						ID:        uuid.New(),
						CartID:    cartID,
						ProductID: productID,
						Quantity:  3,
						Price:     decimal.NewFromInt(350),
					}},
				}, nil)

			mockProductRepo.EXPECT().FindActiveByID(ctx, productID).Return(product, nil)
			mockProductRepo.EXPECT().
				DecreaseStock(ctx, productID, 3).
				Return(repository.ErrInsufficientStock)

			return fn(mockFactory)
		})

	order, err := fx.service.Checkout(ctx, userID, deliveryCheckoutInput())

	require.Error(t, err)
	assert.Nil(t, order)

	var stockErr *domainerrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Espresso Beans", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.AvailableStock)
}

func TestOrderService_Checkout_OutOfStockProductUnavailable(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	// Active but sold out: the availability gate must reject before any
	// decrement is attempted.
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Beans",
		Price:    decimal.NewFromInt(350),
		Stock:    0,
		IsActive: true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{
					ID:     cartID,
					UserID: userID,
					Status: entity.CartStatusActive,
					Items: []*entity.CartItem{{
						ID:        uuid.New(),
						CartID:    cartID,
						ProductID: productID,
						Quantity:  1,
						Price:     decimal.NewFromInt(350),
					}},
				}, nil)

			mockProductRepo.EXPECT().FindActiveByID(ctx, productID).Return(product, nil)

			return fn(mockFactory)
		})

	order, err := fx.service.Checkout(ctx, userID, deliveryCheckoutInput())

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrProductUnavailable)
}

func TestOrderService_Checkout_DeliveryRequiresAddress(t *testing.T) {
	fx := createTestOrderService(t)

	order, err := fx.service.Checkout(context.Background(), uuid.New(), usecase.CheckoutInput{
		PaymentMethod: entity.PaymentMethodCOD,
		DeliveryType:  entity.DeliveryTypeDelivery,
		CustomerPhone: "0912345678",
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_CancelOrder_RestoresStock(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	productID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				FindByID(ctx, orderID).
				Return(&entity.Order{
					ID:     orderID,
					UserID: userID,
					Status: entity.OrderStatusPending,
					Items: []*entity.OrderItem{{
						ID:        uuid.New(),
						OrderID:   orderID,
						ProductID: productID,
						Quantity:  2,
					}},
				}, nil)

			mockOrderRepo.EXPECT().
				TransitionStatus(ctx, orderID,
					[]entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusProcessing},
					entity.OrderStatusCancelled, (*time.Time)(nil)).
				Return(nil)

			mockProductRepo.EXPECT().IncreaseStock(ctx, productID, 2).Return(nil)

			return fn(mockFactory)
		})

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusCancelled}, nil)

	order, err := fx.service.CancelOrder(ctx, userID, orderID)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, order.Status)
}

func TestOrderService_CancelOrder_ForeignOrderForbidden(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				FindByID(ctx, orderID).
				Return(&entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPending}, nil)

			return fn(mockFactory)
		})

	order, err := fx.service.CancelOrder(ctx, uuid.New(), orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_CancelOrder_AlreadyCancelledNoRestock(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	productID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			// No stock expectations: a second cancel must not touch stock again.
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				FindByID(ctx, orderID).
				Return(&entity.Order{
					ID:     orderID,
					UserID: userID,
					Status: entity.OrderStatusCancelled,
					Items: []*entity.OrderItem{{
						ID:        uuid.New(),
						OrderID:   orderID,
						ProductID: productID,
						Quantity:  2,
					}},
				}, nil)

			return fn(mockFactory)
		})

	order, err := fx.service.CancelOrder(ctx, userID, orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_CancelOrder_CompletedRejected(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				FindByID(ctx, orderID).
				Return(&entity.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusCompleted}, nil)

			return fn(mockFactory)
		})

	order, err := fx.service.CancelOrder(ctx, userID, orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_ApproveOrder_OwnerCompletes(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	completedAt := time.Now()

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusPending}, nil).
		Once()

	fx.orderRepo.EXPECT().
		TransitionStatus(ctx, orderID,
			[]entity.OrderStatus{entity.OrderStatusPending},
			entity.OrderStatusCompleted, mock.AnythingOfType("*time.Time")).
		Return(nil)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{
			ID:          orderID,
			UserID:      userID,
			Status:      entity.OrderStatusCompleted,
			CompletedAt: &completedAt,
		}, nil).
		Once()

	order, err := fx.service.ApproveOrder(ctx, usecase.Actor{UserID: userID}, orderID)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletedAt)
}

func TestOrderService_ApproveOrder_AdminOverride(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	ownerID := uuid.New()
	adminID := uuid.New()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: ownerID, Status: entity.OrderStatusPending}, nil).
		Once()

	fx.orderRepo.EXPECT().
		TransitionStatus(ctx, orderID,
			[]entity.OrderStatus{entity.OrderStatusPending},
			entity.OrderStatusCompleted, mock.AnythingOfType("*time.Time")).
		Return(nil)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: ownerID, Status: entity.OrderStatusCompleted}, nil).
		Once()

	_, err := fx.service.ApproveOrder(ctx, usecase.Actor{UserID: adminID, IsAdmin: true}, orderID)

	require.NoError(t, err)
}

func TestOrderService_ApproveOrder_ConcurrentTransitionLoses(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusPending}, nil)

	fx.orderRepo.EXPECT().
		TransitionStatus(ctx, orderID,
			[]entity.OrderStatus{entity.OrderStatusPending},
			entity.OrderStatusCompleted, mock.AnythingOfType("*time.Time")).
		Return(repository.ErrStatusConflict)

	order, err := fx.service.ApproveOrder(ctx, usecase.Actor{UserID: userID}, orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_GetOrder_OwnershipRules(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	ownerID := uuid.New()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: ownerID, Status: entity.OrderStatusPending}

	fx.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)

	got, err := fx.service.GetOrder(ctx, usecase.Actor{UserID: ownerID}, orderID)
	require.NoError(t, err)
	assert.Equal(t, order, got)

	fx.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)

	got, err = fx.service.GetOrder(ctx, usecase.Actor{UserID: uuid.New(), IsAdmin: true}, orderID)
	require.NoError(t, err)
	assert.Equal(t, order, got)

	fx.orderRepo.EXPECT().FindByID(ctx, orderID).Return(order, nil)

	got, err = fx.service.GetOrder(ctx, usecase.Actor{UserID: uuid.New()}, orderID)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_ApproveOrder_ForeignOrderForbidden(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPending}, nil)

	order, err := fx.service.ApproveOrder(ctx, usecase.Actor{UserID: uuid.New()}, orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

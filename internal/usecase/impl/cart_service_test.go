package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

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

// cartServiceFixtures holds all test dependencies for cart service tests.
type cartServiceFixtures struct {
	service   usecase.CartUsecase
	txManager *mockRepo.MockTransactionManager
	cartRepo  *mockRepo.MockCartRepository
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	cartRepo := mockRepo.NewMockCartRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewCartService(CartServiceParams{
		TxManager: txManager,
		CartRepo:  cartRepo,
		Logger:    logger,
	})

	return cartServiceFixtures{
		service:   service,
		txManager: txManager,
		cartRepo:  cartRepo,
	}
}

func TestCartService_GetCart_CreatesWhenMissing(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	cart := &entity.Cart{ID: uuid.New(), UserID: userID, Status: entity.CartStatusActive}

	fx.cartRepo.EXPECT().GetOrCreateActive(ctx, userID).Return(cart, nil)

	got, err := fx.service.GetCart(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, cart, got)
	assert.True(t, got.IsEmpty())
}

func TestCartService_AddItem_NewLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	cartID := uuid.New()
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

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
			mockCartRepo.EXPECT().
				GetOrCreateActive(ctx, userID).
				Return(&entity.Cart{ID: cartID, UserID: userID, Status: entity.CartStatusActive}, nil)
			mockCartRepo.EXPECT().
				CreateItem(ctx, mock.AnythingOfType("*entity.CartItem")).
				Run(func(ctx context.Context, item *entity.CartItem) {
					assert.Equal(t, cartID, item.CartID)
					assert.Equal(t, productID, item.ProductID)
					assert.Equal(t, 3, item.Quantity)
					assert.True(t, item.Price.Equal(product.Price))
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.cartRepo.EXPECT().
		GetOrCreateActive(ctx, userID).
		Return(&entity.Cart{ID: cartID, UserID: userID, Status: entity.CartStatusActive}, nil)

	cart, err := fx.service.AddItem(ctx, userID, usecase.AddCartItemInput{
		ProductID: productID,
		Quantity:  3,
	})

	require.NoError(t, err)
	assert.NotNil(t, cart)
}

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	itemID := uuid.New()
	cartID := uuid.New()
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

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
			mockCartRepo.EXPECT().
				GetOrCreateActive(ctx, userID).
				Return(&entity.Cart{
					ID:     cartID,
					UserID: userID,
					Status: entity.CartStatusActive,
					Items: []*entity.CartItem{{
						ID:        itemID,
						CartID:    cartID,
						ProductID: productID,
						Quantity:  4,
						Price:     product.Price,
					}},
				}, nil)
			// 4 already in the cart plus 3 more becomes 7.
			mockCartRepo.EXPECT().UpdateItemQuantity(ctx, itemID, 7).Return(nil)

			return fn(mockFactory)
		})

	fx.cartRepo.EXPECT().
		GetOrCreateActive(ctx, userID).
		Return(&entity.Cart{ID: cartID, UserID: userID, Status: entity.CartStatusActive}, nil)

	_, err := fx.service.AddItem(ctx, userID, usecase.AddCartItemInput{
		ProductID: productID,
		Quantity:  3,
	})

	require.NoError(t, err)
}

func TestCartService_AddItem_CombinedQuantityExceedsStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	cartID := uuid.New()
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Beans",
		Price:    decimal.NewFromInt(350),
		Stock:    5,
		IsActive: true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
			mockCartRepo.EXPECT().
				GetOrCreateActive(ctx, userID).
				Return(&entity.Cart{
					ID:     cartID,
					UserID: userID,
					Status: entity.CartStatusActive,
					Items: []*entity.CartItem{{
						ID:        uuid.New(),
						CartID:    cartID,
						ProductID: productID,
						Quantity:  4,
						Price:     product.Price,
					}},
				}, nil)

			return fn(mockFactory)
		})

	cart, err := fx.service.AddItem(ctx, userID, usecase.AddCartItemInput{
		ProductID: productID,
		Quantity:  2,
	})

	require.Error(t, err)
	assert.Nil(t, cart)

	var stockErr *domainerrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Espresso Beans", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.AvailableStock)
}

func TestCartService_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	fx := createTestCartService(t)

	cart, err := fx.service.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: uuid.New(),
		Quantity:  0,
	})

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_AddItem_ProductMissing(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, productID).
				Return(nil, repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	cart, err := fx.service.AddItem(ctx, userID, usecase.AddCartItemInput{
		ProductID: productID,
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCartService_AddItem_InactiveProductUnavailable(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	// Discontinued product: still in the catalog, but not for sale.
	product := &entity.Product{
		ID:       productID,
		Name:     "Espresso Beans",
		Price:    decimal.NewFromInt(350),
		Stock:    10,
		IsActive: false,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)

			return fn(mockFactory)
		})

	cart, err := fx.service.AddItem(ctx, userID, usecase.AddCartItemInput{
		ProductID: productID,
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, domainerrors.ErrProductUnavailable)
}

func TestCartService_UpdateItem_QuantityExceedsStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()
	itemID := uuid.New()
	product := &entity.Product{
		ID:       uuid.New(),
		Name:     "Espresso Beans",
		Stock:    2,
		IsActive: true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)

			mockCartRepo.EXPECT().
				FindItemByID(ctx, itemID).
				Return(&entity.CartItem{
					ID:        itemID,
					CartID:    cartID,
					ProductID: product.ID,
					Product:   product,
					Quantity:  1,
				}, nil)
			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{ID: cartID, UserID: userID, Status: entity.CartStatusActive}, nil)

			return fn(mockFactory)
		})

	cart, err := fx.service.UpdateItem(ctx, userID, usecase.UpdateCartItemInput{
		ItemID:   itemID,
		Quantity: 5,
	})

	require.Error(t, err)
	assert.Nil(t, cart)

	var stockErr *domainerrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.AvailableStock)
}

func TestCartService_RemoveItem_ForeignItemHidden(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)

			// The item exists but belongs to someone else's cart.
			mockCartRepo.EXPECT().
				FindItemByID(ctx, itemID).
				Return(&entity.CartItem{ID: itemID, CartID: uuid.New()}, nil)
			mockCartRepo.EXPECT().
				FindActiveByUser(ctx, userID).
				Return(&entity.Cart{ID: uuid.New(), UserID: userID, Status: entity.CartStatusActive}, nil)

			return fn(mockFactory)
		})

	cart, err := fx.service.RemoveItem(ctx, userID, itemID)

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, domainerrors.ErrCartItemNotFound)
}

func TestCartService_ClearCart_Success(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	cartID := uuid.New()

	fx.cartRepo.EXPECT().
		FindActiveByUser(ctx, userID).
		Return(&entity.Cart{ID: cartID, UserID: userID, Status: entity.CartStatusActive}, nil)
	fx.cartRepo.EXPECT().ClearItems(ctx, cartID).Return(nil)
	fx.cartRepo.EXPECT().
		GetOrCreateActive(ctx, userID).
		Return(&entity.Cart{ID: cartID, UserID: userID, Status: entity.CartStatusActive}, nil)

	cart, err := fx.service.ClearCart(ctx, userID)

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

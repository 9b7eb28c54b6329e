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

// catalogServiceFixtures holds all test dependencies for catalog service tests.
type catalogServiceFixtures struct {
	service     usecase.CatalogUsecase
	productRepo *mockRepo.MockProductRepository
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewCatalogService(CatalogServiceParams{
		ProductRepo: productRepo,
		Logger:      logger,
	})

	return catalogServiceFixtures{
		service:     service,
		productRepo: productRepo,
	}
}

func TestCatalogService_ListProducts_FiltersByCategory(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	coffee := &entity.Product{ID: uuid.New(), Name: "Espresso Beans", Category: "coffee", IsActive: true}
	tea := &entity.Product{ID: uuid.New(), Name: "Oolong", Category: "tea", IsActive: true}

	fx.productRepo.EXPECT().
		ListActive(ctx, false).
		Return([]*entity.Product{coffee, tea}, nil)

	products, err := fx.service.ListProducts(ctx, usecase.ListProductsInput{Category: "tea"})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Oolong", products[0].Name)
}

func TestCatalogService_ListProducts_PopularOrderingPassesThrough(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()

	fx.productRepo.EXPECT().
		ListActive(ctx, true).
		Return([]*entity.Product{}, nil)

	products, err := fx.service.ListProducts(ctx, usecase.ListProductsInput{SortByPopularity: true})

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindActiveByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	product, err := fx.service.GetProduct(ctx, productID)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCatalogService_CheckStock(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()
	product := &entity.Product{ID: productID, Name: "Espresso Beans", Stock: 5, IsActive: true}

	fx.productRepo.EXPECT().FindActiveByID(ctx, productID).Return(product, nil)

	output, err := fx.service.CheckStock(ctx, productID, 3)
	require.NoError(t, err)
	assert.True(t, output.Available)
	assert.Equal(t, 5, output.AvailableStock)

	fx.productRepo.EXPECT().FindActiveByID(ctx, productID).Return(product, nil)

	output, err = fx.service.CheckStock(ctx, productID, 6)
	require.NoError(t, err)
	assert.False(t, output.Available)
	assert.Equal(t, 5, output.AvailableStock)
}

func TestCatalogService_CheckStock_RejectsNonPositiveQuantity(t *testing.T) {
	fx := createTestCatalogService(t)

	output, err := fx.service.CheckStock(context.Background(), uuid.New(), 0)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()

	fx.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			product.ID = uuid.New()
		}).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, usecase.CreateProductInput{
		Name:     "Espresso Beans",
		Category: "coffee",
		Price:    decimal.NewFromInt(350),
		Stock:    20,
		IsActive: true,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "Espresso Beans", product.Name)
}

func TestCatalogService_CreateProduct_RejectsNegativePrice(t *testing.T) {
	fx := createTestCatalogService(t)

	product, err := fx.service.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:  "Espresso Beans",
		Price: decimal.NewFromInt(-1),
	})

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCatalogService_UpdateProduct_ReloadsAfterWrite(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()
	updated := &entity.Product{ID: productID, Name: "House Blend", Price: decimal.NewFromInt(280), Stock: 8, IsActive: true}

	fx.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			assert.Equal(t, productID, product.ID)
			assert.Equal(t, "House Blend", product.Name)
		}).
		Return(nil)

	fx.productRepo.EXPECT().FindByID(ctx, productID).Return(updated, nil)

	product, err := fx.service.UpdateProduct(ctx, productID, usecase.UpdateProductInput{
		Name:     "House Blend",
		Price:    decimal.NewFromInt(280),
		Stock:    8,
		IsActive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, updated, product)
}

func TestCatalogService_UpdateProduct_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Return(repository.ErrProductNotFound)

	product, err := fx.service.UpdateProduct(ctx, productID, usecase.UpdateProductInput{
		Name:  "House Blend",
		Price: decimal.NewFromInt(280),
	})

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCatalogService_DeleteProduct_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().Delete(ctx, productID).Return(repository.ErrProductNotFound)

	err := fx.service.DeleteProduct(ctx, productID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

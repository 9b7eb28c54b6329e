package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns active products for the storefront. Category filtering
// happens here rather than in SQL so the popularity ordering query stays in
// one place.
func (srv *catalogService) ListProducts(ctx context.Context, input usecase.ListProductsInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListActive(ctx, input.SortByPopularity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	if input.Category == "" {
		return products, nil
	}

	filtered := make([]*entity.Product, 0, len(products))
	for _, product := range products {
		if product.Category == input.Category {
			filtered = append(filtered, product)
		}
	}

	return filtered, nil
}

// GetProduct returns a single active product.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to get product")
	}

	return product, nil
}

// CheckStock reports whether quantity units of the product are available
// right now. The answer is advisory; checkout re-validates under the
// transaction before committing.
func (srv *catalogService) CheckStock(ctx context.Context, id uuid.UUID, quantity int) (*usecase.StockCheckOutput, error) {
	if quantity <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
	}

	product, err := srv.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to check stock")
	}

	return &usecase.StockCheckOutput{
		ProductID:      product.ID,
		Available:      product.Stock >= quantity,
		AvailableStock: product.Stock,
	}, nil
}

// CreateProduct adds a catalog entry.
func (srv *catalogService) CreateProduct(ctx context.Context, input usecase.CreateProductInput) (*entity.Product, error) {
	if err := validateProductInput(input.Name, input.Price, input.Stock); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		IsActive:    input.IsActive,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return product, nil
}

// UpdateProduct edits a catalog entry. Existing cart lines keep their price
// snapshot; order item snapshots are never touched.
func (srv *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input usecase.UpdateProductInput) (*entity.Product, error) {
	if err := validateProductInput(input.Name, input.Price, input.Stock); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		IsActive:    input.IsActive,
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	updated, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload updated product")
	}

	srv.log(ctx).Info("Product updated", slog.Any("productID", id))

	return updated, nil
}

// DeleteProduct removes a catalog entry.
func (srv *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

func validateProductInput(name string, price decimal.Decimal, stock int) error {
	if name == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("product name is required")
	}
	if price.IsNegative() {
		return domainerrors.ErrValidationFailed.WrapMessage("price must not be negative")
	}
	if stock < 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("stock must not be negative")
	}

	return nil
}

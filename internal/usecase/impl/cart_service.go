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
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		logger:    params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the user's active cart, creating an empty one when the user
// has none.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.GetOrCreateActive(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cart")
	}

	return cart, nil
}

// AddItem puts a product in the user's cart. Adding a product already in the
// cart merges quantities, and the combined quantity is validated against
// current stock. The lookup and write happen in one transaction so two
// concurrent adds cannot produce duplicate lines.
func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input usecase.AddCartItemInput) (*entity.Cart, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to load product for cart add")
		}

		if !product.IsActive {
			return domainerrors.ErrProductUnavailable.WrapMessage("product " + product.Name + " is not for sale")
		}

		cart, err := cartRepo.GetOrCreateActive(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load cart for add")
		}

		existing := cart.FindItemByProduct(product.ID)
		requested := input.Quantity
		if existing != nil {
			requested += existing.Quantity
		}
		if requested > product.Stock {
			return domainerrors.NewInsufficientStockError(product.Name, product.Stock)
		}

		if existing != nil {
			return cartRepo.UpdateItemQuantity(ctx, existing.ID, requested)
		}

		item := &entity.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
			Price:     product.Price,
		}

		return cartRepo.CreateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Cart item added", slog.Any("userID", userID), slog.Any("productID", input.ProductID))

	return srv.reloadCart(ctx, userID)
}

// UpdateItem sets a line's quantity, validated against current stock.
func (srv *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, input usecase.UpdateCartItemInput) (*entity.Cart, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		item, err := srv.findOwnedItem(ctx, cartRepo, userID, input.ItemID)
		if err != nil {
			return err
		}

		if item.Product == nil || input.Quantity > item.Product.Stock {
			available := 0
			name := ""
			if item.Product != nil {
				available = item.Product.Stock
				name = item.Product.Name
			}

			return domainerrors.NewInsufficientStockError(name, available)
		}

		return cartRepo.UpdateItemQuantity(ctx, item.ID, input.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return srv.reloadCart(ctx, userID)
}

// RemoveItem deletes a line from the cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*entity.Cart, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		item, err := srv.findOwnedItem(ctx, cartRepo, userID, itemID)
		if err != nil {
			return err
		}

		return cartRepo.DeleteItem(ctx, item.ID)
	})
	if err != nil {
		return nil, err
	}

	return srv.reloadCart(ctx, userID)
}

// ClearCart removes every line from the cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domainerrors.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to load cart for clear")
	}

	if err := srv.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, errors.Wrap(err, "failed to clear cart")
	}

	srv.log(ctx).Debug("Cart cleared", slog.Any("userID", userID), slog.Any("cartID", cart.ID))

	return srv.reloadCart(ctx, userID)
}

// findOwnedItem loads a cart line and verifies it belongs to the user's
// active cart. A line in someone else's cart is reported as not found rather
// than forbidden, to avoid leaking item IDs.
func (srv *cartService) findOwnedItem(ctx context.Context, cartRepo repository.CartRepository, userID uuid.UUID, itemID uuid.UUID) (*entity.CartItem, error) {
	item, err := cartRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, domainerrors.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to load cart item")
	}

	cart, err := cartRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domainerrors.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to load cart for ownership check")
	}

	if item.CartID != cart.ID {
		return nil, domainerrors.ErrCartItemNotFound
	}

	return item, nil
}

// reloadCart returns the cart state after a mutation so handlers always
// respond with fresh totals.
func (srv *cartService) reloadCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.GetOrCreateActive(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload cart")
	}

	return cart, nil
}

package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
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

// orderNumberRandomLength is the number of random hex characters appended to
// the date part of an order number.
const orderNumberRandomLength = 13

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	shippingFee func() decimal.Decimal
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		shippingFee: params.Config.ShippingFee,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout atomically converts the user's active cart into a pending order.
// Every line is re-validated against live stock inside the transaction; each
// decrement is a guarded update, so a concurrent checkout of the same product
// loses cleanly instead of overselling. Any failure rolls the whole
// transaction back and the cart is left untouched.
func (srv *orderService) Checkout(ctx context.Context, userID uuid.UUID, input usecase.CheckoutInput) (*entity.Order, error) {
	if err := validateCheckoutInput(input); err != nil {
		return nil, err
	}

	var created *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		productRepo := repoFactory.ProductRepo()
		orderRepo := repoFactory.OrderRepo()

		cart, err := cartRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return domainerrors.ErrEmptyCart
			}

			return errors.Wrap(err, "failed to load cart for checkout")
		}
		if cart.IsEmpty() {
			return domainerrors.ErrEmptyCart
		}

		orderItems := make([]*entity.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			product, err := productRepo.FindActiveByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductUnavailable.WrapMessage("a cart item is no longer available")
				}

				return errors.Wrap(err, "failed to load product for checkout")
			}

			if !product.IsInStock() {
				return domainerrors.ErrProductUnavailable.WrapMessage("product " + product.Name + " is out of stock")
			}

			if err := productRepo.DecreaseStock(ctx, product.ID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return domainerrors.NewInsufficientStockError(product.Name, product.Stock)
				}

				return errors.Wrap(err, "failed to reserve stock for checkout")
			}

			orderItems = append(orderItems, &entity.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
		}

		shippingCost := decimal.Zero
		if input.DeliveryType == entity.DeliveryTypeDelivery {
			shippingCost = srv.shippingFee()
		}

		total := shippingCost
		for _, item := range orderItems {
			total = total.Add(item.Subtotal())
		}

		order := &entity.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          userID,
			Items:           orderItems,
			TotalAmount:     total,
			ShippingCost:    shippingCost,
			PaymentMethod:   input.PaymentMethod,
			DeliveryType:    input.DeliveryType,
			DeliveryAddress: input.DeliveryAddress,
			CustomerPhone:   input.CustomerPhone,
			Notes:           input.Notes,
			Status:          entity.OrderStatusPending,
		}

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		if err := cartRepo.ClearItems(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to clear cart after checkout")
		}
		if err := cartRepo.UpdateStatus(ctx, cart.ID, entity.CartStatusCheckedOut); err != nil {
			return errors.Wrap(err, "failed to close cart after checkout")
		}

		created = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Checkout failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Checkout completed",
		slog.Any("userID", userID),
		slog.String("orderNumber", created.OrderNumber),
		slog.Int("items", len(created.Items)),
	)

	return created, nil
}

// ListOrders returns the user's own orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// GetOrder returns a single order. Customers can only read their own; admins
// can read any.
func (srv *orderService) GetOrder(ctx context.Context, actor usecase.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to load order")
	}

	if order.UserID != actor.UserID && !actor.IsAdmin {
		return nil, domainerrors.ErrForbidden.WrapMessage("order belongs to another user")
	}

	return order, nil
}

// CancelOrder cancels a pending or processing order and restores stock for
// every line. The status transition is a guarded update, so a concurrent
// approve and cancel cannot both win; the loser sees the conflict.
func (srv *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*entity.Order, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()
		productRepo := repoFactory.ProductRepo()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to load order for cancel")
		}

		if order.UserID != userID {
			return domainerrors.ErrForbidden.WrapMessage("only the order's owner can cancel it")
		}
		if !order.Status.CanBeCancelled() {
			return domainerrors.ErrInvalidTransition.WrapMessage("only pending or processing orders can be cancelled")
		}

		err = orderRepo.TransitionStatus(ctx, orderID,
			[]entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusProcessing},
			entity.OrderStatusCancelled, nil)
		if err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				return domainerrors.ErrInvalidTransition.WrapMessage("order status changed concurrently")
			}

			return errors.Wrap(err, "failed to cancel order")
		}

		for _, item := range order.Items {
			if err := productRepo.IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				return errors.Wrap(err, "failed to restore stock after cancel")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order cancelled", slog.Any("orderID", orderID), slog.Any("userID", userID))

	return srv.orderRepo.FindByID(ctx, orderID)
}

// ApproveOrder completes a pending order, stamping its completion time. The
// owner or an admin may approve.
func (srv *orderService) ApproveOrder(ctx context.Context, actor usecase.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to load order for approve")
	}

	if order.UserID != actor.UserID && !actor.IsAdmin {
		return nil, domainerrors.ErrForbidden.WrapMessage("only the order's owner or an admin can approve it")
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domainerrors.ErrInvalidTransition.WrapMessage("only pending orders can be approved")
	}

	now := time.Now()
	err = srv.orderRepo.TransitionStatus(ctx, orderID,
		[]entity.OrderStatus{entity.OrderStatusPending},
		entity.OrderStatusCompleted, &now)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, domainerrors.ErrInvalidTransition.WrapMessage("order status changed concurrently")
		}

		return nil, errors.Wrap(err, "failed to approve order")
	}

	srv.log(ctx).Info("Order approved", slog.Any("orderID", orderID), slog.Any("actorID", actor.UserID))

	return srv.orderRepo.FindByID(ctx, orderID)
}

func validateCheckoutInput(input usecase.CheckoutInput) error {
	if !input.PaymentMethod.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid payment method")
	}
	if !input.DeliveryType.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid delivery type")
	}
	if input.DeliveryType == entity.DeliveryTypeDelivery && strings.TrimSpace(input.DeliveryAddress) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("delivery address is required for delivery orders")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("customer phone is required")
	}

	return nil
}

// generateOrderNumber builds a human-facing order number of the form
// ORD-YYYYMMDD-XXXXXXXXXXXXX, where X is an uppercase hex character from a
// CSPRNG. Collisions are practically impossible; the unique index on
// order_number is the backstop.
func generateOrderNumber() string {
	buf := make([]byte, (orderNumberRandomLength+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}

	random := strings.ToUpper(hex.EncodeToString(buf))[:orderNumberRandomLength]

	return "ORD-" + time.Now().Format("20060102") + "-" + random
}

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

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	logger    *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	OrderRepo repository.OrderRepository
	Logger    *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		orderRepo: params.OrderRepo,
		logger:    params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns every registered account.
func (srv *adminService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// DeleteUser removes an account together with its carts, orders and order
// items in one transaction. Dependent rows go first so the user row deletes
// cleanly. Stock reserved by the user's orders is deliberately not restored.
func (srv *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		cartRepo := repoFactory.CartRepo()
		orderRepo := repoFactory.OrderRepo()

		if _, err := userRepo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for delete")
		}

		if err := orderRepo.DeleteItemsByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete order items for user")
		}
		if err := orderRepo.DeleteByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete orders for user")
		}
		if err := cartRepo.DeleteByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete carts for user")
		}
		if err := userRepo.Delete(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", userID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", userID))

	return nil
}

// ListAllOrders returns every order with its owner, newest first.
func (srv *adminService) ListAllOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all orders")
	}

	return orders, nil
}

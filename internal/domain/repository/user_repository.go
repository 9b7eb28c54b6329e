// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, with roles loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address, with roles loaded.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// AssignRole grants a role to a user. Granting an already-held role is a no-op.
	AssignRole(ctx context.Context, userID uuid.UUID, role entity.Role) error

	// List retrieves all users with their roles, most recently created first.
	List(ctx context.Context) ([]*entity.User, error)

	// Delete removes a user record. Dependent rows must be removed first by the caller.
	Delete(ctx context.Context, id uuid.UUID) error
}

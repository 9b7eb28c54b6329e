// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash lives here because email
// login is the only credential type; it must never leave the usecase layer.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Name         string    // The user's display name.
	Email        string    // The user's login identifier, unique across the system.
	Phone        string    // Optional contact phone number.
	PasswordHash string    // The bcrypt-hashed password. Excluded from all API responses.
	Roles        Roles     // Roles granted to this user ("user", "admin").
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Roles.Contains(RoleAdmin)
}

// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. Apart from the admin-managed role, a user
// record is immutable after registration.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Username     string    // Unique display name, chosen at registration.
	Email        string    // Unique contact email, used as the login identifier.
	PasswordHash string    // The bcrypt-hashed password. Never exposed through the API.
	Role         Role      // Either "user" or "admin". Defaults to "user" at registration.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// IsAdmin reports whether the user may perform catalog management operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

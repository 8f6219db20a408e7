package domain

import (
	"errors"
	"time"
)

// Role is the authorization tier assigned to a user. The set is closed:
// administrators and librarians manage inventory and users, members rent books.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleLibrarian     Role = "librarian"
	RoleMember        Role = "member"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

var (
	ErrInvalidCredentials  = errors.New("incorrect username or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserExists          = errors.New("username already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid user role")
	ErrTooManyAttempts     = errors.New("too many login attempts")
)

// User models an account in the identity store.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

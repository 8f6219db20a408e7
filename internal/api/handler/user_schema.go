package handler

import (
	"time"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Username string `json:"username"  validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	UserType string `json:"user_type" validate:"required,oneof=administrator librarian member"`
}

// loginRequest binds the form-encoded credential fields of POST /token.
type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type updateUserRequest struct {
	Username string `json:"username"  validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"`
	UserType string `json:"user_type" validate:"required,oneof=administrator librarian member"`
}

// userResponse is the transport shape of a user record. The password hash
// never leaves the service.
type userResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	UserType   string    `json:"user_type"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		UserType:   string(u.Role),
		CreatedAt:  u.CreatedAt,
		ModifiedAt: u.ModifiedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

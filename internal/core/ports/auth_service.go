package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// TokenPair is the result of a successful login or refresh exchange.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// UserRepository defines the persistence interface for the identity store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

// UserFinder is the read-only subset needed by the auth middleware to confirm
// a token subject still exists with an unchanged role.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

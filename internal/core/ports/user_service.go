package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// UpdateUserInput carries a full profile update. Password is optional: when
// empty the stored hash is kept. Role is applied verbatim — no endpoint
// restricts who may assign which role.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

type UserService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

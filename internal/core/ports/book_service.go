package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// BookInput carries the mutable fields of a catalog entry.
type BookInput struct {
	Title          string
	Author         string
	Description    string
	ImagePath      string
	InventoryCount int
}

type BookService interface {
	Create(ctx context.Context, in BookInput) (*domain.Book, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Book, error)
	Update(ctx context.Context, id int64, in BookInput) (*domain.Book, error)
	Delete(ctx context.Context, id int64) (*domain.Book, error)
}

package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// BookRepository defines the persistence interface for the catalog.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id int64) (*domain.Book, error)
}

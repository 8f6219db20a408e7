package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfwise/library-system/internal/core/domain"
	"github.com/shelfwise/library-system/internal/core/ports"
)

// BookService implements the catalog CRUD.
type BookService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, logger: logger}
}

func (s *BookService) Create(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	now := time.Now().UTC()
	book := &domain.Book{
		Title:          in.Title,
		Author:         in.Author,
		Description:    in.Description,
		ImagePath:      in.ImagePath,
		InventoryCount: in.InventoryCount,
		CreatedAt:      now,
		ModifiedAt:     now,
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("book_id", created.ID).Str("title", created.Title).Msg("book created")
	return created, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BookService) List(ctx context.Context, skip, limit int) ([]*domain.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, skip, limit)
}

func (s *BookService) Update(ctx context.Context, id int64, in ports.BookInput) (*domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = in.Title
	book.Author = in.Author
	book.Description = in.Description
	book.ImagePath = in.ImagePath
	book.InventoryCount = in.InventoryCount
	book.ModifiedAt = time.Now().UTC()

	return s.repo.Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, id int64) (*domain.Book, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("book_id", id).Msg("book deleted")
	return deleted, nil
}

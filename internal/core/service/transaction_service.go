package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shelfwise/library-system/internal/core/domain"
	"github.com/shelfwise/library-system/internal/core/ports"
)

// TransactionService implements rentals and returns. The inventory guard
// itself lives in the repository: the decrement and the transaction insert
// are one atomic unit, so two concurrent rentals of the last copy cannot
// both succeed.
type TransactionService struct {
	repo   ports.TransactionRepository
	books  ports.BookRepository
	logger zerolog.Logger
}

func NewTransactionService(repo ports.TransactionRepository, books ports.BookRepository, logger zerolog.Logger) *TransactionService {
	return &TransactionService{repo: repo, books: books, logger: logger}
}

// Rent checks the book exists, then delegates the guarded decrement + insert
// to the repository. A missing book is a 404-class error; an exhausted
// inventory surfaces as domain.ErrBookUnavailable.
func (s *TransactionService) Rent(ctx context.Context, userID, bookID int64) (*domain.Transaction, error) {
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	tx, err := s.repo.Rent(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Int64("book_id", bookID).Int64("transaction_id", tx.ID).Msg("book rented")
	return tx, nil
}

// Return marks the transaction returned and restores the copy to inventory.
func (s *TransactionService) Return(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	tx, err := s.repo.Return(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("transaction_id", transactionID).Int64("book_id", tx.BookID).Msg("book returned")
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, skip, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, skip, limit)
}

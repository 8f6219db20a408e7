package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

type TransactionService interface {
	Rent(ctx context.Context, userID, bookID int64) (*domain.Transaction, error)
	Return(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	Get(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Transaction, error)
}

package ports

import (
	"context"

	"github.com/shelfwise/library-system/internal/core/domain"
)

// TransactionRepository defines the persistence interface for rentals.
//
// Rent must apply the inventory decrement and the transaction insert
// atomically, guarded so the count cannot go negative under concurrent calls:
// when no copy is left it returns domain.ErrBookUnavailable and leaves no
// partial state. Return likewise sets returned_at and restores the copy in a
// single transaction.
type TransactionRepository interface {
	Rent(ctx context.Context, userID, bookID int64) (*domain.Transaction, error)
	Return(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	FindByID(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Transaction, error)
}

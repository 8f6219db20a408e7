package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/library-system/internal/core/domain"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = "id, user_id, book_id, rented_at, returned_at"

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.BookID, &t.RentedAt, &t.ReturnedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}

// Rent decrements the book's inventory and inserts the rental as one database
// transaction. The decrement carries an `inventory_count > 0` guard, so two
// concurrent rentals of the last copy race on the row lock and exactly one
// sees an affected row; the other gets domain.ErrBookUnavailable and nothing
// is written.
func (r *TransactionRepository) Rent(ctx context.Context, userID, bookID int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin rent: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE books
		SET inventory_count = inventory_count - 1, modified_at = now()
		WHERE id = $1 AND inventory_count > 0`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "no such book" from "no copies left".
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check book: %w", err)
		}
		if !exists {
			return nil, domain.ErrBookNotFound
		}
		return nil, domain.ErrBookUnavailable
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, book_id, rented_at)
		VALUES ($1, $2, $3)
		RETURNING `+transactionColumns,
		userID, bookID, time.Now().UTC(),
	)
	rental, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit rent: %w", err)
	}
	return rental, nil
}

// Return marks the rental returned and restores the copy, atomically. The
// `returned_at IS NULL` guard makes a double return a no-op update that is
// reported as domain.ErrAlreadyReturned.
func (r *TransactionRepository) Return(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin return: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE transactions
		SET returned_at = $2
		WHERE id = $1 AND returned_at IS NULL
		RETURNING `+transactionColumns,
		transactionID, time.Now().UTC(),
	)
	rental, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			// Either the rental does not exist or it was already closed.
			var exists bool
			if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, transactionID).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("check transaction: %w", checkErr)
			}
			if exists {
				return nil, domain.ErrAlreadyReturned
			}
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE books
		SET inventory_count = inventory_count + 1, modified_at = now()
		WHERE id = $1`,
		rental.BookID,
	); err != nil {
		return nil, fmt.Errorf("restore inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit return: %w", err)
	}
	return rental, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *TransactionRepository) List(ctx context.Context, skip, limit int) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/library-system/internal/core/domain"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

const bookColumns = "id, title, author, description, image_path, inventory_count, created_at, modified_at"

func scanBook(row pgx.Row) (*domain.Book, error) {
	var (
		b         domain.Book
		imagePath sql.NullString
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &imagePath, &b.InventoryCount, &b.CreatedAt, &b.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	b.ImagePath = imagePath.String
	return &b, nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (title, author, description, image_path, inventory_count, created_at, modified_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING `+bookColumns,
		book.Title, book.Author, book.Description, book.ImagePath, book.InventoryCount, book.CreatedAt, book.ModifiedAt,
	)
	return scanBook(row)
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	return scanBook(row)
}

func (r *BookRepository) List(ctx context.Context, skip, limit int) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE books
		SET title = $2, author = $3, description = $4, image_path = NULLIF($5, ''), inventory_count = $6, modified_at = $7
		WHERE id = $1
		RETURNING `+bookColumns,
		book.ID, book.Title, book.Author, book.Description, book.ImagePath, book.InventoryCount, book.ModifiedAt,
	)
	return scanBook(row)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `DELETE FROM books WHERE id = $1 RETURNING `+bookColumns, id)
	return scanBook(row)
}

package domain

import (
	"errors"
	"time"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyReturned     = errors.New("book already returned")
)

// Transaction records a single rental. ReturnedAt is nil while the book is
// still out.
type Transaction struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	RentedAt   time.Time  `json:"rented_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

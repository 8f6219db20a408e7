package domain

import (
	"errors"
	"time"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book is not available for rent")
)

// Book is a title in the library catalog. InventoryCount is the number of
// physical copies currently on the shelf; it never drops below zero.
type Book struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Description    string    `json:"description"`
	ImagePath      string    `json:"image_path,omitempty"`
	InventoryCount int       `json:"inventory_count"`
	CreatedAt      time.Time `json:"created_at"`
	ModifiedAt     time.Time `json:"modified_at"`
}

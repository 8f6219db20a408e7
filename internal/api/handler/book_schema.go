package handler

import (
	"time"

	"github.com/shelfwise/library-system/internal/core/domain"
)

type bookRequest struct {
	Title          string `json:"title"           validate:"required"`
	Author         string `json:"author"          validate:"required"`
	Description    string `json:"description"     validate:"required"`
	ImagePath      string `json:"image_path"`
	InventoryCount int    `json:"inventory_count" validate:"gte=0"`
}

type bookResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Description    string    `json:"description"`
	ImagePath      string    `json:"image_path,omitempty"`
	InventoryCount int       `json:"inventory_count"`
	CreatedAt      time.Time `json:"created_at"`
	ModifiedAt     time.Time `json:"modified_at"`
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		Description:    b.Description,
		ImagePath:      b.ImagePath,
		InventoryCount: b.InventoryCount,
		CreatedAt:      b.CreatedAt,
		ModifiedAt:     b.ModifiedAt,
	}
}

func toBookResponses(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

type rentRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type transactionResponse struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	RentedAt   time.Time  `json:"rented_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		BookID:     t.BookID,
		RentedAt:   t.RentedAt,
		ReturnedAt: t.ReturnedAt,
	}
}

func toTransactionResponses(txs []*domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

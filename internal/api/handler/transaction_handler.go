package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfwise/library-system/internal/api/metrics"
	"github.com/shelfwise/library-system/internal/core/domain"
	"github.com/shelfwise/library-system/internal/core/ports"
)

// TransactionHandler exposes rentals and returns.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Rent handles POST /api/v1/transactions/rent.
//
// @Summary      Rent a book
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      rentRequest  true  "Rental details"
// @Success      201   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/transactions/rent [post]
func (h *TransactionHandler) Rent(c echo.Context) error {
	var req rentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Rent(c.Request().Context(), req.UserID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookUnavailable):
			metrics.RentalsTotal.WithLabelValues("unavailable").Inc()
		case errors.Is(err, domain.ErrBookNotFound):
			metrics.RentalsTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}

	metrics.RentalsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// Return handles PUT /api/v1/transactions/:id/return.
//
// @Summary      Return a rented book
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  transactionResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/transactions/{id}/return [put]
func (h *TransactionHandler) Return(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tx, err := h.service.Return(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// List handles GET /api/v1/transactions (administrator or librarian only).
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {array}   transactionResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/v1/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	skip, limit := pagination(c)

	txs, err := h.service.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// Get handles GET /api/v1/transactions/:id.
//
// @Summary      Get a transaction by id
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  transactionResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tx, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

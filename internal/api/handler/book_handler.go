package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfwise/library-system/internal/core/ports"
)

// BookHandler exposes the catalog CRUD.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /api/v1/books (administrator or librarian only).
//
// @Summary      Add a book to the catalog
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book details"
// @Success      201   {object}  bookResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Create(c.Request().Context(), ports.BookInput{
		Title:          req.Title,
		Author:         req.Author,
		Description:    req.Description,
		ImagePath:      req.ImagePath,
		InventoryCount: req.InventoryCount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// List handles GET /api/v1/books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {array}   bookResponse
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	skip, limit := pagination(c)

	books, err := h.service.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Get handles GET /api/v1/books/:id.
//
// @Summary      Get a book by id
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	book, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Update handles PUT /api/v1/books/:id (administrator or librarian only).
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Book id"
// @Param        body  body      bookRequest  true  "Updated book"
// @Success      200   {object}  bookResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Update(c.Request().Context(), id, ports.BookInput{
		Title:          req.Title,
		Author:         req.Author,
		Description:    req.Description,
		ImagePath:      req.ImagePath,
		InventoryCount: req.InventoryCount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /api/v1/books/:id (administrator or librarian only).
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	book, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

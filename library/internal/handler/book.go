package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	books, err := h.librarySvc.ListBooks(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := idParam(c, "bookId")
	if err != nil {
		return err
	}
	book, err := h.librarySvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var in model.BookInput
	if err := bind(c, &in); err != nil {
		return err
	}
	book, err := h.librarySvc.CreateBook(c.Request().Context(), identity(c), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := idParam(c, "bookId")
	if err != nil {
		return err
	}
	var in model.BookInput
	if err := bind(c, &in); err != nil {
		return err
	}
	book, err := h.librarySvc.UpdateBook(c.Request().Context(), identity(c), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// AdjustStock
// @Summary add or withdraw copies of a book
// @Tags books
// @Security BearerAuth
// @Param bookId path int true "book id"
// @Param request body model.StockDelta true "copies to add (negative withdraws)"
// @Success 200 {object} model.Book
// @Router /api/v1/books/{bookId}/stock [patch]
func (h *Handler) AdjustStock(c echo.Context) error {
	id, err := idParam(c, "bookId")
	if err != nil {
		return err
	}
	var req model.StockDelta
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.AdjustStock(c.Request().Context(), identity(c), id, req.Delta)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := idParam(c, "bookId")
	if err != nil {
		return err
	}
	if err := h.librarySvc.DeleteBook(c.Request().Context(), identity(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

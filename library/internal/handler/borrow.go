package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

// RequestBorrow
// @Summary request a book
// @Tags borrows
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body model.BorrowRequest true "book to borrow"
// @Success 201 {object} model.BorrowResponse
// @Failure 409 {object} errs.Response
// @Router /api/v1/borrows/request [post]
func (h *Handler) RequestBorrow(c echo.Context) error {
	var req model.BorrowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.librarySvc.RequestBorrow(c.Request().Context(), identity(c), req.BookID, req.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

// GetStatus
// @Summary borrow status of a book for a user
// @Tags borrows
// @Security BearerAuth
// @Produce json
// @Param bookId query int true "book id"
// @Param userId query int false "user id, defaults to the caller"
// @Success 200 {object} model.StatusView
// @Router /api/v1/borrows/status [get]
func (h *Handler) GetStatus(c echo.Context) error {
	bookID, err := optionalID(c, "bookId")
	if err != nil {
		return err
	}
	if bookID == 0 {
		return httpError(errs.Validation("bookId is required"))
	}
	userID, err := optionalID(c, "userId")
	if err != nil {
		return err
	}
	st, err := h.librarySvc.GetStatus(c.Request().Context(), identity(c), bookID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}

// ListUserBorrows
// @Summary borrow history of a user, newest first
// @Tags borrows
// @Security BearerAuth
// @Produce json
// @Param userId path int true "user id"
// @Success 200 {array} model.BorrowView
// @Router /api/v1/borrows/user/{userId} [get]
func (h *Handler) ListUserBorrows(c echo.Context) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}
	items, err := h.librarySvc.ListUserBorrows(c.Request().Context(), identity(c), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// CancelRequest
// @Summary cancel a pending request
// @Tags borrows
// @Security BearerAuth
// @Accept json
// @Param request body model.CancelRequest true "request to cancel"
// @Success 200
// @Router /api/v1/borrows/cancel [post]
func (h *Handler) CancelRequest(c echo.Context) error {
	var req model.CancelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.librarySvc.CancelRequest(c.Request().Context(), identity(c), req.BorrowID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// SelfReturn
// @Summary return a borrowed book
// @Tags borrows
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body model.BorrowRequest true "book to return"
// @Success 200 {object} model.Borrow
// @Router /api/v1/borrows/return [post]
func (h *Handler) SelfReturn(c echo.Context) error {
	var req model.BorrowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.librarySvc.SelfReturn(c.Request().Context(), identity(c), req.BookID, req.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

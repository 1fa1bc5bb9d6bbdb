package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

// AdminListAll
// @Summary all borrow records, newest first
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "status filter"
// @Param page query int false "page"
// @Param size query int false "page size"
// @Success 200 {object} model.ListBorrows
// @Router /api/v1/admin/borrows [get]
func (h *Handler) AdminListAll(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	f := model.BorrowFilter{
		Status: model.Status(c.QueryParam("status")),
		Page:   page,
		Size:   size,
	}
	list, err := h.librarySvc.AdminListAll(c.Request().Context(), identity(c), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

type transitionFunc func(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error)

func (h *Handler) transition(c echo.Context, fn transitionFunc) error {
	borrowID, err := idParam(c, "borrowId")
	if err != nil {
		return err
	}
	var req model.NotesRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	b, err := fn(c.Request().Context(), identity(c), borrowID, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

// Approve
// @Summary approve a pending request
// @Tags admin
// @Security BearerAuth
// @Param borrowId path int true "borrow id"
// @Param request body model.NotesRequest false "admin notes"
// @Success 200 {object} model.Borrow
// @Failure 409 {object} errs.Response
// @Router /api/v1/admin/borrows/{borrowId}/approve [post]
func (h *Handler) Approve(c echo.Context) error {
	return h.transition(c, h.librarySvc.Approve)
}

// Reject
// @Summary reject a pending request
// @Tags admin
// @Security BearerAuth
// @Param borrowId path int true "borrow id"
// @Param request body model.NotesRequest false "admin notes"
// @Success 200 {object} model.Borrow
// @Router /api/v1/admin/borrows/{borrowId}/reject [post]
func (h *Handler) Reject(c echo.Context) error {
	return h.transition(c, h.librarySvc.Reject)
}

// ConfirmBorrow
// @Summary hand out an approved book
// @Tags admin
// @Security BearerAuth
// @Param borrowId path int true "borrow id"
// @Param request body model.NotesRequest false "admin notes"
// @Success 200 {object} model.Borrow
// @Failure 409 {object} errs.Response
// @Router /api/v1/admin/borrows/{borrowId}/confirm-borrow [post]
func (h *Handler) ConfirmBorrow(c echo.Context) error {
	return h.transition(c, h.librarySvc.ConfirmBorrow)
}

// ConfirmReturn
// @Summary take back a borrowed book
// @Tags admin
// @Security BearerAuth
// @Param borrowId path int true "borrow id"
// @Param request body model.NotesRequest false "admin notes"
// @Success 200 {object} model.Borrow
// @Router /api/v1/admin/borrows/{borrowId}/confirm-return [post]
func (h *Handler) ConfirmReturn(c echo.Context) error {
	return h.transition(c, h.librarySvc.ConfirmReturn)
}

// Stats
// @Summary per-user borrow activity
// @Tags admin
// @Security BearerAuth
// @Success 200 {array} model.UserStats
// @Router /api/v1/admin/stats [get]
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.librarySvc.Stats(c.Request().Context(), identity(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Ledger
// @Summary books whose stock disagrees with copies on loan
// @Tags admin
// @Security BearerAuth
// @Success 200 {array} model.LedgerDrift
// @Router /api/v1/admin/ledger [get]
func (h *Handler) Ledger(c echo.Context) error {
	drift, err := h.librarySvc.LedgerReport(c.Request().Context(), identity(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, drift)
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/service"
)

// SellerReservationHandler exposes the seller-side reservation
// endpoints: listing bookings against owned products, the per-product
// summary and the confirm/reject/status transitions.
type SellerReservationHandler struct {
	Reservations service.ReservationService
}

func NewSellerReservationHandler(s service.ReservationService) *SellerReservationHandler {
	return &SellerReservationHandler{Reservations: s}
}

type rejectReq struct {
	Reason string `json:"reason"`
}

type statusReq struct {
	Status string `json:"status"`
}

// ListByProduct returns all reservations against one of the seller's
// products, joined with product metadata.
func (h *SellerReservationHandler) ListByProduct(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Reservations.ListByProduct(ctx, uid, productID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Summary returns the per-product reservation overview for the seller.
// Products without reservations are omitted.
func (h *SellerReservationHandler) Summary(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	views, err := h.Reservations.SellerSummary(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Confirm accepts a pending reservation.
func (h *SellerReservationHandler) Confirm(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Reservations.Confirm(ctx, uid, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Reject declines a pending reservation with a mandatory reason and
// refunds the buyer.
func (h *SellerReservationHandler) Reject(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Reservations.Reject(ctx, uid, id, req.Reason)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateStatus applies a raw status transition. Rejections must go
// through Reject because they carry a reason.
func (h *SellerReservationHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	status := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Reservations.UpdateStatus(ctx, uid, id, status)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

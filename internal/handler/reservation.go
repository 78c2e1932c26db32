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

// ReservationHandler exposes the traveller-side reservation endpoints.
// It talks to the engine through the service interface so the handler
// can be tested without a database.
type ReservationHandler struct {
	Reservations service.ReservationService
}

func NewReservationHandler(s service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: s}
}

type ticketLineReq struct {
	TicketID uint64 `json:"ticket_id"`
	Quantity int    `json:"quantity"`
}

type createReservationReq struct {
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Date      string          `json:"date"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Tickets   []ticketLineReq `json:"tickets"`
}

// Create books a product for the authenticated traveller.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Date) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/date required"})
	}
	if len(req.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets required"})
	}
	lines := make([]model.TicketLine, 0, len(req.Tickets))
	for _, l := range req.Tickets {
		if l.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket quantity must be positive"})
		}
		lines = append(lines, model.TicketLine{TicketID: l.TicketID, Quantity: l.Quantity})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Reservations.Create(ctx, uid, productID, service.CreateReservationRequest{
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Date:      strings.TrimSpace(req.Date),
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Tickets:   lines,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// CheckAvailability reports whether a product operates at the requested
// slot. Returns 204 when available, 409 otherwise.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Reservations.CheckAvailability(ctx, productID, date,
		strings.TrimSpace(c.QueryParam("start_time")),
		strings.TrimSpace(c.QueryParam("end_time")))
	if err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	views, err := h.Reservations.ListByBuyer(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// Get returns one reservation. Only the buyer or the product's seller
// may view it.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Reservations.Get(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if view.BuyerID != uid && view.SellerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, view)
}

// Cancel withdraws a reservation and refunds the transfer. The engine
// enforces that only the buyer or the seller may cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
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

	view, err := h.Reservations.Cancel(ctx, uid, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/repository"
	"github.com/travellyhq/travelly-server/internal/service"
)

// getUserID extracts the member ID placed in the context by the JWT
// middleware. JWT numeric claims decode as float64, so several shapes
// are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as an unsigned integer.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// writeErr translates sentinel errors into HTTP responses so every
// handler maps the taxonomy the same way.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrMemberNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrInsufficientQuantity),
		errors.Is(err, repository.ErrInsufficientPoints),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrProductNotAvailable),
		errors.Is(err, service.ErrInvalidStatusChange):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden),
		errors.Is(err, service.ErrSelfReservation):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRejectionReasonRequired),
		errors.Is(err, service.ErrNoTickets):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

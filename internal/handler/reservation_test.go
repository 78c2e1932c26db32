package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/travellyhq/travelly-server/internal/repository"
	"github.com/travellyhq/travelly-server/internal/service"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const createBody = `{
	"name": "Kim Traveller",
	"phone": "010-1234-5678",
	"email": "kim@example.com",
	"date": "2026-09-01",
	"start_time": "10:00",
	"end_time": "12:00",
	"tickets": [{"ticket_id": 1, "quantity": 2}]
}`

func TestReservationCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)

		view := &service.ReservationView{ID: 7, ProductID: 3, BuyerID: 42, Status: "PENDING", TotalPrice: 1000, TotalTicketCount: 2}
		svc.On("Create", mock.Anything, uint64(42), uint64(3), mock.Anything).Return(view, nil)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/products/3/reservations", createBody)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var got service.ReservationView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, uint64(7), got.ID)
		assert.Equal(t, "PENDING", got.Status)
		svc.AssertExpectations(t)
	})

	t.Run("insufficient points maps to 409", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Create", mock.Anything, uint64(42), uint64(3), mock.Anything).
			Return(nil, repository.ErrInsufficientPoints)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/products/3/reservations", createBody)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("self booking maps to 403", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Create", mock.Anything, uint64(42), uint64(3), mock.Anything).
			Return(nil, service.ErrSelfReservation)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/products/3/reservations", createBody)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unavailable slot maps to 409", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Create", mock.Anything, uint64(42), uint64(3), mock.Anything).
			Return(nil, service.ErrProductNotAvailable)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/products/3/reservations", createBody)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing tickets rejected before the engine", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)

		body := `{"name":"Kim","date":"2026-09-01","tickets":[]}`
		c, rec := newJSONContext(t, http.MethodPost, "/v1/products/3/reservations", body)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)

		body := `{"name":"Kim","date":"2026-09-01","tickets":[{"ticket_id":1,"quantity":0}]}`
		c, rec := newJSONContext(t, http.MethodPost, "/v1/products/3/reservations", body)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create")
	})
}

func TestReservationCheckAvailability(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("CheckAvailability", mock.Anything, uint64(3), "2026-09-01", "10:00", "12:00").Return(nil)

		c, rec := newJSONContext(t, http.MethodGet,
			"/v1/products/3/availability?date=2026-09-01&start_time=10:00&end_time=12:00", "")
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, h.CheckAvailability(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("not available maps to 409", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("CheckAvailability", mock.Anything, uint64(3), "2026-09-01", "", "").
			Return(service.ErrProductNotAvailable)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/products/3/availability?date=2026-09-01", "")
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, h.CheckAvailability(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing date rejected", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/products/3/availability", "")
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, h.CheckAvailability(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CheckAvailability")
	})
}

func TestReservationGet(t *testing.T) {
	view := &service.ReservationView{ID: 7, BuyerID: 42, SellerID: 9, Status: "PENDING"}

	t.Run("buyer can view", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Get", mock.Anything, uint64(7)).Return(view, nil)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/reservations/7", "")
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stranger gets 403", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Get", mock.Anything, uint64(7)).Return(view, nil)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/reservations/7", "")
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(1000))

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown id gets 404", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Get", mock.Anything, uint64(8)).Return(nil, repository.ErrReservationNotFound)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/reservations/8", "")
		c.SetParamNames("id")
		c.SetParamValues("8")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReservationCancel(t *testing.T) {
	t.Run("cancelled with refund view", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		view := &service.ReservationView{ID: 7, BuyerID: 42, Status: "CANCELED"}
		svc.On("Cancel", mock.Anything, uint64(42), uint64(7)).Return(view, nil)

		c, rec := newJSONContext(t, http.MethodDelete, "/v1/reservations/7", "")
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Cancel(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got service.ReservationView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "CANCELED", got.Status)
	})

	t.Run("already finalized maps to 409", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewReservationHandler(svc)
		svc.On("Cancel", mock.Anything, uint64(42), uint64(7)).
			Return(nil, service.ErrInvalidStatusChange)

		c, rec := newJSONContext(t, http.MethodDelete, "/v1/reservations/7", "")
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(42))

		require.NoError(t, h.Cancel(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestReservationListMine(t *testing.T) {
	svc := new(mockReservationService)
	h := NewReservationHandler(svc)
	svc.On("ListByBuyer", mock.Anything, uint64(42)).Return([]service.ReservationView{
		{ID: 9, Status: "PENDING"},
		{ID: 7, Status: "CANCELED"},
	}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/my-reservations", "")
	c.Set("user_id", uint64(42))

	require.NoError(t, h.ListMine(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []service.ReservationView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(9), got[0].ID)
}

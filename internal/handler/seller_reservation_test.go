package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/repository"
	"github.com/travellyhq/travelly-server/internal/service"
)

func TestSellerSummary(t *testing.T) {
	svc := new(mockReservationService)
	h := NewSellerReservationHandler(svc)
	svc.On("SellerSummary", mock.Anything, uint64(9)).Return([]service.SellerSummaryView{
		{ProductID: 3, ProductName: "Seoul walking tour", Price: 1000,
			Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00",
			ReservationCount: 4, PendingCount: 1},
	}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/seller/reservations/summary", "")
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Summary(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []service.SellerSummaryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].ReservationCount)
	assert.Equal(t, 1, got[0].PendingCount)
}

func TestSellerListByProduct(t *testing.T) {
	t.Run("owner sees bookings with product metadata", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)
		svc.On("ListByProduct", mock.Anything, uint64(9), uint64(3)).Return(&service.ProductReservationsView{
			ProductID:   3,
			ProductName: "Seoul walking tour",
			Reservations: []service.ReservationView{
				{ID: 7, Status: "PENDING"},
			},
		}, nil)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/products/3/reservations", "")
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(9))

		require.NoError(t, h.ListByProduct(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)
		svc.On("ListByProduct", mock.Anything, uint64(8), uint64(3)).
			Return(nil, repository.ErrForbidden)

		c, rec := newJSONContext(t, http.MethodGet, "/v1/products/3/reservations", "")
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", uint64(8))

		require.NoError(t, h.ListByProduct(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSellerConfirm(t *testing.T) {
	svc := new(mockReservationService)
	h := NewSellerReservationHandler(svc)
	view := &service.ReservationView{ID: 7, Status: "CONFIRMED"}
	svc.On("Confirm", mock.Anything, uint64(9), uint64(7)).Return(view, nil)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations/7/confirm", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSellerReject(t *testing.T) {
	t.Run("rejected with reason", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)
		view := &service.ReservationView{ID: 7, Status: "REJECTED"}
		svc.On("Reject", mock.Anything, uint64(9), uint64(7), "sold out on site").Return(view, nil)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations/7/reject",
			`{"reason":"sold out on site"}`)
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(9))

		require.NoError(t, h.Reject(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing reason rejected before the engine", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations/7/reject", `{"reason":"  "}`)
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(9))

		require.NoError(t, h.Reject(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Reject")
	})

	t.Run("already finalized maps to 409", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)
		svc.On("Reject", mock.Anything, uint64(9), uint64(7), "late").
			Return(nil, service.ErrInvalidStatusChange)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations/7/reject", `{"reason":"late"}`)
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(9))

		require.NoError(t, h.Reject(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSellerUpdateStatus(t *testing.T) {
	t.Run("legal transition", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)
		view := &service.ReservationView{ID: 7, Status: "CONFIRMED"}
		svc.On("UpdateStatus", mock.Anything, uint64(9), uint64(7), model.StatusConfirmed).Return(view, nil)

		c, rec := newJSONContext(t, http.MethodPatch, "/v1/reservations/7/status",
			`{"status":"confirmed"}`)
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(9))

		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := new(mockReservationService)
		h := NewSellerReservationHandler(svc)

		c, rec := newJSONContext(t, http.MethodPatch, "/v1/reservations/7/status",
			`{"status":"REFUNDED"}`)
		c.SetParamNames("id")
		c.SetParamValues("7")
		c.Set("user_id", uint64(9))

		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateStatus")
	})
}

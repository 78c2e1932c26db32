package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/service"
)

// mockReservationService implements service.ReservationService for
// handler tests.
type mockReservationService struct {
	mock.Mock
}

func (m *mockReservationService) CheckAvailability(ctx context.Context, productID uint64, date, startTime, endTime string) error {
	args := m.Called(ctx, productID, date, startTime, endTime)
	return args.Error(0)
}

func (m *mockReservationService) Create(ctx context.Context, buyerID, productID uint64, req service.CreateReservationRequest) (*service.ReservationView, error) {
	args := m.Called(ctx, buyerID, productID, req)
	if v := args.Get(0); v != nil {
		return v.(*service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) Get(ctx context.Context, id uint64) (*service.ReservationView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) ListByBuyer(ctx context.Context, buyerID uint64) ([]service.ReservationView, error) {
	args := m.Called(ctx, buyerID)
	if v := args.Get(0); v != nil {
		return v.([]service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) ListByProduct(ctx context.Context, sellerID, productID uint64) (*service.ProductReservationsView, error) {
	args := m.Called(ctx, sellerID, productID)
	if v := args.Get(0); v != nil {
		return v.(*service.ProductReservationsView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) SellerSummary(ctx context.Context, sellerID uint64) ([]service.SellerSummaryView, error) {
	args := m.Called(ctx, sellerID)
	if v := args.Get(0); v != nil {
		return v.([]service.SellerSummaryView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) UpdateStatus(ctx context.Context, sellerID, id uint64, status model.ReservationStatus) (*service.ReservationView, error) {
	args := m.Called(ctx, sellerID, id, status)
	if v := args.Get(0); v != nil {
		return v.(*service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) Confirm(ctx context.Context, sellerID, id uint64) (*service.ReservationView, error) {
	args := m.Called(ctx, sellerID, id)
	if v := args.Get(0); v != nil {
		return v.(*service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) Reject(ctx context.Context, sellerID, id uint64, reason string) (*service.ReservationView, error) {
	args := m.Called(ctx, sellerID, id, reason)
	if v := args.Get(0); v != nil {
		return v.(*service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationService) Cancel(ctx context.Context, actorID, id uint64) (*service.ReservationView, error) {
	args := m.Called(ctx, actorID, id)
	if v := args.Get(0); v != nil {
		return v.(*service.ReservationView), args.Error(1)
	}
	return nil, args.Error(1)
}

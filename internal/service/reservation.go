package service

import (
	"context"
	"errors"
	"time"

	"github.com/travellyhq/travelly-server/internal/model"
)

// Errors produced by the reservation engine itself. Lookup and balance
// failures reuse the repository sentinels so handlers have one taxonomy.
var (
	// ErrProductNotAvailable is returned when the requested date/time
	// window does not match any configured operating slot.
	ErrProductNotAvailable = errors.New("product not available at the requested slot")
	// ErrSelfReservation is returned when a member tries to book their
	// own product.
	ErrSelfReservation = errors.New("cannot reserve your own product")
	// ErrInvalidStatusChange is returned for illegal status transitions,
	// including cancel/reject on an already finalized reservation.
	ErrInvalidStatusChange = errors.New("invalid reservation status change")
	// ErrRejectionReasonRequired is returned when a reject carries no reason.
	ErrRejectionReasonRequired = errors.New("rejection reason required")
	// ErrNoTickets is returned when a creation request has no line items.
	ErrNoTickets = errors.New("at least one ticket line required")
)

// CreateReservationRequest carries the data needed to create a
// reservation: reservation-time contact info (which may differ from the
// buyer's account), the requested slot and the ticket lines. An unset
// time pair is normalized to the all-day window.
type CreateReservationRequest struct {
	Name      string
	Phone     string
	Email     string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM, optional
	EndTime   string // HH:MM, optional
	Tickets   []model.TicketLine
}

// TicketLineView is one line item of a reservation response.
type TicketLineView struct {
	TicketID    uint64 `json:"ticket_id"`
	TicketName  string `json:"ticket_name"`
	TicketPrice int    `json:"ticket_price"`
	Quantity    int    `json:"quantity"`
}

// ReservationView is the read projection of a persisted reservation.
// SellerID is included so callers can authorize seller-side access
// without another product lookup.
type ReservationView struct {
	ID               uint64           `json:"id"`
	ProductID        uint64           `json:"product_id"`
	ProductName      string           `json:"product_name"`
	BuyerID          uint64           `json:"buyer_id"`
	SellerID         uint64           `json:"seller_id"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Date             string           `json:"date"`
	StartTime        string           `json:"start_time"`
	EndTime          string           `json:"end_time"`
	Status           string           `json:"status"`
	RejectionReason  *string          `json:"rejection_reason,omitempty"`
	TotalPrice       int              `json:"total_price"`
	TotalTicketCount int              `json:"total_ticket_count"`
	Tickets          []TicketLineView `json:"tickets"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ProductReservationsView is the seller's per-product booking list:
// product metadata joined with every reservation against it.
type ProductReservationsView struct {
	ProductID    uint64            `json:"product_id"`
	ProductName  string            `json:"product_name"`
	ProductPrice int               `json:"product_price"`
	Quantity     int               `json:"quantity"`
	Reservations []ReservationView `json:"reservations"`
}

// SellerSummaryView is one row of the seller overview: per product, the
// most recent reservation's price and slot plus reservation counts.
// Products with no reservations produce no row.
type SellerSummaryView struct {
	ProductID        uint64 `json:"product_id"`
	ProductName      string `json:"product_name"`
	Price            int    `json:"price"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	ReservationCount int    `json:"reservation_count"`
	PendingCount     int    `json:"pending_reservation_count"`
}

// ReservationService is the reservation engine. Every mutating method
// runs as a single transaction: reservation writes, inventory deltas and
// point transfers commit together or not at all.
type ReservationService interface {
	// CheckAvailability confirms the product operates at the requested
	// slot. An unset time pair is treated as the all-day window.
	CheckAvailability(ctx context.Context, productID uint64, date, startTime, endTime string) error
	// Create validates availability, capacity and funds, persists the
	// reservation with status PENDING and applies the point transfer and
	// inventory decrement atomically.
	Create(ctx context.Context, buyerID, productID uint64, req CreateReservationRequest) (*ReservationView, error)
	// Get returns a single reservation projection.
	Get(ctx context.Context, id uint64) (*ReservationView, error)
	// ListByBuyer returns all reservations placed by a member.
	ListByBuyer(ctx context.Context, buyerID uint64) ([]ReservationView, error)
	// ListByProduct returns a product's reservations for its seller.
	ListByProduct(ctx context.Context, sellerID, productID uint64) (*ProductReservationsView, error)
	// SellerSummary aggregates reservations per product for a seller.
	SellerSummary(ctx context.Context, sellerID uint64) ([]SellerSummaryView, error)
	// UpdateStatus is the raw transition primitive, guarded by the legal
	// transition table. Moving into CANCELED or REJECTED applies the
	// refund exactly as Cancel/Reject do.
	UpdateStatus(ctx context.Context, sellerID, id uint64, status model.ReservationStatus) (*ReservationView, error)
	// Confirm moves a PENDING reservation to CONFIRMED (seller only).
	Confirm(ctx context.Context, sellerID, id uint64) (*ReservationView, error)
	// Reject moves a PENDING reservation to REJECTED with a mandatory
	// reason and refunds the point transfer and inventory.
	Reject(ctx context.Context, sellerID, id uint64, reason string) (*ReservationView, error)
	// Cancel moves a reservation to CANCELED and refunds. The acting
	// member must be the buyer or the product's seller.
	Cancel(ctx context.Context, actorID, id uint64) (*ReservationView, error)
}

package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"   // created, awaiting seller decision
	StatusConfirmed ReservationStatus = "CONFIRMED" // accepted by the seller
	StatusRejected  ReservationStatus = "REJECTED"  // declined by the seller, refunded
	StatusCanceled  ReservationStatus = "CANCELED"  // withdrawn, refunded
)

// ValidStatus reports whether s is a known reservation status.
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is legal. PENDING may
// move to any decision state; CONFIRMED may still be canceled. REJECTED
// and CANCELED are terminal, which is what prevents a second cancel or
// reject from refunding twice.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusRejected || target == StatusCanceled
	case StatusConfirmed:
		return target == StatusCanceled
	}
	return false
}

// Reservation is the aggregate root of a booking. Contact fields are
// captured at reservation time and may differ from the buyer's own
// account data. The reservation owns its ticket line items; deleting a
// reservation deletes them, but normal flow never deletes reservations.
//
// Fields:
//
//	ID               – primary key identifier.
//	ProductID        – product being booked.
//	BuyerID          – member who placed the booking.
//	Name             – contact name for the booking.
//	Phone            – contact phone.
//	Email            – contact email.
//	Date             – requested calendar date (YYYY-MM-DD).
//	StartTime        – requested window start (HH:MM).
//	EndTime          – requested window end (HH:MM).
//	Status           – lifecycle state.
//	RejectionReason  – set only when Status is REJECTED.
//	TotalPrice       – Σ ticket price × quantity over line items.
//	TotalTicketCount – Σ quantity over line items.
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               uint64              // reservations.id
	ProductID        uint64              // reservations.product_id
	BuyerID          uint64              // reservations.buyer_id
	Name             string              // reservations.name
	Phone            string              // reservations.phone
	Email            string              // reservations.email
	Date             string              // reservations.date
	StartTime        string              // reservations.start_time
	EndTime          string              // reservations.end_time
	Status           ReservationStatus   // reservations.status
	RejectionReason  *string             // reservations.rejection_reason (nullable)
	TotalPrice       int                 // reservations.total_price
	TotalTicketCount int                 // reservations.total_ticket_count
	CreatedAt        time.Time           // reservations.created_at
	UpdatedAt        time.Time           // reservations.updated_at
	Tickets          []ReservationTicket // owned line items
}

// ReservationTicket is a line item binding a reservation to a ticket
// tier with a requested quantity.
type ReservationTicket struct {
	ID            uint64 // reservation_tickets.id
	ReservationID uint64 // reservation_tickets.reservation_id
	TicketID      uint64 // reservation_tickets.ticket_id
	Quantity      int    // reservation_tickets.quantity
	TicketName    string // joined from tickets.name for views
	TicketPrice   int    // joined from tickets.price for views
}

// TicketLine is one (ticketId, quantity) pair of a creation request.
type TicketLine struct {
	TicketID uint64
	Quantity int
}

// ComputeTotals sums price and quantity over the requested lines using
// the resolved ticket map. Ticket IDs absent from the map are collected
// in missing; when missing is non-empty the totals are meaningless and
// the caller must fail the request.
func ComputeTotals(lines []TicketLine, tickets map[uint64]Ticket) (totalPrice, totalCount int, missing []uint64) {
	for _, line := range lines {
		t, ok := tickets[line.TicketID]
		if !ok {
			missing = append(missing, line.TicketID)
			continue
		}
		totalPrice += t.Price * line.Quantity
		totalCount += line.Quantity
	}
	return totalPrice, totalCount, missing
}

// ReservationEffect is the set of balance and inventory deltas a
// reservation applies when created. The refund on cancel/reject is its
// exact inverse, restoring pre-reservation state.
type ReservationEffect struct {
	QuantityDelta    int // applied to product.quantity
	BuyerPointDelta  int // applied to buyer.point
	SellerPointDelta int // applied to seller.point
}

// CreateEffect returns the deltas applied when a reservation with the
// given totals is created: inventory and buyer funds go down, seller
// earnings go up.
func CreateEffect(totalPrice, totalCount int) ReservationEffect {
	return ReservationEffect{
		QuantityDelta:    -totalCount,
		BuyerPointDelta:  -totalPrice,
		SellerPointDelta: totalPrice,
	}
}

// Inverse returns the effect that undoes e.
func (e ReservationEffect) Inverse() ReservationEffect {
	return ReservationEffect{
		QuantityDelta:    -e.QuantityDelta,
		BuyerPointDelta:  -e.BuyerPointDelta,
		SellerPointDelta: -e.SellerPointDelta,
	}
}

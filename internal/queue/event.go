// Package queue defines message payloads exchanged over the message broker.
package queue

// Reservation lifecycle event types.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationRejected  = "reservation.rejected"
	EventReservationCanceled  = "reservation.canceled"
)

// ReservationQueueName is the durable queue all lifecycle events go to.
const ReservationQueueName = "reservation.events"

// ReservationEvent is published whenever a reservation changes state. It
// carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type ReservationEvent struct {
	EventID          string `json:"event_id"`
	Type             string `json:"type"`
	ReservationID    uint64 `json:"reservation_id"`
	ProductID        uint64 `json:"product_id"`
	ProductName      string `json:"product_name"`
	BuyerID          uint64 `json:"buyer_id"`
	SellerID         uint64 `json:"seller_id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	TotalPrice       int    `json:"total_price"`
	TotalTicketCount int    `json:"total_ticket_count"`
	OccurredAt       string `json:"occurred_at"`
}

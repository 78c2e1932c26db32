package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationEventJSON(t *testing.T) {
	ev := ReservationEvent{
		EventID:          "e-1",
		Type:             EventReservationCreated,
		ReservationID:    7,
		ProductID:        3,
		ProductName:      "Seoul walking tour",
		BuyerID:          42,
		SellerID:         9,
		Date:             "2026-09-01",
		StartTime:        "10:00",
		EndTime:          "12:00",
		TotalPrice:       1000,
		TotalTicketCount: 2,
		OccurredAt:       "2026-08-28T10:00:00Z",
	}

	body, err := json.Marshal(ev)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "reservation.created", got["type"])
	assert.Equal(t, float64(7), got["reservation_id"])
	assert.Equal(t, float64(1000), got["total_price"])
	assert.Equal(t, "10:00", got["start_time"])

	var round ReservationEvent
	require.NoError(t, json.Unmarshal(body, &round))
	assert.Equal(t, ev, round)
}

func TestFormatEventLine(t *testing.T) {
	ev := ReservationEvent{
		Type:             EventReservationCanceled,
		ReservationID:    7,
		ProductID:        3,
		ProductName:      "Seoul walking tour",
		BuyerID:          42,
		SellerID:         9,
		Date:             "2026-09-01",
		StartTime:        "10:00",
		EndTime:          "12:00",
		TotalPrice:       1000,
		TotalTicketCount: 2,
		OccurredAt:       "2026-08-28T10:00:00Z",
	}

	line := FormatEventLine(ev)
	assert.Contains(t, line, "reservation.canceled")
	assert.Contains(t, line, "reservation=7")
	assert.Contains(t, line, "product=3(Seoul walking tour)")
	assert.Contains(t, line, "slot=2026-09-01 10:00-12:00")
	assert.Contains(t, line, "tickets=2 total=1000")
}

func TestFormatEventLineAllDay(t *testing.T) {
	ev := ReservationEvent{
		Type:          EventReservationCreated,
		ReservationID: 8,
		Date:          "2026-09-02",
	}
	line := FormatEventLine(ev)
	assert.Contains(t, line, "slot=2026-09-02 |")
}

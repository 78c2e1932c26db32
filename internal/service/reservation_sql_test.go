package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/queue"
)

func scheduledProduct() *model.Product {
	return &model.Product{
		ID:       3,
		MemberID: 9,
		OperationDays: []model.OperationDay{
			{Date: "2026-09-01", Hours: []model.OperationHour{
				{StartTime: "10:00", EndTime: "12:00"},
				{StartTime: "14:00", EndTime: "16:00"},
			}},
			{Date: "2026-09-02", Hours: model.DefaultHours()},
		},
	}
}

func TestCheckSlot(t *testing.T) {
	p := scheduledProduct()

	t.Run("exact window matches", func(t *testing.T) {
		assert.NoError(t, checkSlot(p, "2026-09-01", "10:00", "12:00"))
		assert.NoError(t, checkSlot(p, "2026-09-01", "14:00", "16:00"))
	})

	t.Run("unset pair matches the all-day window", func(t *testing.T) {
		assert.NoError(t, checkSlot(p, "2026-09-02", "", ""))
	})

	t.Run("unset pair fails on a day with explicit windows", func(t *testing.T) {
		assert.ErrorIs(t, checkSlot(p, "2026-09-01", "", ""), ErrProductNotAvailable)
	})

	t.Run("date without schedule fails", func(t *testing.T) {
		assert.ErrorIs(t, checkSlot(p, "2026-09-03", "10:00", "12:00"), ErrProductNotAvailable)
	})

	t.Run("overlapping but inexact window fails", func(t *testing.T) {
		assert.ErrorIs(t, checkSlot(p, "2026-09-01", "10:00", "11:00"), ErrProductNotAvailable)
		assert.ErrorIs(t, checkSlot(p, "2026-09-01", "09:00", "12:00"), ErrProductNotAvailable)
	})

	t.Run("half-set pair fails", func(t *testing.T) {
		assert.ErrorIs(t, checkSlot(p, "2026-09-01", "10:00", ""), ErrProductNotAvailable)
	})
}

func TestEventType(t *testing.T) {
	assert.Equal(t, queue.EventReservationConfirmed, eventType(model.StatusConfirmed))
	assert.Equal(t, queue.EventReservationRejected, eventType(model.StatusRejected))
	assert.Equal(t, queue.EventReservationCanceled, eventType(model.StatusCanceled))
	assert.Equal(t, queue.EventReservationCreated, eventType(model.StatusPending))
}

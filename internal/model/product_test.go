package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWindow(t *testing.T) {
	t.Run("both empty becomes all-day window", func(t *testing.T) {
		start, end := NormalizeWindow("", "")
		assert.Equal(t, DefaultWindowStart, start)
		assert.Equal(t, DefaultWindowEnd, end)
	})

	t.Run("set pair is untouched", func(t *testing.T) {
		start, end := NormalizeWindow("10:00", "12:00")
		assert.Equal(t, "10:00", start)
		assert.Equal(t, "12:00", end)
	})

	t.Run("half-set pair is untouched", func(t *testing.T) {
		start, end := NormalizeWindow("10:00", "")
		assert.Equal(t, "10:00", start)
		assert.Equal(t, "", end)
	})
}

func TestFindOperationDay(t *testing.T) {
	p := Product{
		OperationDays: []OperationDay{
			{Date: "2026-09-01", Hours: []OperationHour{{StartTime: "09:00", EndTime: "12:00"}}},
			{Date: "2026-09-02", Hours: DefaultHours()},
		},
	}

	day := p.FindOperationDay("2026-09-01")
	require.NotNil(t, day)
	assert.Equal(t, "2026-09-01", day.Date)

	assert.Nil(t, p.FindOperationDay("2026-09-03"))
}

func TestHasWindow(t *testing.T) {
	day := OperationDay{
		Date: "2026-09-01",
		Hours: []OperationHour{
			{StartTime: "09:00", EndTime: "12:00"},
			{StartTime: "14:00", EndTime: "18:00"},
		},
	}

	assert.True(t, day.HasWindow("09:00", "12:00"))
	assert.True(t, day.HasWindow("14:00", "18:00"))

	// Matching is exact tuple equality, not containment or overlap.
	assert.False(t, day.HasWindow("09:00", "11:00"))
	assert.False(t, day.HasWindow("10:00", "12:00"))
	assert.False(t, day.HasWindow("09:00", "18:00"))
}

func TestDefaultHours(t *testing.T) {
	hours := DefaultHours()
	require.Len(t, hours, 1)
	assert.Equal(t, DefaultWindowStart, hours[0].StartTime)
	assert.Equal(t, DefaultWindowEnd, hours[0].EndTime)

	// A day without explicit hours matches only the all-day window after
	// normalization.
	day := OperationDay{Date: "2026-09-02", Hours: hours}
	start, end := NormalizeWindow("", "")
	assert.True(t, day.HasWindow(start, end))
	assert.False(t, day.HasWindow("09:00", "12:00"))
}

func TestOperationDayEqual(t *testing.T) {
	a := OperationDay{Date: "2026-09-01", Hours: []OperationHour{{StartTime: "09:00", EndTime: "12:00"}}}
	b := OperationDay{Date: "2026-09-01"}
	c := OperationDay{Date: "2026-09-02"}

	// Equality looks at the date only; hours do not participate.
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTicketEqual(t *testing.T) {
	a := Ticket{Name: "adult", Price: 500}
	assert.True(t, a.Equal(Ticket{Name: "adult", Price: 500}))
	assert.False(t, a.Equal(Ticket{Name: "adult", Price: 400}))
	assert.False(t, a.Equal(Ticket{Name: "child", Price: 500}))
}

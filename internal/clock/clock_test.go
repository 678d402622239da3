// internal/clock/clock_test.go
package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDateIsMidnightUTC(t *testing.T) {
	d := Date(2025, time.March, 15)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, time.UTC, d.Location())
}

func TestDaysBetween(t *testing.T) {
	start := Date(2025, time.January, 1)

	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 1, DaysBetween(start, Date(2025, time.January, 2)))
	assert.Equal(t, 31, DaysBetween(start, Date(2025, time.February, 1)))
	assert.Equal(t, -1, DaysBetween(start, Date(2024, time.December, 31)))
}

func TestDaysBetweenRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.IntRange(-1000, 1000).Draw(t, "days")
		start := Date(2025, time.June, 1)
		end := start.AddDate(0, 0, days)
		assert.Equal(t, days, DaysBetween(start, end))
	})
}

func TestFixedAdvance(t *testing.T) {
	clk := NewFixed(Date(2025, time.January, 1))
	assert.Equal(t, Date(2025, time.January, 1), clk.Today())

	clk.Advance(30)
	assert.Equal(t, Date(2025, time.January, 31), clk.Today())

	clk.Set(Date(2026, time.July, 4))
	assert.Equal(t, Date(2026, time.July, 4), clk.Today())
}

func TestSystemTodayIsDateOnly(t *testing.T) {
	today := System{}.Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, time.UTC, today.Location())
}

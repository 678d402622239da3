// internal/clock/clock.go
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current calendar date. Services depend on this
// interface instead of time.Now so tests can pin or advance the date.
type Clock interface {
	Today() time.Time
}

// Date builds a calendar date at midnight UTC. All dates flowing through
// the lending engine are normalized this way so day arithmetic is exact.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one date to another.
// Both arguments must be midnight-UTC dates as produced by Date.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// System is the production clock backed by the wall clock.
type System struct{}

func (System) Today() time.Time {
	now := time.Now().UTC()
	return Date(now.Year(), now.Month(), now.Day())
}

// Fixed is a settable clock for deterministic tests.
type Fixed struct {
	mu    sync.Mutex
	today time.Time
}

// NewFixed creates a fixed clock pinned to the given date.
func NewFixed(today time.Time) *Fixed {
	return &Fixed{today: today}
}

func (f *Fixed) Today() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.today
}

// Advance moves the clock forward by the given number of days.
func (f *Fixed) Advance(days int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.today = f.today.AddDate(0, 0, days)
}

// Set pins the clock to an exact date.
func (f *Fixed) Set(today time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.today = today
}

// internal/eventlog/memory.go
package eventlog

import (
	"context"
	"sync"
)

// Memory is an in-process Log used by tests and demo mode.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	events []Event
}

// NewMemory creates an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) Append(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.ID = m.nextID
	m.nextID++
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) ByAggregate(_ context.Context, aggregateID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []Event
	for _, event := range m.events {
		if event.AggregateID == aggregateID {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

// All returns every recorded event in append order.
func (m *Memory) All() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// internal/eventlog/eventlog.go

// Package eventlog keeps an append-only audit record of domain events.
// It is a journal, not an event-sourced store: services write to it after
// their state changes succeed and read models are never rebuilt from it.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Event is a single audit record.
type Event struct {
	ID            int64           `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	EventData     json.RawMessage `json:"event_data"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Log is the append-only sink services write to.
type Log interface {
	Append(ctx context.Context, event Event) error
	ByAggregate(ctx context.Context, aggregateID string) ([]Event, error)
}

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Record marshals a payload and appends it as an event.
func Record(ctx context.Context, log Log, aggregateID, aggregateType, eventType string, payload any) error {
	data, err := codec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	return log.Append(ctx, Event{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		EventData:     data,
		CreatedAt:     time.Now().UTC(),
	})
}

// internal/eventlog/postgres.go
package eventlog

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Postgres stores the audit log in an events table.
type Postgres struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewPostgres creates a Postgres-backed log.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:     db,
		tracer: otel.Tracer("libralend/eventlog"),
	}
}

func (p *Postgres) Append(ctx context.Context, event Event) error {
	ctx, span := p.tracer.Start(ctx, "eventlog.append",
		trace.WithAttributes(
			attribute.String("aggregate.id", event.AggregateID),
			attribute.String("aggregate.type", event.AggregateType),
			attribute.String("event.type", event.EventType),
		),
	)
	defer span.End()

	query := `
		INSERT INTO events (aggregate_id, aggregate_type, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := p.db.ExecContext(ctx, query,
		event.AggregateID, event.AggregateType, event.EventType, []byte(event.EventData), event.CreatedAt)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (p *Postgres) ByAggregate(ctx context.Context, aggregateID string) ([]Event, error) {
	ctx, span := p.tracer.Start(ctx, "eventlog.load",
		trace.WithAttributes(attribute.String("aggregate.id", aggregateID)),
	)
	defer span.End()

	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, event_data, created_at
		FROM events
		WHERE aggregate_id = $1
		ORDER BY id ASC
	`
	rows, err := p.db.QueryContext(ctx, query, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID,
			&event.AggregateID,
			&event.AggregateType,
			&event.EventType,
			&event.EventData,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

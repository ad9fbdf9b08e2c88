package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type EventParams struct {
	Type *EventType
	From *time.Time
	To   *time.Time
}

type ListParams struct {
	EventParams
	Page int
	Size int
}

// Repo is the durable event log, backed by the gymstats_event table.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.events.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("type", event.Type.String()))

	if event.Data == nil {
		event.Data = map[string]string{}
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO gymstats_event (type, data, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		event.Type.String(),
		event.Data,
		event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	if params.Type != nil {
		span.SetAttributes(attribute.String("type", string(*params.Type)))
	}
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	if params.Page < 1 {
		return nil, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, errors.New("size must be greater than 0")
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, type, data, timestamp
		FROM gymstats_event
		WHERE ($1::text = '' OR type = $1)
		  AND ($2::timestamptz IS NULL OR timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR timestamp <= $3)
		ORDER BY timestamp DESC, id DESC
		LIMIT $4 OFFSET $5;
	`,
		typeFilter(params.Type),
		params.From, params.To,
		params.Size, params.Size*(params.Page-1),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var event Event
		var eventType string
		if err := rows.Scan(&event.ID, &eventType, &event.Data, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Type = EventType(eventType)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *Repo) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.events.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM gymstats_event
		WHERE ($1::text = '' OR type = $1)
		  AND ($2::timestamptz IS NULL OR timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR timestamp <= $3);
	`,
		typeFilter(params.Type),
		params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func typeFilter(t *EventType) string {
	if t == nil {
		return ""
	}
	return t.String()
}

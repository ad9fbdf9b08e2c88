package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=events_test

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	List(ctx context.Context, params ListParams) ([]Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

// Listener is called synchronously for every published event of the type it subscribed to.
// Listeners must not publish events or call back into the publisher.
type Listener func(ctx context.Context, event Event)

type Service struct {
	// nil repo means events are only dispatched, not recorded
	repo eventsRepo

	mu        sync.RWMutex
	listeners map[EventType][]Listener
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo:      repo,
		listeners: make(map[EventType][]Listener),
	}
}

func (s *Service) Subscribe(eventType EventType, listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[eventType] = append(s.listeners[eventType], listener)
}

// Publish records the event in the event log and dispatches it to the subscribed listeners.
// Listeners are notified even when recording fails, the recording error is returned.
func (s *Service) Publish(ctx context.Context, event Event) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.publish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("type", event.Type.String()))

	if !event.Type.IsValid() {
		return fmt.Errorf("invalid event type: %s", event.Type)
	}

	if s.repo != nil {
		recorded, addErr := s.repo.Add(ctx, event)
		if addErr != nil {
			log.Errorf("record event %s: %s", event.Type, addErr)
			err = fmt.Errorf("record event %s: %w", event.Type, addErr)
		} else {
			event.ID = recorded.ID
		}
	}

	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners[event.Type]...)
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(ctx, event)
	}

	return err
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.repo == nil {
		return []Event{}, nil
	}

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.repo == nil {
		return 0, nil
	}

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

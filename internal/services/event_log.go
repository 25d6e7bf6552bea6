package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/database"
	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
)

const (
	// VisitorsKey holds the JSON array of visitor records.
	VisitorsKey = "visitors"
	// ClickEventsKey holds the JSON array of click events.
	ClickEventsKey = "click-events"
)

// ErrInvalidDateRange is returned when a query's start is after its end.
var ErrInvalidDateRange = errors.New("start date is after end date")

// Timestamped is any event that can be filtered by time.
type Timestamped interface {
	RecordedAt() time.Time
}

// EventLog is an append-only JSON array stored under a single key.
//
// Appends are read-modify-write against the backend. The mutex serializes
// them within this process only; two instances appending at the same time can
// still lose a write.
type EventLog[T Timestamped] struct {
	kv  database.KV
	key string
	mu  sync.Mutex
}

func NewEventLog[T Timestamped](kv database.KV, key string) *EventLog[T] {
	return &EventLog[T]{kv: kv, key: key}
}

// Append adds ev to the end of the log.
func (l *EventLog[T]) Append(ctx context.Context, ev T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.load(ctx)
	if err != nil {
		return err
	}
	events = append(events, ev)
	return l.save(ctx, events)
}

// All returns every event in insertion order.
func (l *EventLog[T]) All(ctx context.Context) ([]T, error) {
	return l.load(ctx)
}

// Between returns the events with start <= RecordedAt() <= end.
// A nil bound leaves that side open.
func (l *EventLog[T]) Between(ctx context.Context, start, end *time.Time) ([]T, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, ErrInvalidDateRange
	}
	events, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByTime(events, start, end), nil
}

// Clear replaces the log with an empty array.
func (l *EventLog[T]) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(ctx, []T{})
}

func (l *EventLog[T]) load(ctx context.Context) ([]T, error) {
	raw, err := l.kv.Get(ctx, l.key)
	if err != nil {
		metrics.BackendErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("load %s: %w", l.key, err)
	}
	events := []T{}
	if len(raw) == 0 {
		return events, nil
	}
	if err := json.Unmarshal(raw, &events); err != nil {
		metrics.BackendErrors.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("decode %s: %w", l.key, err)
	}
	return events, nil
}

func (l *EventLog[T]) save(ctx context.Context, events []T) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.key, err)
	}
	if err := l.kv.Set(ctx, l.key, data); err != nil {
		metrics.BackendErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("save %s: %w", l.key, err)
	}
	return nil
}

// FilterByTime keeps events inside the inclusive [start, end] window.
func FilterByTime[T Timestamped](events []T, start, end *time.Time) []T {
	out := make([]T, 0, len(events))
	for _, ev := range events {
		ts := ev.RecordedAt()
		if start != nil && ts.Before(*start) {
			continue
		}
		if end != nil && ts.After(*end) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

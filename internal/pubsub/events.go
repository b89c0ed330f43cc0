package pubsub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types
const (
	EventUserLoggedIn    = "user.logged_in"
	EventUserRegistered  = "user.registered"
	EventLessonCompleted = "lesson.completed"
)

// Event is the JSON envelope published for every domain event.
type Event struct {
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Topics maps event types to Pub/Sub topic names.
type Topics map[string]string

// publishTimeout bounds a single background publish.
const publishTimeout = 10 * time.Second

// EventEmitter publishes domain events in the background, without blocking or
// failing the caller.
type EventEmitter struct {
	publisher Publisher
	topics    Topics
	timeout   time.Duration
	wg        sync.WaitGroup
	logger    zerolog.Logger
}

func NewEventEmitter(publisher Publisher, topics Topics, logger zerolog.Logger) *EventEmitter {
	return &EventEmitter{
		publisher: publisher,
		topics:    topics,
		timeout:   publishTimeout,
		logger:    logger.With().Str("component", "EventEmitter").Logger(),
	}
}

// Emit queues e for the topic mapped to its type and returns at once. The
// publish keeps the request's values but not its cancellation, so it outlives
// the response. Failures are logged only.
func (e *EventEmitter) Emit(ctx context.Context, ev Event) {
	if e == nil || e.publisher == nil {
		return
	}
	topic, ok := e.topics[ev.Type]
	if !ok || topic == "" {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		e.logger.Error().Err(err).Str("event", ev.Type).Msg("Failed to marshal event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		if _, err := e.publisher.Publish(pubCtx, topic, payload); err != nil {
			e.logger.Warn().Err(err).Str("event", ev.Type).Str("topic", topic).Msg("Failed to publish event")
		}
	}()
}

// Close waits for in-flight publishes. Call it before closing the publisher.
func (e *EventEmitter) Close() {
	if e == nil {
		return
	}
	e.wg.Wait()
}

package pubsub

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects publishes.
var ErrCircuitOpen = errors.New("event publisher circuit is open")

// BreakerPublisher stops calling the wrapped publisher after consecutive failures
// and retries once the open timeout has elapsed.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[string]
}

func NewBreakerPublisher(next Publisher, failures uint32, timeout time.Duration, logger zerolog.Logger) *BreakerPublisher {
	if failures == 0 {
		failures = 1
	}
	settings := gobreaker.Settings{
		Name:        "pubsub",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}
	return &BreakerPublisher{next: next, breaker: gobreaker.NewCircuitBreaker[string](settings)}
}

func (p *BreakerPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	id, err := p.breaker.Execute(func() (string, error) {
		return p.next.Publish(ctx, topic, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrCircuitOpen
	}
	return id, err
}

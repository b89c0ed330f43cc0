package service

import (
	"context"

	"streamlearn/internal/pubsub"
)

// EventSink receives domain events. *pubsub.EventEmitter implements it.
type EventSink interface {
	Emit(ctx context.Context, ev pubsub.Event)
}

type noopSink struct{}

func (noopSink) Emit(context.Context, pubsub.Event) {}

func sinkOrNoop(s EventSink) EventSink {
	if s == nil {
		return noopSink{}
	}
	return s
}

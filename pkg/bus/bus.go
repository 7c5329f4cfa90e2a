// Package bus implements the synchronous in-process publish/subscribe
// mechanism agents emit their lifecycle and telemetry events on.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kiidfreak/Ag3nt-05/pkg/core"
	"github.com/kiidfreak/Ag3nt-05/pkg/errors"
)

// Handler consumes one event. A returned error (or panic) is isolated to
// the handler: remaining handlers still run and the publisher never sees it.
type Handler func(ctx context.Context, evt core.Event) error

// FailureFunc receives a handler failure after it has been isolated.
type FailureFunc func(ctx context.Context, evt core.Event, err error)

// Bus is an in-process event register keyed by event type. Events are
// delivered at most once, synchronously at publish time, to the handlers
// registered at that moment, in subscription order.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[core.EventType][]Handler
	onFailure FailureFunc
	logger    *slog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for isolated handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[core.EventType][]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for an event type. Multiple handlers may
// subscribe to the same type.
func (b *Bus) Subscribe(eventType core.EventType, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
	b.mu.Unlock()
}

// OnDeliveryFailure installs the sink for isolated handler failures. The
// lifecycle controller routes these through its structured log pipeline.
func (b *Bus) OnDeliveryFailure(f FailureFunc) {
	b.mu.Lock()
	b.onFailure = f
	b.mu.Unlock()
}

// Publish delivers evt to every handler registered for its type. With no
// subscribers it is a no-op. A failing handler does not abort delivery to
// subsequent handlers and its failure never propagates to the caller.
func (b *Bus) Publish(ctx context.Context, evt core.Event) {
	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	onFailure := b.onFailure
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := deliver(ctx, h, evt); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				slog.String("event_type", string(evt.Type)),
				slog.Any("error", err),
			)
			if onFailure != nil {
				onFailure(ctx, evt, err)
			}
		}
	}
}

func deliver(ctx context.Context, h Handler, evt core.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.CodeHandler, "event handler panicked",
				fmt.Errorf("%v", r)).
				WithContext("event_type", string(evt.Type))
		}
	}()
	if herr := h(ctx, evt); herr != nil {
		return errors.New(errors.CodeHandler, "event handler failed", herr).
			WithContext("event_type", string(evt.Type))
	}
	return nil
}

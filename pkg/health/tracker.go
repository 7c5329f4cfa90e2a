// Package health tracks an agent's health snapshot and the probes that
// feed it.
package health

import (
	"context"
	"sync"

	"github.com/kiidfreak/Ag3nt-05/pkg/core"
)

// Publisher receives the health:updated event after every merge.
type Publisher interface {
	Publish(ctx context.Context, evt core.Event)
}

// Tracker holds one agent's health snapshot. Status replaces wholesale on
// update; details and metrics merge key-by-key with last write winning and
// omitted keys retained. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	health    core.AgentHealth
	publisher Publisher
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPublisher attaches the event sink notified on every update.
func WithPublisher(p Publisher) Option {
	return func(t *Tracker) {
		t.publisher = p
	}
}

// NewTracker creates a tracker starting in the healthy state.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		health: core.AgentHealth{
			Status:  core.HealthHealthy,
			Details: make(map[string]any),
			Metrics: make(map[string]float64),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update merges the given pieces into the snapshot. An empty status keeps
// the current one; nil details or metrics leave that mapping untouched.
// Every update emits health:updated carrying the full resulting snapshot.
func (t *Tracker) Update(ctx context.Context, status core.HealthStatus, details map[string]any, metrics map[string]float64) {
	t.mu.Lock()
	if status != "" {
		t.health.Status = status
	}
	for k, v := range details {
		t.health.Details[k] = v
	}
	for k, v := range metrics {
		t.health.Metrics[k] = v
	}
	snapshot := t.copyLocked()
	t.mu.Unlock()

	if t.publisher != nil {
		t.publisher.Publish(ctx, core.NewEvent(core.EventHealthUpdated, map[string]any{
			"status":  string(snapshot.Status),
			"details": snapshot.Details,
			"metrics": snapshot.Metrics,
		}))
	}
}

// Snapshot returns a defensive copy of the current health.
func (t *Tracker) Snapshot() core.AgentHealth {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copyLocked()
}

func (t *Tracker) copyLocked() core.AgentHealth {
	details := make(map[string]any, len(t.health.Details))
	for k, v := range t.health.Details {
		details[k] = v
	}
	metrics := make(map[string]float64, len(t.health.Metrics))
	for k, v := range t.health.Metrics {
		metrics[k] = v
	}
	return core.AgentHealth{
		Status:  t.health.Status,
		Details: details,
		Metrics: metrics,
	}
}

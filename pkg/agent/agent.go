// Package agent implements the lifecycle controller that wraps a concrete
// agent's hooks with schema validation, timing, health tracking and event
// emission.
package agent

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kiidfreak/Ag3nt-05/pkg/bus"
	"github.com/kiidfreak/Ag3nt-05/pkg/core"
	"github.com/kiidfreak/Ag3nt-05/pkg/errors"
	"github.com/kiidfreak/Ag3nt-05/pkg/health"
	"github.com/kiidfreak/Ag3nt-05/pkg/manifest"
	"github.com/kiidfreak/Ag3nt-05/pkg/schema"
	"github.com/kiidfreak/Ag3nt-05/pkg/telemetry"
)

// ErrNotRunning is returned by Execute outside the running state.
var ErrNotRunning = errors.New(errors.CodeNotRunning, "agent is not running", nil)

// Agent orchestrates one concrete agent through its lifecycle. It validates
// task input and output against the manifest schemas, emits lifecycle events
// on the bus, and keeps the health snapshot. The concrete hooks never see
// these concerns.
type Agent struct {
	manifest manifest.Manifest
	hooks    core.Hooks

	bus     *bus.Bus
	health  *health.Tracker
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.TaskMetrics
	now     func() time.Time

	mu      sync.RWMutex
	running bool
	context core.AgentContext
	config  map[string]any
}

// Option configures an Agent instance.
type Option func(*Agent)

// WithBus attaches an existing event bus instead of a private one.
func WithBus(b *bus.Bus) Option {
	return func(a *Agent) { a.bus = b }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTracer sets the tracer used for task spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Agent) { a.tracer = tracer }
}

// WithMetrics attaches task metrics recording.
func WithMetrics(m *telemetry.TaskMetrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an agent from a manifest and its hooks. The manifest is
// structurally validated here; a missing required field is fatal.
func New(m manifest.Manifest, hooks core.Hooks, opts ...Option) (*Agent, error) {
	if hooks == nil {
		return nil, stderrors.New("agent hooks are required")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	a := &Agent{
		manifest: m,
		hooks:    hooks,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.bus == nil {
		a.bus = bus.New(bus.WithLogger(a.logger))
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer("ag3nt/agent")
	}
	if a.health == nil {
		a.health = health.NewTracker(health.WithPublisher(a.bus))
	}
	a.bus.OnDeliveryFailure(a.reportHandlerFailure)
	return a, nil
}

// Initialize moves the agent into the running state. The caller config is
// merged on top of the manifest's config defaults, caller values winning on
// key conflict. The OnInitialize hook runs before agent:initialized is
// emitted; its failure propagates to the caller without retry.
func (a *Agent) Initialize(ctx context.Context, agentCtx core.AgentContext, cfg map[string]any) error {
	merged := make(map[string]any, len(a.manifest.Config)+len(cfg))
	for k, v := range a.manifest.Config {
		merged[k] = v
	}
	for k, v := range cfg {
		merged[k] = v
	}

	a.mu.Lock()
	a.context = agentCtx
	a.config = merged
	a.running = true
	a.mu.Unlock()

	if err := a.hooks.OnInitialize(ctx); err != nil {
		return err
	}

	a.publish(ctx, core.EventAgentInitialized, map[string]any{
		"agent_id": a.manifest.ID,
		"context": map[string]any{
			"agent_id":   agentCtx.AgentID,
			"session_id": agentCtx.SessionID,
			"user_id":    agentCtx.UserID,
			"metadata":   agentCtx.Metadata,
		},
	})
	return nil
}

// Execute runs one task through validate input, invoke hook, validate
// output. It emits exactly one task:started event followed by exactly one
// terminal event (task:completed or task:failed) per call. Failures are
// reported on the bus and then returned to the caller unchanged; the
// controller never swallows or retries them.
func (a *Agent) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	if !a.Running() {
		return nil, ErrNotRunning
	}

	taskID := uuid.NewString()
	start := a.now()
	ctx = core.WithTaskID(ctx, taskID)

	ctx, span := a.tracer.Start(ctx, "agent.execute", trace.WithAttributes(
		attribute.String(telemetry.AttrAgentID, a.manifest.ID),
		attribute.String(telemetry.AttrTaskID, taskID),
	))
	defer span.End()

	a.publish(ctx, core.EventTaskStarted, map[string]any{
		"task_id":  taskID,
		"input":    input,
		"agent_id": a.manifest.ID,
	})

	result, err := a.runTask(ctx, input)
	elapsed := float64(a.now().Sub(start)) / float64(time.Millisecond)

	if err != nil {
		a.publish(ctx, core.EventTaskFailed, map[string]any{
			"task_id":           taskID,
			"error_message":     err.Error(),
			"execution_time_ms": elapsed,
			"agent_id":          a.manifest.ID,
		})
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		a.metrics.RecordTask(ctx, a.manifest.ID, "failed", elapsed)
		return nil, err
	}

	a.publish(ctx, core.EventTaskCompleted, map[string]any{
		"task_id":           taskID,
		"result":            result,
		"execution_time_ms": elapsed,
		"agent_id":          a.manifest.ID,
	})
	span.SetStatus(otelcodes.Ok, "")
	a.metrics.RecordTask(ctx, a.manifest.ID, "completed", elapsed)
	return result, nil
}

func (a *Agent) runTask(ctx context.Context, input map[string]any) (map[string]any, error) {
	if err := schema.ValidateInput(input, a.manifest.Inputs); err != nil {
		return nil, err
	}
	result, err := a.hooks.OnExecute(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateOutput(result, a.manifest.Outputs); err != nil {
		return nil, err
	}
	return result, nil
}

// Shutdown leaves the running state, awaits the OnShutdown hook and emits
// agent:shutdown. Calling it twice invokes the hook twice; guarding against
// that is the caller's responsibility.
func (a *Agent) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	a.running = false
	a.mu.Unlock()

	if err := a.hooks.OnShutdown(ctx); err != nil {
		return err
	}
	a.publish(ctx, core.EventAgentShutdown, map[string]any{
		"agent_id": a.manifest.ID,
	})
	return nil
}

// Log writes a structured record to the logger and always emits a log
// event, regardless of level.
func (a *Agent) Log(ctx context.Context, level core.LogLevel, msg string, data map[string]any) {
	sessionID := a.Context().SessionID

	a.logger.LogAttrs(ctx, level.Slog(), msg,
		slog.String(telemetry.AttrAgentID, a.manifest.ID),
		slog.String(telemetry.AttrSessionID, sessionID),
		slog.Any("data", data),
	)

	a.publish(ctx, core.EventLog, map[string]any{
		"level":      string(level),
		"message":    msg,
		"data":       data,
		"timestamp":  a.now().UTC().Format(time.RFC3339Nano),
		"agent_id":   a.manifest.ID,
		"session_id": sessionID,
	})
}

// PublishEvent broadcasts a domain event from the concrete agent, wrapped
// under the fixed type event:published so user events stay on a channel
// separate from lifecycle events.
func (a *Agent) PublishEvent(ctx context.Context, eventType string, data any, correlationID string) {
	evt := core.AgentEvent{
		Type:          eventType,
		Data:          data,
		Timestamp:     a.now().UTC(),
		CorrelationID: correlationID,
	}
	a.publish(ctx, core.EventPublished, map[string]any{
		"type":           evt.Type,
		"data":           evt.Data,
		"timestamp":      evt.Timestamp,
		"correlation_id": evt.CorrelationID,
	})
}

// UpdateHealth merges the given pieces into the health snapshot and emits
// health:updated. An empty status keeps the current one.
func (a *Agent) UpdateHealth(ctx context.Context, status core.HealthStatus, details map[string]any, metrics map[string]float64) {
	a.health.Update(ctx, status, details, metrics)
	a.metrics.RecordHealth(ctx, a.manifest.ID, a.health.Snapshot().Status)
}

// Health returns a copy of the current health snapshot.
func (a *Agent) Health() core.AgentHealth {
	return a.health.Snapshot()
}

// On subscribes a handler to an event type on the agent's bus.
func (a *Agent) On(eventType core.EventType, h bus.Handler) {
	a.bus.Subscribe(eventType, h)
}

// Bus returns the agent's event bus.
func (a *Agent) Bus() *bus.Bus { return a.bus }

// Manifest returns the agent manifest.
func (a *Agent) Manifest() manifest.Manifest { return a.manifest }

// Running reports whether the agent is between Initialize and Shutdown.
func (a *Agent) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Context returns the session context stored at initialization.
func (a *Agent) Context() core.AgentContext {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.context
}

// Config returns a copy of the merged configuration.
func (a *Agent) Config() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	cfg := make(map[string]any, len(a.config))
	for k, v := range a.config {
		cfg[k] = v
	}
	return cfg
}

func (a *Agent) publish(ctx context.Context, eventType core.EventType, payload map[string]any) {
	a.bus.Publish(ctx, core.Event{
		Type:      eventType,
		Timestamp: a.now().UTC(),
		Payload:   payload,
	})
}

// reportHandlerFailure routes isolated subscriber failures through the
// structured log pipeline. Failures while delivering a log event stop at
// the plain logger so the reporting path cannot feed itself.
func (a *Agent) reportHandlerFailure(ctx context.Context, evt core.Event, err error) {
	a.metrics.RecordHandlerFailure(ctx, string(evt.Type))
	if evt.Type == core.EventLog {
		a.logger.ErrorContext(ctx, "log event handler failed",
			slog.String(telemetry.AttrAgentID, a.manifest.ID),
			slog.Any("error", err),
		)
		return
	}
	a.Log(ctx, core.LogError,
		fmt.Sprintf("error in event handler for %s", evt.Type),
		map[string]any{"error": err.Error()},
	)
}

// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kiidfreak/Ag3nt-05/pkg/core"
)

// Semantic conventions for agent telemetry.
const (
	AttrAgentID   = "agent.id"
	AttrSessionID = "agent.session.id"
	AttrTaskID    = "agent.task.id"
	AttrTaskState = "agent.task.state"
	AttrEventType = "agent.event.type"
)

// TaskMetrics tracks task throughput, latency and health for an agent
// runtime. A nil *TaskMetrics is safe to call; every method no-ops.
type TaskMetrics struct {
	// tasksTotal counts finished tasks by agent and terminal state.
	tasksTotal metric.Int64Counter

	// taskDuration records task wall time in milliseconds.
	taskDuration metric.Float64Histogram

	// healthStatus tracks agent health (0=unhealthy, 1=degraded, 2=healthy).
	healthStatus metric.Int64Gauge

	// handlerFailures counts isolated event handler failures.
	handlerFailures metric.Int64Counter
}

// NewTaskMetrics creates a task metrics tracker with OTEL meters.
func NewTaskMetrics() (*TaskMetrics, error) {
	meter := otel.Meter("ag3nt/agent")

	tasksTotal, err := meter.Int64Counter(
		"agent.tasks.total",
		metric.WithDescription("Finished tasks by agent and terminal state"),
	)
	if err != nil {
		return nil, err
	}

	taskDuration, err := meter.Float64Histogram(
		"agent.task.duration",
		metric.WithDescription("Task execution time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	healthStatus, err := meter.Int64Gauge(
		"agent.health.status",
		metric.WithDescription("Agent health status (0=unhealthy, 1=degraded, 2=healthy)"),
	)
	if err != nil {
		return nil, err
	}

	handlerFailures, err := meter.Int64Counter(
		"agent.bus.handler_failures",
		metric.WithDescription("Isolated event handler failures by event type"),
	)
	if err != nil {
		return nil, err
	}

	return &TaskMetrics{
		tasksTotal:      tasksTotal,
		taskDuration:    taskDuration,
		healthStatus:    healthStatus,
		handlerFailures: handlerFailures,
	}, nil
}

// RecordTask records one finished task with its terminal state and wall time.
func (m *TaskMetrics) RecordTask(ctx context.Context, agentID, state string, durationMS float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrAgentID, agentID),
		attribute.String(AttrTaskState, state),
	)
	m.tasksTotal.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, durationMS, metric.WithAttributes(
		attribute.String(AttrAgentID, agentID),
	))
}

// RecordHealth records the agent's health status.
func (m *TaskMetrics) RecordHealth(ctx context.Context, agentID string, status core.HealthStatus) {
	if m == nil {
		return
	}
	var val int64
	switch status {
	case core.HealthHealthy:
		val = 2
	case core.HealthDegraded:
		val = 1
	default:
		val = 0
	}
	m.healthStatus.Record(ctx, val, metric.WithAttributes(
		attribute.String(AttrAgentID, agentID),
	))
}

// RecordHandlerFailure counts one isolated event handler failure.
func (m *TaskMetrics) RecordHandlerFailure(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.handlerFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrEventType, eventType),
	))
}

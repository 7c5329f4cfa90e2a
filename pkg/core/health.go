// SPDX-License-Identifier: Apache-2.0
// Package core provides the shared vocabulary of the agent runtime:
// contexts, events, health snapshots, log levels and the hook contract.
package core

// HealthStatus represents the health state of an agent.
type HealthStatus string

const (
	// HealthHealthy indicates the agent is fully operational.
	HealthHealthy HealthStatus = "healthy"

	// HealthDegraded indicates the agent is operational but with reduced capacity.
	HealthDegraded HealthStatus = "degraded"

	// HealthUnhealthy indicates the agent is not operational.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Rank orders statuses from best to worst so callers can fold multiple
// probe results into a single overall status.
func (s HealthStatus) Rank() int {
	switch s {
	case HealthHealthy:
		return 0
	case HealthDegraded:
		return 1
	default:
		return 2
	}
}

// AgentHealth is a point-in-time health snapshot. Details and Metrics are
// merged key-by-key on update, never replaced wholesale.
type AgentHealth struct {
	Status  HealthStatus       `json:"status"`
	Details map[string]any     `json:"details"`
	Metrics map[string]float64 `json:"metrics"`
}

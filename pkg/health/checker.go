// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"

	"github.com/kiidfreak/Ag3nt-05/pkg/core"
)

// Result is the outcome of one health probe.
type Result struct {
	Status  core.HealthStatus
	Detail  string
	Metrics map[string]float64
}

// Checker probes one aspect of an agent's well-being.
// The context can be used to implement timeouts.
type Checker interface {
	Check(ctx context.Context) Result
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc func(ctx context.Context) Result

// Check implements Checker.
func (f CheckFunc) Check(ctx context.Context) Result {
	return f(ctx)
}

// Apply runs every checker and folds the results into the tracker: the
// worst status wins, each probe's detail lands under its name, and probe
// metrics merge into the snapshot.
func Apply(ctx context.Context, t *Tracker, checkers map[string]Checker) core.AgentHealth {
	overall := core.HealthHealthy
	details := make(map[string]any, len(checkers))
	metrics := make(map[string]float64)

	for name, checker := range checkers {
		res := checker.Check(ctx)
		if res.Status.Rank() > overall.Rank() {
			overall = res.Status
		}
		details[name] = res.Detail
		for k, v := range res.Metrics {
			metrics[k] = v
		}
	}

	t.Update(ctx, overall, details, metrics)
	return t.Snapshot()
}

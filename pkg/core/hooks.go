package core

import "context"

// Hooks is the capability a concrete agent supplies to the runtime. The
// lifecycle controller awaits each hook before moving on to its own
// validation and event emission; hooks never see those concerns.
type Hooks interface {
	// OnInitialize is called once after the controller has stored the
	// session context and merged configuration.
	OnInitialize(ctx context.Context) error

	// OnExecute performs the agent's work for one task. The input has
	// already passed schema validation; the returned mapping is validated
	// against the manifest's output schemas before it reaches the caller.
	OnExecute(ctx context.Context, input map[string]any) (map[string]any, error)

	// OnShutdown is called when the agent is being stopped.
	OnShutdown(ctx context.Context) error
}

package core

import "context"

// AgentContext identifies one execution session. It is set once at
// initialization and owned by the lifecycle controller for the session.
type AgentContext struct {
	AgentID   string         `json:"agent_id"`
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type taskIDKey struct{}

// WithTaskID attaches a task id to the context.
func WithTaskID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskIDKey{}, id)
}

// TaskID returns the task id if present.
func TaskID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(taskIDKey{}).(string)
	return id, ok
}

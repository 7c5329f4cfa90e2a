package core

import "time"

// EventType identifies a lifecycle or telemetry event emitted by an agent.
type EventType string

const (
	EventAgentInitialized EventType = "agent:initialized"
	EventAgentShutdown    EventType = "agent:shutdown"
	EventTaskStarted      EventType = "task:started"
	EventTaskCompleted    EventType = "task:completed"
	EventTaskFailed       EventType = "task:failed"
	EventHealthUpdated    EventType = "health:updated"
	EventPublished        EventType = "event:published"
	EventLog              EventType = "log"
)

// Event is a single emission on the agent bus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   map[string]any
}

// NewEvent builds an event stamped with the current UTC time.
func NewEvent(eventType EventType, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AgentEvent is a domain event broadcast by a concrete agent through
// PublishEvent. It travels on the bus wrapped under EventPublished, keeping
// user events on a channel separate from lifecycle events.
type AgentEvent struct {
	Type          string    `json:"type"`
	Data          any       `json:"data"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

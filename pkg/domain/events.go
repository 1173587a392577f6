package domain

import "time"

// EventType categorizes run notifications.
type EventType string

const (
	EventNodeStarted   EventType = "node_started"
	EventNodeCompleted EventType = "node_completed"
	EventNodeFailed    EventType = "node_failed"
	EventRunCompleted  EventType = "run_completed"
	EventRunFailed     EventType = "run_failed"
	EventRunStopped    EventType = "run_stopped"
)

// Event is an ephemeral notification broadcast while a run progresses.
// Events are not persisted on the Execution record.
type Event struct {
	Type        EventType `json:"type"`
	ExecutionID string    `json:"executionId"`
	NodeID      string    `json:"nodeId,omitempty"`
	Payload     any       `json:"payload,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Listener receives events. Implementations must not assume they run on the
// scheduler goroutine; delivery is isolated per listener.
type Listener func(Event)

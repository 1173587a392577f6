package domain

import "time"

// ExecutionStatus is the overall state of one run.
type ExecutionStatus string

const (
	StatusIdle      ExecutionStatus = "idle"
	StatusRunning   ExecutionStatus = "running"
	StatusPaused    ExecutionStatus = "paused"
	StatusCompleted ExecutionStatus = "completed"
	StatusError     ExecutionStatus = "error"
	StatusStopped   ExecutionStatus = "stopped"
)

// Terminal reports whether the status admits no further transitions.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError || s == StatusStopped
}

// NodeStatus is the per-node execution state.
type NodeStatus string

const (
	NodePending   NodeStatus = "pending"
	NodeRunning   NodeStatus = "running"
	NodeCompleted NodeStatus = "completed"
	NodeError     NodeStatus = "error"
)

// NodeExecution records the outcome of a single node within a run.
type NodeExecution struct {
	NodeID      string     `json:"nodeId"`
	Status      NodeStatus `json:"status"`
	Output      any        `json:"output,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt,omitempty"`
	CompletedAt time.Time  `json:"completedAt,omitempty"`

	// Duration is wall-clock time of the dispatch, recorded regardless of outcome.
	Duration time.Duration `json:"duration"`
}

// Execution is the state record of one run. It is owned exclusively by the
// session driving the run and becomes immutable once Status is terminal.
type Execution struct {
	ID            string          `json:"id"`
	GraphID       string          `json:"graphId"`
	Status        ExecutionStatus `json:"status"`
	CurrentNodeID string          `json:"currentNodeId,omitempty"`
	StartedAt     time.Time       `json:"startedAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Error         string          `json:"error,omitempty"`

	// Nodes maps node id to its execution record.
	Nodes map[string]*NodeExecution `json:"nodes"`

	// Unreached lists nodes that never became ready: unreachable from a
	// start node, downstream of a failure, or on a pruned conditional
	// branch. Populated at termination.
	Unreached []string `json:"unreached,omitempty"`
}

// NewExecution creates a fresh run record in the idle state.
func NewExecution(id, graphID string) *Execution {
	return &Execution{
		ID:      id,
		GraphID: graphID,
		Status:  StatusIdle,
		Nodes:   make(map[string]*NodeExecution),
	}
}

// Clone returns a deep copy safe to hand to observers while the run mutates.
func (e *Execution) Clone() *Execution {
	cp := *e
	cp.Nodes = make(map[string]*NodeExecution, len(e.Nodes))
	for id, ne := range e.Nodes {
		n := *ne
		cp.Nodes[id] = &n
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		cp.CompletedAt = &t
	}
	cp.Unreached = append([]string(nil), e.Unreached...)
	return &cp
}

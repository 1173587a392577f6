package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedGraph is returned when a graph definition fails structural
// validation (bad edge references, missing start/end, cycles).
var ErrMalformedGraph = errors.New("malformed graph")

// ErrNoStartNode is returned when no node qualifies as a start point.
var ErrNoStartNode = errors.New("no start node")

// ErrExecutionNotFound is returned when an execution id cannot be resolved.
var ErrExecutionNotFound = errors.New("execution not found")

// ErrExecutionTerminal is returned when a control is applied to a run that
// has already reached a terminal state.
var ErrExecutionTerminal = errors.New("execution already terminal")

// NodeExecutionError wraps a failure captured during node dispatch. It is
// stored on the NodeExecution record and surfaced via an event; it never
// propagates as a panic through the scheduler loop.
type NodeExecutionError struct {
	NodeID string
	Cause  error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s: %v", e.NodeID, e.Cause)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Cause
}

// RunAbortedError records why a run halted before draining its queue:
// either an unrecovered node failure or an explicit stop.
type RunAbortedError struct {
	ExecutionID string
	NodeID      string // failing node, empty on explicit stop
	Reason      string
}

func (e *RunAbortedError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("run %s aborted at node %s: %s", e.ExecutionID, e.NodeID, e.Reason)
	}
	return fmt.Sprintf("run %s aborted: %s", e.ExecutionID, e.Reason)
}

package runtime

import (
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
)

type schedState int

const (
	schedPending schedState = iota
	schedQueued
	schedRunning
	schedDone
	schedSkipped
)

// scheduler is the dependency-counted ready queue. Every node carries a
// remaining-prerequisite counter seeded from the graph's prerequisite index;
// a completion decrements its successors and enqueues the ones that reach
// zero. Completed or running nodes are never re-entered, and there is no
// busy-poll requeue: a node enters the queue exactly once, so a cycle can
// never spin the loop (cycles are rejected by validation anyway).
type scheduler struct {
	g         *graph.Graph
	remaining map[string]int
	skips     map[string]int
	state     map[string]schedState
	queue     []string // FIFO of ready node ids
}

func newScheduler(g *graph.Graph) *scheduler {
	s := &scheduler{
		g:         g,
		remaining: make(map[string]int, len(g.Order)),
		skips:     make(map[string]int, len(g.Order)),
		state:     make(map[string]schedState, len(g.Order)),
	}
	for _, id := range g.Order {
		s.remaining[id] = len(g.Prerequisites[id])
		s.state[id] = schedPending
	}
	// Seed with all discovered start points. A typed start node is forced
	// ready even if the definition gave it incoming edges.
	for _, id := range g.StartNodes() {
		s.remaining[id] = 0
		s.enqueue(id)
	}
	return s
}

func (s *scheduler) enqueue(id string) {
	if s.state[id] != schedPending {
		return
	}
	s.state[id] = schedQueued
	s.queue = append(s.queue, id)
}

// next pops the head of the ready queue and marks it running.
func (s *scheduler) next() (string, bool) {
	if len(s.queue) == 0 {
		return "", false
	}
	id := s.queue[0]
	s.queue = s.queue[1:]
	s.state[id] = schedRunning
	return id, true
}

// complete marks a node done and credits each outgoing edge to its target.
// Edges for which pruned reports true are credited as skips instead; a node
// whose prerequisites were all satisfied by skips is itself skipped, and the
// skip cascades through its own successors.
func (s *scheduler) complete(id string, pruned func(domain.Edge) bool) {
	s.state[id] = schedDone
	for _, e := range s.g.EdgesFrom(id) {
		if pruned != nil && pruned(e) {
			s.credit(e.Target, true)
		} else {
			s.credit(e.Target, false)
		}
	}
}

// fail marks a node done without crediting successors. Downstream nodes
// stay pending and surface on the final record as unreached.
func (s *scheduler) fail(id string) {
	s.state[id] = schedDone
}

func (s *scheduler) credit(id string, skip bool) {
	if s.state[id] == schedDone || s.state[id] == schedSkipped {
		return
	}
	s.remaining[id]--
	if skip {
		s.skips[id]++
	}
	if s.remaining[id] > 0 || s.state[id] != schedPending {
		return
	}
	if s.skips[id] == len(s.g.Prerequisites[id]) {
		// Every path into this node was pruned: skip it and cascade.
		s.state[id] = schedSkipped
		for _, e := range s.g.EdgesFrom(id) {
			s.credit(e.Target, true)
		}
		return
	}
	s.enqueue(id)
}

// idle reports whether no more work can be produced.
func (s *scheduler) idle() bool {
	return len(s.queue) == 0
}

// unvisited returns the nodes that never ran: still pending (unreachable or
// downstream of a failure), queued-but-never-dispatched, or pruned.
func (s *scheduler) unvisited() []string {
	var out []string
	for _, id := range s.g.Order {
		switch s.state[id] {
		case schedPending, schedQueued, schedSkipped:
			out = append(out, id)
		}
	}
	return out
}

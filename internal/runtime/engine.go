package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
)

// Session drives one run: idle -> running -> {paused <-> running} ->
// {completed | error | stopped}. It exclusively owns its Execution record,
// which becomes immutable once terminal.
type Session struct {
	graphModel *graph.Graph
	dispatcher *Dispatcher
	events     ports.EventPublisher
	logger     *slog.Logger
	workers    int
	rc         *RunContext

	mu      sync.Mutex
	cond    *sync.Cond
	exec    *domain.Execution
	paused  bool
	stopped bool
	cancel  context.CancelFunc
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session's logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession prepares a run over the given graph. Run must be called exactly
// once; the control methods are safe from any goroutine.
func NewSession(id string, g *graph.Graph, dispatcher *Dispatcher, events ports.EventPublisher, cfg RunConfig, opts ...SessionOption) *Session {
	s := &Session{
		graphModel: g,
		dispatcher: dispatcher,
		events:     events,
		logger:     logging.NewNop(),
		workers:    cfg.Workers,
		exec:       domain.NewExecution(id, cfg.GraphID),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.cond = sync.NewCond(&s.mu)
	s.rc = &RunContext{
		ExecutionID: id,
		GraphID:     cfg.GraphID,
		Graph:       g,
		Invoker:     cfg.Invoker,
		Catalog:     cfg.Catalog,
		Input:       cfg.Input,
		Evaluate:    cfg.Evaluate,
		Transform:   cfg.Transform,
	}
	s.rc.output = s.nodeOutput
	s.logger = s.logger.With("execution_id", id)
	return s
}

// ID returns the execution id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.ID
}

// Snapshot returns a deep copy of the run record, safe for observers while
// the run mutates.
func (s *Session) Snapshot() *domain.Execution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.Clone()
}

// Pause suspends further node dispatch without losing queue state.
// Nodes already in flight finish normally.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.stopped || s.exec.Status != domain.StatusRunning {
		return false
	}
	s.paused = true
	s.exec.Status = domain.StatusPaused
	s.logger.Info("execution paused")
	return true
}

// Resume re-enters running from paused.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused || s.stopped {
		return false
	}
	s.paused = false
	s.exec.Status = domain.StatusRunning
	s.logger.Info("execution resumed")
	s.cond.Broadcast()
	return true
}

// Stop terminates the run from any non-terminal state. Completed node
// records remain for inspection; no further node leaves pending. The run
// context is canceled so a cooperative tool call may abort early, but an
// in-flight node is not forcibly preempted.
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.exec.Status.Terminal() {
		return false
	}
	s.stopped = true
	s.paused = false
	s.logger.Info("execution stopped")
	if s.cancel != nil {
		s.cancel()
	}
	s.cond.Broadcast()
	return true
}

// Run drives the scheduler until the queue drains, a node fails fatally, or
// the run is stopped. It returns the terminal Execution record.
func (s *Session) Run(ctx context.Context) *domain.Execution {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.exec.Status = domain.StatusRunning
	s.exec.StartedAt = time.Now()
	s.mu.Unlock()

	// Wake the pause gate if the outer context dies underneath us.
	stopWake := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer stopWake()

	sched := newScheduler(s.graphModel)
	sem := make(chan struct{}, s.workers)
	results := make(chan *domain.NodeExecution)
	inflight := 0
	var abort *domain.RunAbortedError

	collect := func(rec *domain.NodeExecution) {
		inflight--
		if fatal := s.handleResult(rec, sched); fatal != nil && abort == nil {
			abort = fatal
		}
	}

	for abort == nil {
		if !s.gate(ctx) {
			break
		}

		// Drain finished nodes without blocking so ready successors queue up.
	drain:
		for {
			select {
			case rec := <-results:
				collect(rec)
				if abort != nil {
					break drain
				}
			default:
				break drain
			}
		}
		if abort != nil {
			break
		}

		id, ok := sched.next()
		if !ok {
			if inflight == 0 {
				break
			}
			collect(<-results)
			continue
		}

		// Acquire a worker slot, still consuming completions to make
		// progress while all workers are busy.
		acquired := false
		for !acquired && abort == nil {
			select {
			case sem <- struct{}{}:
				acquired = true
			case rec := <-results:
				collect(rec)
			}
		}
		if abort != nil {
			break
		}

		node := s.graphModel.Nodes[id]
		s.markRunning(node)
		inflight++
		go func(n domain.Node) {
			rec := s.dispatcher.Dispatch(ctx, n, s.rc)
			<-sem
			results <- rec
		}(node)
	}

	// Record whatever was still in flight when the loop exited; these nodes
	// were dispatched before the halt and their outcomes stay observable.
	for inflight > 0 {
		rec := <-results
		inflight--
		s.record(rec)
		s.emitNodeOutcome(rec)
	}

	return s.finalize(ctx, sched, abort)
}

// gate blocks while the run is paused. It reports false when the run should
// halt (stopped or context canceled).
func (s *Session) gate(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.stopped && ctx.Err() == nil {
		s.cond.Wait()
	}
	return !s.stopped && ctx.Err() == nil
}

func (s *Session) markRunning(node domain.Node) {
	now := time.Now()
	s.mu.Lock()
	s.exec.Nodes[node.ID] = &domain.NodeExecution{
		NodeID:    node.ID,
		Status:    domain.NodeRunning,
		StartedAt: now,
	}
	s.exec.CurrentNodeID = node.ID
	s.mu.Unlock()

	// Start/end passthroughs complete instantly and only report completion.
	if node.Type != domain.NodeTypeStart && node.Type != domain.NodeTypeEnd {
		s.publish(domain.EventNodeStarted, node.ID, nil)
	}
	s.logger.Debug("node dispatched", "node_id", node.ID, "node_type", node.Type)
}

func (s *Session) record(rec *domain.NodeExecution) {
	s.mu.Lock()
	s.exec.Nodes[rec.NodeID] = rec
	s.mu.Unlock()
}

func (s *Session) emitNodeOutcome(rec *domain.NodeExecution) {
	if rec.Status == domain.NodeError {
		s.publish(domain.EventNodeFailed, rec.NodeID, rec.Error)
		return
	}
	s.publish(domain.EventNodeCompleted, rec.NodeID, rec.Output)
}

// handleResult stores a node outcome and feeds the scheduler. A failure
// without a continue-on-error override is fatal to the run.
func (s *Session) handleResult(rec *domain.NodeExecution, sched *scheduler) *domain.RunAbortedError {
	s.record(rec)
	s.emitNodeOutcome(rec)

	node := s.graphModel.Nodes[rec.NodeID]
	if rec.Status == domain.NodeError {
		if node.Config.ContinueOnError {
			s.logger.Warn("node failed, continuing per node policy",
				"node_id", rec.NodeID, "err", rec.Error)
			sched.complete(rec.NodeID, nil)
			return nil
		}
		sched.fail(rec.NodeID)
		return &domain.RunAbortedError{
			ExecutionID: s.rc.ExecutionID,
			NodeID:      rec.NodeID,
			Reason:      rec.Error,
		}
	}

	sched.complete(rec.NodeID, branchPruner(node, rec))
	return nil
}

// branchPruner gates conditional successors: an edge labeled "true" or
// "false" only fires when it matches the recorded outcome. Unlabeled edges
// always fire, preserving the permissive behavior for graphs whose editor
// did not label branches.
func branchPruner(node domain.Node, rec *domain.NodeExecution) func(domain.Edge) bool {
	if node.Type != domain.NodeTypeConditional {
		return nil
	}
	out, ok := rec.Output.(map[string]any)
	if !ok {
		return nil
	}
	result, ok := out["result"].(bool)
	if !ok {
		return nil
	}
	return func(e domain.Edge) bool {
		switch strings.ToLower(e.Label) {
		case "true":
			return !result
		case "false":
			return result
		}
		return false
	}
}

func (s *Session) nodeOutput(nodeID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ne, ok := s.exec.Nodes[nodeID]
	if !ok || ne.Status != domain.NodeCompleted {
		return nil, false
	}
	return ne.Output, true
}

func (s *Session) publish(typ domain.EventType, nodeID string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.Event{
		Type:        typ,
		ExecutionID: s.rc.ExecutionID,
		NodeID:      nodeID,
		Payload:     payload,
		Timestamp:   time.Now(),
	})
}

func (s *Session) finalize(ctx context.Context, sched *scheduler, abort *domain.RunAbortedError) *domain.Execution {
	now := time.Now()

	s.mu.Lock()
	stopped := s.stopped || (abort == nil && ctx.Err() != nil)
	s.exec.CurrentNodeID = ""
	s.exec.CompletedAt = &now
	s.exec.Unreached = sched.unvisited()
	switch {
	case stopped:
		s.exec.Status = domain.StatusStopped
	case abort != nil:
		s.exec.Status = domain.StatusError
		s.exec.Error = abort.Error()
	default:
		s.exec.Status = domain.StatusCompleted
	}
	final := s.exec.Clone()
	s.mu.Unlock()

	switch final.Status {
	case domain.StatusStopped:
		reason := &domain.RunAbortedError{ExecutionID: final.ID, Reason: "stopped"}
		s.publish(domain.EventRunStopped, "", reason.Error())
		s.logger.Info("run stopped", "nodes_completed", len(final.Nodes))
	case domain.StatusError:
		s.publish(domain.EventRunFailed, abort.NodeID, abort.Error())
		s.logger.Error("run failed", "node_id", abort.NodeID, "err", abort.Reason)
	default:
		s.publish(domain.EventRunCompleted, "", map[string]any{"nodes": len(final.Nodes)})
		s.logger.Info("run completed", "nodes", len(final.Nodes), "duration", now.Sub(final.StartedAt))
	}
	return final
}

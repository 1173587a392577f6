// Package session manages execution lifecycles: one Session per run, keyed
// by execution id, with pause/resume/stop controls and terminal-record
// persistence.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/runtime"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
)

const lockTTL = 30 * time.Second

// Manager starts runs and routes controls to them. Multiple independent
// runs proceed concurrently; the only shared state is the event broker's
// listener registry.
type Manager struct {
	dispatcher *runtime.Dispatcher
	events     ports.EventPublisher
	store      ports.ExecutionStore
	locker     ports.DistributedLocker
	logger     *slog.Logger

	mu   sync.Mutex
	runs map[string]*activeRun
}

type activeRun struct {
	session *runtime.Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore persists terminal execution records.
func WithStore(store ports.ExecutionStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLocker enables distributed run ownership.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures the Manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager using the given dispatcher and event
// publisher.
func NewManager(dispatcher *runtime.Dispatcher, events ports.EventPublisher, opts ...Option) *Manager {
	m := &Manager{
		dispatcher: dispatcher,
		events:     events,
		logger:     logging.NewNop(),
		runs:       make(map[string]*activeRun),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start validates the graph and launches a run, returning its execution id.
// The run proceeds on its own goroutine; progress is observable through the
// event broker and Execution snapshots.
func (m *Manager) Start(ctx context.Context, g *graph.Graph, cfg runtime.RunConfig) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	var unlock ports.UnlockFunc
	if m.locker != nil {
		var err error
		unlock, err = m.locker.Lock(ctx, id, lockTTL)
		if err != nil {
			return "", fmt.Errorf("failed to acquire run lock: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := runtime.NewSession(id, g, m.dispatcher, m.events, cfg,
		runtime.WithSessionLogger(m.logger))

	run := &activeRun{
		session: sess,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	m.mu.Lock()
	m.runs[id] = run
	m.mu.Unlock()

	go func() {
		defer close(run.done)
		defer cancel()

		final := sess.Run(runCtx)

		if m.store != nil {
			if err := m.store.Save(context.Background(), final); err != nil {
				m.logger.Warn("failed to persist execution record",
					"execution_id", id, "err", err)
			}
		}

		m.mu.Lock()
		delete(m.runs, id)
		m.mu.Unlock()

		if unlock != nil {
			if err := unlock(context.Background()); err != nil {
				m.logger.Warn("failed to release run lock (will expire via TTL)",
					"execution_id", id, "err", err)
			}
		}
	}()

	return id, nil
}

// Pause suspends a running execution. Returns false when no matching
// non-terminal execution exists.
func (m *Manager) Pause(id string) bool {
	if run := m.active(id); run != nil {
		return run.session.Pause()
	}
	return false
}

// Resume re-enters running from paused.
func (m *Manager) Resume(id string) bool {
	if run := m.active(id); run != nil {
		return run.session.Resume()
	}
	return false
}

// Stop terminates a non-terminal execution.
func (m *Manager) Stop(id string) bool {
	if run := m.active(id); run != nil {
		return run.session.Stop()
	}
	return false
}

// Wait blocks until the run with the given id finishes, or the context is
// canceled. Unknown ids return immediately: the run already finished.
func (m *Manager) Wait(ctx context.Context, id string) error {
	run := m.active(id)
	if run == nil {
		return nil
	}
	select {
	case <-run.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Execution returns a snapshot of the run record: the live session's state
// for an active run, or the stored terminal record.
func (m *Manager) Execution(ctx context.Context, id string) (*domain.Execution, error) {
	if run := m.active(id); run != nil {
		return run.session.Snapshot(), nil
	}
	if m.store != nil {
		return m.store.Load(ctx, id)
	}
	return nil, domain.ErrExecutionNotFound
}

// Active returns the ids of currently running (or paused) executions.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.runs))
	for id := range m.runs {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) active(id string) *activeRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id]
}

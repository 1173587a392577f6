package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// Handler executes one node type. Implementations return the node's output
// or an error; they never touch scheduling state.
type Handler interface {
	Execute(ctx context.Context, node domain.Node, rc *RunContext) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, node domain.Node, rc *RunContext) (any, error)

// Execute implements Handler.
func (f HandlerFunc) Execute(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	return f(ctx, node, rc)
}

// Dispatcher maps node type tags to handlers. New node types are additive
// registrations, not edits to a central switch.
type Dispatcher struct {
	mu           sync.RWMutex
	handlers     map[string]Handler
	fallback     Handler
	retryBackoff time.Duration
	logger       *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher's logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithRetryBackoff sets the delay between retry attempts of a failing node.
func WithRetryBackoff(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.retryBackoff = delay
	}
}

// NewDispatcher creates a dispatcher with all built-in node handlers
// registered. Unknown node types fall through to a permissive handler that
// completes and echoes the raw type back.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers:     make(map[string]Handler),
		fallback:     HandlerFunc(executeUnknown),
		retryBackoff: 100 * time.Millisecond,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.Register(domain.NodeTypeStart, HandlerFunc(executePassthrough))
	d.Register(domain.NodeTypeEnd, HandlerFunc(executePassthrough))
	d.Register(domain.NodeTypeServer, HandlerFunc(executeServer))
	d.Register(domain.NodeTypeTool, HandlerFunc(executeTool))
	d.Register(domain.NodeTypeConditional, HandlerFunc(executeConditional))
	d.Register(domain.NodeTypeLoop, HandlerFunc(executeLoop))
	d.Register(domain.NodeTypeParallel, HandlerFunc(executeParallel))
	d.Register(domain.NodeTypeTransform, HandlerFunc(executeTransform))
	d.Register(domain.NodeTypeAggregator, HandlerFunc(executeAggregator))
	return d
}

// Register binds a handler to a node type tag, replacing any previous one.
func (d *Dispatcher) Register(nodeType string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[nodeType] = h
}

func (d *Dispatcher) resolve(nodeType string) Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if h, ok := d.handlers[nodeType]; ok {
		return h
	}
	return d.fallback
}

// Dispatch runs a node to completion and returns its execution record.
// It never panics past this boundary: handler errors, timeouts, and panics
// all come back as a record with Status == NodeError, so one node's failure
// cannot crash the scheduler loop. Wall-clock duration is recorded
// regardless of outcome, and retryCount extra attempts are made before the
// node is marked failed.
func (d *Dispatcher) Dispatch(ctx context.Context, node domain.Node, rc *RunContext) *domain.NodeExecution {
	rec := &domain.NodeExecution{
		NodeID:    node.ID,
		Status:    domain.NodeRunning,
		StartedAt: time.Now(),
	}

	attempts := 1 + node.Config.RetryCount
	var out any
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			d.logger.Debug("retrying node",
				"execution_id", rc.ExecutionID,
				"node_id", node.ID,
				"attempt", attempt+1,
				"err", err,
			)
			select {
			case <-ctx.Done():
				err = ctx.Err()
				attempt = attempts // no more retries after cancellation
				continue
			case <-time.After(d.retryBackoff):
			}
		}

		out, err = d.attempt(ctx, node, rc)
		if err == nil {
			break
		}
	}

	rec.CompletedAt = time.Now()
	rec.Duration = rec.CompletedAt.Sub(rec.StartedAt)

	if err != nil {
		rec.Status = domain.NodeError
		rec.Error = (&domain.NodeExecutionError{NodeID: node.ID, Cause: err}).Error()
		return rec
	}

	rec.Status = domain.NodeCompleted
	rec.Output = out
	return rec
}

// attempt runs a single handler invocation under the node's timeout and a
// panic guard.
func (d *Dispatcher) attempt(ctx context.Context, node domain.Node, rc *RunContext) (out any, err error) {
	if node.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, node.Config.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return d.resolve(node.Type).Execute(ctx, node, rc)
}

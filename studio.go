package studio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/runtime"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/events"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/schema"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/session"
)

// NodeHandler executes one node type on behalf of the host. The upstream map
// holds the outputs of the node's completed prerequisites, keyed by node id.
type NodeHandler func(ctx context.Context, node domain.Node, upstream map[string]any) (any, error)

// Engine is the high-level entry point for the library. It wraps the
// execution core and provides a simplified API for consumers.
type Engine struct {
	dispatcher *runtime.Dispatcher
	broker     *events.Broker
	manager    *session.Manager

	invoker   ports.ToolInvoker
	catalog   domain.Catalog
	evaluate  ports.ConditionEvaluator
	transform ports.Transformer
	store     ports.ExecutionStore
	locker    ports.DistributedLocker
	logger    *slog.Logger
	workers   int

	handlers   map[string]NodeHandler
	brokerOpts []events.Option
	retry      time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithInvoker sets the tool invoker backing tool and server nodes.
func WithInvoker(inv ports.ToolInvoker) Option {
	return func(e *Engine) {
		e.invoker = inv
	}
}

// WithCatalog sets the server/tool catalog snapshot used for resolution.
func WithCatalog(cat domain.Catalog) Option {
	return func(e *Engine) {
		e.catalog = cat
	}
}

// WithStore persists terminal execution records.
func WithStore(store ports.ExecutionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed run ownership.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers bounds concurrent node dispatch per run. Zero or one means
// strictly sequential execution.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithConditionEvaluator sets a custom condition evaluator.
func WithConditionEvaluator(eval ports.ConditionEvaluator) Option {
	return func(e *Engine) {
		e.evaluate = eval
	}
}

// WithTransformer sets a custom transform-script runner.
func WithTransformer(t ports.Transformer) Option {
	return func(e *Engine) {
		e.transform = t
	}
}

// WithHandler overrides or adds the handler for a node type.
func WithHandler(nodeType string, h NodeHandler) Option {
	return func(e *Engine) {
		e.handlers[nodeType] = h
	}
}

// WithRetryBackoff sets the delay between retry attempts for nodes with a
// retry budget.
func WithRetryBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.retry = d
	}
}

// WithListenerExpiry auto-removes event listeners idle past the window.
func WithListenerExpiry(ttl time.Duration) Option {
	return func(e *Engine) {
		e.brokerOpts = append(e.brokerOpts, events.WithIdleExpiry(ttl))
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   logging.NewNop(),
		handlers: make(map[string]NodeHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	dispatchOpts := []runtime.DispatcherOption{runtime.WithDispatcherLogger(e.logger)}
	if e.retry > 0 {
		dispatchOpts = append(dispatchOpts, runtime.WithRetryBackoff(e.retry))
	}
	e.dispatcher = runtime.NewDispatcher(dispatchOpts...)
	for nodeType, h := range e.handlers {
		h := h
		e.dispatcher.Register(nodeType, runtime.HandlerFunc(
			func(ctx context.Context, node domain.Node, rc *runtime.RunContext) (any, error) {
				return h(ctx, node, rc.UpstreamData(node.ID))
			}))
	}

	e.broker = events.NewBroker(append([]events.Option{events.WithLogger(e.logger)}, e.brokerOpts...)...)

	managerOpts := []session.Option{session.WithLogger(e.logger)}
	if e.store != nil {
		managerOpts = append(managerOpts, session.WithStore(e.store))
	}
	if e.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(e.locker))
	}
	e.manager = session.NewManager(e.dispatcher, e.broker, managerOpts...)

	return e
}

// Start builds and validates a graph from nodes and edges, then launches a
// run with the given initial input. It returns the new execution id; the run
// proceeds asynchronously.
func (e *Engine) Start(ctx context.Context, nodes []domain.Node, edges []domain.Edge, input map[string]any) (string, error) {
	g, err := graph.Build(nodes, edges)
	if err != nil {
		return "", err
	}
	return e.manager.Start(ctx, g, e.runConfig("", input))
}

// StartDefinition compiles a serialized workflow definition and launches it.
func (e *Engine) StartDefinition(ctx context.Context, def *schema.GraphDefinition, input map[string]any) (string, error) {
	nodes, edges, err := schema.Compile(def)
	if err != nil {
		return "", fmt.Errorf("failed to compile definition %q: %w", def.ID, err)
	}
	g, err := graph.Build(nodes, edges)
	if err != nil {
		return "", err
	}
	cfg := e.runConfig(def.ID, input)
	return e.manager.Start(ctx, g, cfg)
}

// Pause suspends a running execution after its in-flight nodes settle.
func (e *Engine) Pause(id string) bool {
	return e.manager.Pause(id)
}

// Resume re-enters running from paused.
func (e *Engine) Resume(id string) bool {
	return e.manager.Resume(id)
}

// Stop terminates a non-terminal execution, keeping its partial record.
func (e *Engine) Stop(id string) bool {
	return e.manager.Stop(id)
}

// Wait blocks until the run finishes or the context is canceled.
func (e *Engine) Wait(ctx context.Context, id string) error {
	return e.manager.Wait(ctx, id)
}

// Execution returns a snapshot of the run record, live or stored.
func (e *Engine) Execution(ctx context.Context, id string) (*domain.Execution, error) {
	return e.manager.Execution(ctx, id)
}

// Active returns the ids of currently running or paused executions.
func (e *Engine) Active() []string {
	return e.manager.Active()
}

// Subscribe registers an event listener under the given id.
func (e *Engine) Subscribe(listenerID string, fn domain.Listener) {
	e.broker.Subscribe(listenerID, fn)
}

// Unsubscribe removes a listener. Returns false for unknown ids.
func (e *Engine) Unsubscribe(listenerID string) bool {
	return e.broker.Unsubscribe(listenerID)
}

// Manager exposes the underlying session manager for transport adapters.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Broker exposes the underlying event broker for transport adapters.
func (e *Engine) Broker() *events.Broker {
	return e.broker
}

// RunConfig returns the engine's run configuration template.
func (e *Engine) RunConfig() runtime.RunConfig {
	return e.runConfig("", nil)
}

func (e *Engine) runConfig(graphID string, input map[string]any) runtime.RunConfig {
	return runtime.RunConfig{
		GraphID:   graphID,
		Invoker:   e.invoker,
		Catalog:   e.catalog,
		Input:     input,
		Evaluate:  e.evaluate,
		Transform: e.transform,
		Workers:   e.workers,
	}
}

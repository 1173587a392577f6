package ports

import "context"

// ToolInvoker is the tool-invocation callable consumed by the dispatcher.
// The transport behind it (MCP client, in-process registry, HTTP bridge) is
// opaque to the engine; failures are captured per node, never panicked.
type ToolInvoker interface {
	// Invoke calls the named tool with the given arguments. serverID narrows
	// the lookup to one server; empty means "any server exposing the tool".
	// The context carries the node's timeout and the run's cancellation.
	Invoke(ctx context.Context, toolName string, args map[string]any, serverID string) (any, error)
}

// InvokerFunc adapts a function to the ToolInvoker interface.
type InvokerFunc func(ctx context.Context, toolName string, args map[string]any, serverID string) (any, error)

// Invoke implements ToolInvoker.
func (f InvokerFunc) Invoke(ctx context.Context, toolName string, args map[string]any, serverID string) (any, error) {
	return f(ctx, toolName, args, serverID)
}

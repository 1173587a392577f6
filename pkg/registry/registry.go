// Package registry provides an in-process tool registry. It backs the
// ToolInvoker port for graphs that run against local Go functions instead of
// a live MCP server, and can describe itself as a catalog snapshot.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
)

// ToolFunction is a local tool implementation.
type ToolFunction func(ctx context.Context, args map[string]any) (any, error)

// Registry manages locally registered tools. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]ToolFunction
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		tools: make(map[string]ToolFunction),
	}
}

// Register adds a tool. An existing tool with the same name is overwritten.
func (r *Registry) Register(name string, fn ToolFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = fn
}

// Execute looks up a tool by name and runs it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	fn, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return fn(ctx, args)
}

// Invoker exposes the registry as a ToolInvoker. The serverID argument is
// ignored: local tools live in a single flat namespace.
func (r *Registry) Invoker() ports.ToolInvoker {
	return ports.InvokerFunc(func(ctx context.Context, toolName string, args map[string]any, serverID string) (any, error) {
		return r.Execute(ctx, toolName, args)
	})
}

// Catalog describes the registry as a single connected pseudo-server, so
// server nodes can resolve local tools the same way they resolve MCP ones.
func (r *Registry) Catalog(serverID, serverName string) domain.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]domain.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, domain.ToolInfo{Name: name})
	}
	return domain.Catalog{Servers: []domain.ServerInfo{{
		ID:        serverID,
		Name:      serverName,
		Connected: true,
		Tools:     tools,
	}}}
}

// Package mcp adapts MCP servers to the engine's tool-invocation and
// catalog ports using the mcp-go client.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/xjson"
)

// Client is the slice of the MCP client surface the adapter needs.
// *client.Client from mcp-go satisfies it.
type Client interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Server pairs a connected MCP client with its catalog identity.
type Server struct {
	ID     string
	Name   string
	Client Client
}

// Invoker implements ports.ToolInvoker across a fixed set of MCP servers.
type Invoker struct {
	servers []Server
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the Invoker.
type Option func(*Invoker)

// WithCallTimeout bounds each tool call independently of the node timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		i.timeout = d
	}
}

// WithLogger sets the invoker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) {
		i.logger = logger
	}
}

// NewInvoker creates an invoker over the given servers.
func NewInvoker(servers []Server, opts ...Option) *Invoker {
	inv := &Invoker{
		servers: servers,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke calls the named tool. With a serverID the lookup is exact;
// otherwise servers are tried in declaration order until one accepts the
// call.
func (i *Invoker) Invoke(ctx context.Context, toolName string, args map[string]any, serverID string) (any, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	if serverID != "" {
		for _, srv := range i.servers {
			if srv.ID == serverID {
				return i.call(ctx, srv, toolName, args)
			}
		}
		return nil, fmt.Errorf("mcp server %q not configured", serverID)
	}

	var lastErr error
	for _, srv := range i.servers {
		out, err := i.call(ctx, srv, toolName, args)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no mcp servers configured")
	}
	return nil, fmt.Errorf("tool %q: %w", toolName, lastErr)
}

func (i *Invoker) call(ctx context.Context, srv Server, toolName string, args map[string]any) (any, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args

	i.logger.Debug("calling mcp tool", "server_id", srv.ID, "tool", toolName)
	res, err := srv.Client.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mcp call failed: %w", err)
	}

	text := flattenContent(res.Content)
	if res.IsError {
		return nil, fmt.Errorf("tool returned error: %s", text)
	}

	// Tools conventionally return JSON text; surface it structured when it
	// parses, raw otherwise.
	var structured any
	if err := xjson.Unmarshal([]byte(text), &structured); err == nil && text != "" {
		return structured, nil
	}
	return text, nil
}

func flattenContent(content []mcp.Content) string {
	var parts []string
	for _, item := range content {
		switch c := item.(type) {
		case mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

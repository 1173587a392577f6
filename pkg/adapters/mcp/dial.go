package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// ConnectStdio launches an MCP server process, performs the initialize
// handshake, and returns it as a Server ready for the invoker.
func ConnectStdio(ctx context.Context, id, name, command string, env []string, args ...string) (Server, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return Server{}, fmt.Errorf("failed to launch mcp server %q: %w", id, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "mcp-studio",
		Version: "1.0.0",
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return Server{}, fmt.Errorf("mcp handshake with %q failed: %w", id, err)
	}

	return Server{ID: id, Name: name, Client: c}, nil
}

// ConnectSSE dials a remote MCP server over SSE, performs the initialize
// handshake, and returns it as a Server ready for the invoker.
func ConnectSSE(ctx context.Context, id, name, baseURL string) (Server, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return Server{}, fmt.Errorf("failed to create sse client for %q: %w", id, err)
	}
	if err := c.Start(ctx); err != nil {
		return Server{}, fmt.Errorf("failed to connect to mcp server %q: %w", id, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "mcp-studio",
		Version: "1.0.0",
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return Server{}, fmt.Errorf("mcp handshake with %q failed: %w", id, err)
	}

	return Server{ID: id, Name: name, Client: c}, nil
}

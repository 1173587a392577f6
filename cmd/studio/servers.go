package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mcpadapter "github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/mcp"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/registry"
)

// buildInvoker wires the tool backend for a run: MCP stdio servers when
// --server flags are given, the built-in local registry otherwise. The
// returned closer shuts down any launched server processes.
func buildInvoker(ctx context.Context, specs []string, logger *slog.Logger) (ports.ToolInvoker, domain.Catalog, func(), error) {
	if len(specs) == 0 {
		reg := localRegistry()
		return reg.Invoker(), reg.Catalog("local", "Built-in Tools"), func() {}, nil
	}

	var servers []mcpadapter.Server
	closer := func() {
		for _, srv := range servers {
			if c, ok := srv.Client.(interface{ Close() error }); ok {
				if err := c.Close(); err != nil {
					logger.Warn("failed to close mcp server", "server_id", srv.ID, "err", err)
				}
			}
		}
	}

	for _, spec := range specs {
		id, target, ok := strings.Cut(spec, "=")
		if !ok || id == "" || strings.TrimSpace(target) == "" {
			closer()
			return nil, domain.Catalog{}, nil, fmt.Errorf("invalid --server value %q: expected id=command [args...] or id=url", spec)
		}

		var srv mcpadapter.Server
		var err error
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			srv, err = mcpadapter.ConnectSSE(ctx, id, id, target)
		} else {
			parts := strings.Fields(target)
			srv, err = mcpadapter.ConnectStdio(ctx, id, id, parts[0], nil, parts[1:]...)
		}
		if err != nil {
			closer()
			return nil, domain.Catalog{}, nil, err
		}
		logger.Info("mcp server connected", "server_id", id, "target", target)
		servers = append(servers, srv)
	}

	inv := mcpadapter.NewInvoker(servers, mcpadapter.WithLogger(logger))
	return inv, inv.Snapshot(ctx), closer, nil
}

// localRegistry holds the built-in tools available without any MCP server.
func localRegistry() *registry.Registry {
	reg := registry.New()
	reg.Register("echo", func(ctx context.Context, args map[string]any) (any, error) {
		return args, nil
	})
	reg.Register("uppercase", func(ctx context.Context, args map[string]any) (any, error) {
		text, _ := args["text"].(string)
		return map[string]any{"text": strings.ToUpper(text)}, nil
	})
	reg.Register("now", func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"time": time.Now().Format(time.RFC3339)}, nil
	})
	reg.Register("sleep", func(ctx context.Context, args map[string]any) (any, error) {
		ms, _ := args["ms"].(float64)
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			return map[string]any{"slept_ms": ms}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	return reg
}

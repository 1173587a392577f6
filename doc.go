/*
Package studio is a workflow graph execution engine for MCP-backed tool
pipelines. A workflow is a directed graph of typed nodes; the engine resolves
dependencies, dispatches each node when its prerequisites complete, and
streams progress events while the run can be paused, resumed, or stopped.

# Concept

Hosts describe workflows as nodes (start, tool, conditional, loop, transform,
aggregator, end) connected by edges. The engine owns scheduling, state
tracking, and event fan-out; the host owns I/O through a ToolInvoker, which is
typically an MCP client but can be any implementation of the port. This keeps
the core embeddable in a CLI, an HTTP service, or a visual editor backend.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		studio "github.com/KirtiJha/langgraph-mcp-studio-sub005"
		"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/memory"
		"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
		"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/registry"
	)

	func main() {
		reg := registry.New()
		reg.Register("echo", func(ctx context.Context, args map[string]any) (any, error) {
			return args, nil
		})

		eng := studio.New(
			studio.WithInvoker(reg.Invoker()),
			studio.WithCatalog(reg.Catalog("local", "Local Tools")),
			studio.WithStore(memory.NewStore()),
		)

		ctx := context.Background()
		id, err := eng.Start(ctx,
			[]domain.Node{
				{ID: "start", Type: domain.NodeTypeStart},
				{ID: "echo", Type: domain.NodeTypeTool, Config: domain.NodeConfig{ToolName: "echo"}},
				{ID: "end", Type: domain.NodeTypeEnd},
			},
			[]domain.Edge{
				{ID: "e1", Source: "start", Target: "echo"},
				{ID: "e2", Source: "echo", Target: "end"},
			},
			map[string]any{"message": "hello"},
		)
		if err != nil {
			log.Fatal(err)
		}

		if err := eng.Wait(ctx, id); err != nil {
			log.Fatal(err)
		}
		exec, _ := eng.Execution(ctx, id)
		fmt.Println(exec.Status)
	}

Events stream through Subscribe; execution snapshots are available at any
point through Execution. See pkg/adapters for Redis locking, MCP transport,
and the HTTP control surface.
*/
package studio

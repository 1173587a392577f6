package studio_test

import (
	"context"
	"fmt"
	"log"

	studio "github.com/KirtiJha/langgraph-mcp-studio-sub005"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/memory"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/registry"
)

// ExampleNew demonstrates how to run a workflow entirely in-process against
// locally registered Go functions, without a live MCP server.
func ExampleNew() {
	// 1. Register the tools the workflow will call.
	reg := registry.New()
	reg.Register("greet", func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"message": fmt.Sprintf("hello, %v", args["name"])}, nil
	})

	// 2. Build the engine on top of the registry.
	eng := studio.New(
		studio.WithInvoker(reg.Invoker()),
		studio.WithCatalog(reg.Catalog("local", "Built-in Tools")),
		studio.WithStore(memory.NewStore()),
	)

	// 3. Define a minimal graph: start -> greet -> end.
	nodes := []domain.Node{
		{ID: "start", Type: domain.NodeTypeStart},
		{ID: "greet", Type: domain.NodeTypeTool, Config: domain.NodeConfig{
			ToolName:   "greet",
			Parameters: map[string]any{"name": "ada"},
		}},
		{ID: "end", Type: domain.NodeTypeEnd},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "start", Target: "greet"},
		{ID: "e2", Source: "greet", Target: "end"},
	}

	// 4. Launch the run and wait for it to settle.
	ctx := context.Background()
	id, err := eng.Start(ctx, nodes, edges, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Wait(ctx, id); err != nil {
		log.Fatal(err)
	}

	// 5. Inspect the terminal record.
	exec, err := eng.Execution(ctx, id)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("status:", exec.Status)
	fmt.Println("nodes:", len(exec.Nodes))

	out := exec.Nodes["greet"].Output.(map[string]any)
	fmt.Println("greeting:", out["message"])

	// Output:
	// status: completed
	// nodes: 3
	// greeting: hello, ada
}

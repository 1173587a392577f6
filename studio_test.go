package studio_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studio "github.com/KirtiJha/langgraph-mcp-studio-sub005"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/memory"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/registry"
)

func linearToolGraph() ([]domain.Node, []domain.Edge) {
	nodes := []domain.Node{
		{ID: "start", Type: domain.NodeTypeStart},
		{ID: "fetch", Type: domain.NodeTypeTool, Config: domain.NodeConfig{
			ToolName:   "echo",
			Parameters: map[string]any{"greeting": "hello"},
		}},
		{ID: "end", Type: domain.NodeTypeEnd},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "start", Target: "fetch"},
		{ID: "e2", Source: "fetch", Target: "end"},
	}
	return nodes, edges
}

func TestEngine_Integration(t *testing.T) {
	reg := registry.New()
	reg.Register("echo", func(ctx context.Context, args map[string]any) (any, error) {
		return args, nil
	})

	eng := studio.New(
		studio.WithInvoker(reg.Invoker()),
		studio.WithCatalog(reg.Catalog("local", "Local Tools")),
		studio.WithStore(memory.NewStore()),
	)

	var mu sync.Mutex
	var received []domain.Event
	eng.Subscribe("test", func(ev domain.Event) {
		mu.Lock()
		received = append(received, ev)
		mu.Unlock()
	})
	defer eng.Unsubscribe("test")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nodes, edges := linearToolGraph()
	id, err := eng.Start(ctx, nodes, edges, map[string]any{"user": "ada"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, eng.Wait(ctx, id))
	assert.Empty(t, eng.Active())

	exec, err := eng.Execution(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, exec.Status)
	assert.Len(t, exec.Nodes, 3)
	assert.Empty(t, exec.Unreached)

	fetch := exec.Nodes["fetch"]
	require.NotNil(t, fetch)
	assert.Equal(t, domain.NodeCompleted, fetch.Status)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, received)
	assert.Equal(t, domain.EventRunCompleted, received[len(received)-1].Type)
	for _, ev := range received {
		assert.Equal(t, id, ev.ExecutionID)
	}
}

func TestEngine_CustomHandler(t *testing.T) {
	eng := studio.New(
		studio.WithHandler("custom", func(ctx context.Context, node domain.Node, upstream map[string]any) (any, error) {
			return map[string]any{"seen": len(upstream)}, nil
		}),
		studio.WithStore(memory.NewStore()),
	)

	nodes := []domain.Node{
		{ID: "start", Type: domain.NodeTypeStart},
		{ID: "work", Type: "custom"},
		{ID: "end", Type: domain.NodeTypeEnd},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "start", Target: "work"},
		{ID: "e2", Source: "work", Target: "end"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := eng.Start(ctx, nodes, edges, map[string]any{"seed": 1})
	require.NoError(t, err)
	require.NoError(t, eng.Wait(ctx, id))

	exec, err := eng.Execution(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, exec.Status)

	work := exec.Nodes["work"]
	require.NotNil(t, work)
	out, ok := work.Output.(map[string]any)
	require.True(t, ok, "expected map output, got %T", work.Output)
	assert.Equal(t, 1, out["seen"])
}

func TestEngine_StopActiveRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	eng := studio.New(
		studio.WithHandler("hold", func(ctx context.Context, node domain.Node, upstream map[string]any) (any, error) {
			close(started)
			select {
			case <-release:
				return "done", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}),
		studio.WithStore(memory.NewStore()),
	)

	nodes := []domain.Node{
		{ID: "start", Type: domain.NodeTypeStart},
		{ID: "hold", Type: "hold"},
		{ID: "end", Type: domain.NodeTypeEnd},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "start", Target: "hold"},
		{ID: "e2", Source: "hold", Target: "end"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := eng.Start(ctx, nodes, edges, nil)
	require.NoError(t, err)

	<-started
	require.True(t, eng.Stop(id))
	close(release)

	require.NoError(t, eng.Wait(ctx, id))

	exec, err := eng.Execution(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStopped, exec.Status)
	assert.Contains(t, exec.Unreached, "end")
}

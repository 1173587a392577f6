package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/adapters/memory"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunExecutionStoreContract(t, memory.NewStore())
}

func TestMemoryStore_SaveIsolatesCaller(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	exec := domain.NewExecution("iso-1", "g")
	exec.Nodes["n1"] = &domain.NodeExecution{NodeID: "n1", Status: domain.NodeCompleted}
	require.NoError(t, store.Save(ctx, exec))

	// Mutating the saved value after Save must not affect the store.
	exec.Nodes["n1"].Status = domain.NodeError

	loaded, err := store.Load(ctx, "iso-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeCompleted, loaded.Nodes["n1"].Status)
}

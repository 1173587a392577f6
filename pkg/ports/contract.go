package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// RunExecutionStoreContract verifies that an ExecutionStore implementation
// honors the interface contract. Adapter test suites call this with their
// concrete store.
func RunExecutionStoreContract(t *testing.T, store ExecutionStore) {
	ctx := context.Background()
	id := "contract-exec-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		exec := domain.NewExecution(id, "graph-1")
		exec.Status = domain.StatusCompleted
		exec.Nodes["n1"] = &domain.NodeExecution{
			NodeID: "n1",
			Status: domain.NodeCompleted,
			Output: map[string]any{"echo": "hi"},
		}

		require.NoError(t, store.Save(ctx, exec))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
		assert.Equal(t, "graph-1", loaded.GraphID)
		require.Contains(t, loaded.Nodes, "n1")
		assert.Equal(t, domain.NodeCompleted, loaded.Nodes["n1"].Status)
	})

	t.Run("Load isolates the stored record", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Nodes["n1"].Status = domain.NodeError

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeCompleted, again.Nodes["n1"].Status)
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+id)
		assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewExecution(id+"-del", "g")))
		require.NoError(t, store.Delete(ctx, id+"-del"))
		_, err := store.Load(ctx, id+"-del")
		assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, domain.NewExecution(id1, "g")))
		require.NoError(t, store.Save(ctx, domain.NewExecution(id2, "g")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

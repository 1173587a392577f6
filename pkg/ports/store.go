package ports

import (
	"context"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// ExecutionStore persists run records. Active runs live with their session;
// the store holds snapshots and terminal records for later inspection.
type ExecutionStore interface {
	// Save persists the execution keyed by its id.
	Save(ctx context.Context, exec *domain.Execution) error

	// Load retrieves an execution by id.
	// Returns domain.ErrExecutionNotFound if absent.
	Load(ctx context.Context, id string) (*domain.Execution, error)

	// Delete removes an execution record.
	Delete(ctx context.Context, id string) error

	// List returns the stored execution ids.
	List(ctx context.Context) ([]string, error)
}

package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates run ownership across replicas, so two
// instances never drive the same execution id. Single-instance deployments
// simply leave it unset.
type DistributedLocker interface {
	// Lock acquires the lock for key, blocking until acquired, the context
	// is canceled, or the TTL expires (implementation specific). The
	// returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

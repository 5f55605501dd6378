package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes provisioning runs across processes.
// Keys are host names, so two runs never touch the same host at once.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx ends.
	// A live holder keeps the lock; it expires after ttl if the holder dies
	// without unlocking.
	// The returned UnlockFunc must be called once the run is over.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

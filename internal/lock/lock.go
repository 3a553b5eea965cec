package lock

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when a key stays held past the caller's wait.
var ErrLockTimeout = errors.New("lock: timed out waiting for key")

// Locker serializes work per key. The returned release func must be called
// exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockAcquire is returned when a lock cannot be acquired before the
// context is done. The context error is wrapped alongside it.
var ErrLockAcquire = errors.New("failed to acquire model lock")

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// ModelLocker coordinates writers of one model across processes.
// The model layer itself only carries an advisory read-only flag; a host
// that cannot acquire the lock opens the model read-only.
type ModelLocker interface {
	// Lock attempts to acquire the lock for key (usually the model id).
	// It blocks until the lock is acquired or the context is done.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

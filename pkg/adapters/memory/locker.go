package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/archiscript/pkg/ports"
)

// Locker implements ports.ModelLocker within one process.
// Safe for concurrent use.
type Locker struct {
	mu    sync.Mutex
	held  map[string]uint64
	next  uint64
	clock func() time.Time
	until map[string]time.Time
}

// NewLocker creates a new in-memory locker.
func NewLocker() *Locker {
	return &Locker{
		held:  make(map[string]uint64),
		until: make(map[string]time.Time),
		clock: time.Now,
	}
}

// Lock acquires key, polling until it is free, expired or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if token, ok := l.tryLock(key, ttl); ok {
			return func(context.Context) error {
				l.unlock(key, token)
				return nil
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %q: %w", ports.ErrLockAcquire, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) tryLock(key string, ttl time.Duration) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if _, ok := l.held[key]; ok {
		if exp, expires := l.until[key]; !expires || now.Before(exp) {
			return 0, false
		}
	}
	l.next++
	l.held[key] = l.next
	if ttl > 0 {
		l.until[key] = now.Add(ttl)
	} else {
		delete(l.until, key)
	}
	return l.next, true
}

// unlock releases key only if token still owns it.
func (l *Locker) unlock(key string, token uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		delete(l.until, key)
	}
}

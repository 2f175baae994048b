package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/domain"
)

// keyedLocks hands out one exclusive lock per entity key. Each lock is a
// buffered channel of size one so waiting can be abandoned on timeout.
type keyedLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{slots: make(map[string]chan struct{})}
}

func (l *keyedLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *keyedLocks) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: lock %s not acquired within %s", domain.ErrStorageUnavailable, key, timeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: lock %s: %w", domain.ErrStorageUnavailable, key, ctx.Err())
	}
}

func (l *keyedLocks) release(key string) {
	<-l.slot(key)
}

func itemKey(id int) string { return fmt.Sprintf("item:%d", id) }
func orderKey(id int) string { return fmt.Sprintf("order:%d", id) }
func tableKey(id int) string { return fmt.Sprintf("table:%d", id) }

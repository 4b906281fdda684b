package provision

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// TableLocks serializes provisioning of the same table within this process.
// Other processes writing the same table are not covered.
type TableLocks struct {
	mu    sync.Mutex
	locks map[string]*tableLock
}

type tableLock struct {
	sem  *semaphore.Weighted
	refs int
}

func NewTableLocks() *TableLocks {
	return &TableLocks{locks: make(map[string]*tableLock)}
}

// Lock blocks until key is free or ctx is done. The returned unlock is safe
// to call more than once.
func (l *TableLocks) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	tl, ok := l.locks[key]
	if !ok {
		tl = &tableLock{sem: semaphore.NewWeighted(1)}
		l.locks[key] = tl
	}
	tl.refs++
	l.mu.Unlock()

	if err := tl.sem.Acquire(ctx, 1); err != nil {
		l.release(key, tl)
		return func() {}, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			tl.sem.Release(1)
			l.release(key, tl)
		})
	}, nil
}

func (l *TableLocks) release(key string, tl *tableLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tl.refs--
	if tl.refs == 0 {
		delete(l.locks, key)
	}
}

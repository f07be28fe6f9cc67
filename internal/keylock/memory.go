package keylock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

type memoryEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// Memory is an in-process Locker. Each key gets a weight-1 semaphore that is
// dropped once nobody holds or waits for it.
type Memory struct {
	wait time.Duration

	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemory(wait time.Duration) *Memory {
	return &Memory{
		wait:    wait,
		entries: make(map[string]*memoryEntry),
	}
}

func (m *Memory) Lock(ctx context.Context, keys ...string) (func(), error) {
	acquireCtx, cancel := boundedContext(ctx, m.wait)
	defer cancel()

	unlock, err := acquireAll(acquireCtx, normalize(keys), m.lockOne)
	if err != nil {
		return nil, waitError(ctx, err)
	}
	return unlock, nil
}

func (m *Memory) lockOne(ctx context.Context, key string) (func(), error) {
	entry := m.retain(key)
	if err := entry.sem.Acquire(ctx, 1); err != nil {
		m.releaseRef(key)
		return nil, err
	}
	return func() {
		entry.sem.Release(1)
		m.releaseRef(key)
	}, nil
}

func (m *Memory) retain(key string) *memoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &memoryEntry{sem: semaphore.NewWeighted(1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Memory) releaseRef(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(m.entries, key)
	}
}

// size reports the number of live key entries.
func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

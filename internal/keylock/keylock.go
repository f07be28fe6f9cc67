// internal/keylock/keylock.go
package keylock

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrBusy is returned when a key could not be acquired within the wait bound.
var ErrBusy = errors.New("keylock: lock wait exceeded")

// Locker grants exclusive ownership of a set of keys.
// The returned unlock releases every key and is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// normalize sorts and de-duplicates keys so every caller acquires in the same order.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// boundedContext derives the acquisition context. A parent deadline shorter
// than wait wins.
func boundedContext(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, wait)
}

// acquireAll locks keys in order with lockOne and unwinds on failure.
func acquireAll(ctx context.Context, keys []string, lockOne func(context.Context, string) (func(), error)) (func(), error) {
	releases := make([]func(), 0, len(keys))
	unwind := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, k := range keys {
		release, err := lockOne(ctx, k)
		if err != nil {
			unwind()
			return nil, err
		}
		releases = append(releases, release)
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		unwind()
	}, nil
}

// waitError turns an expired acquisition context into ErrBusy unless the
// caller's own context was cancelled first.
func waitError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrBusy
	}
	return err
}

package coursehub

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested article or page does not exist.
var ErrNotFound = errors.New("coursehub: not found")

// Latency simulates the round trip of a future network-backed store.
// The zero value never waits.
type Latency struct {
	Read  time.Duration // single record lookups
	List  time.Duration // collection snapshots
	Write time.Duration // create, update, delete
}

// DefaultLatency mirrors the delays of the mock API the stores stand in for.
var DefaultLatency = Latency{
	Read:  200 * time.Millisecond,
	List:  300 * time.Millisecond,
	Write: 400 * time.Millisecond,
}

// wait blocks for d or until ctx is done. The caller's operation runs
// either way; a cancelled caller simply stops waiting for the result.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// stamp returns the current time, never earlier than prev.
func stamp(now func() time.Time, prev time.Time) time.Time {
	t := now().UTC()
	if t.Before(prev) {
		return prev
	}
	return t
}

// nextID returns max(existing ids, 0) + 1.
func nextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}

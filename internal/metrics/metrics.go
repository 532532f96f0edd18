// Package metrics stores the named usage counters emitted by the tweet
// service.
package metrics

import "context"

// Counter is a store of named monotonic counters.
type Counter interface {
	Increment(ctx context.Context, name string, delta int64) error
	// Snapshot returns the current value of every counter that has been
	// incremented at least once.
	Snapshot(ctx context.Context) (map[string]int64, error)
	Close() error
}

// Package testutil provides common utility functions for testing.
package testutil

import (
	"sync"
	"time"
)

// Find returns a pointer to the first item matching the predicate, or nil.
func Find[T any](items []T, match func(T) bool) *T {
	for i := range items {
		if match(items[i]) {
			return &items[i]
		}
	}
	return nil
}

// TickingClock returns a clock starting at start that advances by step on
// every reading. It is safe for concurrent use.
func TickingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
}

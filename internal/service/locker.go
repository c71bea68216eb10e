package service

import "github.com/moby/locker"

// keyedMutex serializes work per project id. Entries are dropped once no
// goroutine holds or waits for them.
type keyedMutex struct {
	locks *locker.Locker
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: locker.New()}
}

// Lock acquires the lock for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.locks.Lock(key)
	return func() {
		// Unlock only errors for a key nobody holds.
		_ = k.locks.Unlock(key)
	}
}

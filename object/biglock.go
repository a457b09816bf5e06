package object

import (
	"sync"
	"sync/atomic"
)

// MutationLock is the single coarse-grained lock that serializes all
// device-state mutation across the object graph. Leaf operations in the
// bridge assert that it is held; they never acquire it themselves. The
// host's dispatch loop (or, in this repo, the machine builder and the
// reset controller) is the acquiring party.
type MutationLock struct {
	mu   sync.Mutex
	held atomic.Bool
}

// Lock acquires the lock.
func (l *MutationLock) Lock() {
	l.mu.Lock()
	l.held.Store(true)
}

// Unlock releases the lock.
func (l *MutationLock) Unlock() {
	l.held.Store(false)
	l.mu.Unlock()
}

// Held reports whether the lock is currently held.
func (l *MutationLock) Held() bool {
	return l.held.Load()
}

var bigLock MutationLock

// BigLock returns the process-wide mutation lock.
func BigLock() *MutationLock {
	return &bigLock
}

// AssertBigLockHeld panics unless the big lock is held. Mutating
// operations call it on entry; running them without the lock is a
// precondition violation, never silently tolerated.
func AssertBigLockHeld() {
	if !bigLock.Held() {
		panic("object: big lock not held")
	}
}

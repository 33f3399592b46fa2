package core

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a test-and-test-and-set spinlock, used only by the SPSC queue's opt-in
// multi-producer path. Ordinary single-producer use never touches it.
type SpinLock struct {
	state uint32
}

// Lock spins until the lock is acquired, backing off with runtime.Gosched between attempts.
func (s *SpinLock) Lock() {
	for {
		if atomic.LoadUint32(&s.state) == 0 && atomic.CompareAndSwapUint32(&s.state, 0, 1) {
			return
		}
		runtime.Gosched()
	}
}

// Unlock releases the lock with a release store.
func (s *SpinLock) Unlock() {
	atomic.StoreUint32(&s.state, 0)
}

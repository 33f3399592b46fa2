package core

import (
	"runtime"
	"sync/atomic"
)

// DefaultQueueSize is the default per-shard command queue capacity.
const DefaultQueueSize = 65536

// CommandQueue is a lock-free single-producer single-consumer ring buffer of Command values, with
// batch push/pop and an opt-in spinlock for the (non-default) case of sharing one queue across
// multiple producer goroutines. Head and tail live on separate cache lines so producer and
// consumer never contend on the same line; each side keeps a cached view of the other's index to
// avoid an atomic load on the common case.
type CommandQueue struct {
	buffer []Command
	mask   uint64
	_      [32]byte

	head       uint64
	cachedTail uint64
	_          [48]byte

	tail       uint64
	cachedHead uint64
	_          [48]byte

	mpLock        SpinLock
	multiProducer bool
}

// NewCommandQueue allocates a queue of the given capacity, which must be a power of two.
func NewCommandQueue(size uint64) *CommandQueue {
	if size == 0 || size&(size-1) != 0 {
		panic("matchcore: queue capacity must be a power of two")
	}
	return &CommandQueue{
		buffer: make([]Command, size),
		mask:   size - 1,
	}
}

// EnableMultiProducer switches the queue into opt-in multi-producer mode: Push/PushBatch/PushBlock
// take an internal spinlock before touching the head index. The consumer side is never locked.
func (q *CommandQueue) EnableMultiProducer() {
	q.multiProducer = true
}

// Push enqueues one command, returning false if the queue is full.
func (q *CommandQueue) Push(cmd Command) bool {
	if q.multiProducer {
		q.mpLock.Lock()
		defer q.mpLock.Unlock()
	}
	return q.pushLocked(cmd)
}

func (q *CommandQueue) pushLocked(cmd Command) bool {
	head := atomic.LoadUint64(&q.head)
	nextHead := head + 1
	if nextHead-q.cachedTail > uint64(len(q.buffer)) {
		q.cachedTail = atomic.LoadUint64(&q.tail)
		if nextHead-q.cachedTail > uint64(len(q.buffer)) {
			return false
		}
	}
	q.buffer[head&q.mask] = cmd
	atomic.StoreUint64(&q.head, nextHead)
	return true
}

// PushBlock spins until the command is accepted.
func (q *CommandQueue) PushBlock(cmd Command) {
	for !q.Push(cmd) {
		runtime.Gosched()
	}
}

// PushBatch enqueues every item in items atomically from the consumer's point of view: either all
// of them land contiguously before the head advances once, or none do.
func (q *CommandQueue) PushBatch(items []Command) bool {
	if len(items) == 0 {
		return true
	}
	if q.multiProducer {
		q.mpLock.Lock()
		defer q.mpLock.Unlock()
	}
	n := uint64(len(items))
	head := atomic.LoadUint64(&q.head)
	nextHead := head + n
	if nextHead-q.cachedTail > uint64(len(q.buffer)) {
		q.cachedTail = atomic.LoadUint64(&q.tail)
		if nextHead-q.cachedTail > uint64(len(q.buffer)) {
			return false
		}
	}
	for i, item := range items {
		q.buffer[(head+uint64(i))&q.mask] = item
	}
	atomic.StoreUint64(&q.head, nextHead)
	return true
}

// PushBatchBlock spins until the whole batch is accepted.
func (q *CommandQueue) PushBatchBlock(items []Command) {
	for !q.PushBatch(items) {
		runtime.Gosched()
	}
}

// Pop dequeues one command, returning false if the queue is empty.
func (q *CommandQueue) Pop(out *Command) bool {
	tail := atomic.LoadUint64(&q.tail)
	if tail >= q.cachedHead {
		q.cachedHead = atomic.LoadUint64(&q.head)
		if tail >= q.cachedHead {
			return false
		}
	}
	*out = q.buffer[tail&q.mask]
	atomic.StoreUint64(&q.tail, tail+1)
	return true
}

// PopBatch fills dst with up to len(dst) commands in one sweep and returns the count popped.
func (q *CommandQueue) PopBatch(dst []Command) int {
	tail := atomic.LoadUint64(&q.tail)
	if tail >= q.cachedHead {
		q.cachedHead = atomic.LoadUint64(&q.head)
		if tail >= q.cachedHead {
			return 0
		}
	}
	avail := q.cachedHead - tail
	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	for i := uint64(0); i < n; i++ {
		dst[i] = q.buffer[(tail+i)&q.mask]
	}
	atomic.StoreUint64(&q.tail, tail+n)
	return int(n)
}

// Depth returns the approximate number of queued commands.
func (q *CommandQueue) Depth() uint64 {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)
	return head - tail
}

// IsEmpty reports whether the queue currently has no queued commands.
func (q *CommandQueue) IsEmpty() bool {
	return atomic.LoadUint64(&q.head) == atomic.LoadUint64(&q.tail)
}

// Reset clears the queue. Not safe to call concurrently with Push/Pop.
func (q *CommandQueue) Reset() {
	atomic.StoreUint64(&q.head, 0)
	atomic.StoreUint64(&q.tail, 0)
	q.cachedHead = 0
	q.cachedTail = 0
}

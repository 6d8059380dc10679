// Package schedule implements axeberg's work-stealing task runtime: a
// Chase-Lev lock-free deque per worker, a shared FIFO injector for
// external spawns, and a worker pool that steals from randomised
// victims before parking.
package schedule

import (
	"sync/atomic"

	"axeberg-kernel/ids"
)

// Task is a unit of scheduled work. Unlike the source's poll-based
// Future, a Task runs to completion on its own goroutine once popped;
// anything it needs to wait on (a channel, a mutex) blocks the
// goroutine rather than yielding control back to a scheduler poll.
type Task func()

// managedTask pairs a Task with the id it was spawned under, so the
// executor can answer questions about a specific in-flight task.
type managedTask struct {
	id   ids.TaskId
	task Task
}

// StealResult is the outcome of a pop or steal attempt.
type StealResult int

const (
	// StealEmpty means the deque held no task.
	StealEmpty StealResult = iota
	// StealSuccess means a task was retrieved.
	StealSuccess
	// StealRetry means another thief (or the owner) won a race for the
	// last element; the caller may retry immediately.
	StealRetry
)

// buffer is the fixed-size ring backing a deque. capacity must be a
// power of two so index wrapping reduces to a bitmask.
type buffer struct {
	data     []managedTask
	capacity int
	mask     int
}

func newBuffer(capacity int) *buffer {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("schedule: deque capacity must be a power of two")
	}
	return &buffer{
		data:     make([]managedTask, capacity),
		capacity: capacity,
		mask:     capacity - 1,
	}
}

func (b *buffer) write(index int, t managedTask) { b.data[index&b.mask] = t }
func (b *buffer) read(index int) managedTask     { return b.data[index&b.mask] }

// packTop/unpackTop store a generation counter in the high 32 bits and
// the index in the low 32 bits, so a CAS on top can never be fooled by
// an index that wrapped back to a value a stale reader already saw
// (ABA safety for the steal race).
func packTop(generation, top uint32) uint64 {
	return uint64(generation)<<32 | uint64(top)
}

func unpackTop(packed uint64) (generation uint32, top uint32) {
	return uint32(packed >> 32), uint32(packed)
}

// deque is the state shared between a Worker and its Stealers.
type deque struct {
	bottom atomic.Uint64 // only the owning Worker writes this
	top    atomic.Uint64 // packed (generation, index); stealers CAS this
	buf    *buffer
}

// Worker is the owner's handle: push and pop operate LIFO from the
// bottom.
type Worker struct {
	inner *deque
}

// Stealer is a thief's handle: steal operates FIFO from the top.
// Multiple Stealers may share one deque.
type Stealer struct {
	inner *deque
}

// NewDeque builds a deque of the given power-of-two capacity and
// returns its owner and stealer handles.
func NewDeque(capacity int) (*Worker, *Stealer) {
	d := &deque{buf: newBuffer(capacity)}
	return &Worker{inner: d}, &Stealer{inner: d}
}

// Stealer returns an additional stealer handle onto w's deque.
func (w *Worker) Stealer() *Stealer { return &Stealer{inner: w.inner} }

// Push adds a task at the bottom. Returns false if the deque is full;
// the caller keeps ownership of the task in that case.
func (w *Worker) Push(t managedTask) bool {
	bottom := uint32(w.inner.bottom.Load())
	_, top := unpackTop(w.inner.top.Load())

	size := bottom - top
	if int(size) >= w.inner.buf.capacity {
		return false
	}

	w.inner.buf.write(int(bottom), t)
	w.inner.bottom.Store(uint64(bottom + 1))
	return true
}

// Pop removes and returns the most recently pushed task (LIFO).
func (w *Worker) Pop() (managedTask, StealResult) {
	oldBottom := uint32(w.inner.bottom.Load())
	newBottom := oldBottom - 1
	w.inner.bottom.Store(uint64(newBottom))

	packedTop := w.inner.top.Load()
	generation, top := unpackTop(packedTop)

	size := int32(oldBottom - top)
	if size <= 0 {
		w.inner.bottom.Store(uint64(top))
		return managedTask{}, StealEmpty
	}

	task := w.inner.buf.read(int(newBottom))

	if size == 1 {
		newPackedTop := packTop(generation+1, top+1)
		if w.inner.top.CompareAndSwap(packedTop, newPackedTop) {
			w.inner.bottom.Store(uint64(top + 1))
			return task, StealSuccess
		}
		w.inner.bottom.Store(uint64(top + 1))
		return managedTask{}, StealEmpty
	}

	return task, StealSuccess
}

// IsEmpty reports whether the deque currently holds no tasks.
func (w *Worker) IsEmpty() bool {
	bottom := uint32(w.inner.bottom.Load())
	_, top := unpackTop(w.inner.top.Load())
	return bottom-top == 0
}

// Len returns an approximate (possibly stale) task count.
func (w *Worker) Len() int {
	bottom := uint32(w.inner.bottom.Load())
	_, top := unpackTop(w.inner.top.Load())
	return int(bottom - top)
}

// Steal removes the oldest pushed task (FIFO), racing the owner and
// any other stealer for it.
func (s *Stealer) Steal() (managedTask, StealResult) {
	packedTop := s.inner.top.Load()
	generation, top := unpackTop(packedTop)

	// Acts as the SeqCst fence in the source: on Go's memory model a
	// second atomic load after the first already provides the ordering
	// needed to see a bottom store that happened-before the top store.
	bottom := uint32(s.inner.bottom.Load())

	size := int32(bottom - top)
	if size <= 0 {
		return managedTask{}, StealEmpty
	}

	task := s.inner.buf.read(int(top))

	newPackedTop := packTop(generation+1, top+1)
	if s.inner.top.CompareAndSwap(packedTop, newPackedTop) {
		return task, StealSuccess
	}
	return managedTask{}, StealRetry
}

// IsEmpty reports whether the deque currently holds no tasks.
func (s *Stealer) IsEmpty() bool {
	_, top := unpackTop(s.inner.top.Load())
	bottom := uint32(s.inner.bottom.Load())
	return bottom-top == 0
}

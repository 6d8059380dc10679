package schedule

import "sync"

// injector is the global MPMC queue external callers spawn onto and
// workers drain after a local deque miss. The source leaves the
// concrete queue algorithm unspecified ("any correct MPMC queue
// implementation suffices; the contract is FIFO and non-blocking") so
// this is a mutex-guarded ring rather than a lock-free structure: it
// satisfies the same contract without inventing an unverified
// lock-free algorithm the pack offers no grounding for.
type injector struct {
	mu    sync.Mutex
	tasks []managedTask
}

func newInjector() *injector {
	return &injector{}
}

// push appends a task to the tail of the queue.
func (inj *injector) push(t managedTask) {
	inj.mu.Lock()
	inj.tasks = append(inj.tasks, t)
	inj.mu.Unlock()
}

// steal removes and returns the task at the head of the queue. There
// is no Retry outcome here: a mutex-guarded slice has no partial-CAS
// race to lose, so every attempt is either Success or Empty.
func (inj *injector) steal() (managedTask, StealResult) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	if len(inj.tasks) == 0 {
		return managedTask{}, StealEmpty
	}
	t := inj.tasks[0]
	inj.tasks = inj.tasks[1:]
	return t, StealSuccess
}

// isEmpty reports whether the queue currently holds no tasks.
func (inj *injector) isEmpty() bool {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return len(inj.tasks) == 0
}

// len returns the current queue depth.
func (inj *injector) len() int {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return len(inj.tasks)
}

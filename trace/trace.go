// Package trace implements axeberg's instrumentation system: a
// category-filtered event ring buffer plus syscall, scheduler, and
// kernel-wide performance counters.
package trace

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"axeberg-kernel/ids"
)

// bufferCapacity bounds the event ring at 1000 entries (spec.md §3).
const bufferCapacity = 1000

// Category classifies a trace event.
type Category int

const (
	Syscall Category = iota
	Process
	Memory
	Timer
	Signal
	Scheduler
	File
	Ipc
	Compositor
	Custom
)

// String renders the short uppercase tag used in summaries and logs.
func (c Category) String() string {
	switch c {
	case Syscall:
		return "SYSCALL"
	case Process:
		return "PROCESS"
	case Memory:
		return "MEMORY"
	case Timer:
		return "TIMER"
	case Signal:
		return "SIGNAL"
	case Scheduler:
		return "SCHED"
	case File:
		return "FILE"
	case Ipc:
		return "IPC"
	case Compositor:
		return "COMP"
	case Custom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// Event is a single trace record.
type Event struct {
	Timestamp float64
	Category  Category
	Name      string
	Detail    string
	HasDetail bool
	Pid       ids.Pid
	HasPid    bool
	Duration  float64
	HasDur    bool

	// SpanID correlates related events (e.g. a syscall's entry and
	// exit) across the ring buffer; zero-value means uncorrelated.
	SpanID uuid.UUID
}

// Instant returns a bare event with no detail, pid, or duration.
func Instant(timestamp float64, category Category, name string) Event {
	return Event{Timestamp: timestamp, Category: category, Name: name}
}

// WithDetail returns an event carrying a detail string.
func WithDetail(timestamp float64, category Category, name, detail string) Event {
	return Event{Timestamp: timestamp, Category: category, Name: name, Detail: detail, HasDetail: true}
}

// WithPid attaches pid to e and returns the updated event.
func (e Event) WithPid(pid ids.Pid) Event {
	e.Pid = pid
	e.HasPid = true
	return e
}

// WithDuration attaches a duration (ms) to e and returns the updated event.
func (e Event) WithDuration(duration float64) Event {
	e.Duration = duration
	e.HasDur = true
	return e
}

// WithSpan attaches a correlation id to e and returns the updated event.
func (e Event) WithSpan(span uuid.UUID) Event {
	e.SpanID = span
	return e
}

// Tracer is the kernel's instrumentation hub: a gated, bounded event
// ring plus the syscall/scheduler/kernel statistics blocks.
type Tracer struct {
	enabled   bool
	filter    []Category
	hasFilter bool

	events []Event // ring buffer, oldest first, capped at bufferCapacity

	Syscalls  SyscallStats
	Scheduler SchedulerStats
	Kernel    KernelStats

	startTime float64
}

// New returns a disabled tracer with empty statistics.
func New() *Tracer {
	return &Tracer{events: make([]Event, 0, bufferCapacity)}
}

// SetStartTime sets the reference point Uptime measures from.
func (t *Tracer) SetStartTime(tm float64) { t.startTime = tm }

// Uptime returns now - the tracer's configured start time.
func (t *Tracer) Uptime(now float64) float64 { return now - t.startTime }

// Enable turns tracing on.
func (t *Tracer) Enable() { t.enabled = true }

// Disable turns tracing off; statistics are untouched.
func (t *Tracer) Disable() { t.enabled = false }

// IsEnabled reports whether tracing is currently on.
func (t *Tracer) IsEnabled() bool { return t.enabled }

// SetFilter restricts tracing to the given categories. An empty or nil
// slice clears the filter (trace everything).
func (t *Tracer) SetFilter(categories []Category) {
	if len(categories) == 0 {
		t.filter = nil
		t.hasFilter = false
		return
	}
	t.filter = append([]Category(nil), categories...)
	t.hasFilter = true
}

func (t *Tracer) shouldTrace(category Category) bool {
	if !t.enabled {
		return false
	}
	if !t.hasFilter {
		return true
	}
	for _, c := range t.filter {
		if c == category {
			return true
		}
	}
	return false
}

// Trace records event if tracing is enabled and the filter (if any)
// permits its category, evicting the oldest event once the ring is
// full.
func (t *Tracer) Trace(event Event) {
	if !t.shouldTrace(event.Category) {
		return
	}
	if len(t.events) >= bufferCapacity {
		t.events = t.events[1:]
	}
	t.events = append(t.events, event)
}

// TraceInstant is a convenience path that skips building a full Event
// when the gate is closed.
func (t *Tracer) TraceInstant(timestamp float64, category Category, name string) {
	if t.shouldTrace(category) {
		t.Trace(Instant(timestamp, category, name))
	}
}

// TraceDetail is TraceInstant's counterpart for events carrying detail.
func (t *Tracer) TraceDetail(timestamp float64, category Category, name, detail string) {
	if t.shouldTrace(category) {
		t.Trace(WithDetail(timestamp, category, name, detail))
	}
}

// Events returns the current ring buffer contents, oldest first. The
// returned slice is owned by the tracer; callers must not mutate it.
func (t *Tracer) Events() []Event { return t.events }

// EventsByCategory returns every buffered event matching category.
func (t *Tracer) EventsByCategory(category Category) []Event {
	var out []Event
	for _, e := range t.events {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// EventsByPid returns every buffered event tagged with pid.
func (t *Tracer) EventsByPid(pid ids.Pid) []Event {
	var out []Event
	for _, e := range t.events {
		if e.HasPid && e.Pid == pid {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents empties the ring buffer, leaving statistics untouched.
func (t *Tracer) ClearEvents() { t.events = t.events[:0] }

// ResetStats zeroes the syscall, scheduler, and kernel statistics
// blocks, leaving the event buffer untouched.
func (t *Tracer) ResetStats() {
	t.Syscalls = SyscallStats{}
	t.Scheduler = SchedulerStats{}
	t.Kernel = KernelStats{}
}

// Reset clears both the event buffer and all statistics.
func (t *Tracer) Reset() {
	t.ClearEvents()
	t.ResetStats()
}

// Summary is a point-in-time report over a Tracer's state.
type Summary struct {
	Uptime           float64
	Enabled          bool
	EventCount       int
	SyscallCount     uint64
	SyscallErrors    uint64
	TickCount        uint64
	AvgTickTime      float64
	MaxTickTime      float64
	ProcessesSpawned uint64
	ProcessesExited  uint64
	SignalsDelivered uint64
	TimersFired      uint64
	BytesRead        uint64
	BytesWritten     uint64
}

// Summary snapshots t's state as of now.
func (t *Tracer) Summary(now float64) Summary {
	return Summary{
		Uptime:           t.Uptime(now),
		Enabled:          t.enabled,
		EventCount:       len(t.events),
		SyscallCount:     t.Syscalls.TotalCount(),
		SyscallErrors:    t.Syscalls.TotalErrors(),
		TickCount:        t.Scheduler.TickCount,
		AvgTickTime:      t.Scheduler.AvgTickTime(),
		MaxTickTime:      t.Scheduler.MaxTickTime,
		ProcessesSpawned: t.Kernel.ProcessesSpawned,
		ProcessesExited:  t.Kernel.ProcessesExited,
		SignalsDelivered: t.Kernel.SignalsDelivered,
		TimersFired:      t.Kernel.TimersFired,
		BytesRead:        t.Kernel.BytesRead,
		BytesWritten:     t.Kernel.BytesWritten,
	}
}

// String renders s the way the CLI's "axctl trace summary" prints it.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Kernel Statistics ===\n")
	fmt.Fprintf(&b, "Uptime: %.2fs\n", s.Uptime/1000.0)
	status := "OFF"
	if s.Enabled {
		status = "ON"
	}
	fmt.Fprintf(&b, "Tracing: %s\n", status)
	fmt.Fprintf(&b, "Events buffered: %d\n\n", s.EventCount)
	fmt.Fprintf(&b, "--- Syscalls ---\n")
	fmt.Fprintf(&b, "Total: %d\n", s.SyscallCount)
	fmt.Fprintf(&b, "Errors: %d\n\n", s.SyscallErrors)
	fmt.Fprintf(&b, "--- Scheduler ---\n")
	fmt.Fprintf(&b, "Ticks: %d\n", s.TickCount)
	fmt.Fprintf(&b, "Avg tick: %.3fms\n", s.AvgTickTime)
	fmt.Fprintf(&b, "Max tick: %.3fms\n\n", s.MaxTickTime)
	fmt.Fprintf(&b, "--- Processes ---\n")
	fmt.Fprintf(&b, "Spawned: %d\n", s.ProcessesSpawned)
	fmt.Fprintf(&b, "Exited: %d\n\n", s.ProcessesExited)
	fmt.Fprintf(&b, "--- Events ---\n")
	fmt.Fprintf(&b, "Signals: %d\n", s.SignalsDelivered)
	fmt.Fprintf(&b, "Timers: %d\n\n", s.TimersFired)
	fmt.Fprintf(&b, "--- I/O ---\n")
	fmt.Fprintf(&b, "Read: %d bytes\n", s.BytesRead)
	fmt.Fprintf(&b, "Written: %d bytes\n", s.BytesWritten)
	return b.String()
}

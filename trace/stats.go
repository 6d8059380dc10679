package trace

import "math"

// PerfCounters tracks call count, timing, and error count for one
// operation category.
type PerfCounters struct {
	Count     uint64
	TotalTime float64
	MinTime   float64
	MaxTime   float64
	Errors    uint64
}

// NewPerfCounters returns zeroed counters with MinTime seeded at
// math.MaxFloat64 so the first Record call always sets it.
func NewPerfCounters() PerfCounters {
	return PerfCounters{MinTime: math.MaxFloat64}
}

// Record logs a successful call that took duration milliseconds.
func (p *PerfCounters) Record(duration float64) {
	p.Count++
	p.TotalTime += duration
	if duration < p.MinTime {
		p.MinTime = duration
	}
	if duration > p.MaxTime {
		p.MaxTime = duration
	}
}

// RecordError logs a failed call.
func (p *PerfCounters) RecordError() { p.Errors++ }

// AvgTime returns the mean call duration, or 0 if there have been no
// successful calls.
func (p *PerfCounters) AvgTime() float64 {
	if p.Count == 0 {
		return 0
	}
	return p.TotalTime / float64(p.Count)
}

// SuccessRate returns successes / (successes + errors), or 1 if
// neither has ever been recorded.
func (p *PerfCounters) SuccessRate() float64 {
	total := p.Count + p.Errors
	if total == 0 {
		return 1
	}
	return float64(p.Count) / float64(total)
}

// SyscallStats breaks perf counters out per syscall name.
type SyscallStats struct {
	Open     PerfCounters
	Close    PerfCounters
	Read     PerfCounters
	Write    PerfCounters
	Dup      PerfCounters
	Pipe     PerfCounters
	Seek     PerfCounters
	Mkdir    PerfCounters
	Readdir  PerfCounters
	Remove   PerfCounters
	Exists   PerfCounters
	Chdir    PerfCounters
	Getcwd   PerfCounters
	Getpid   PerfCounters
	MemAlloc PerfCounters
	MemFree  PerfCounters
	MemRead  PerfCounters
	MemWrite PerfCounters
	ShmOps   PerfCounters
	TimerOps PerfCounters
	SignalOps PerfCounters
}

func (s *SyscallStats) all() []*PerfCounters {
	return []*PerfCounters{
		&s.Open, &s.Close, &s.Read, &s.Write, &s.Dup, &s.Pipe, &s.Seek,
		&s.Mkdir, &s.Readdir, &s.Remove, &s.Exists, &s.Chdir, &s.Getcwd,
		&s.Getpid, &s.MemAlloc, &s.MemFree, &s.MemRead, &s.MemWrite,
		&s.ShmOps, &s.TimerOps, &s.SignalOps,
	}
}

// TotalCount sums the call count across every syscall counter.
func (s *SyscallStats) TotalCount() uint64 {
	var total uint64
	for _, c := range s.all() {
		total += c.Count
	}
	return total
}

// TotalErrors sums the error count across every syscall counter.
func (s *SyscallStats) TotalErrors() uint64 {
	var total uint64
	for _, c := range s.all() {
		total += c.Errors
	}
	return total
}

// SchedulerStats tracks the work-stealing executor's tick-level
// throughput.
type SchedulerStats struct {
	TickCount      uint64
	TasksPolled    uint64
	TasksCompleted uint64
	TasksSpawned   uint64
	TotalTickTime  float64
	MaxTickTime    float64
}

// RecordTick logs one scheduler tick that polled the given number of
// tasks and took duration milliseconds.
func (s *SchedulerStats) RecordTick(polled int, duration float64) {
	s.TickCount++
	s.TasksPolled += uint64(polled)
	s.TotalTickTime += duration
	if duration > s.MaxTickTime {
		s.MaxTickTime = duration
	}
}

// AvgTasksPerTick returns the mean polled-tasks-per-tick.
func (s *SchedulerStats) AvgTasksPerTick() float64 {
	if s.TickCount == 0 {
		return 0
	}
	return float64(s.TasksPolled) / float64(s.TickCount)
}

// AvgTickTime returns the mean tick duration.
func (s *SchedulerStats) AvgTickTime() float64 {
	if s.TickCount == 0 {
		return 0
	}
	return s.TotalTickTime / float64(s.TickCount)
}

// KernelStats tracks kernel-wide lifecycle and I/O counters.
type KernelStats struct {
	ProcessesSpawned    uint64
	ProcessesExited     uint64
	CurrentProcessCount uint32
	PeakProcessCount    uint32
	SignalsDelivered    uint64
	TimersFired         uint64
	BytesRead           uint64
	BytesWritten        uint64
}

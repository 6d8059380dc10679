package trace

import (
	"testing"

	"axeberg-kernel/ids"
)

func TestTracer_DisabledByDefault(t *testing.T) {
	tr := New()
	if tr.IsEnabled() {
		t.Fatal("expected tracer disabled by default")
	}
}

func TestTracer_EnableDisable(t *testing.T) {
	tr := New()
	tr.Enable()
	if !tr.IsEnabled() {
		t.Fatal("expected enabled after Enable")
	}
	tr.Disable()
	if tr.IsEnabled() {
		t.Fatal("expected disabled after Disable")
	}
}

func TestEvent_Instant(t *testing.T) {
	e := Instant(100, Syscall, "open")
	if e.Timestamp != 100 || e.Category != Syscall || e.Name != "open" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.HasDetail || e.HasPid || e.HasDur {
		t.Fatal("instant event should carry no optional fields")
	}
}

func TestEvent_WithDetail(t *testing.T) {
	e := WithDetail(100, File, "open", "/etc/passwd")
	if !e.HasDetail || e.Detail != "/etc/passwd" {
		t.Fatalf("unexpected detail event: %+v", e)
	}
}

func TestEvent_WithPid(t *testing.T) {
	e := Instant(100, Process, "spawn").WithPid(ids.Pid(42))
	if !e.HasPid || e.Pid != ids.Pid(42) {
		t.Fatalf("unexpected pid: %+v", e)
	}
}

func TestTracer_RecordsEvents(t *testing.T) {
	tr := New()
	tr.Enable()

	tr.TraceInstant(100, Syscall, "open")
	tr.TraceInstant(200, Syscall, "read")
	tr.TraceInstant(300, Syscall, "close")

	if len(tr.Events()) != 3 {
		t.Fatalf("Events() len = %d, want 3", len(tr.Events()))
	}
}

func TestTracer_Filter(t *testing.T) {
	tr := New()
	tr.Enable()
	tr.SetFilter([]Category{Syscall})

	tr.TraceInstant(100, Syscall, "open")
	tr.TraceInstant(200, Memory, "alloc")
	tr.TraceInstant(300, Syscall, "close")

	if len(tr.Events()) != 2 {
		t.Fatalf("Events() len = %d, want 2", len(tr.Events()))
	}
}

func TestTracer_RingBufferEviction(t *testing.T) {
	tr := New()
	tr.Enable()

	for i := 0; i < bufferCapacity+100; i++ {
		tr.TraceInstant(float64(i), Syscall, "test")
	}

	events := tr.Events()
	if len(events) != bufferCapacity {
		t.Fatalf("Events() len = %d, want %d", len(events), bufferCapacity)
	}
	if events[0].Timestamp != 100 {
		t.Fatalf("oldest surviving event = %v, want timestamp 100", events[0])
	}
}

func TestPerfCounters_Record(t *testing.T) {
	p := NewPerfCounters()
	p.Record(10)
	p.Record(20)
	p.Record(15)

	if p.Count != 3 || p.TotalTime != 45 {
		t.Fatalf("unexpected counters: %+v", p)
	}
	if p.MinTime != 10 || p.MaxTime != 20 {
		t.Fatalf("min/max = %v/%v, want 10/20", p.MinTime, p.MaxTime)
	}
	if p.AvgTime() != 15 {
		t.Fatalf("AvgTime = %v, want 15", p.AvgTime())
	}
}

func TestPerfCounters_Errors(t *testing.T) {
	p := NewPerfCounters()
	p.Record(10)
	p.RecordError()
	p.RecordError()

	if p.Count != 1 || p.Errors != 2 {
		t.Fatalf("unexpected counters: %+v", p)
	}
	if rate := p.SuccessRate(); rate < 0.32 || rate > 0.34 {
		t.Fatalf("SuccessRate = %v, want ~0.333", rate)
	}
}

func TestSchedulerStats_RecordTick(t *testing.T) {
	var s SchedulerStats
	s.RecordTick(5, 1.0)
	s.RecordTick(3, 2.0)
	s.RecordTick(7, 0.5)

	if s.TickCount != 3 || s.TasksPolled != 15 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if s.AvgTasksPerTick() != 5.0 {
		t.Fatalf("AvgTasksPerTick = %v, want 5", s.AvgTasksPerTick())
	}
	if s.MaxTickTime != 2.0 {
		t.Fatalf("MaxTickTime = %v, want 2", s.MaxTickTime)
	}
}

func TestTracer_Summary(t *testing.T) {
	tr := New()
	tr.Enable()
	tr.SetStartTime(0)
	tr.Kernel.ProcessesSpawned = 5
	tr.Kernel.ProcessesExited = 2
	tr.Syscalls.Open.Count = 10
	tr.Syscalls.Read.Count = 50

	s := tr.Summary(1000)
	if s.Uptime != 1000 || !s.Enabled {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.SyscallCount != 60 {
		t.Fatalf("SyscallCount = %d, want 60", s.SyscallCount)
	}
	if s.ProcessesSpawned != 5 {
		t.Fatalf("ProcessesSpawned = %d, want 5", s.ProcessesSpawned)
	}
}

func TestTracer_EventsByCategoryAndPid(t *testing.T) {
	tr := New()
	tr.Enable()

	tr.TraceInstant(100, Syscall, "open")
	tr.TraceInstant(200, Memory, "alloc")
	tr.TraceInstant(300, Syscall, "close")
	tr.TraceInstant(400, Process, "spawn")

	if got := tr.EventsByCategory(Syscall); len(got) != 2 {
		t.Fatalf("EventsByCategory(Syscall) len = %d, want 2", len(got))
	}

	tr.Trace(Instant(500, Syscall, "read").WithPid(ids.Pid(1)))
	tr.Trace(Instant(600, Syscall, "write").WithPid(ids.Pid(2)))
	tr.Trace(Instant(700, Syscall, "close").WithPid(ids.Pid(1)))

	if got := tr.EventsByPid(ids.Pid(1)); len(got) != 2 {
		t.Fatalf("EventsByPid(1) len = %d, want 2", len(got))
	}
}

func TestTracer_Reset(t *testing.T) {
	tr := New()
	tr.Enable()

	tr.TraceInstant(100, Syscall, "test")
	tr.Syscalls.Open.Count = 10
	tr.Kernel.ProcessesSpawned = 5

	tr.Reset()

	if len(tr.Events()) != 0 {
		t.Fatal("expected empty events after Reset")
	}
	if tr.Syscalls.Open.Count != 0 || tr.Kernel.ProcessesSpawned != 0 {
		t.Fatal("expected zeroed stats after Reset")
	}
}

func TestTracer_DisabledRecordsNothing(t *testing.T) {
	tr := New()
	tr.TraceInstant(100, Syscall, "open")
	tr.TraceInstant(200, Syscall, "read")
	if len(tr.Events()) != 0 {
		t.Fatal("expected no events while disabled")
	}
}

package hooks

import (
	"context"
	"errors"
	"testing"
	"time"

	"axeberg-kernel/ids"
)

func TestRegistry_RunNilRegistry(t *testing.T) {
	var r *Registry
	if err := r.Run(Fork, State{}); err != nil {
		t.Errorf("nil registry should not error: %v", err)
	}
}

func TestRegistry_RunNoHooksRegistered(t *testing.T) {
	r := NewRegistry()
	if err := r.Run(Exec, State{Pid: 1}); err != nil {
		t.Errorf("no hooks registered should not error: %v", err)
	}
}

func TestRegistry_RunSingleHook(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register(Fork, func(ctx context.Context, state State) error {
		called = true
		if state.Pid != 42 {
			t.Errorf("state.Pid = %d, want 42", state.Pid)
		}
		return nil
	})

	if err := r.Run(Fork, State{Pid: 42, Name: "child"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !called {
		t.Fatal("hook was not invoked")
	}
}

func TestRegistry_RunOrderPreserved(t *testing.T) {
	r := NewRegistry()
	var order []int

	r.Register(Exit, func(ctx context.Context, state State) error {
		order = append(order, 1)
		return nil
	})
	r.Register(Exit, func(ctx context.Context, state State) error {
		order = append(order, 2)
		return nil
	})
	r.Register(Exit, func(ctx context.Context, state State) error {
		order = append(order, 3)
		return nil
	})

	if err := r.Run(Exit, State{Pid: 7}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRegistry_RunStopsOnFirstError(t *testing.T) {
	r := NewRegistry()
	ranSecond := false

	r.Register(Fork, func(ctx context.Context, state State) error {
		return errors.New("boom")
	})
	r.Register(Fork, func(ctx context.Context, state State) error {
		ranSecond = true
		return nil
	})

	err := r.Run(Fork, State{Pid: 1})
	if err == nil {
		t.Fatal("expected error from first hook")
	}
	if ranSecond {
		t.Fatal("second hook should not have run after first failed")
	}
}

func TestRegistry_RunWrapsErrorWithPointAndPid(t *testing.T) {
	r := NewRegistry()
	r.Register(Exec, func(ctx context.Context, state State) error {
		return errors.New("bad image")
	})

	err := r.Run(Exec, State{Pid: ids.Pid(99)})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !containsSubstr(got, "exec hook for pid 99") {
		t.Errorf("error = %q, want it to mention point and pid", got)
	}
}

func TestRegistry_WithTimeoutAppliesToContext(t *testing.T) {
	r := NewRegistry().WithTimeout(10 * time.Millisecond)

	var sawDeadline bool
	r.Register(Fork, func(ctx context.Context, state State) error {
		_, sawDeadline = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	})

	err := r.Run(Fork, State{Pid: 1})
	if !sawDeadline {
		t.Fatal("expected hook context to carry a deadline")
	}
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestRegistry_MultiplePointsAreIndependent(t *testing.T) {
	r := NewRegistry()
	forkCalled, exitCalled := false, false

	r.Register(Fork, func(ctx context.Context, state State) error {
		forkCalled = true
		return nil
	})
	r.Register(Exit, func(ctx context.Context, state State) error {
		exitCalled = true
		return nil
	})

	if err := r.Run(Fork, State{}); err != nil {
		t.Fatalf("Run(Fork) error: %v", err)
	}
	if !forkCalled || exitCalled {
		t.Fatalf("forkCalled=%v exitCalled=%v, want true/false", forkCalled, exitCalled)
	}
}

func containsSubstr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

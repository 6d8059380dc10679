package kernel

import (
	"testing"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
	"axeberg-kernel/process"
)

func TestKill_SigstopAndSigcontToggleStopped(t *testing.T) {
	k := New("test-kernel")
	defer k.Shutdown()

	k.mu.Lock()
	pid := ids.Pid(k.nextPid)
	k.nextPid++
	k.processes[pid] = newTestProcess(pid)
	k.mu.Unlock()

	if err := k.Kill(pid, process.SIGSTOP, 0); err != nil {
		t.Fatalf("Kill(SIGSTOP) error = %v", err)
	}
	p, _ := k.Process(pid)
	if !p.IsStopped() {
		t.Fatal("expected process to be stopped after SIGSTOP")
	}

	if err := k.Kill(pid, process.SIGCONT, 0); err != nil {
		t.Fatalf("Kill(SIGCONT) error = %v", err)
	}
	p, _ = k.Process(pid)
	if p.IsStopped() {
		t.Error("expected process to resume after SIGCONT")
	}
}

func TestKill_SigkillAlwaysTerminates(t *testing.T) {
	k := New("test-kernel")
	defer k.Shutdown()

	k.mu.Lock()
	pid := ids.Pid(k.nextPid)
	k.nextPid++
	p := newTestProcess(pid)
	p.Signals.SetDisposition(process.SIGKILL, process.DispositionIgnore)
	k.processes[pid] = p
	k.mu.Unlock()

	if err := k.Kill(pid, process.SIGKILL, 0); err != nil {
		t.Fatalf("Kill(SIGKILL) error = %v", err)
	}
	got, _ := k.Process(pid)
	if got.IsAlive() {
		t.Error("expected SIGKILL to terminate regardless of disposition")
	}
}

func TestKill_CaughtSignalDoesNotTerminate(t *testing.T) {
	k := New("test-kernel")
	defer k.Shutdown()

	k.mu.Lock()
	pid := ids.Pid(k.nextPid)
	k.nextPid++
	p := newTestProcess(pid)
	if err := p.Signals.SetDisposition(process.SIGTERM, process.DispositionCatch); err != nil {
		t.Fatalf("SetDisposition: %v", err)
	}
	k.processes[pid] = p
	k.mu.Unlock()

	if err := k.Kill(pid, process.SIGTERM, 0); err != nil {
		t.Fatalf("Kill(SIGTERM) error = %v", err)
	}
	got, _ := k.Process(pid)
	if !got.IsAlive() {
		t.Error("expected caught SIGTERM not to terminate the process")
	}
	if !got.Signals.Pending(process.SIGTERM) {
		t.Error("expected SIGTERM to remain pending for the catching process")
	}
}

func TestKill_DefaultDispositionTerminates(t *testing.T) {
	k := New("test-kernel")
	defer k.Shutdown()

	k.mu.Lock()
	pid := ids.Pid(k.nextPid)
	k.nextPid++
	k.processes[pid] = newTestProcess(pid)
	k.mu.Unlock()

	if err := k.Kill(pid, process.SIGTERM, 0); err != nil {
		t.Fatalf("Kill(SIGTERM) error = %v", err)
	}
	got, _ := k.Process(pid)
	if got.IsAlive() {
		t.Error("expected default-disposition SIGTERM to terminate the process")
	}
	if got.State.ExitCode != 128+int32(process.SIGTERM) {
		t.Errorf("ExitCode = %d, want %d", got.State.ExitCode, 128+int32(process.SIGTERM))
	}
}

func TestKill_UnknownPid(t *testing.T) {
	k := New("test-kernel")
	defer k.Shutdown()

	if err := k.Kill(ids.Pid(999), process.SIGTERM, 0); !kerrors.Is(err, kerrors.ErrProcessNotFound) {
		t.Fatalf("Kill() error = %v, want ErrProcessNotFound", err)
	}
}

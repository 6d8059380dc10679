package kernel

import (
	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/hooks"
	"axeberg-kernel/ids"
	"axeberg-kernel/process"
	"axeberg-kernel/trace"
)

// genRegionId mints region ids for a CowFork, scoped to this kernel so
// parent and child region ids never collide with any other process's.
func (k *Kernel) genRegionId() ids.RegionId {
	k.nextRegn++
	return ids.RegionId(k.nextRegn)
}

// Fork creates a copy-on-write child of parentPid: a new pid, inherited
// credentials/environment/cwd/ctty, a fresh empty file table, and a
// copy-on-write view of the parent's memory regions. The child is
// scheduled as a new task on the executor and the fork hook point runs
// once the child is visible in the process table.
func (k *Kernel) Fork(parentPid ids.Pid, now float64) (ids.Pid, error) {
	k.mu.Lock()
	parent, ok := k.processes[parentPid]
	if !ok {
		k.mu.Unlock()
		return 0, kerrors.ErrProcessNotFound
	}

	childPid := ids.Pid(k.nextPid)
	k.nextPid++

	child, _ := parent.CowFork(childPid, k.genRegionId)
	k.processes[childPid] = child
	parent.Children = append(parent.Children, childPid)
	k.mu.Unlock()

	k.Tracer.Trace(trace.Instant(now, trace.Process, "fork").WithPid(childPid))

	handle := k.Executor.Spawn(func() {})
	k.mu.Lock()
	if c, ok := k.processes[childPid]; ok {
		taskID := handle.Id()
		c.Task = &taskID
	}
	k.mu.Unlock()

	if err := k.Hooks.Run(hooks.Fork, hooks.State{Pid: childPid, Name: child.Name}); err != nil {
		return childPid, err
	}
	return childPid, nil
}

// Exec replaces pid's image in place: its name, argv-derived environment
// additions, and working directory change, but its pid, credentials,
// and open file descriptors survive (POSIX exec semantics). The exec
// hook point runs after the image is replaced.
func (k *Kernel) Exec(pid ids.Pid, name string, env map[string]string, cwd string, now float64) error {
	k.mu.Lock()
	p, ok := k.processes[pid]
	if !ok {
		k.mu.Unlock()
		return kerrors.ErrProcessNotFound
	}

	p.Name = name
	for key, value := range env {
		p.Setenv(key, value)
	}
	if cwd != "" {
		p.Chdir(cwd)
	}
	p.State = process.Running()
	k.mu.Unlock()

	k.Tracer.Trace(trace.WithDetail(now, trace.Process, "exec", name).WithPid(pid))

	return k.Hooks.Run(hooks.Exec, hooks.State{Pid: pid, Name: name})
}

// Exit marks pid as a zombie with exitCode and runs the exit hook
// point. It does not reap the process — the process table entry stays
// until Reap removes it, mirroring how a real kernel keeps a zombie
// around for its parent to wait(2) on.
func (k *Kernel) Exit(pid ids.Pid, exitCode int32, now float64) error {
	k.mu.Lock()
	p, ok := k.processes[pid]
	if !ok {
		k.mu.Unlock()
		return kerrors.ErrProcessNotFound
	}
	p.State = process.Zombie(exitCode)
	name := p.Name
	k.mu.Unlock()

	k.Tracer.Trace(trace.WithDetail(now, trace.Process, "exit", name).WithPid(pid))

	return k.Hooks.Run(hooks.Exit, hooks.State{Pid: pid, Name: name, ExitCode: exitCode})
}

// Reap removes a zombie's process table entry, freeing its pid and
// detaching it from its parent's child list. It returns
// ErrProcessNotFound if pid has no entry at all, and an ErrInvalidInput
// kind if pid exists but has not exited yet.
func (k *Kernel) Reap(pid ids.Pid) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	p, ok := k.processes[pid]
	if !ok {
		return kerrors.ErrProcessNotFound
	}
	if p.State.Kind != process.StateZombie {
		return kerrors.WrapWithSubject(nil, kerrors.ErrInvalidInput, "reap", pid.String())
	}

	if p.Parent != nil {
		if parent, ok := k.processes[*p.Parent]; ok {
			parent.Children = removePid(parent.Children, pid)
		}
	}
	delete(k.processes, pid)
	return nil
}

// defaultTerminates is the set of signals whose default (uncaught,
// unignored) action ends the process, as opposed to SIGSTOP (stops it)
// and SIGCONT (resumes it).
func defaultTerminates(sig process.Signal) bool {
	switch sig {
	case process.SIGHUP, process.SIGINT, process.SIGKILL, process.SIGTERM, process.SIGUSR1, process.SIGUSR2:
		return true
	default:
		return false
	}
}

// Kill raises sig on pid and, for SIGSTOP/SIGCONT, applies the default
// stop/continue action unconditionally (POSIX never lets a handler
// intercept those transitions). For every other signal left at its
// default disposition, delivery terminates the process immediately —
// this simulation has no scheduler turn in which a caught handler would
// otherwise run. A process with DispositionIgnore or DispositionCatch
// for sig only has the signal marked pending.
func (k *Kernel) Kill(pid ids.Pid, sig process.Signal, now float64) error {
	k.mu.Lock()
	p, ok := k.processes[pid]
	if !ok {
		k.mu.Unlock()
		return kerrors.ErrProcessNotFound
	}

	p.Signals.Raise(sig)
	name := p.Name
	terminated := false

	switch {
	case sig == process.SIGSTOP:
		p.Signals.Consume(sig)
		if p.IsAlive() {
			p.State = process.Stopped()
		}
	case sig == process.SIGCONT:
		p.Signals.Consume(sig)
		if p.IsStopped() {
			p.State = process.Running()
		}
	case defaultTerminates(sig) && sig == process.SIGKILL:
		p.Signals.Consume(sig)
		p.State = process.Zombie(128 + int32(sig))
		terminated = true
	case defaultTerminates(sig) && p.Signals.Disposition(sig) == process.DispositionDefault && p.IsAlive():
		p.Signals.Consume(sig)
		p.State = process.Zombie(128 + int32(sig))
		terminated = true
	}
	k.mu.Unlock()

	k.Tracer.Trace(trace.WithDetail(now, trace.Process, "kill", sig.String()).WithPid(pid))

	if terminated {
		return k.Hooks.Run(hooks.Exit, hooks.State{Pid: pid, Name: name, ExitCode: 128 + int32(sig)})
	}
	return nil
}

func removePid(list []ids.Pid, target ids.Pid) []ids.Pid {
	out := list[:0]
	for _, pid := range list {
		if pid != target {
			out = append(out, pid)
		}
	}
	return out
}

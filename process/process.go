// Package process implements the axeberg process model: PIDs, process
// groups and sessions, the POSIX three-ID credential set, per-process
// file descriptor tables, resource limits, copy-on-write fork, and the
// signal and memory-accounting records a process carries.
package process

import (
	"strings"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// ProcessStateKind names the coarse state a process can be in.
type ProcessStateKind string

const (
	StateRunning  ProcessStateKind = "running"
	StateSleeping ProcessStateKind = "sleeping"
	StateBlocked  ProcessStateKind = "blocked"
	StateStopped  ProcessStateKind = "stopped"
	StateZombie   ProcessStateKind = "zombie"
)

// ProcessState is the process's current run state. BlockedOn is only
// meaningful when Kind == StateBlocked; ExitCode only when Kind ==
// StateZombie.
type ProcessState struct {
	Kind      ProcessStateKind
	BlockedOn ids.Pid
	ExitCode  int32
}

// Running returns the Running state.
func Running() ProcessState { return ProcessState{Kind: StateRunning} }

// Sleeping returns the Sleeping state.
func Sleeping() ProcessState { return ProcessState{Kind: StateSleeping} }

// Blocked returns the Blocked(on) state.
func Blocked(on ids.Pid) ProcessState { return ProcessState{Kind: StateBlocked, BlockedOn: on} }

// Stopped returns the Stopped state.
func Stopped() ProcessState { return ProcessState{Kind: StateStopped} }

// Zombie returns the Zombie(exitCode) state.
func Zombie(exitCode int32) ProcessState { return ProcessState{Kind: StateZombie, ExitCode: exitCode} }

// defaultEnviron returns the environment variables a fresh process
// starts with.
func defaultEnviron() map[string]string {
	return map[string]string{
		"HOME":  "/home/user",
		"USER":  "user",
		"SHELL": "/bin/sh",
		"PATH":  "/bin:/usr/bin",
		"TERM":  "xterm-256color",
	}
}

// Process is one entry in the process table.
type Process struct {
	Pid    ids.Pid
	Parent *ids.Pid
	Pgid   ids.Pgid
	Sid    ids.Sid

	Uid  ids.Uid
	Gid  ids.Gid
	Euid ids.Uid
	Egid ids.Gid
	Suid ids.Uid
	Sgid ids.Gid

	Groups []ids.Gid

	State ProcessState

	Files   *FileTable
	Memory  *ProcessMemory
	Signals *ProcessSignals
	Rlimits ResourceLimits

	Environ map[string]string
	Cwd     string

	Task *ids.TaskId
	Name string

	Children []ids.Pid
	Ctty     *string

	IsSessionLeader bool
	Umask           uint16
}

// New returns a fresh process owned by uid/gid 1000, its own session
// and process group leader, with the default environment and umask
// 0o022.
func New(pid ids.Pid, name string, parent *ids.Pid) *Process {
	uid, gid := ids.Uid(1000), ids.Gid(1000)
	return &Process{
		Pid:             pid,
		Parent:          parent,
		Pgid:            ids.Pgid(pid),
		Sid:             ids.Sid(pid),
		Uid:             uid,
		Gid:             gid,
		Euid:            uid,
		Egid:            gid,
		Suid:            uid,
		Sgid:            gid,
		Groups:          []ids.Gid{gid},
		State:           Running(),
		Files:           NewFileTable(),
		Memory:          NewProcessMemory(),
		Signals:         NewProcessSignals(),
		Rlimits:         NewResourceLimits(),
		Environ:         defaultEnviron(),
		Cwd:             "/",
		Name:            name,
		IsSessionLeader: true,
		Umask:           0o022,
	}
}

// WithEnviron returns a process with inherited credentials and
// environment, for use when spawning a child into an existing
// pgid/session rather than starting a new one.
func WithEnviron(pid ids.Pid, name string, parent *ids.Pid, pgid ids.Pgid, sid ids.Sid, uid ids.Uid, gid ids.Gid, groups []ids.Gid, environ map[string]string, cwd string) *Process {
	return &Process{
		Pid:     pid,
		Parent:  parent,
		Pgid:    pgid,
		Sid:     sid,
		Uid:     uid,
		Gid:     gid,
		Euid:    uid,
		Egid:    gid,
		Suid:    uid,
		Sgid:    gid,
		Groups:  groups,
		State:   Running(),
		Files:   NewFileTable(),
		Memory:  NewProcessMemory(),
		Signals: NewProcessSignals(),
		Rlimits: NewResourceLimits(),
		Environ: environ,
		Cwd:     cwd,
		Name:    name,
		Umask:   0o022,
	}
}

// WithMemoryLimit is New with a bounded memory accounting record.
func WithMemoryLimit(pid ids.Pid, name string, parent *ids.Pid, limit uint64) *Process {
	p := New(pid, name, parent)
	p.Memory = NewProcessMemoryWithLimit(limit)
	return p
}

// NewLoginShell returns a session-leading login shell process for
// username, attached to tty1, with HOME/USER/LOGNAME/SHELL/PWD set
// from the given account details (what login(1) does).
func NewLoginShell(pid ids.Pid, name string, parent *ids.Pid, uid ids.Uid, gid ids.Gid, groups []ids.Gid, username, home, shell string) *Process {
	ctty := "tty1"
	return &Process{
		Pid:     pid,
		Parent:  parent,
		Pgid:    ids.Pgid(pid),
		Sid:     ids.Sid(pid),
		Uid:     uid,
		Gid:     gid,
		Euid:    uid,
		Egid:    gid,
		Suid:    uid,
		Sgid:    gid,
		Groups:  groups,
		State:   Running(),
		Files:   NewFileTable(),
		Memory:  NewProcessMemory(),
		Signals: NewProcessSignals(),
		Rlimits: NewResourceLimits(),
		Environ: map[string]string{
			"HOME":    home,
			"USER":    username,
			"LOGNAME": username,
			"SHELL":   shell,
			"PATH":    "/bin:/usr/bin:/usr/local/bin",
			"TERM":    "xterm-256color",
			"PWD":     home,
		},
		Cwd:             home,
		Name:            name,
		Ctty:            &ctty,
		IsSessionLeader: true,
		Umask:           0o022,
	}
}

// IsSessionLeaderNow reports whether p is, right now, a session
// leader: the flag is set and sid == pid.
func (p *Process) IsSessionLeaderNow() bool {
	return p.IsSessionLeader && uint32(p.Sid) == uint32(p.Pid)
}

// Getsid returns p's session id.
func (p *Process) Getsid() ids.Sid { return p.Sid }

// Getenv looks up name in p's environment.
func (p *Process) Getenv(name string) (string, bool) {
	v, ok := p.Environ[name]
	return v, ok
}

// Setenv sets name=value in p's environment.
func (p *Process) Setenv(name, value string) {
	p.Environ[name] = value
}

// Unsetenv removes name from p's environment, reporting whether it
// was present.
func (p *Process) Unsetenv(name string) bool {
	if _, ok := p.Environ[name]; !ok {
		return false
	}
	delete(p.Environ, name)
	return true
}

// IsAlive reports whether p has not exited, i.e. is not a zombie.
func (p *Process) IsAlive() bool { return p.State.Kind != StateZombie }

// IsStopped reports whether p is currently stopped (e.g. by SIGSTOP).
func (p *Process) IsStopped() bool { return p.State.Kind == StateStopped }

// CanRun reports whether the scheduler may poll p's task.
func (p *Process) CanRun() bool {
	return p.State.Kind == StateRunning || p.State.Kind == StateSleeping
}

// Setuid sets p's real, effective, and saved uid. Only root may set a
// uid other than its own.
func (p *Process) Setuid(uid ids.Uid) error {
	if p.Euid != ids.Root && uid != p.Uid && uid != p.Euid && uid != p.Suid {
		return kerrors.ErrNotPermitted
	}
	p.Uid, p.Euid, p.Suid = uid, uid, uid
	return nil
}

// Setgid is Setuid's group-id counterpart.
func (p *Process) Setgid(gid ids.Gid) error {
	if p.Egid != ids.RootGid && gid != p.Gid && gid != p.Egid && gid != p.Sgid {
		return kerrors.ErrNotPermitted
	}
	p.Gid, p.Egid, p.Sgid = gid, gid, gid
	return nil
}

// Seteuid sets only the effective uid, permitted so long as the
// target matches one of the real/effective/saved triple, or the
// caller is root.
func (p *Process) Seteuid(uid ids.Uid) error {
	if p.Euid != ids.Root && uid != p.Uid && uid != p.Euid && uid != p.Suid {
		return kerrors.ErrNotPermitted
	}
	p.Euid = uid
	return nil
}

// Setegid is Seteuid's group-id counterpart.
func (p *Process) Setegid(gid ids.Gid) error {
	if p.Egid != ids.RootGid && gid != p.Gid && gid != p.Egid && gid != p.Sgid {
		return kerrors.ErrNotPermitted
	}
	p.Egid = gid
	return nil
}

// Setgroups replaces p's supplementary group list. Only root may call
// this.
func (p *Process) Setgroups(groups []ids.Gid) error {
	if p.Euid != ids.Root {
		return kerrors.ErrNotPermitted
	}
	p.Groups = append([]ids.Gid(nil), groups...)
	return nil
}

// Chdir normalises and installs a new cwd.
func (p *Process) Chdir(path string) {
	p.Cwd = normalizeCwd(path)
}

func normalizeCwd(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

// CowFork returns a child of p suitable for fork(): a new pid, this
// process as parent, inherited pgid/sid/credentials/rlimits/environ/
// cwd/ctty/umask, copy-on-write memory, an empty file table and
// children list (the caller populates fds and a task), and fresh
// signal state. genRegionId mints region ids for the child's share of
// each copy-on-write region.
func (p *Process) CowFork(childPid ids.Pid, genRegionId func() ids.RegionId) (*Process, map[ids.RegionId]ids.RegionId) {
	childMemory, regionMapping := p.Memory.cowFork(genRegionId)

	parentPid := p.Pid
	var ctty *string
	if p.Ctty != nil {
		c := *p.Ctty
		ctty = &c
	}

	child := &Process{
		Pid:             childPid,
		Parent:          &parentPid,
		Pgid:            p.Pgid,
		Sid:             p.Sid,
		Uid:             p.Uid,
		Gid:             p.Gid,
		Euid:            p.Euid,
		Egid:            p.Egid,
		Suid:            p.Suid,
		Sgid:            p.Sgid,
		Groups:          append([]ids.Gid(nil), p.Groups...),
		State:           Running(),
		Files:           NewFileTableWithLimit(p.Files.maxFds),
		Memory:          childMemory,
		Signals:         NewProcessSignals(),
		Rlimits:         p.Rlimits,
		Environ:         copyEnviron(p.Environ),
		Cwd:             p.Cwd,
		Name:            p.Name,
		Ctty:            ctty,
		IsSessionLeader: false,
		Umask:           p.Umask,
	}

	return child, regionMapping
}

func copyEnviron(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

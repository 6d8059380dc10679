// Package kernel wires every simulated subsystem — objects, mounts,
// users, sockets, terminals, the scheduler, and the tracer — into one
// process-wide facade, and persists that facade's state to a YAML
// snapshot file the way the teacher's container package persists
// container state to JSON.
package kernel

import (
	"sync"

	"axeberg-kernel/bootspec"
	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/hooks"
	"axeberg-kernel/ids"
	"axeberg-kernel/logging"
	"axeberg-kernel/mount"
	"axeberg-kernel/object"
	"axeberg-kernel/process"
	"axeberg-kernel/schedule"
	"axeberg-kernel/security"
	"axeberg-kernel/socket"
	"axeberg-kernel/trace"
	"axeberg-kernel/tty"
)

// Kernel is the process-wide facade over every subsystem package. All
// methods are safe for concurrent use.
type Kernel struct {
	mu sync.Mutex

	Hostname string

	Objects  *object.Table
	Mounts   *mount.MountTable
	Users    *security.UserDB
	Sockets  *socket.Manager
	Ttys     *tty.Manager
	Tracer   *trace.Tracer
	Executor *schedule.WorkStealingExecutor
	Hooks    *hooks.Registry

	processes map[ids.Pid]*process.Process
	nextPid   uint32
	nextRegn  uint64
}

// New returns a kernel with every subsystem initialised to its default
// state: root/wheel/user/nobody seeded into the user database, the
// default mount table, console and tty1 terminals, and a started
// scheduler executor. Pid allocation starts at 1 (the init process).
func New(hostname string) *Kernel {
	k := &Kernel{
		Hostname:  hostname,
		Objects:   object.NewTable(),
		Mounts:    mount.NewMountTableWithDefaults(0),
		Users:     security.NewUserDB(),
		Sockets:   socket.NewManager(),
		Ttys:      tty.NewManager(),
		Tracer:    trace.New(),
		Executor:  schedule.NewExecutor(schedule.DefaultConfig()),
		Hooks:     hooks.NewRegistry(),
		processes: make(map[ids.Pid]*process.Process),
		nextPid:   1,
	}
	k.Executor.Run()
	return k
}

// Boot builds a kernel from a bootspec configuration: seeds users,
// groups and mounts, then spawns the configured initial process as pid
// 1. It is the kernel-level analogue of container.New followed by
// container start.
func Boot(cfg bootspec.Config) (*Kernel, error) {
	k := New(cfg.Hostname)

	for _, g := range cfg.Groups {
		gid, err := k.Users.AddGroup(g.Name)
		if err != nil {
			return nil, wrapBootError(err, "seed group "+g.Name)
		}
		for _, member := range g.Members {
			if grp, ok := k.Users.GetGroup(gid); ok {
				grp.AddMember(member)
			}
		}
	}

	for _, u := range cfg.Users {
		var gid *ids.Gid
		if u.Group != "" {
			if g, ok := k.Users.GetGroupByName(u.Group); ok {
				id := g.Gid
				gid = &id
			}
		}
		uid, err := k.Users.AddUser(u.Name, gid)
		if err != nil {
			return nil, wrapBootError(err, "seed user "+u.Name)
		}
		acct, _ := k.Users.GetUser(uid)
		if u.Home != "" {
			acct.Home = u.Home
		}
		if u.Shell != "" {
			acct.Shell = u.Shell
		}
		if u.Password != "" {
			acct.SetPassword(u.Password)
		}
	}

	for _, m := range cfg.Mounts {
		fstype := mount.ParseFsType(m.FsType)
		opts := mount.ParseMountOptions(m.Options)
		if err := k.Mounts.Mount(m.Source, m.Target, fstype, opts, 0); err != nil {
			return nil, wrapBootError(err, "mount "+m.Target)
		}
	}

	uid, gid := ids.Root, ids.RootGid
	var groups []ids.Gid
	if cfg.Init.User != "" {
		if acct, ok := k.Users.GetUserByName(cfg.Init.User); ok {
			uid, gid = acct.Uid, acct.Gid
			groups = k.Users.GetUserGroups(cfg.Init.User)
		}
	}

	env := make(map[string]string, len(cfg.Init.Env))
	for _, kv := range cfg.Init.Env {
		if key, value, ok := splitEnv(kv); ok {
			env[key] = value
		}
	}
	if len(env) == 0 {
		env = nil
	}

	name := "init"
	if len(cfg.Init.Args) > 0 {
		name = cfg.Init.Args[0]
	}

	pid, err := k.spawnInit(name, uid, gid, groups, env, cfg.Init.Cwd, cfg.Init.MemoryLimit)
	if err != nil {
		return nil, err
	}

	logging.Info("kernel booted", "hostname", k.Hostname, "init_pid", pid)
	return k, nil
}

// wrapBootError re-wraps a subsystem error with the "boot" operation
// and detail, preserving the underlying error's kind so callers can
// still kerrors.IsKind/GetKind against it.
func wrapBootError(err error, detail string) error {
	kind, ok := kerrors.GetKind(err)
	if !ok {
		kind = kerrors.ErrInternal
	}
	return kerrors.WrapWithDetail(err, kind, "boot", detail)
}

func splitEnv(kv string) (key, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}

func (k *Kernel) spawnInit(name string, uid ids.Uid, gid ids.Gid, groups []ids.Gid, env map[string]string, cwd string, memLimit uint64) (ids.Pid, error) {
	k.mu.Lock()
	pid := ids.Pid(k.nextPid)
	k.nextPid++

	var p *process.Process
	if memLimit > 0 {
		p = process.WithMemoryLimit(pid, name, nil, memLimit)
		p.Uid, p.Gid, p.Euid, p.Egid, p.Suid, p.Sgid = uid, gid, uid, gid, uid, gid
	} else {
		p = process.New(pid, name, nil)
		p.Uid, p.Gid, p.Euid, p.Egid, p.Suid, p.Sgid = uid, gid, uid, gid, uid, gid
	}
	if len(groups) > 0 {
		p.Groups = groups
	}
	for key, value := range env {
		p.Environ[key] = value
	}
	if cwd != "" {
		p.Chdir(cwd)
	}

	k.processes[pid] = p
	k.mu.Unlock()

	if err := k.Hooks.Run(hooks.Fork, hooks.State{Pid: pid, Name: name}); err != nil {
		return pid, err
	}
	return pid, nil
}

// Process returns the process table entry for pid.
func (k *Kernel) Process(pid ids.Pid) (*process.Process, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	p, ok := k.processes[pid]
	return p, ok
}

// Processes returns every live process table entry, in no particular
// order.
func (k *Kernel) Processes() []*process.Process {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]*process.Process, 0, len(k.processes))
	for _, p := range k.processes {
		out = append(out, p)
	}
	return out
}

// Shutdown stops the scheduler executor. It does not tear down any
// other subsystem state — a kernel whose executor has been shut down
// can still be inspected or snapshotted.
func (k *Kernel) Shutdown() {
	k.Executor.Shutdown()
}

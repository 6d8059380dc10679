package process

import "axeberg-kernel/ids"

// Builder assembles a Process with optional fields defaulted the way
// ProcessBuilder does in the source: uid/gid 1000, cwd "/", umask
// 0o022, session-leader true, pgid/sid derived from pid unless
// overridden.
type Builder struct {
	pid     ids.Pid
	name    string
	parent  *ids.Pid
	pgid    *ids.Pgid
	sid     *ids.Sid
	uid     ids.Uid
	gid     ids.Gid
	euid    *ids.Uid
	egid    *ids.Gid
	groups  []ids.Gid
	environ map[string]string
	cwd     string

	memoryLimit     *uint64
	isSessionLeader bool
	umask           uint16
	ctty            *string
}

// NewBuilder starts a Builder for pid/name with every other field at
// its default.
func NewBuilder(pid ids.Pid, name string) *Builder {
	return &Builder{
		pid:             pid,
		name:            name,
		uid:             1000,
		gid:             1000,
		environ:         make(map[string]string),
		cwd:             "/",
		isSessionLeader: true,
		umask:           0o022,
	}
}

func (b *Builder) Parent(parent ids.Pid) *Builder { b.parent = &parent; return b }
func (b *Builder) Pgid(pgid ids.Pgid) *Builder     { b.pgid = &pgid; return b }
func (b *Builder) Sid(sid ids.Sid) *Builder        { b.sid = &sid; return b }
func (b *Builder) Uid(uid ids.Uid) *Builder        { b.uid = uid; return b }
func (b *Builder) Gid(gid ids.Gid) *Builder        { b.gid = gid; return b }
func (b *Builder) Euid(euid ids.Uid) *Builder      { b.euid = &euid; return b }
func (b *Builder) Egid(egid ids.Gid) *Builder      { b.egid = &egid; return b }

func (b *Builder) Groups(groups []ids.Gid) *Builder {
	b.groups = groups
	return b
}

func (b *Builder) Environ(environ map[string]string) *Builder {
	b.environ = environ
	return b
}

// Env sets a single environment variable, additive with Environ.
func (b *Builder) Env(key, value string) *Builder {
	b.environ[key] = value
	return b
}

func (b *Builder) Cwd(cwd string) *Builder { b.cwd = cwd; return b }

func (b *Builder) MemoryLimit(limit uint64) *Builder { b.memoryLimit = &limit; return b }

func (b *Builder) SessionLeader(isLeader bool) *Builder {
	b.isSessionLeader = isLeader
	return b
}

func (b *Builder) Umask(umask uint16) *Builder { b.umask = umask; return b }

func (b *Builder) Ctty(ctty string) *Builder { b.ctty = &ctty; return b }

// Build assembles the Process, deriving pgid/sid from pid and
// euid/egid from uid/gid where they were not explicitly set.
func (b *Builder) Build() *Process {
	pgid := ids.Pgid(b.pid)
	if b.pgid != nil {
		pgid = *b.pgid
	}
	sid := ids.Sid(b.pid)
	if b.sid != nil {
		sid = *b.sid
	}
	euid := b.uid
	if b.euid != nil {
		euid = *b.euid
	}
	egid := b.gid
	if b.egid != nil {
		egid = *b.egid
	}
	groups := b.groups
	if len(groups) == 0 {
		groups = []ids.Gid{b.gid}
	}

	var memory *ProcessMemory
	if b.memoryLimit != nil {
		memory = NewProcessMemoryWithLimit(*b.memoryLimit)
	} else {
		memory = NewProcessMemory()
	}

	return &Process{
		Pid:             b.pid,
		Parent:          b.parent,
		Pgid:            pgid,
		Sid:             sid,
		Uid:             b.uid,
		Gid:             b.gid,
		Euid:            euid,
		Egid:            egid,
		Suid:            b.uid,
		Sgid:            b.gid,
		Groups:          groups,
		State:           Running(),
		Files:           NewFileTable(),
		Memory:          memory,
		Signals:         NewProcessSignals(),
		Rlimits:         NewResourceLimits(),
		Environ:         b.environ,
		Cwd:             b.cwd,
		Name:            b.name,
		Ctty:            b.ctty,
		IsSessionLeader: b.isSessionLeader,
		Umask:           b.umask,
	}
}

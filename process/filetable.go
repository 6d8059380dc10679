package process

import "axeberg-kernel/ids"

// MaxFdsPerProcess is the default ceiling on open file descriptors.
const MaxFdsPerProcess = 1024

// FdFlags carries per-descriptor flags set via fcntl(F_SETFD).
type FdFlags struct {
	Cloexec bool
}

// FdCloexec is the FD_CLOEXEC bit value for FdFlags.FromBits/ToBits.
const FdCloexec uint32 = 1

// FdFlagsFromBits decodes a raw bitmask into FdFlags.
func FdFlagsFromBits(bits uint32) FdFlags {
	return FdFlags{Cloexec: bits&FdCloexec != 0}
}

// ToBits encodes f back into a raw bitmask.
func (f FdFlags) ToBits() uint32 {
	if f.Cloexec {
		return FdCloexec
	}
	return 0
}

// FileTable maps a process's file descriptors to kernel object
// handles. FDs 0, 1, 2 are reserved for stdin/stdout/stderr; alloc
// hands out the lowest numerically available FD at or above 3, so a
// closed FD's number becomes available for reuse.
type FileTable struct {
	table  map[ids.Fd]ids.Handle
	flags  map[ids.Fd]FdFlags
	maxFds int
}

// NewFileTable returns an empty table bounded by MaxFdsPerProcess.
func NewFileTable() *FileTable {
	return NewFileTableWithLimit(MaxFdsPerProcess)
}

// NewFileTableWithLimit returns an empty table with a custom fd
// ceiling.
func NewFileTableWithLimit(maxFds int) *FileTable {
	return &FileTable{
		table:  make(map[ids.Fd]ids.Handle),
		flags:  make(map[ids.Fd]FdFlags),
		maxFds: maxFds,
	}
}

// Alloc allocates the lowest free fd >= 3 for handle. Returns
// ok == false once the table is at MaxFds.
func (t *FileTable) Alloc(handle ids.Handle) (ids.Fd, bool) {
	return t.AllocWithFlags(handle, FdFlags{})
}

// AllocWithFlags is Alloc with explicit fd flags.
func (t *FileTable) AllocWithFlags(handle ids.Handle, flags FdFlags) (ids.Fd, bool) {
	if len(t.table) >= t.maxFds {
		return 0, false
	}

	for candidate := ids.Fd(3); int(candidate) <= t.maxFds+2; candidate++ {
		if _, taken := t.table[candidate]; !taken {
			t.table[candidate] = handle
			t.flags[candidate] = flags
			return candidate, true
		}
	}
	return 0, false
}

// Len returns the number of open file descriptors.
func (t *FileTable) Len() int { return len(t.table) }

// Empty reports whether the table has no open descriptors.
func (t *FileTable) Empty() bool { return len(t.table) == 0 }

// MaxFds returns the configured fd ceiling.
func (t *FileTable) MaxFds() int { return t.maxFds }

// SetMaxFds adjusts the fd ceiling, e.g. in response to an rlimit
// change.
func (t *FileTable) SetMaxFds(max int) { t.maxFds = max }

// Insert installs handle at an explicit fd (used for stdin/stdout/
// stderr, which are never allocated through Alloc).
func (t *FileTable) Insert(fd ids.Fd, handle ids.Handle) {
	t.table[fd] = handle
	t.flags[fd] = FdFlags{}
}

// Get returns the handle at fd.
func (t *FileTable) Get(fd ids.Fd) (ids.Handle, bool) {
	h, ok := t.table[fd]
	return h, ok
}

// Remove closes fd, returning the handle it held.
func (t *FileTable) Remove(fd ids.Fd) (ids.Handle, bool) {
	h, ok := t.table[fd]
	delete(t.table, fd)
	delete(t.flags, fd)
	return h, ok
}

// Contains reports whether fd is currently open.
func (t *FileTable) Contains(fd ids.Fd) bool {
	_, ok := t.table[fd]
	return ok
}

// GetFlags returns the fd flags for fd.
func (t *FileTable) GetFlags(fd ids.Fd) (FdFlags, bool) {
	f, ok := t.flags[fd]
	return f, ok
}

// SetFlags replaces the fd flags for fd. Reports false if fd is not
// open.
func (t *FileTable) SetFlags(fd ids.Fd, flags FdFlags) bool {
	if _, ok := t.table[fd]; !ok {
		return false
	}
	t.flags[fd] = flags
	return true
}

// CloneForFork returns a full copy of the table, used by fork() before
// the caller rewires any duplicated descriptors.
func (t *FileTable) CloneForFork() *FileTable {
	clone := NewFileTableWithLimit(t.maxFds)
	for fd, h := range t.table {
		clone.table[fd] = h
		clone.flags[fd] = t.flags[fd]
	}
	return clone
}

// CloneForExec returns a copy of the table with every FD_CLOEXEC
// descriptor dropped, as exec() requires.
func (t *FileTable) CloneForExec() *FileTable {
	clone := NewFileTableWithLimit(t.maxFds)
	for fd, h := range t.table {
		if t.flags[fd].Cloexec {
			continue
		}
		clone.table[fd] = h
		clone.flags[fd] = t.flags[fd]
	}
	return clone
}

// Iter returns every (fd, handle) pair currently open, in no
// particular order.
func (t *FileTable) Iter() map[ids.Fd]ids.Handle {
	out := make(map[ids.Fd]ids.Handle, len(t.table))
	for fd, h := range t.table {
		out[fd] = h
	}
	return out
}

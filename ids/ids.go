// Package ids defines the identifier newtypes shared across the kernel
// core: process, credential, and file-descriptor identifiers are 32-bit;
// handle-style identifiers are 64-bit.
package ids

import "fmt"

// Pid identifies a process.
type Pid uint32

func (p Pid) String() string { return fmt.Sprintf("%d", uint32(p)) }

// Pgid identifies a process group. A session or group leader has
// Pgid == Pid of the leader process.
type Pgid uint32

func (g Pgid) String() string { return fmt.Sprintf("%d", uint32(g)) }

// Sid identifies a session.
type Sid uint32

func (s Sid) String() string { return fmt.Sprintf("%d", uint32(s)) }

// Uid identifies a user.
type Uid uint32

// Root is the superuser UID.
const Root Uid = 0

func (u Uid) String() string { return fmt.Sprintf("%d", uint32(u)) }

// Gid identifies a group.
type Gid uint32

// RootGid is the superuser's primary GID.
const RootGid Gid = 0

func (g Gid) String() string { return fmt.Sprintf("%d", uint32(g)) }

// Fd is a per-process file descriptor number. 0, 1, 2 are reserved for
// stdin/stdout/stderr.
type Fd uint32

const (
	Stdin  Fd = 0
	Stdout Fd = 1
	Stderr Fd = 2
)

func (f Fd) String() string { return fmt.Sprintf("%d", uint32(f)) }

// Handle is an opaque reference to a kernel object, valid only for the
// object table that issued it. The zero value is NULL and is never
// returned by ObjectTable.Insert.
type Handle uint64

// NullHandle is the reserved zero handle.
const NullHandle Handle = 0

func (h Handle) String() string { return fmt.Sprintf("handle(%d)", uint64(h)) }

// ObjectId is retained for API symmetry with Handle; the object table in
// this implementation addresses objects directly by Handle, so ObjectId
// and Handle share representation.
type ObjectId = Handle

// SocketId identifies a Unix domain socket within a SocketManager.
type SocketId uint64

func (s SocketId) String() string { return fmt.Sprintf("socket(%d)", uint64(s)) }

// TaskId identifies a unit of scheduled work within the work-stealing
// executor.
type TaskId uint64

func (t TaskId) String() string { return fmt.Sprintf("task(%d)", uint64(t)) }

// RegionId identifies a memory region owned by a process. Regions are
// the unit of copy-on-write sharing across a fork.
type RegionId uint64

func (r RegionId) String() string { return fmt.Sprintf("region(%d)", uint64(r)) }

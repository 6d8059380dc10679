// Package mount implements the kernel's mount table: a longest-prefix
// registry of virtual filesystems mounted at normalised absolute paths.
package mount

import "strings"

// FsType identifies the filesystem backing a mount entry.
type FsType struct {
	kind  FsKind
	other string
}

// FsKind is the tag of an FsType's backing variant.
type FsKind int

const (
	Proc FsKind = iota
	Sysfs
	Devfs
	Tmpfs
	MemoryFs
	Other
)

// ParseFsType maps a filesystem name to an FsType, case-insensitively.
// Unrecognised names become the Other variant carrying the lowercased
// name.
func ParseFsType(s string) FsType {
	switch strings.ToLower(s) {
	case "proc":
		return FsType{kind: Proc}
	case "sysfs":
		return FsType{kind: Sysfs}
	case "devfs", "devtmpfs":
		return FsType{kind: Devfs}
	case "tmpfs":
		return FsType{kind: Tmpfs}
	case "memoryfs", "ramfs":
		return FsType{kind: MemoryFs}
	default:
		return FsType{kind: Other, other: strings.ToLower(s)}
	}
}

// NewFsType constructs a non-Other FsType directly (Proc, Sysfs, Devfs,
// Tmpfs, or MemoryFs).
func NewFsType(kind FsKind) FsType { return FsType{kind: kind} }

// AsStr returns the canonical lowercase name for the filesystem type.
func (t FsType) AsStr() string {
	switch t.kind {
	case Proc:
		return "proc"
	case Sysfs:
		return "sysfs"
	case Devfs:
		return "devfs"
	case Tmpfs:
		return "tmpfs"
	case MemoryFs:
		return "memoryfs"
	default:
		return t.other
	}
}

func (t FsType) String() string { return t.AsStr() }

// Equal reports whether two FsType values refer to the same filesystem.
func (t FsType) Equal(o FsType) bool {
	return t.kind == o.kind && t.other == o.other
}

package mount

import (
	"fmt"
	"strconv"
	"strings"

	kerrors "axeberg-kernel/errors"
)

// MountEntry is one active mount.
type MountEntry struct {
	Source    string
	Target    string
	FsType    FsType
	Options   MountOptions
	MountTime float64 // monotonic seconds, as supplied by the caller
}

// FstabEntry is a parsed fstab(5) line, used for automatic mounting at
// boot.
type FstabEntry struct {
	Source  string
	Target  string
	FsType  FsType
	Options string
	Dump    uint8
	Pass    uint8
}

// ParseFstabEntry parses a single fstab(5) line. Blank lines and
// comments (lines beginning with '#') return ok == false.
func ParseFstabEntry(line string) (FstabEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return FstabEntry{}, false
	}

	parts := strings.Fields(line)
	if len(parts) < 4 {
		return FstabEntry{}, false
	}

	entry := FstabEntry{
		Source:  parts[0],
		Target:  parts[1],
		FsType:  ParseFsType(parts[2]),
		Options: parts[3],
	}
	if len(parts) > 4 {
		if v, err := strconv.ParseUint(parts[4], 10, 8); err == nil {
			entry.Dump = uint8(v)
		}
	}
	if len(parts) > 5 {
		if v, err := strconv.ParseUint(parts[5], 10, 8); err == nil {
			entry.Pass = uint8(v)
		}
	}
	return entry, true
}

// MountTable tracks every mounted filesystem, keyed by normalised
// target path.
type MountTable struct {
	mounts map[string]*MountEntry
}

// NewMountTable returns an empty mount table.
func NewMountTable() *MountTable {
	return &MountTable{mounts: make(map[string]*MountEntry)}
}

// NewMountTableWithDefaults returns a mount table pre-populated with the
// standard virtual filesystems: / (MemoryFs), /proc (Proc, ro), /sys
// (Sysfs, ro), /dev (Devfs), /tmp (Tmpfs).
func NewMountTableWithDefaults(now float64) *MountTable {
	table := NewMountTable()

	_ = table.Mount("rootfs", "/", NewFsType(MemoryFs), MountOptions{}, now)
	_ = table.Mount("proc", "/proc", NewFsType(Proc), MountOptions{ReadOnly: true}, now)
	_ = table.Mount("sysfs", "/sys", NewFsType(Sysfs), MountOptions{ReadOnly: true}, now)
	_ = table.Mount("devfs", "/dev", NewFsType(Devfs), MountOptions{}, now)
	_ = table.Mount("tmpfs", "/tmp", NewFsType(Tmpfs), MountOptions{}, now)

	return table
}

// Mount normalises target and registers a new MountEntry. Fails with
// ErrAlreadyMounted if target is already a mount point.
func (t *MountTable) Mount(source, target string, fstype FsType, options MountOptions, now float64) error {
	target = normalizePath(target)

	if _, exists := t.mounts[target]; exists {
		return kerrors.ErrAlreadyMounted
	}

	t.mounts[target] = &MountEntry{
		Source:    source,
		Target:    target,
		FsType:    fstype,
		Options:   options,
		MountTime: now,
	}
	return nil
}

// Umount removes the mount at target. Root ("/") can never be
// unmounted.
func (t *MountTable) Umount(target string) (*MountEntry, error) {
	target = normalizePath(target)

	if target == "/" {
		return nil, kerrors.ErrMountBusy
	}

	entry, ok := t.mounts[target]
	if !ok {
		return nil, kerrors.ErrNotMounted
	}
	delete(t.mounts, target)
	return entry, nil
}

// IsMountPoint reports whether path is, exactly, a mount point.
func (t *MountTable) IsMountPoint(path string) bool {
	_, ok := t.mounts[normalizePath(path)]
	return ok
}

// GetMount returns the entry mounted exactly at path.
func (t *MountTable) GetMount(path string) (*MountEntry, bool) {
	e, ok := t.mounts[normalizePath(path)]
	return e, ok
}

// GetContainingMount returns the entry with the longest target that is
// either "/" or a prefix of path terminated by "/" or end-of-string.
// This resolves which filesystem is responsible for a given path.
func (t *MountTable) GetContainingMount(path string) (*MountEntry, bool) {
	path = normalizePath(path)

	var best *MountEntry
	bestLen := -1

	for mountPoint, entry := range t.mounts {
		matches := mountPoint == "/" || path == mountPoint || strings.HasPrefix(path, mountPoint+"/")
		if !matches {
			continue
		}
		if len(mountPoint) > bestLen {
			best = entry
			bestLen = len(mountPoint)
		}
	}

	return best, best != nil
}

// List returns all active mounts in no particular order.
func (t *MountTable) List() []*MountEntry {
	out := make([]*MountEntry, 0, len(t.mounts))
	for _, e := range t.mounts {
		out = append(out, e)
	}
	return out
}

// ToProcMounts renders the table in /proc/mounts format: one
// "source target fstype options 0 0" line per mount.
func (t *MountTable) ToProcMounts() string {
	var lines []string
	for _, e := range t.mounts {
		lines = append(lines, fmt.Sprintf("%s %s %s %s 0 0", e.Source, e.Target, e.FsType.AsStr(), e.Options.String()))
	}
	return strings.Join(lines, "\n")
}

// normalizePath strips trailing slashes (except for root) and ensures a
// leading slash.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}

	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}

	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

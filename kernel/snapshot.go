package kernel

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
	"axeberg-kernel/mount"
	"axeberg-kernel/process"
	"axeberg-kernel/security"
)

// Snapshot is the externally-supplied persistence format for a kernel
// instance: enough of the process table, mount table, and user
// database to describe what was running, without attempting to
// serialize in-flight task closures or object table contents (neither
// survives a process restart meaningfully). The Sockets field is part
// of the format, but Kernel.Snapshot leaves it empty: the socket
// registry is not captured.
type Snapshot struct {
	Hostname string `yaml:"hostname"`

	Processes []ProcessSnapshot `yaml:"processes"`
	Mounts    []MountSnapshot   `yaml:"mounts"`
	Users     []UserSnapshot    `yaml:"users"`
	Groups    []GroupSnapshot   `yaml:"groups"`
	Sockets   []uint64          `yaml:"sockets"`
}

// ProcessSnapshot captures one process table entry.
type ProcessSnapshot struct {
	Pid     uint32   `yaml:"pid"`
	Parent  *uint32  `yaml:"parent,omitempty"`
	Name    string   `yaml:"name"`
	Uid     uint32   `yaml:"uid"`
	Gid     uint32   `yaml:"gid"`
	Cwd     string   `yaml:"cwd"`
	State   string   `yaml:"state"`
	Children []uint32 `yaml:"children,omitempty"`
}

// MountSnapshot captures one mount table entry.
type MountSnapshot struct {
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	FsType  string `yaml:"fsType"`
	Options string `yaml:"options"`
}

// UserSnapshot captures one user database account.
type UserSnapshot struct {
	Name string `yaml:"name"`
	Uid  uint32 `yaml:"uid"`
	Gid  uint32 `yaml:"gid"`
	Home string `yaml:"home"`
}

// GroupSnapshot captures one user database group.
type GroupSnapshot struct {
	Name    string   `yaml:"name"`
	Gid     uint32   `yaml:"gid"`
	Members []string `yaml:"members,omitempty"`
}

// Snapshot renders the kernel's current state. It is a read-only view;
// callers intending to persist it should pass the result to Save.
func (k *Kernel) Snapshot() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()

	snap := Snapshot{Hostname: k.Hostname}

	for _, p := range k.processes {
		var parent *uint32
		if p.Parent != nil {
			v := uint32(*p.Parent)
			parent = &v
		}
		children := make([]uint32, len(p.Children))
		for i, c := range p.Children {
			children[i] = uint32(c)
		}
		snap.Processes = append(snap.Processes, ProcessSnapshot{
			Pid:      uint32(p.Pid),
			Parent:   parent,
			Name:     p.Name,
			Uid:      uint32(p.Uid),
			Gid:      uint32(p.Gid),
			Cwd:      p.Cwd,
			State:    string(p.State.Kind),
			Children: children,
		})
	}

	for _, m := range k.Mounts.List() {
		snap.Mounts = append(snap.Mounts, MountSnapshot{
			Source:  m.Source,
			Target:  m.Target,
			FsType:  m.FsType.AsStr(),
			Options: m.Options.String(),
		})
	}

	for _, u := range k.Users.ListUsers() {
		snap.Users = append(snap.Users, UserSnapshot{
			Name: u.Name,
			Uid:  uint32(u.Uid),
			Gid:  uint32(u.Gid),
			Home: u.Home,
		})
	}

	for _, g := range k.Users.ListGroups() {
		snap.Groups = append(snap.Groups, GroupSnapshot{
			Name:    g.Name,
			Gid:     uint32(g.Gid),
			Members: g.Members,
		})
	}

	return snap
}

// Save marshals snap to YAML and writes it to path using the
// temp-file-then-rename pattern spec.ContainerState.Save uses for JSON,
// so a crash mid-write never leaves a corrupt snapshot behind.
func (snap Snapshot) Save(path string) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return kerrors.Wrap(err, kerrors.ErrInternal, "marshal snapshot")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return kerrors.Wrap(err, kerrors.ErrInternal, "create snapshot temp file")
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return kerrors.Wrap(err, kerrors.ErrInternal, "write snapshot")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return kerrors.Wrap(err, kerrors.ErrInternal, "sync snapshot")
	}
	if err := tmp.Close(); err != nil {
		return kerrors.Wrap(err, kerrors.ErrInternal, "close snapshot")
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return kerrors.Wrap(err, kerrors.ErrInternal, "chmod snapshot")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return kerrors.Wrap(err, kerrors.ErrInternal, "rename snapshot")
	}

	success = true
	return nil
}

// LoadSnapshot reads and parses a YAML snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kerrors.Wrap(err, kerrors.ErrNotFound, "load snapshot")
		}
		return nil, kerrors.Wrap(err, kerrors.ErrInternal, "read snapshot")
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, kerrors.Wrap(err, kerrors.ErrInvalidInput, "parse snapshot")
	}
	return &snap, nil
}

// Restore rebuilds process table, mount table, and user database state
// from a snapshot into a freshly-constructed kernel. It does not
// restore sockets, open handles, or scheduled tasks — those are
// process-session-scoped and cannot be meaningfully resumed across a
// restart, matching spec.md's non-goal of persistent storage beyond the
// snapshot interface itself.
func Restore(snap Snapshot) *Kernel {
	k := New(snap.Hostname)
	k.Users = security.NewEmptyUserDB()

	for _, g := range snap.Groups {
		gid, err := k.Users.AddGroup(g.Name)
		if err == nil {
			if grp, ok := k.Users.GetGroup(gid); ok {
				for _, m := range g.Members {
					grp.AddMember(m)
				}
			}
		}
	}

	for _, u := range snap.Users {
		gid := ids.Gid(u.Gid)
		uid, err := k.Users.AddUser(u.Name, &gid)
		if err == nil {
			if acct, ok := k.Users.GetUser(uid); ok {
				acct.Home = u.Home
			}
		}
	}

	k.Mounts = mount.NewMountTable()
	for _, m := range snap.Mounts {
		fstype := mount.ParseFsType(m.FsType)
		opts := mount.ParseMountOptions(m.Options)
		_ = k.Mounts.Mount(m.Source, m.Target, fstype, opts, 0)
	}

	byPid := make(map[uint32]*process.Process, len(snap.Processes))
	for _, ps := range snap.Processes {
		p := process.New(ids.Pid(ps.Pid), ps.Name, nil)
		p.Uid, p.Gid, p.Euid, p.Egid, p.Suid, p.Sgid = ids.Uid(ps.Uid), ids.Gid(ps.Gid), ids.Uid(ps.Uid), ids.Gid(ps.Gid), ids.Uid(ps.Uid), ids.Gid(ps.Gid)
		p.Cwd = ps.Cwd
		byPid[ps.Pid] = p
		if uint32(p.Pid) >= k.nextPid {
			k.nextPid = uint32(p.Pid) + 1
		}
	}
	for _, ps := range snap.Processes {
		p := byPid[ps.Pid]
		if ps.Parent != nil {
			parentPid := ids.Pid(*ps.Parent)
			p.Parent = &parentPid
		}
		for _, c := range ps.Children {
			p.Children = append(p.Children, ids.Pid(c))
		}
		k.processes[p.Pid] = p
	}

	return k
}

// Package bootspec defines the configuration format used to boot a
// kernel instance: the initial process to run, the users and groups to
// seed into the user database, and the mounts to establish before that
// process starts. Its JSON-tag struct style follows the OCI-derived
// config.json schema the teacher's spec package defines.
package bootspec

import (
	"encoding/json"
	"os"

	kerrors "axeberg-kernel/errors"
)

// Version is the bootspec schema version this implementation targets.
const Version = "1.0.0"

// Config is the root boot-time configuration for a kernel instance.
type Config struct {
	// Version is the bootspec schema version.
	Version string `json:"version"`

	// Hostname is the simulated kernel's hostname.
	Hostname string `json:"hostname,omitempty"`

	// Init is the initial process to spawn once boot completes.
	Init InitProcess `json:"init"`

	// Users lists the user accounts to seed into the user database
	// beyond the default root/system accounts UserDB always creates.
	Users []UserSeed `json:"users,omitempty"`

	// Groups lists the groups to seed, beyond the defaults.
	Groups []GroupSeed `json:"groups,omitempty"`

	// Mounts lists additional mounts to establish beyond the default
	// mount table (see mount.NewMountTableWithDefaults).
	Mounts []MountSpec `json:"mounts,omitempty"`

	// Annotations carries arbitrary host-supplied metadata through to
	// a kernel snapshot; the kernel itself never interprets these.
	Annotations map[string]string `json:"annotations,omitempty"`
}

// InitProcess configures the first process a booted kernel runs.
type InitProcess struct {
	// Args is the binary and its arguments.
	Args []string `json:"args"`

	// Env populates the initial process's environment, in "KEY=VALUE"
	// form.
	Env []string `json:"env,omitempty"`

	// Cwd is the initial process's working directory.
	Cwd string `json:"cwd,omitempty"`

	// User names the account (by username) the initial process runs
	// as. Empty means root.
	User string `json:"user,omitempty"`

	// MemoryLimit bounds the initial process's tracked memory, in
	// bytes. Zero means unlimited.
	MemoryLimit uint64 `json:"memoryLimit,omitempty"`
}

// UserSeed describes one user account to create at boot.
type UserSeed struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	Group    string `json:"group,omitempty"`
	Home     string `json:"home,omitempty"`
	Shell    string `json:"shell,omitempty"`
}

// GroupSeed describes one group to create at boot.
type GroupSeed struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

// MountSpec describes one mount to establish at boot.
type MountSpec struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	FsType  string `json:"fsType"`
	Options string `json:"options,omitempty"`
}

// Load reads and parses a bootspec configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kerrors.Wrap(err, kerrors.ErrNotFound, "load bootspec")
		}
		return nil, kerrors.Wrap(err, kerrors.ErrInternal, "read bootspec")
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, kerrors.Wrap(err, kerrors.ErrInvalidInput, "parse bootspec")
	}
	if len(cfg.Init.Args) == 0 {
		return nil, kerrors.New(kerrors.ErrInvalidInput, "parse bootspec", "init.args must not be empty")
	}
	return &cfg, nil
}

// Default returns a minimal bootable configuration: a root shell with
// no extra users, groups, or mounts.
func Default() Config {
	return Config{
		Version:  Version,
		Hostname: "axeberg",
		Init: InitProcess{
			Args: []string{"/bin/sh"},
			Cwd:  "/",
		},
	}
}

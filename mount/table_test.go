package mount

import (
	"strings"
	"testing"

	kerrors "axeberg-kernel/errors"
)

func TestMountTable_Defaults(t *testing.T) {
	table := NewMountTableWithDefaults(0)

	for _, p := range []string{"/", "/proc", "/sys", "/dev", "/tmp"} {
		if !table.IsMountPoint(p) {
			t.Errorf("expected %q to be a mount point", p)
		}
	}
}

func TestMountTable_MountUmount(t *testing.T) {
	table := NewMountTable()

	if err := table.Mount("tmpfs", "/mnt/test", NewFsType(Tmpfs), MountOptions{}, 1.0); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if !table.IsMountPoint("/mnt/test") {
		t.Fatal("expected /mnt/test to be mounted")
	}

	err := table.Mount("tmpfs", "/mnt/test", NewFsType(Tmpfs), MountOptions{}, 2.0)
	if !kerrors.Is(err, kerrors.ErrAlreadyMounted) {
		t.Errorf("expected ErrAlreadyMounted, got %v", err)
	}

	if _, err := table.Umount("/mnt/test"); err != nil {
		t.Fatalf("Umount failed: %v", err)
	}
	if table.IsMountPoint("/mnt/test") {
		t.Error("expected /mnt/test to be unmounted")
	}

	if _, err := table.Umount("/mnt/test"); !kerrors.Is(err, kerrors.ErrNotMounted) {
		t.Errorf("expected ErrNotMounted, got %v", err)
	}
}

func TestMountTable_CantUmountRoot(t *testing.T) {
	table := NewMountTableWithDefaults(0)
	if _, err := table.Umount("/"); !kerrors.Is(err, kerrors.ErrMountBusy) {
		t.Errorf("expected ErrMountBusy, got %v", err)
	}
}

func TestMountTable_ContainingMount(t *testing.T) {
	table := NewMountTableWithDefaults(0)

	entry, ok := table.GetContainingMount("/proc/1/status")
	if !ok || entry.Target != "/proc" {
		t.Fatalf("expected /proc, got %v (ok=%v)", entry, ok)
	}

	entry, ok = table.GetContainingMount("/home/user")
	if !ok || entry.Target != "/" {
		t.Fatalf("expected /, got %v (ok=%v)", entry, ok)
	}
}

func TestMountOptions_Parse(t *testing.T) {
	opts := ParseMountOptions("ro,noexec,noatime,size=1G")
	if !opts.ReadOnly || !opts.NoExec || !opts.NoAtime {
		t.Fatalf("unexpected opts: %+v", opts)
	}
	if opts.SizeLimit != 1024*1024*1024 {
		t.Errorf("SizeLimit = %d, want %d", opts.SizeLimit, 1024*1024*1024)
	}
}

func TestFsType_Parse(t *testing.T) {
	if !ParseFsType("proc").Equal(NewFsType(Proc)) {
		t.Error("proc should parse to Proc")
	}
	if !ParseFsType("SYSFS").Equal(NewFsType(Sysfs)) {
		t.Error("SYSFS should parse case-insensitively to Sysfs")
	}
	if got := ParseFsType("ext4").AsStr(); got != "ext4" {
		t.Errorf("unknown fstype should round-trip its name, got %q", got)
	}
}

func TestFstabEntry_Parse(t *testing.T) {
	entry, ok := ParseFstabEntry("proc /proc proc defaults 0 0")
	if !ok {
		t.Fatal("expected a valid fstab entry")
	}
	if entry.Source != "proc" || entry.Target != "/proc" || !entry.FsType.Equal(NewFsType(Proc)) {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if _, ok := ParseFstabEntry("# comment"); ok {
		t.Error("comment line should not parse")
	}
	if _, ok := ParseFstabEntry(""); ok {
		t.Error("empty line should not parse")
	}
}

func TestMountTable_ProcMountsFormat(t *testing.T) {
	table := NewMountTable()
	_ = table.Mount("tmpfs", "/tmp", NewFsType(Tmpfs), MountOptions{}, 1.0)

	output := table.ToProcMounts()
	if !strings.Contains(output, "tmpfs /tmp tmpfs") {
		t.Errorf("expected proc-mounts line, got %q", output)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"1024", 1024},
		{"1K", 1024},
		{"1M", 1024 * 1024},
		{"1G", 1024 * 1024 * 1024},
	}
	for _, tt := range tests {
		got, ok := parseSize(tt.in)
		if !ok || got != tt.want {
			t.Errorf("parseSize(%q) = (%d, %v), want (%d, true)", tt.in, got, ok, tt.want)
		}
	}
}

package process

import (
	"testing"

	"axeberg-kernel/ids"
)

func TestNew(t *testing.T) {
	p := New(ids.Pid(1), "init", nil)

	if p.Pid != 1 {
		t.Errorf("Pid = %v, want 1", p.Pid)
	}
	if p.Parent != nil {
		t.Error("init should have no parent")
	}
	if !p.IsAlive() {
		t.Error("fresh process should be alive")
	}
	if p.Cwd != "/" {
		t.Errorf("Cwd = %q, want /", p.Cwd)
	}
	if got, _ := p.Getenv("HOME"); got != "/home/user" {
		t.Errorf("HOME = %q, want /home/user", got)
	}
	if !p.IsSessionLeaderNow() {
		t.Error("a fresh process with sid == pid should be a session leader")
	}
}

func TestProcess_Zombie(t *testing.T) {
	p := New(ids.Pid(1), "test", nil)
	if !p.IsAlive() {
		t.Fatal("expected alive")
	}

	p.State = Zombie(0)
	if p.IsAlive() {
		t.Error("a zombie process should not be alive")
	}
}

func TestProcess_EnvironRoundTrip(t *testing.T) {
	p := New(ids.Pid(1), "test", nil)

	p.Setenv("FOO", "bar")
	if v, ok := p.Getenv("FOO"); !ok || v != "bar" {
		t.Errorf("Getenv(FOO) = (%q, %v), want (bar, true)", v, ok)
	}
	if !p.Unsetenv("FOO") {
		t.Error("Unsetenv should report true for a present key")
	}
	if p.Unsetenv("FOO") {
		t.Error("Unsetenv should report false once already removed")
	}
}

func TestProcess_CowFork(t *testing.T) {
	parent := New(ids.Pid(1), "shell", nil)
	parent.Groups = []ids.Gid{1000, 10}
	parent.Umask = 0o027
	parent.Ctty = strPtr("tty1")

	region, err := parent.Memory.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	nextRegion := ids.RegionId(0)
	child, mapping := parent.CowFork(ids.Pid(2), func() ids.RegionId {
		nextRegion++
		return nextRegion
	})

	if child.Pid != 2 {
		t.Errorf("child.Pid = %v, want 2", child.Pid)
	}
	if child.Parent == nil || *child.Parent != parent.Pid {
		t.Error("child.Parent should be the forking process's pid")
	}
	if child.Pgid != parent.Pgid || child.Sid != parent.Sid {
		t.Error("child should inherit pgid and sid")
	}
	if child.Uid != parent.Uid || child.Gid != parent.Gid {
		t.Error("child should inherit uid/gid")
	}
	if len(child.Groups) != 2 || child.Groups[0] != 1000 || child.Groups[1] != 10 {
		t.Errorf("child.Groups = %v, want [1000 10]", child.Groups)
	}
	if child.IsSessionLeaderNow() {
		t.Error("a forked child is never a session leader")
	}
	if child.Umask != 0o027 {
		t.Errorf("child.Umask = %o, want 027", child.Umask)
	}
	if child.Ctty == nil || *child.Ctty != "tty1" {
		t.Error("child should inherit the controlling tty")
	}
	if !child.Files.Empty() {
		t.Error("child's file table should start empty")
	}
	if len(child.Children) != 0 {
		t.Error("child should start with no children of its own")
	}
	if child.Signals.Pending(SIGTERM) {
		t.Error("child signal state should be fresh")
	}

	childRegion, ok := mapping[region]
	if !ok {
		t.Fatal("expected a region mapping entry for the parent's region")
	}
	if _, err := child.Memory.ReadRegion(childRegion); err != nil {
		t.Errorf("child should be able to read the cow-shared region: %v", err)
	}
}

func strPtr(s string) *string { return &s }

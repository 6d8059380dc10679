package process

import (
	"testing"

	"axeberg-kernel/ids"
)

func TestFileTable_Alloc(t *testing.T) {
	ft := NewFileTable()
	h1, h2 := ids.Handle(100), ids.Handle(200)

	fd1, ok := ft.Alloc(h1)
	if !ok || fd1 != 3 {
		t.Fatalf("Alloc(h1) = (%v, %v), want (3, true)", fd1, ok)
	}
	fd2, ok := ft.Alloc(h2)
	if !ok || fd2 != 4 {
		t.Fatalf("Alloc(h2) = (%v, %v), want (4, true)", fd2, ok)
	}

	if got, ok := ft.Get(fd1); !ok || got != h1 {
		t.Errorf("Get(fd1) = (%v, %v), want (%v, true)", got, ok, h1)
	}
}

func TestFileTable_AllocReusesClosedFd(t *testing.T) {
	ft := NewFileTable()
	fd1, _ := ft.Alloc(ids.Handle(1))
	fd2, _ := ft.Alloc(ids.Handle(2))
	if fd1 != 3 || fd2 != 4 {
		t.Fatalf("unexpected initial fds: %v, %v", fd1, fd2)
	}

	ft.Remove(fd1)
	fd3, ok := ft.Alloc(ids.Handle(3))
	if !ok || fd3 != 3 {
		t.Fatalf("Alloc after closing fd 3 = (%v, %v), want (3, true)", fd3, ok)
	}
}

func TestFileTable_InsertStdio(t *testing.T) {
	ft := NewFileTable()
	console := ids.Handle(1)

	ft.Insert(ids.Stdin, console)
	ft.Insert(ids.Stdout, console)
	ft.Insert(ids.Stderr, console)

	if got, ok := ft.Get(ids.Stdin); !ok || got != console {
		t.Errorf("Get(Stdin) = (%v, %v)", got, ok)
	}
}

func TestFileTable_Remove(t *testing.T) {
	ft := NewFileTable()
	h := ids.Handle(100)
	fd, _ := ft.Alloc(h)

	if !ft.Contains(fd) {
		t.Fatal("expected fd to be open")
	}
	removed, ok := ft.Remove(fd)
	if !ok || removed != h {
		t.Fatalf("Remove = (%v, %v), want (%v, true)", removed, ok, h)
	}
	if ft.Contains(fd) {
		t.Error("fd should be closed after Remove")
	}
}

func TestFileTable_FdLimit(t *testing.T) {
	ft := NewFileTableWithLimit(5)
	h := ids.Handle(100)

	for i := 0; i < 5; i++ {
		if _, ok := ft.Alloc(h); !ok {
			t.Fatalf("should allocate fd #%d", i)
		}
	}
	if _, ok := ft.Alloc(h); ok {
		t.Error("should fail once limit is reached")
	}
	if ft.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ft.Len())
	}
	if ft.MaxFds() != 5 {
		t.Errorf("MaxFds() = %d, want 5", ft.MaxFds())
	}
}

func TestFileTable_DefaultLimit(t *testing.T) {
	ft := NewFileTable()
	if ft.MaxFds() != MaxFdsPerProcess {
		t.Errorf("MaxFds() = %d, want %d", ft.MaxFds(), MaxFdsPerProcess)
	}
}

func TestFileTable_CloexecDroppedOnExec(t *testing.T) {
	ft := NewFileTable()
	fd1, _ := ft.AllocWithFlags(ids.Handle(1), FdFlags{Cloexec: true})
	fd2, _ := ft.Alloc(ids.Handle(2))

	execed := ft.CloneForExec()
	if execed.Contains(fd1) {
		t.Error("cloexec fd should be dropped across exec")
	}
	if !execed.Contains(fd2) {
		t.Error("non-cloexec fd should survive exec")
	}
}

func TestFileTable_CloneForFork(t *testing.T) {
	ft := NewFileTable()
	fd, _ := ft.Alloc(ids.Handle(42))

	forked := ft.CloneForFork()
	if !forked.Contains(fd) {
		t.Error("forked table should retain all fds")
	}

	forked.Remove(fd)
	if !ft.Contains(fd) {
		t.Error("mutating the fork clone must not affect the original")
	}
}

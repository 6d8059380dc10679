package object

import (
	"io"
	"testing"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

func TestFileObject_ReadWrite(t *testing.T) {
	f := NewFileObject("/test.txt", nil, true, true)

	n, err := Write(f, []byte("Hello, World!"))
	if err != nil || n != 13 {
		t.Fatalf("Write = (%d, %v), want (13, nil)", n, err)
	}

	if _, err := Seek(f, 0, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	buf := make([]byte, 20)
	n, err = Read(f, buf)
	if err != nil || n != 13 {
		t.Fatalf("Read = (%d, %v), want (13, nil)", n, err)
	}
	if string(buf[:n]) != "Hello, World!" {
		t.Errorf("Read content = %q", buf[:n])
	}
}

func TestPipeObject(t *testing.T) {
	p := NewPipeObject(1024)

	n, err := Write(p, []byte("test data"))
	if err != nil || n != 9 {
		t.Fatalf("Write = (%d, %v), want (9, nil)", n, err)
	}

	buf := make([]byte, 20)
	n, err = Read(p, buf)
	if err != nil || n != 9 || string(buf[:n]) != "test data" {
		t.Fatalf("Read = (%d, %v, %q)", n, err, buf[:n])
	}

	// Empty pipe blocks.
	if _, err := Read(p, buf); !kerrors.Is(err, kerrors.ErrObjectWouldBlock) {
		t.Errorf("expected ErrObjectWouldBlock, got %v", err)
	}

	// Closing the write end turns further reads into EOF.
	p.CloseWrite()
	n, err = Read(p, buf)
	if err != io.EOF || n != 0 {
		t.Errorf("Read after close = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestPipeObject_BrokenPipe(t *testing.T) {
	p := NewPipeObject(1024)
	p.CloseRead()

	if _, err := Write(p, []byte("x")); !kerrors.Is(err, kerrors.ErrPipeBroken) {
		t.Errorf("expected ErrPipeBroken, got %v", err)
	}
}

func TestConsoleObject(t *testing.T) {
	c := NewConsoleObject()

	if _, err := Write(c, []byte("Hello\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(c.PeekOutput()) != "Hello\n" {
		t.Errorf("PeekOutput = %q", c.PeekOutput())
	}

	c.PushInput([]byte("abc"))
	buf := make([]byte, 10)
	n, err := Read(c, buf)
	if err != nil || n != 3 || string(buf[:n]) != "abc" {
		t.Fatalf("Read = (%d, %v, %q)", n, err, buf[:n])
	}
}

func TestWindowObject_NotReadable(t *testing.T) {
	w := NewWindowObject(WindowId(1))
	if _, err := Read(w, make([]byte, 4)); !kerrors.Is(err, kerrors.ErrWrongVariant) {
		t.Errorf("expected ErrWrongVariant reading a window, got %v", err)
	}
}

func TestDirectoryObject_NotReadable(t *testing.T) {
	d := NewDirectoryObject("/tmp", []string{"a", "b"})
	if _, err := Read(d, make([]byte, 4)); !kerrors.Is(err, kerrors.ErrWrongVariant) {
		t.Errorf("expected ErrWrongVariant reading a directory, got %v", err)
	}

	entry, ok := d.NextEntry()
	if !ok || entry != "a" {
		t.Fatalf("NextEntry = (%q, %v), want (\"a\", true)", entry, ok)
	}
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h1 := table.Insert(NewConsoleObject())
	h2 := table.Insert(NewPipeObject(1024))

	if _, ok := table.Get(h1); !ok {
		t.Error("expected h1 present")
	}
	if _, ok := table.Get(h2); !ok {
		t.Error("expected h2 present")
	}
	if _, ok := table.Get(ids.NullHandle); ok {
		t.Error("NullHandle should never be present")
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}

	obj, ok := table.Release(h1)
	if !ok || obj == nil {
		t.Fatalf("Release(h1) = (%v, %v), want object, true", obj, ok)
	}
	if _, ok := table.Get(h1); ok {
		t.Error("h1 should be gone after release")
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestTable_Refcounting(t *testing.T) {
	table := NewTable()
	h := table.Insert(NewConsoleObject())

	if table.Refcount(h) != 1 {
		t.Fatalf("initial refcount = %d, want 1", table.Refcount(h))
	}

	table.Retain(h)
	table.Retain(h)
	if table.Refcount(h) != 3 {
		t.Fatalf("refcount after two retains = %d, want 3", table.Refcount(h))
	}
	if table.Retain(ids.NullHandle) {
		t.Error("Retain on an absent handle should return false")
	}

	if _, removed := table.Release(h); removed {
		t.Error("release should not remove while refcount > 0")
	}
	if table.Refcount(h) != 2 {
		t.Errorf("refcount = %d, want 2", table.Refcount(h))
	}

	if _, removed := table.Release(h); removed {
		t.Error("release should not remove while refcount > 0")
	}
	if table.Refcount(h) != 1 {
		t.Errorf("refcount = %d, want 1", table.Refcount(h))
	}

	if _, removed := table.Release(h); !removed {
		t.Error("final release should remove the object")
	}
	if table.Contains(h) {
		t.Error("handle should be gone after final release")
	}
}

func TestTable_ReleaseInvalidHandle(t *testing.T) {
	table := NewTable()

	if _, ok := table.Release(ids.Handle(999)); ok {
		t.Error("releasing a non-existent handle should report false")
	}
	if _, ok := table.Release(ids.NullHandle); ok {
		t.Error("releasing NullHandle should report false")
	}
}

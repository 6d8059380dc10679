// Package object implements the kernel object table: every resource in
// the system (files, pipes, consoles, windows, directories) is a kernel
// object, reference-counted and reached only through a Handle.
package object

import (
	"io"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// Object is any resource that can occupy a slot in the object table.
// Concrete variants additionally implement io.Reader, io.Writer, and/or
// io.Seeker where the operation makes sense; Read/Write/Seek below
// dispatch through those optional interfaces the way the source's
// KernelObject enum dispatches through a match.
type Object interface {
	TypeName() string
}

// Read reads from obj if it supports reading, translating "does not
// implement io.Reader" into ErrWrongVariant.
func Read(obj Object, buf []byte) (int, error) {
	r, ok := obj.(io.Reader)
	if !ok {
		return 0, kerrors.ErrWrongVariant
	}
	return r.Read(buf)
}

// Write writes to obj if it supports writing, translating "does not
// implement io.Writer" into ErrWrongVariant.
func Write(obj Object, buf []byte) (int, error) {
	w, ok := obj.(io.Writer)
	if !ok {
		return 0, kerrors.ErrWrongVariant
	}
	return w.Write(buf)
}

// Seek seeks within obj if it supports seeking, translating "does not
// implement io.Seeker" into ErrWrongVariant.
func Seek(obj Object, offset int64, whence int) (int64, error) {
	s, ok := obj.(io.Seeker)
	if !ok {
		return 0, kerrors.ErrWrongVariant
	}
	return s.Seek(offset, whence)
}

type entry struct {
	object   Object
	refcount int
}

// Table maps handles to reference-counted objects.
//
// Reference counting rules: Insert creates an object with refcount 1;
// Retain increments it (when a handle is duplicated across processes);
// Release decrements it and removes the object once it reaches zero.
type Table struct {
	nextId  uint64
	objects map[ids.Handle]*entry
}

// NewTable returns an empty object table.
func NewTable() *Table {
	return &Table{nextId: 1, objects: make(map[ids.Handle]*entry)} // 0 is ids.NullHandle
}

// Insert registers obj under a freshly allocated handle with refcount 1.
func (t *Table) Insert(obj Object) ids.Handle {
	handle := ids.Handle(t.nextId)
	t.nextId++
	t.objects[handle] = &entry{object: obj, refcount: 1}
	return handle
}

// Retain increments the refcount for handle. Reports false if handle is
// not present.
func (t *Table) Retain(handle ids.Handle) bool {
	e, ok := t.objects[handle]
	if !ok {
		return false
	}
	e.refcount++
	return true
}

// Release decrements the refcount for handle, removing and returning the
// object once it reaches zero. Returns nil, false if handle is absent or
// the object is still referenced.
func (t *Table) Release(handle ids.Handle) (Object, bool) {
	e, ok := t.objects[handle]
	if !ok {
		return nil, false
	}
	if e.refcount > 0 {
		e.refcount--
	}
	if e.refcount != 0 {
		return nil, false
	}
	delete(t.objects, handle)
	return e.object, true
}

// Refcount returns the current reference count for handle, or 0 if it
// does not exist.
func (t *Table) Refcount(handle ids.Handle) int {
	e, ok := t.objects[handle]
	if !ok {
		return 0
	}
	return e.refcount
}

// Get returns the object registered under handle.
func (t *Table) Get(handle ids.Handle) (Object, bool) {
	e, ok := t.objects[handle]
	if !ok {
		return nil, false
	}
	return e.object, true
}

// Contains reports whether handle names a live object.
func (t *Table) Contains(handle ids.Handle) bool {
	_, ok := t.objects[handle]
	return ok
}

// Len returns the number of live objects.
func (t *Table) Len() int { return len(t.objects) }

// Empty reports whether the table has no live objects.
func (t *Table) Empty() bool { return len(t.objects) == 0 }

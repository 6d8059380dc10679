package object

import (
	"io"
	"strings"

	kerrors "axeberg-kernel/errors"
)

// FileObject is an open file backed by an in-memory byte slice.
type FileObject struct {
	Path     string
	Position int64
	Data     []byte
	Readable bool
	Writable bool
}

// NewFileObject constructs a FileObject over data, opened for the given
// read/write modes.
func NewFileObject(path string, data []byte, readable, writable bool) *FileObject {
	return &FileObject{Path: path, Data: data, Readable: readable, Writable: writable}
}

func (f *FileObject) TypeName() string { return "file" }

func (f *FileObject) Read(buf []byte) (int, error) {
	if !f.Readable {
		return 0, kerrors.ErrNotOpenForMode
	}

	pos := int(f.Position)
	if pos >= len(f.Data) {
		return 0, io.EOF
	}

	n := copy(buf, f.Data[pos:])
	f.Position += int64(n)
	return n, nil
}

func (f *FileObject) Write(buf []byte) (int, error) {
	if !f.Writable {
		return 0, kerrors.ErrNotOpenForMode
	}

	pos := int(f.Position)
	if pos+len(buf) > len(f.Data) {
		grown := make([]byte, pos+len(buf))
		copy(grown, f.Data)
		f.Data = grown
	}
	copy(f.Data[pos:pos+len(buf)], buf)
	f.Position += int64(len(buf))
	return len(buf), nil
}

func (f *FileObject) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekEnd:
		newPos = int64(len(f.Data)) + offset
	case io.SeekCurrent:
		newPos = f.Position + offset
	}

	if newPos < 0 {
		return 0, kerrors.New(kerrors.ErrInvalidInput, "seek", "seek before start of file")
	}

	f.Position = newPos
	return f.Position, nil
}

// PipeObject is a unidirectional, fixed-capacity byte queue used for IPC.
type PipeObject struct {
	buffer      []byte
	capacity    int
	writeClosed bool
	readClosed  bool
}

// NewPipeObject returns an empty pipe with the given buffer capacity.
func NewPipeObject(capacity int) *PipeObject {
	return &PipeObject{capacity: capacity}
}

func (p *PipeObject) TypeName() string { return "pipe" }

func (p *PipeObject) CloseWrite() { p.writeClosed = true }
func (p *PipeObject) CloseRead()  { p.readClosed = true }
func (p *PipeObject) IsClosed() bool {
	return p.writeClosed && p.readClosed
}

func (p *PipeObject) Read(buf []byte) (int, error) {
	if len(p.buffer) == 0 {
		if p.writeClosed {
			return 0, io.EOF
		}
		return 0, kerrors.ErrObjectWouldBlock
	}

	n := copy(buf, p.buffer)
	p.buffer = p.buffer[n:]
	return n, nil
}

func (p *PipeObject) Write(buf []byte) (int, error) {
	if p.readClosed || p.writeClosed {
		return 0, kerrors.ErrPipeBroken
	}

	available := p.capacity - len(p.buffer)
	if available == 0 {
		return 0, kerrors.ErrObjectWouldBlock
	}

	n := len(buf)
	if n > available {
		n = available
	}
	p.buffer = append(p.buffer, buf[:n]...)
	return n, nil
}

// ConsoleObject is /dev/console: a keyboard input queue and a display
// output buffer.
type ConsoleObject struct {
	input  []byte
	output []byte
}

// NewConsoleObject returns an empty console.
func NewConsoleObject() *ConsoleObject {
	return &ConsoleObject{}
}

func (c *ConsoleObject) TypeName() string { return "console" }

// PushInput enqueues keyboard input to be drained by Read.
func (c *ConsoleObject) PushInput(data []byte) {
	c.input = append(c.input, data...)
}

// TakeOutput drains and returns everything written to the console so far.
func (c *ConsoleObject) TakeOutput() []byte {
	out := c.output
	c.output = nil
	return out
}

// PeekOutput returns the pending output without consuming it.
func (c *ConsoleObject) PeekOutput() []byte { return c.output }

// ClearInput discards pending keyboard input (TCFLUSH semantics).
func (c *ConsoleObject) ClearInput() { c.input = nil }

// ClearOutput discards pending display output.
func (c *ConsoleObject) ClearOutput() { c.output = nil }

func (c *ConsoleObject) Read(buf []byte) (int, error) {
	if len(c.input) == 0 {
		return 0, kerrors.ErrObjectWouldBlock
	}
	n := copy(buf, c.input)
	c.input = c.input[n:]
	return n, nil
}

func (c *ConsoleObject) Write(buf []byte) (int, error) {
	c.output = append(c.output, buf...)
	return len(buf), nil
}

// WindowId identifies a window in the (stubbed) compositor.
type WindowId uint64

// WindowObject is an open window; text writes append lines of content.
type WindowObject struct {
	WindowID WindowId
	Content  []string
	Dirty    bool
}

// NewWindowObject returns an empty, dirty window.
func NewWindowObject(id WindowId) *WindowObject {
	return &WindowObject{WindowID: id, Dirty: true}
}

func (w *WindowObject) TypeName() string { return "window" }

// AppendLine appends a line of text content and marks the window dirty.
func (w *WindowObject) AppendLine(line string) {
	w.Content = append(w.Content, line)
	w.Dirty = true
}

func (w *WindowObject) Write(buf []byte) (int, error) {
	for _, line := range strings.Split(string(buf), "\n") {
		w.AppendLine(line)
	}
	w.Dirty = true
	return len(buf), nil
}

// DirectoryObject iterates the entries of a directory, for readdir.
type DirectoryObject struct {
	Path     string
	Entries  []string
	position int
}

// NewDirectoryObject returns a directory cursor positioned before the
// first entry.
func NewDirectoryObject(path string, entries []string) *DirectoryObject {
	return &DirectoryObject{Path: path, Entries: entries}
}

func (d *DirectoryObject) TypeName() string { return "directory" }

// NextEntry returns the next directory entry, or ok == false once
// exhausted.
func (d *DirectoryObject) NextEntry() (string, bool) {
	if d.position >= len(d.Entries) {
		return "", false
	}
	e := d.Entries[d.position]
	d.position++
	return e, true
}

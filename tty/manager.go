package tty

import (
	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// Tty is one simulated terminal device.
type Tty struct {
	Name    string
	Termios Termios
	Pgrp    *ids.Pgid
	Session *ids.Sid
	Rows    uint16
	Cols    uint16
}

// NewTty returns a device named name with default settings and an
// 80x24 window.
func NewTty(name string) *Tty {
	return &Tty{Name: name, Termios: Default(), Rows: 24, Cols: 80}
}

// Winsize returns (rows, cols).
func (t *Tty) Winsize() (uint16, uint16) { return t.Rows, t.Cols }

// SetWinsize updates the terminal's row/column count.
func (t *Tty) SetWinsize(rows, cols uint16) {
	t.Rows = rows
	t.Cols = cols
}

// IsCanonical reports whether the device is in canonical (line-
// buffered) input mode.
func (t *Tty) IsCanonical() bool { return t.Termios.Lflag.Icanon }

// IsEcho reports whether input characters are echoed.
func (t *Tty) IsEcho() bool { return t.Termios.Lflag.Echo }

// Manager is the process-wide registry of terminal devices, analogous
// to the source's TtyManager.
type Manager struct {
	ttys    map[string]*Tty
	current string
	hasCur  bool
}

// NewManager returns a manager pre-populated with "console" and
// "tty1", with "console" as the controlling terminal.
func NewManager() *Manager {
	m := &Manager{ttys: make(map[string]*Tty)}
	m.CreateTty("console")
	m.CreateTty("tty1")
	m.current, m.hasCur = "console", true
	return m
}

// CreateTty registers a new terminal device named name, replacing any
// existing device of that name.
func (m *Manager) CreateTty(name string) *Tty {
	t := NewTty(name)
	m.ttys[name] = t
	return t
}

// GetTty returns the device named name, if registered.
func (m *Manager) GetTty(name string) (*Tty, bool) {
	t, ok := m.ttys[name]
	return t, ok
}

// CurrentTty returns the controlling terminal device, if any is set.
func (m *Manager) CurrentTty() (*Tty, bool) {
	if !m.hasCur {
		return nil, false
	}
	t, ok := m.ttys[m.current]
	return t, ok
}

// SetCurrent makes name the controlling terminal. Returns false if no
// device by that name exists.
func (m *Manager) SetCurrent(name string) bool {
	if _, ok := m.ttys[name]; !ok {
		return false
	}
	m.current, m.hasCur = name, true
	return true
}

// List returns the names of every registered device.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.ttys))
	for name := range m.ttys {
		names = append(names, name)
	}
	return names
}

// Tcgetattr returns a copy of name's current termios settings.
func (m *Manager) Tcgetattr(name string) (Termios, error) {
	t, ok := m.ttys[name]
	if !ok {
		return Termios{}, kerrors.ErrTtyNotFound
	}
	return t.Termios, nil
}

// Tcsetattr replaces name's termios settings.
func (m *Manager) Tcsetattr(name string, termios Termios) error {
	t, ok := m.ttys[name]
	if !ok {
		return kerrors.ErrTtyNotFound
	}
	t.Termios = termios
	return nil
}

package tty

import (
	"testing"

	"axeberg-kernel/ids"
	kerrors "axeberg-kernel/errors"
)

func TestManager_PrePopulatesConsoleAndTty1(t *testing.T) {
	m := NewManager()

	names := m.List()
	if len(names) != 2 {
		t.Fatalf("List() = %v, want 2 entries", names)
	}

	if _, ok := m.GetTty("console"); !ok {
		t.Fatal("expected console to be registered")
	}
	if _, ok := m.GetTty("tty1"); !ok {
		t.Fatal("expected tty1 to be registered")
	}

	cur, ok := m.CurrentTty()
	if !ok || cur.Name != "console" {
		t.Fatalf("CurrentTty() = %+v, %v, want console", cur, ok)
	}
}

func TestManager_CreateAndSetCurrent(t *testing.T) {
	m := NewManager()

	m.CreateTty("tty2")
	if _, ok := m.GetTty("tty2"); !ok {
		t.Fatal("expected tty2 to be registered")
	}

	if !m.SetCurrent("tty2") {
		t.Fatal("SetCurrent(tty2) = false, want true")
	}
	cur, ok := m.CurrentTty()
	if !ok || cur.Name != "tty2" {
		t.Fatalf("CurrentTty() after switch = %+v, want tty2", cur)
	}

	if m.SetCurrent("nonexistent") {
		t.Fatal("SetCurrent(nonexistent) = true, want false")
	}
}

func TestManager_GetTtyMissing(t *testing.T) {
	m := NewManager()
	if _, ok := m.GetTty("nope"); ok {
		t.Fatal("expected GetTty(nope) to report not found")
	}
}

func TestManager_TcgetattrTcsetattr(t *testing.T) {
	m := NewManager()

	termios, err := m.Tcgetattr("console")
	if err != nil {
		t.Fatalf("Tcgetattr error: %v", err)
	}
	if !termios.Lflag.Echo {
		t.Fatal("expected console default to have echo on")
	}

	raw := Raw()
	if err := m.Tcsetattr("console", raw); err != nil {
		t.Fatalf("Tcsetattr error: %v", err)
	}

	got, err := m.Tcgetattr("console")
	if err != nil {
		t.Fatalf("Tcgetattr after set error: %v", err)
	}
	if got.Lflag.Echo {
		t.Fatal("expected echo off after applying raw termios")
	}
}

func TestManager_TcgetattrTcsetattrNotFound(t *testing.T) {
	m := NewManager()

	if _, err := m.Tcgetattr("ghost"); !kerrors.Is(err, kerrors.ErrTtyNotFound) {
		t.Fatalf("Tcgetattr(ghost) error = %v, want ErrTtyNotFound", err)
	}
	if err := m.Tcsetattr("ghost", Default()); !kerrors.Is(err, kerrors.ErrTtyNotFound) {
		t.Fatalf("Tcsetattr(ghost) error = %v, want ErrTtyNotFound", err)
	}
}

func TestTty_WinsizeDefaultsAndSet(t *testing.T) {
	term := NewTty("pts0")

	rows, cols := term.Winsize()
	if rows != 24 || cols != 80 {
		t.Fatalf("Winsize() = (%d, %d), want (24, 80)", rows, cols)
	}

	term.SetWinsize(50, 120)
	rows, cols = term.Winsize()
	if rows != 50 || cols != 120 {
		t.Fatalf("Winsize() after SetWinsize = (%d, %d), want (50, 120)", rows, cols)
	}
}

func TestTty_IsCanonicalAndEcho(t *testing.T) {
	term := NewTty("pts1")
	if !term.IsCanonical() || !term.IsEcho() {
		t.Fatal("expected new tty to default to canonical mode with echo on")
	}

	term.Termios = Raw()
	if term.IsCanonical() || term.IsEcho() {
		t.Fatal("expected raw termios to disable canonical mode and echo")
	}
}

func TestTty_PgrpSessionNilByDefault(t *testing.T) {
	term := NewTty("pts2")
	if term.Pgrp != nil {
		t.Fatalf("Pgrp = %v, want nil", term.Pgrp)
	}
	if term.Session != nil {
		t.Fatalf("Session = %v, want nil", term.Session)
	}

	pgrp := ids.Pgid(42)
	term.Pgrp = &pgrp
	if term.Pgrp == nil || *term.Pgrp != 42 {
		t.Fatalf("Pgrp = %v, want pointer to 42", term.Pgrp)
	}
}

package utils

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestHostTermiosToSimulated(t *testing.T) {
	var raw unix.Termios
	raw.Lflag |= unix.ICANON | unix.ECHO | unix.ISIG
	raw.Oflag |= unix.OPOST
	raw.Iflag |= unix.ICRNL

	sim := HostTermiosToSimulated(&raw)
	if !sim.Lflag.Icanon || !sim.Lflag.Echo || !sim.Lflag.Isig {
		t.Errorf("expected canonical/echo/isig to be set, got %+v", sim.Lflag)
	}
	if !sim.Oflag.Opost {
		t.Error("expected Opost to be set")
	}
	if !sim.Iflag.Icrnl {
		t.Error("expected Icrnl to be set")
	}
}

func TestSimulatedToHostTermios_RoundTrips(t *testing.T) {
	var raw unix.Termios
	raw.Lflag |= unix.ICANON | unix.ECHO | unix.ISIG
	raw.Oflag |= unix.OPOST
	raw.Iflag |= unix.ICRNL

	sim := HostTermiosToSimulated(&raw)
	sim.Lflag.Echo = false

	out := SimulatedToHostTermios(raw, sim)
	if out.Lflag&unix.ECHO != 0 {
		t.Error("expected ECHO to be cleared on the host termios")
	}
	if out.Lflag&unix.ICANON == 0 {
		t.Error("expected ICANON to remain set")
	}
}

func TestToSimulated_DropsPixelDimensions(t *testing.T) {
	ws := &unix.Winsize{Row: 40, Col: 120, Xpixel: 800, Ypixel: 600}
	rows, cols := ToSimulated(ws)
	if rows != 40 || cols != 120 {
		t.Errorf("ToSimulated() = (%d, %d), want (40, 120)", rows, cols)
	}
}

func TestSetFlag(t *testing.T) {
	var field uint32 = unix.ECHO
	setFlag(&field, unix.ICANON, true)
	if field&unix.ICANON == 0 {
		t.Error("expected ICANON to be set")
	}
	setFlag(&field, unix.ECHO, false)
	if field&unix.ECHO != 0 {
		t.Error("expected ECHO to be cleared")
	}
}

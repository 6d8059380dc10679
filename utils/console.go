// Package utils bridges a real host terminal to a simulated tty.Tty for
// the axctl attach demo: it reads the host's actual termios/winsize via
// ioctl and translates the bits into axeberg's simulated Termios, and
// back.
package utils

import (
	"os"

	"golang.org/x/sys/unix"

	"axeberg-kernel/tty"
)

// GetWinsize reads the host terminal's window size.
func GetWinsize(f *os.File) (*unix.Winsize, error) {
	return unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
}

// SetWinsize writes ws to the host terminal.
func SetWinsize(f *os.File, ws *unix.Winsize) error {
	return unix.IoctlSetWinsize(int(f.Fd()), unix.TIOCSWINSZ, ws)
}

// GetTermios reads the host terminal's raw termios via TCGETS.
func GetTermios(f *os.File) (*unix.Termios, error) {
	return unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
}

// SetTermios writes t to the host terminal via TCSETS.
func SetTermios(f *os.File, t *unix.Termios) error {
	return unix.IoctlSetTermios(int(f.Fd()), unix.TCSETS, t)
}

// ToSimulated translates a real host winsize into the simulated Tty's
// row/col pair. Pixel dimensions have no analogue in the simulated
// model and are dropped.
func ToSimulated(ws *unix.Winsize) (rows, cols uint16) {
	return ws.Row, ws.Col
}

// HostTermiosToSimulated maps the real termios bits this process cares
// about onto axeberg's simulated Termios, leaving every other field at
// its sane default since the host kernel's raw bit layout is platform
// specific and most of it (parity, baud divisors, vendor extensions)
// has no simulated counterpart.
func HostTermiosToSimulated(t *unix.Termios) tty.Termios {
	sim := tty.Default()
	sim.Lflag.Icanon = t.Lflag&unix.ICANON != 0
	sim.Lflag.Echo = t.Lflag&unix.ECHO != 0
	sim.Lflag.Isig = t.Lflag&unix.ISIG != 0
	sim.Oflag.Opost = t.Oflag&unix.OPOST != 0
	sim.Iflag.Icrnl = t.Iflag&unix.ICRNL != 0
	return sim
}

// SimulatedToHostTermios applies a simulated Termios's canonical/echo/
// signal/postprocessing bits onto a copy of base, the bits an attach
// bridge can actually reproduce on a real terminal.
func SimulatedToHostTermios(base unix.Termios, sim tty.Termios) unix.Termios {
	out := base
	setFlag(&out.Lflag, unix.ICANON, sim.Lflag.Icanon)
	setFlag(&out.Lflag, unix.ECHO, sim.Lflag.Echo)
	setFlag(&out.Lflag, unix.ISIG, sim.Lflag.Isig)
	setFlag(&out.Oflag, unix.OPOST, sim.Oflag.Opost)
	setFlag(&out.Iflag, unix.ICRNL, sim.Iflag.Icrnl)
	return out
}

func setFlag(field *uint32, bit uint32, on bool) {
	if on {
		*field |= bit
	} else {
		*field &^= bit
	}
}

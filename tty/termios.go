// Package tty implements axeberg's simulated terminal subsystem: a
// termios-like settings structure, a registry of named terminal
// devices, and stty-style setting parse/format helpers.
package tty

import (
	"fmt"
	"strings"
)

// InputModes mirrors termios c_iflag.
type InputModes struct {
	Ignbrk bool
	Brkint bool
	Ignpar bool
	Istrip bool
	Inlcr  bool
	Igncr  bool
	Icrnl  bool
	Ixon   bool
	Ixoff  bool
}

// OutputModes mirrors termios c_oflag.
type OutputModes struct {
	Opost  bool
	Onlcr  bool
	Ocrnl  bool
	Onocr  bool
	Onlret bool
}

// ControlModes mirrors termios c_cflag.
type ControlModes struct {
	Csize  uint8
	Cstopb bool
	Cread  bool
	Parenb bool
	Parodd bool
	Hupcl  bool
	Clocal bool
}

// DefaultControlModes returns an 8N1, receiver-enabled, local-line
// configuration.
func DefaultControlModes() ControlModes {
	return ControlModes{Csize: 8, Cread: true, Clocal: true}
}

// LocalModes mirrors termios c_lflag.
type LocalModes struct {
	Isig   bool
	Icanon bool
	Echo   bool
	Echoe  bool
	Echok  bool
	Echonl bool
	Noflsh bool
	Tostop bool
	Iexten bool
}

// DefaultLocalModes returns canonical-mode, echoing, signal-enabled
// settings.
func DefaultLocalModes() LocalModes {
	return LocalModes{Isig: true, Icanon: true, Echo: true, Echoe: true, Echok: true, Iexten: true}
}

// ControlChars holds the special control characters.
type ControlChars struct {
	Vintr    rune
	Vquit    rune
	Verase   rune
	Vkill    rune
	Veof     rune
	Vtime    uint8
	Vmin     uint8
	Vstart   rune
	Vstop    rune
	Vsusp    rune
	Veol     rune
	Vreprint rune
	Vwerase  rune
	Vlnext   rune
}

// DefaultControlChars returns the conventional Ctrl-key bindings.
func DefaultControlChars() ControlChars {
	return ControlChars{
		Vintr:    '\x03', // Ctrl-C
		Vquit:    '\x1c', // Ctrl-\
		Verase:   '\x7f', // DEL
		Vkill:    '\x15', // Ctrl-U
		Veof:     '\x04', // Ctrl-D
		Vtime:    0,
		Vmin:     1,
		Vstart:   '\x11', // Ctrl-Q
		Vstop:    '\x13', // Ctrl-S
		Vsusp:    '\x1a', // Ctrl-Z
		Veol:     '\x00',
		Vreprint: '\x12', // Ctrl-R
		Vwerase:  '\x17', // Ctrl-W
		Vlnext:   '\x16', // Ctrl-V
	}
}

// Termios is axeberg's termios-like terminal settings structure.
type Termios struct {
	Iflag  InputModes
	Oflag  OutputModes
	Cflag  ControlModes
	Lflag  LocalModes
	Cc     ControlChars
	Ispeed uint32
	Ospeed uint32
}

// Default returns the "sane" default terminal configuration: canonical
// mode, echo on, CR/NL translation on input and output.
func Default() Termios {
	iflag := InputModes{Icrnl: true}
	oflag := OutputModes{Opost: true, Onlcr: true}
	return Termios{
		Iflag:  iflag,
		Oflag:  oflag,
		Cflag:  DefaultControlModes(),
		Lflag:  DefaultLocalModes(),
		Cc:     DefaultControlChars(),
		Ispeed: 38400,
		Ospeed: 38400,
	}
}

// Sane is an alias for Default.
func Sane() Termios { return Default() }

// Cooked is an alias for Default (canonical line-editing mode).
func Cooked() Termios { return Default() }

// Raw returns a configuration with all input/output/local processing
// disabled — the mode a full-screen program like an editor wants.
func Raw() Termios {
	return Termios{
		Iflag:  InputModes{},
		Oflag:  OutputModes{},
		Cflag:  DefaultControlModes(),
		Lflag:  LocalModes{},
		Cc:     ControlChars{Vmin: 1, Vtime: 0, Vintr: DefaultControlChars().Vintr},
		Ispeed: 38400,
		Ospeed: 38400,
	}
}

// ParseSttySetting applies one stty-style token (optionally prefixed
// with '-' to clear a flag) to termios in place.
func ParseSttySetting(termios *Termios, setting string) error {
	negate := false
	if strings.HasPrefix(setting, "-") {
		negate = true
		setting = setting[1:]
	}
	set := !negate

	switch setting {
	case "ignbrk":
		termios.Iflag.Ignbrk = set
	case "brkint":
		termios.Iflag.Brkint = set
	case "ignpar":
		termios.Iflag.Ignpar = set
	case "istrip":
		termios.Iflag.Istrip = set
	case "inlcr":
		termios.Iflag.Inlcr = set
	case "igncr":
		termios.Iflag.Igncr = set
	case "icrnl":
		termios.Iflag.Icrnl = set
	case "ixon":
		termios.Iflag.Ixon = set
	case "ixoff":
		termios.Iflag.Ixoff = set

	case "opost":
		termios.Oflag.Opost = set
	case "onlcr":
		termios.Oflag.Onlcr = set
	case "ocrnl":
		termios.Oflag.Ocrnl = set
	case "onocr":
		termios.Oflag.Onocr = set
	case "onlret":
		termios.Oflag.Onlret = set

	case "isig":
		termios.Lflag.Isig = set
	case "icanon":
		termios.Lflag.Icanon = set
	case "echo":
		termios.Lflag.Echo = set
	case "echoe":
		termios.Lflag.Echoe = set
	case "echok":
		termios.Lflag.Echok = set
	case "echonl":
		termios.Lflag.Echonl = set
	case "noflsh":
		termios.Lflag.Noflsh = set
	case "tostop":
		termios.Lflag.Tostop = set
	case "iexten":
		termios.Lflag.Iexten = set

	case "cstopb":
		termios.Cflag.Cstopb = set
	case "cread":
		termios.Cflag.Cread = set
	case "parenb":
		termios.Cflag.Parenb = set
	case "parodd":
		termios.Cflag.Parodd = set
	case "hupcl":
		termios.Cflag.Hupcl = set
	case "clocal":
		termios.Cflag.Clocal = set

	case "raw":
		if !negate {
			*termios = Raw()
		}
	case "cooked", "sane":
		if !negate {
			*termios = Sane()
		}

	case "cs5":
		termios.Cflag.Csize = 5
	case "cs6":
		termios.Cflag.Csize = 6
	case "cs7":
		termios.Cflag.Csize = 7
	case "cs8":
		termios.Cflag.Csize = 8

	default:
		return fmt.Errorf("unknown setting: %s", setting)
	}

	return nil
}

// FormatSttySettings renders termios the way "stty -a" would.
func FormatSttySettings(termios Termios) string {
	var b strings.Builder

	fmt.Fprintf(&b, "speed %d baud; ", termios.Ospeed)
	fmt.Fprintf(&b, "rows 24; columns 80;\n")

	fmt.Fprintf(&b, "intr = ^C; quit = ^\\; erase = ^?; kill = ^U; eof = ^D;\n")
	fmt.Fprintf(&b, "susp = ^Z; start = ^Q; stop = ^S;\n")

	b.WriteString(flagToken(termios.Iflag.Icrnl, "icrnl"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Iflag.Ixon, "ixon"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Iflag.Istrip, "istrip"))
	b.WriteByte('\n')

	b.WriteString(flagToken(termios.Oflag.Opost, "opost"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Oflag.Onlcr, "onlcr"))
	b.WriteByte('\n')

	b.WriteString(flagToken(termios.Lflag.Isig, "isig"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Lflag.Icanon, "icanon"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Lflag.Echo, "echo"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Lflag.Echoe, "echoe"))
	b.WriteByte(' ')
	b.WriteString(flagToken(termios.Lflag.Echok, "echok"))
	b.WriteByte('\n')

	return b.String()
}

func flagToken(set bool, name string) string {
	if set {
		return name
	}
	return "-" + name
}

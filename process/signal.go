package process

import (
	"strconv"
	"strings"

	kerrors "axeberg-kernel/errors"
)

// Signal names one of the process-control signals a process can
// receive.
type Signal int

// Signal values match their real Linux signal numbers (not a sequential
// enum) so a numeric argument to ParseSignal and the 128+signal exit
// code convention both agree with what an operator expects from kill(1).
const (
	SIGHUP  Signal = 1
	SIGINT  Signal = 2
	SIGKILL Signal = 9
	SIGUSR1 Signal = 10
	SIGUSR2 Signal = 12
	SIGTERM Signal = 15
	SIGCONT Signal = 18
	SIGSTOP Signal = 19
)

func (s Signal) String() string {
	switch s {
	case SIGHUP:
		return "SIGHUP"
	case SIGINT:
		return "SIGINT"
	case SIGKILL:
		return "SIGKILL"
	case SIGTERM:
		return "SIGTERM"
	case SIGSTOP:
		return "SIGSTOP"
	case SIGCONT:
		return "SIGCONT"
	case SIGUSR1:
		return "SIGUSR1"
	case SIGUSR2:
		return "SIGUSR2"
	default:
		return "SIGUNKNOWN"
	}
}

// signalNames maps the name a caller writes (with or without the "SIG"
// prefix) to its Signal value, covering the minimum set spec.md §6
// requires.
var signalNames = map[string]Signal{
	"HUP":  SIGHUP,
	"INT":  SIGINT,
	"KILL": SIGKILL,
	"TERM": SIGTERM,
	"STOP": SIGSTOP,
	"CONT": SIGCONT,
	"USR1": SIGUSR1,
	"USR2": SIGUSR2,
}

// ParseSignal parses a signal name ("TERM", "SIGTERM") or number into a
// Signal.
func ParseSignal(s string) (Signal, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return Signal(n), nil
	}

	name := strings.TrimPrefix(strings.ToUpper(s), "SIG")
	if sig, ok := signalNames[name]; ok {
		return sig, nil
	}
	return 0, kerrors.New(kerrors.ErrInvalidInput, "parse signal", "unknown signal: "+s)
}

// Disposition is how a process has arranged to handle a signal.
type Disposition int

const (
	// DispositionDefault performs the signal's standard action (e.g.
	// SIGTERM/SIGKILL terminate, SIGSTOP stops, SIGCONT resumes).
	DispositionDefault Disposition = iota
	// DispositionIgnore discards the signal on delivery.
	DispositionIgnore
	// DispositionCatch hands the signal to a process-installed handler.
	DispositionCatch
)

// uncatchable is the set of signals whose disposition cannot be
// changed away from DispositionDefault.
func uncatchable(sig Signal) bool {
	return sig == SIGKILL || sig == SIGSTOP
}

// ProcessSignals tracks a process's pending signal queue and its
// per-signal dispositions.
type ProcessSignals struct {
	pending      map[Signal]bool
	dispositions map[Signal]Disposition
}

// NewProcessSignals returns a fresh signal record: no pending signals,
// every disposition at its default action.
func NewProcessSignals() *ProcessSignals {
	return &ProcessSignals{
		pending:      make(map[Signal]bool),
		dispositions: make(map[Signal]Disposition),
	}
}

// Raise marks sig pending for delivery.
func (s *ProcessSignals) Raise(sig Signal) {
	s.pending[sig] = true
}

// Pending reports whether sig is currently queued.
func (s *ProcessSignals) Pending(sig Signal) bool {
	return s.pending[sig]
}

// PendingSignals returns every currently-queued signal, in no
// particular order.
func (s *ProcessSignals) PendingSignals() []Signal {
	out := make([]Signal, 0, len(s.pending))
	for sig, set := range s.pending {
		if set {
			out = append(out, sig)
		}
	}
	return out
}

// Consume removes sig from the pending set, reporting whether it was
// present.
func (s *ProcessSignals) Consume(sig Signal) bool {
	if !s.pending[sig] {
		return false
	}
	delete(s.pending, sig)
	return true
}

// Disposition returns how sig is currently handled.
func (s *ProcessSignals) Disposition(sig Signal) Disposition {
	if d, ok := s.dispositions[sig]; ok {
		return d
	}
	return DispositionDefault
}

// SetDisposition installs disp as sig's handling. SIGKILL and SIGSTOP
// may never be caught or ignored.
func (s *ProcessSignals) SetDisposition(sig Signal, disp Disposition) error {
	if uncatchable(sig) && disp != DispositionDefault {
		return kerrors.ErrCannotCatchKill
	}
	s.dispositions[sig] = disp
	return nil
}

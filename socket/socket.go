// Package socket implements axeberg's Unix domain socket layer: a
// name-to-socket registry supporting both stream (connection-oriented)
// and datagram (connectionless) semantics with a pending-connection
// queue for listening sockets.
package socket

import (
	"strings"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// SocketType distinguishes stream from datagram sockets.
type SocketType int

const (
	Stream SocketType = iota + 1
	Datagram
)

// SocketTypeFromNum maps a POSIX-style SOCK_STREAM/SOCK_DGRAM number
// to a SocketType.
func SocketTypeFromNum(n int32) (SocketType, bool) {
	switch n {
	case 1:
		return Stream, true
	case 2:
		return Datagram, true
	default:
		return 0, false
	}
}

// ToNum returns t's POSIX-style numeric value.
func (t SocketType) ToNum() int32 {
	switch t {
	case Stream:
		return 1
	case Datagram:
		return 2
	default:
		return 0
	}
}

// SocketState is the lifecycle state of a stream socket (meaningful
// for datagram sockets only insofar as they move Unbound -> Bound).
type SocketState int

const (
	Unbound SocketState = iota
	Bound
	Listening
	Connecting
	Connected
	Closed
)

// Addr is a Unix domain socket address: a path in the filesystem
// namespace.
type Addr struct {
	Path string
}

// NewAddr returns an Addr for path.
func NewAddr(path string) Addr { return Addr{Path: path} }

// IsAbstract reports whether addr names a Linux-style abstract socket
// (path begins with a NUL byte).
func (a Addr) IsAbstract() bool { return strings.HasPrefix(a.Path, "\x00") }

// IsUnnamed reports whether addr has no path at all.
func (a Addr) IsUnnamed() bool { return a.Path == "" }

// DefaultBufferSize is the per-socket receive/send buffer ceiling.
const DefaultBufferSize = 65536

// Socket is one Unix domain socket.
type Socket struct {
	ID         ids.SocketId
	Type       SocketType
	State      SocketState
	LocalAddr  *Addr
	PeerAddr   *Addr
	NonBlock   bool
	PeerSocket *ids.SocketId

	recvBuffer [][]byte
	sendBuffer [][]byte
	bufferSize int

	backlog            int
	pendingConnections []ids.SocketId
}

// NewSocket returns an unbound socket of the given type.
func NewSocket(id ids.SocketId, t SocketType) *Socket {
	return &Socket{ID: id, Type: t, State: Unbound, bufferSize: DefaultBufferSize}
}

// HasData reports whether a recv would return data immediately.
func (s *Socket) HasData() bool { return len(s.recvBuffer) > 0 }

// HasPendingConnections reports whether accept would succeed
// immediately.
func (s *Socket) HasPendingConnections() bool { return len(s.pendingConnections) > 0 }

// RecvBufferLen returns the total bytes queued for receive.
func (s *Socket) RecvBufferLen() int {
	total := 0
	for _, b := range s.recvBuffer {
		total += len(b)
	}
	return total
}

// SendBufferLen returns the total bytes queued for send.
func (s *Socket) SendBufferLen() int {
	total := 0
	for _, b := range s.sendBuffer {
		total += len(b)
	}
	return total
}

func (s *Socket) pushRecv(data []byte) error {
	if s.RecvBufferLen()+len(data) > s.bufferSize {
		return kerrors.ErrBufferFull
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.recvBuffer = append(s.recvBuffer, buf)
	return nil
}

func (s *Socket) popRecv() ([]byte, bool) {
	if len(s.recvBuffer) == 0 {
		return nil, false
	}
	data := s.recvBuffer[0]
	s.recvBuffer = s.recvBuffer[1:]
	return data, true
}

func (s *Socket) addPendingConnection(id ids.SocketId) error {
	if len(s.pendingConnections) >= s.backlog {
		return kerrors.ErrBufferFull
	}
	s.pendingConnections = append(s.pendingConnections, id)
	return nil
}

func (s *Socket) popPendingConnection() (ids.SocketId, bool) {
	if len(s.pendingConnections) == 0 {
		return 0, false
	}
	id := s.pendingConnections[0]
	s.pendingConnections = s.pendingConnections[1:]
	return id, true
}

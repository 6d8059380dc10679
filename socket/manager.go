package socket

import (
	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// Manager is the process-wide Unix domain socket registry: every live
// socket plus the path-to-socket bindings that connect() and sendto()
// resolve through.
type Manager struct {
	sockets        map[ids.SocketId]*Socket
	boundAddresses map[string]ids.SocketId
	nextId         uint64
}

// NewManager returns an empty socket manager.
func NewManager() *Manager {
	return &Manager{
		sockets:        make(map[ids.SocketId]*Socket),
		boundAddresses: make(map[string]ids.SocketId),
		nextId:         1,
	}
}

// Socket creates a fresh, unbound socket of the given type.
func (m *Manager) Socket(t SocketType) ids.SocketId {
	id := ids.SocketId(m.nextId)
	m.nextId++
	m.sockets[id] = NewSocket(id, t)
	return id
}

// Close removes id, freeing any address it was bound to for reuse.
func (m *Manager) Close(id ids.SocketId) error {
	s, ok := m.sockets[id]
	if !ok {
		return kerrors.ErrSocketNotFound
	}
	delete(m.sockets, id)
	if s.LocalAddr != nil {
		delete(m.boundAddresses, s.LocalAddr.Path)
	}
	return nil
}

// Bind attaches addr to id. Fails with ErrAddressInUse if another
// socket already holds it, or ErrSocketInvalidState if id is not
// Unbound.
func (m *Manager) Bind(id ids.SocketId, addr Addr) error {
	if _, taken := m.boundAddresses[addr.Path]; taken {
		return kerrors.ErrAddressInUse
	}

	s, ok := m.sockets[id]
	if !ok {
		return kerrors.ErrSocketNotFound
	}
	if s.State != Unbound {
		return kerrors.ErrSocketInvalidState
	}

	s.LocalAddr = &addr
	s.State = Bound
	m.boundAddresses[addr.Path] = id
	return nil
}

// Listen marks a bound stream socket as ready to accept, with a
// minimum backlog of 1.
func (m *Manager) Listen(id ids.SocketId, backlog int) error {
	s, ok := m.sockets[id]
	if !ok {
		return kerrors.ErrSocketNotFound
	}
	if s.Type != Stream {
		return kerrors.ErrSocketNotSupported
	}
	if s.State != Bound {
		return kerrors.ErrSocketInvalidState
	}

	s.State = Listening
	if backlog < 1 {
		backlog = 1
	}
	s.backlog = backlog
	return nil
}

// Accept pops the next pending connection from a listening socket,
// creating and returning a fresh server-side socket id connected to
// the client, plus the client's address.
func (m *Manager) Accept(id ids.SocketId) (ids.SocketId, Addr, error) {
	s, ok := m.sockets[id]
	if !ok {
		return 0, Addr{}, kerrors.ErrSocketNotFound
	}
	if s.Type != Stream {
		return 0, Addr{}, kerrors.ErrSocketNotSupported
	}
	if s.State != Listening {
		return 0, Addr{}, kerrors.ErrSocketInvalidState
	}

	clientId, ok := s.popPendingConnection()
	if !ok {
		return 0, Addr{}, kerrors.ErrSocketWouldBlock
	}
	serverLocalAddr := s.LocalAddr

	var clientAddr Addr
	if client, ok := m.sockets[clientId]; ok && client.LocalAddr != nil {
		clientAddr = *client.LocalAddr
	}

	serverId := m.Socket(Stream)
	server := m.sockets[serverId]
	server.State = Connected
	server.PeerAddr = &clientAddr
	peerId := clientId
	server.PeerSocket = &peerId
	server.LocalAddr = serverLocalAddr

	if client, ok := m.sockets[clientId]; ok {
		client.State = Connected
		sid := serverId
		client.PeerSocket = &sid
	}

	return serverId, clientAddr, nil
}

// Connect queues id as a pending connection on the listening socket
// bound to addr, and moves id to Connecting. The handshake completes
// when the listener calls Accept.
func (m *Manager) Connect(id ids.SocketId, addr Addr) error {
	serverId, ok := m.boundAddresses[addr.Path]
	if !ok {
		return kerrors.ErrConnectionRefusedErr
	}

	server, ok := m.sockets[serverId]
	if !ok || server.State != Listening {
		return kerrors.ErrConnectionRefusedErr
	}

	client, ok := m.sockets[id]
	if !ok {
		return kerrors.ErrSocketNotFound
	}
	if client.Type != Stream {
		return kerrors.ErrSocketNotSupported
	}
	if client.State != Unbound && client.State != Bound {
		return kerrors.ErrSocketInvalidState
	}

	if err := server.addPendingConnection(id); err != nil {
		return err
	}

	client.PeerAddr = &addr
	client.State = Connecting
	return nil
}

// Send writes data to a connected socket's peer.
func (m *Manager) Send(id ids.SocketId, data []byte) (int, error) {
	s, ok := m.sockets[id]
	if !ok {
		return 0, kerrors.ErrSocketNotFound
	}
	if s.State != Connected {
		return 0, kerrors.ErrNotConnected
	}
	if s.PeerSocket == nil {
		return 0, kerrors.ErrNotConnected
	}

	peer, ok := m.sockets[*s.PeerSocket]
	if !ok {
		return 0, kerrors.ErrNotConnected
	}
	if err := peer.pushRecv(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Recv reads the next queued message from a connected socket.
func (m *Manager) Recv(id ids.SocketId) ([]byte, error) {
	s, ok := m.sockets[id]
	if !ok {
		return nil, kerrors.ErrSocketNotFound
	}
	if s.State != Connected {
		return nil, kerrors.ErrNotConnected
	}
	data, ok := s.popRecv()
	if !ok {
		return nil, kerrors.ErrSocketWouldBlock
	}
	return data, nil
}

// SendTo sends a single datagram to the socket bound at addr.
func (m *Manager) SendTo(id ids.SocketId, data []byte, addr Addr) (int, error) {
	s, ok := m.sockets[id]
	if !ok {
		return 0, kerrors.ErrSocketNotFound
	}
	if s.Type != Datagram {
		return 0, kerrors.ErrSocketNotSupported
	}

	targetId, ok := m.boundAddresses[addr.Path]
	if !ok {
		return 0, kerrors.ErrConnectionRefusedErr
	}
	target, ok := m.sockets[targetId]
	if !ok {
		return 0, kerrors.ErrSocketNotFound
	}
	if err := target.pushRecv(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// RecvFrom reads the next queued datagram. The sender address is not
// tracked, so it always returns ok == false for the address — the
// Open Question in spec.md §9 permits extending this, but not
// removing the data-returning case.
func (m *Manager) RecvFrom(id ids.SocketId) ([]byte, Addr, bool, error) {
	s, ok := m.sockets[id]
	if !ok {
		return nil, Addr{}, false, kerrors.ErrSocketNotFound
	}
	if s.Type != Datagram {
		return nil, Addr{}, false, kerrors.ErrSocketNotSupported
	}

	data, ok := s.popRecv()
	if !ok {
		return nil, Addr{}, false, kerrors.ErrSocketWouldBlock
	}
	return data, Addr{}, false, nil
}

// Get returns the socket registered under id.
func (m *Manager) Get(id ids.SocketId) (*Socket, bool) {
	s, ok := m.sockets[id]
	return s, ok
}

// HasData reports whether id has data ready to receive.
func (m *Manager) HasData(id ids.SocketId) bool {
	s, ok := m.sockets[id]
	return ok && s.HasData()
}

// HasPending reports whether a listening socket has a pending
// connection.
func (m *Manager) HasPending(id ids.SocketId) bool {
	s, ok := m.sockets[id]
	return ok && s.HasPendingConnections()
}

// State returns id's current socket state.
func (m *Manager) State(id ids.SocketId) (SocketState, bool) {
	s, ok := m.sockets[id]
	if !ok {
		return 0, false
	}
	return s.State, true
}

// SetNonBlocking toggles id's non-blocking flag.
func (m *Manager) SetNonBlocking(id ids.SocketId, nonBlocking bool) error {
	s, ok := m.sockets[id]
	if !ok {
		return kerrors.ErrSocketNotFound
	}
	s.NonBlock = nonBlocking
	return nil
}

// LocalAddr returns id's bound address, if any.
func (m *Manager) LocalAddr(id ids.SocketId) (*Addr, error) {
	s, ok := m.sockets[id]
	if !ok {
		return nil, kerrors.ErrSocketNotFound
	}
	return s.LocalAddr, nil
}

// PeerAddr returns id's peer address, if connected.
func (m *Manager) PeerAddr(id ids.SocketId) (*Addr, error) {
	s, ok := m.sockets[id]
	if !ok {
		return nil, kerrors.ErrSocketNotFound
	}
	return s.PeerAddr, nil
}

// Package chat implements the concurrent session registry and the
// message-routing engine shared by the stream and datagram transports.
//
// The registry is the single source of truth about who is connected.
// All shared mutable state lives behind it; transport adapters and the
// inactivity reaper only ever see point-in-time copies and deliver
// messages through the Peer capability, never while the registry lock
// is held.
package chat

import "time"

// Identity is the key under which a session is tracked: the remote
// address of a stream connection, or the source address of a datagram,
// namespaced by transport (e.g. "tcp:127.0.0.1:49210").
type Identity string

// Transport labels which adapter owns a session.
type Transport string

const (
	TransportStream   Transport = "tcp"
	TransportDatagram Transport = "udp"
)

// Peer is the capability needed to reach one participant.
//
// Stream peers own their socket and buffer outbound messages so a slow
// receiver cannot stall a broadcast.  Datagram peers share the server
// socket and only remember the source address, so their Close is a
// no-op.
type Peer interface {
	// Send delivers one logical message, best effort.
	Send(data []byte) error

	// Close releases resources owned by the peer.
	Close() error

	// Addr returns the remote address, for logs.
	Addr() string
}

// Session is the server-side record of one participant.  Values handed
// out by Registry.Snapshot are copies; all mutation goes through the
// Registry.
type Session struct {
	ID            Identity
	Seq           int64 // creation sequence, used for Guest<N> names
	Name          string
	Authenticated bool
	LastActivity  time.Time
	Transport     Transport
	Peer          Peer
}

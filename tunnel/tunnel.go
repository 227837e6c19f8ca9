// Package tunnel lets the chat client reach a server that is only
// visible from behind an SSH bastion.  The tunnel dials the bastion,
// authenticates, and then forwards the chat connection with
// ssh.Client.Dial.  Only the stream transport can be tunnelled.
package tunnel

import (
	"context"
	"net"
)

// Tunnel is an established forwarding path through a bastion.  It
// satisfies the client's transport.Dialer contract.
type Tunnel interface {
	// Connect dials the bastion and completes the SSH handshake.
	Connect(ctx context.Context) error

	// Dial forwards a connection to address through the bastion.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// IsAlive reports whether the tunnel is still connected.
	IsAlive() bool

	// Close shuts the SSH connection down.
	Close() error
}

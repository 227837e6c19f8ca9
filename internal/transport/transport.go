// Package transport provides abstractions for outbound connection
// establishment.  Dialers handle the "how" of reaching the chat server
// — direct TCP/UDP or an SSH-tunnelled hop — independent of the chat
// protocol spoken over the connection.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations include
// a plain TCP/UDP dialer and an SSH-tunnelled dialer that routes
// traffic through an encrypted bastion.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}

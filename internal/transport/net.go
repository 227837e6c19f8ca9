package transport

import (
	"context"
	"net"
	"time"
)

// NetDialer establishes plain TCP or UDP connections.  A dialed UDP
// "connection" is a connected datagram socket: Write sends to the
// server, Read receives only from it.
type NetDialer struct {
	Timeout time.Duration
}

// Dial connects to address over the given network ("tcp" or "udp").
func (d *NetDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless dialers.
func (d *NetDialer) Close() error { return nil }

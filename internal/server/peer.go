package server

import (
	"net"
	"sync"
	"time"

	"github.com/eapache/queue"

	gcerr "gochat/internal/errors"
	"gochat/internal/metrics"
	"gochat/util"
)

// peerWriteTimeout bounds a single outbound write so a wedged receiver
// cannot pin the writer goroutine forever.
const peerWriteTimeout = 10 * time.Second

// streamPeer owns one stream connection.  Outbound messages go through
// a FIFO drained by a dedicated writer goroutine, so Send never blocks
// on the network: a broadcast enqueues and moves on, and one slow
// recipient cannot delay delivery to the others.
type streamPeer struct {
	conn net.Conn
	log  *util.Logger
	met  *metrics.Collector

	mu     sync.Mutex
	q      *queue.Queue // of []byte
	wake   chan struct{}
	closed bool
}

func newStreamPeer(conn net.Conn, log *util.Logger, met *metrics.Collector) *streamPeer {
	p := &streamPeer{
		conn: conn,
		log:  log,
		met:  met,
		q:    queue.New(),
		wake: make(chan struct{}, 1),
	}
	go p.writeLoop()
	return p
}

// Send enqueues one message for delivery.
func (p *streamPeer) Send(data []byte) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return gcerr.ErrPeerClosed
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	p.q.Add(buf)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close marks the peer closed and closes the socket, unblocking both
// the writer goroutine and any reader.  Idempotent.
func (p *streamPeer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	err := p.conn.Close()
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return err
}

// Addr returns the remote address.
func (p *streamPeer) Addr() string { return p.conn.RemoteAddr().String() }

// writeLoop drains the queue until the peer is closed or a write
// fails.  A write failure closes the peer: recovery is "drop the
// session", never retry.
func (p *streamPeer) writeLoop() {
	for range p.wake {
		for {
			p.mu.Lock()
			if p.q.Length() == 0 {
				p.mu.Unlock()
				break
			}
			msg := p.q.Remove().([]byte)
			p.mu.Unlock()

			p.conn.SetWriteDeadline(time.Now().Add(peerWriteTimeout)) //nolint:errcheck
			if _, err := p.conn.Write(msg); err != nil {
				p.mu.Lock()
				wasClosed := p.closed
				p.closed = true
				p.mu.Unlock()
				if !wasClosed {
					p.log.Warn("write %s: %v", p.Addr(), err)
					p.met.RecordError(err.Error())
					p.conn.Close()
				}
				return
			}
			p.met.BytesSent(int64(len(msg)))
		}

		p.mu.Lock()
		done := p.closed
		p.mu.Unlock()
		if done {
			return
		}
	}
}

// datagramPeer reaches one participant through the shared server
// socket.  It does not own the socket, so Close is a no-op.
type datagramPeer struct {
	conn *net.UDPConn
	addr *net.UDPAddr
	met  *metrics.Collector
}

func (p *datagramPeer) Send(data []byte) error {
	n, err := p.conn.WriteToUDP(data, p.addr)
	if err != nil {
		return gcerr.Wrap("write", p.addr.String(), err)
	}
	p.met.BytesSent(int64(n))
	return nil
}

func (p *datagramPeer) Close() error { return nil }

func (p *datagramPeer) Addr() string { return p.addr.String() }

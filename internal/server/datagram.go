package server

import (
	"context"
	"net"
	"time"

	"gochat/config"
	"gochat/internal/chat"
	gcerr "gochat/internal/errors"
)

// demuxLoop is the single receiver for the datagram transport.  There
// is no per-client goroutine and no connection state: every datagram
// is attributed to a session by its source address, and liveness is
// entirely a function of last activity (hence the client heartbeat).
func (s *Server) demuxLoop(ctx context.Context, conn *net.UDPConn) {
	buf := make([]byte, config.DefaultDatagramBufSize)

	for {
		if ctx.Err() != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.cfg.PollInterval)) //nolint:errcheck
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			var ne net.Error
			if gcerr.As(err, &ne) && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			// A datagram socket survives per-packet errors.
			s.log.Warn("udp read: %v", err)
			s.met.RecordError(err.Error())
			continue
		}
		if n == 0 {
			continue
		}
		s.met.BytesReceived(int64(n))
		s.handleDatagram(addr, string(buf[:n]))
	}
}

// handleDatagram interprets one datagram from addr.
func (s *Server) handleDatagram(addr *net.UDPAddr, msg string) {
	id := chat.Identity("udp:" + addr.String())
	peer := &datagramPeer{conn: s.udp, addr: addr, met: s.met}

	// Refresh liveness before interpreting anything.  Heartbeats exist
	// solely for this line.
	s.reg.Touch(id)

	cmd := chat.Parse(msg)
	switch cmd.Kind {
	case chat.KindRegister:
		if s.reg.Has(id) {
			return // re-registration from a known address is ignored
		}
		name := s.reg.Register(id, chat.TransportDatagram, peer, cmd.Name)
		s.log.Info("new client registered: %s at %s (%d total)", name, addr, s.reg.Len())
		s.router.Notify(peer, "Welcome to the chat, "+name+"!")
		s.router.Notify(peer, "To send a private message, use: /msg <username> <message>")
		s.router.Broadcast(name+" has joined the chat", id)

	case chat.KindHeartbeat:
		// Nothing beyond the Touch above; no reply.

	case chat.KindQuit:
		name, authenticated, _, ok := s.reg.Remove(id)
		if ok && authenticated && name != "" {
			s.log.Info("client %s (%s) quit the chat", id, name)
			s.router.Broadcast(name+" has left the chat", id)
		}

	case chat.KindUsers:
		if err := peer.Send([]byte(s.router.UserList())); err != nil {
			s.log.Warn("user list to %s: %v", peer.Addr(), err)
		}

	case chat.KindPrivate:
		if !s.reg.Has(id) {
			return // unregistered senders get no private-message errors
		}
		if !s.router.PrivateMessage(id, cmd.Target, cmd.Text) {
			s.router.Notify(peer, "User "+cmd.Target+" not found.")
		}

	case chat.KindInvalid:
		s.router.Notify(peer, "Invalid private message format. Use /msg <username> <message>")

	default:
		sess, ok := s.reg.Get(id)
		if !ok || !sess.Authenticated {
			// Unstamped and without a trailing newline on purpose:
			// clients match this prompt verbatim.
			peer.Send([]byte("Please register first with REGISTER:<username>")) //nolint:errcheck
			return
		}
		s.log.Verbose("message from %s: %s", sess.Name, msg)
		s.router.Broadcast(sess.Name+": "+msg, id)
	}
}

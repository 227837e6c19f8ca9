package server

import (
	"context"
	"io"
	"net"
	"strings"
	"time"

	"gochat/config"
	"gochat/internal/chat"
	gcerr "gochat/internal/errors"
)

// acceptLoop accepts stream connections and hands each to its own
// worker goroutine.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	// Shut the listener down when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if gcerr.IsRetryable(err) {
				s.log.Warn("accept: %v", err)
				continue
			}
			s.log.Error("accept: %v", err)
			s.met.RecordError(err.Error())
			return
		}

		s.log.Verbose("connection from %s", conn.RemoteAddr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveStream(ctx, conn)
		}()
	}
}

// serveStream runs one connection through its lifecycle: accepted →
// authenticating (first payload is the display name) → authenticated
// command loop → closed.  On every exit path the session is removed
// and the socket released.
func (s *Server) serveStream(ctx context.Context, conn net.Conn) {
	id := chat.Identity("tcp:" + conn.RemoteAddr().String())
	peer := newStreamPeer(conn, s.log, s.met)
	s.reg.Add(id, chat.TransportStream, peer)

	defer func() {
		name, authenticated, _, ok := s.reg.Remove(id)
		peer.Close()
		// The reaper may have won the race; then the teardown,
		// including the departure broadcast, was already done.
		if ok && authenticated && name != "" && ctx.Err() == nil {
			s.router.Broadcast(name+" has left the chat", id)
		}
		s.log.Verbose("client %s disconnected (%d total)", id, s.reg.Len())
	}()

	buf := make([]byte, config.DefaultStreamBufSize)

	raw, ok := s.readPayload(ctx, conn, buf)
	if !ok {
		return
	}
	name := s.reg.Register(id, chat.TransportStream, peer, raw)
	s.log.Info("client %s authenticated as %q", id, name)
	s.router.Broadcast(name+" has joined the chat", id)
	s.router.Notify(peer, "Welcome to the chat, "+name+"!")

	for {
		line, ok := s.readPayload(ctx, conn, buf)
		if !ok {
			return
		}
		s.reg.Touch(id)

		cmd := chat.Parse(line)
		switch cmd.Kind {
		case chat.KindQuit:
			s.log.Info("client %s (%s) quit the chat", id, name)
			return
		case chat.KindUsers:
			if err := peer.Send([]byte(s.router.UserList())); err != nil {
				s.log.Warn("user list to %s: %v", peer.Addr(), err)
			}
		case chat.KindPrivate:
			if !s.router.PrivateMessage(id, cmd.Target, cmd.Text) {
				s.router.Notify(peer, "User "+cmd.Target+" not found.")
			}
		case chat.KindInvalid:
			s.router.Notify(peer, "Invalid private message format. Use /msg <username> <message>")
		default:
			// REGISTER:/HEARTBEAT carry no meaning on the stream
			// transport; they are chat lines like any other.
			s.log.Verbose("message from %s: %s", name, line)
			s.router.Broadcast(name+": "+line, id)
		}
	}
}

// readPayload blocks for the next payload, polling with a short read
// deadline so cancellation is observed within PollInterval.  ok is
// false on peer close, read error, or shutdown.  One Read is assumed
// to yield one logical message; the stream can in principle coalesce
// or split writes, a limitation inherited from the wire format.
func (s *Server) readPayload(ctx context.Context, conn net.Conn, buf []byte) (string, bool) {
	for {
		if ctx.Err() != nil {
			return "", false
		}
		conn.SetReadDeadline(time.Now().Add(s.cfg.PollInterval)) //nolint:errcheck
		n, err := conn.Read(buf)
		if err != nil {
			var ne net.Error
			if gcerr.As(err, &ne) && ne.Timeout() {
				continue
			}
			if !gcerr.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Verbose("read %s: %v", conn.RemoteAddr(), err)
			}
			return "", false
		}
		if n == 0 {
			return "", false
		}
		s.met.BytesReceived(int64(n))
		return trimPayload(buf[:n]), true
	}
}

// trimPayload strips trailing newline, carriage-return, and NUL bytes.
func trimPayload(b []byte) string {
	return strings.TrimRight(string(b), "\r\n\x00")
}

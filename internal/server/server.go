// Package server hosts the transport adapters over the chat core and
// coordinates startup and shutdown.  Both adapters share one session
// registry, one router, and one inactivity reaper; the only difference
// between them is how bytes arrive and how a peer is reached.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"

	"gochat/config"
	"gochat/internal/chat"
	gcerr "gochat/internal/errors"
	"gochat/internal/metrics"
	"gochat/util"
)

// Server runs the stream and/or datagram chat adapters.
type Server struct {
	cfg *config.Config
	log *util.Logger
	met *metrics.Collector

	reg    *chat.Registry
	router *chat.Router
	reaper *chat.Reaper

	mu      sync.Mutex
	cancel  context.CancelFunc
	ln      net.Listener
	udp     *net.UDPConn
	wg      sync.WaitGroup
	started bool
}

// New wires a server from configuration.  met may be nil.
func New(cfg *config.Config, log *util.Logger, met *metrics.Collector) *Server {
	reg := chat.NewRegistry(met)
	router := chat.NewRouter(reg, log, met)
	return &Server{
		cfg:    cfg,
		log:    log,
		met:    met,
		reg:    reg,
		router: router,
		reaper: chat.NewReaper(reg, router, log, met,
			cfg.ReapInterval, cfg.StreamIdle, cfg.DatagramIdle),
	}
}

// Start binds the enabled transports and launches the accept, demux,
// and reaper loops.  On any bind failure nothing is left half-started.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return gcerr.New("server already started")
	}

	ctx, cancel := context.WithCancel(ctx)

	if s.cfg.TCPPort != 0 {
		addr := fmt.Sprintf(":%d", s.cfg.TCPPort)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			cancel()
			return gcerr.Wrap("listen", addr, err)
		}
		s.ln = ln
		s.log.Info("listening on %s (tcp)", ln.Addr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.acceptLoop(ctx, ln)
		}()
	}

	if s.cfg.UDPPort != 0 {
		addr := fmt.Sprintf(":%d", s.cfg.UDPPort)
		ua, err := net.ResolveUDPAddr("udp", addr)
		if err == nil {
			s.udp, err = net.ListenUDP("udp", ua)
		}
		if err != nil {
			if s.ln != nil {
				s.ln.Close()
				s.ln = nil
			}
			cancel()
			return gcerr.Wrap("listen", addr, err)
		}
		s.log.Info("listening on %s (udp)", s.udp.LocalAddr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.demuxLoop(ctx, s.udp)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.reaper.Run(ctx)
	}()

	s.cancel = cancel
	s.started = true
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then stops
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop shuts down gracefully: cancel every loop, wait for in-flight
// workers to observe the cancellation on their next poll, then release
// all transport handles.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, ln, udp := s.cancel, s.ln, s.udp
	s.mu.Unlock()

	cancel()
	if ln != nil {
		ln.Close() // unblocks Accept
	}
	s.wg.Wait()

	for _, sess := range s.reg.Drain() {
		if sess.Peer != nil {
			sess.Peer.Close()
		}
	}
	if udp != nil {
		udp.Close()
	}

	s.log.Info("chat server stopped")
	s.log.Verbose("final metrics:\n%s", s.met.JSON())
}

// ForceStop tears everything down immediately: transport handles are
// closed to unblock any in-flight call and worker loops are abandoned
// rather than joined.
func (s *Server) ForceStop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, ln, udp := s.cancel, s.ln, s.udp
	s.mu.Unlock()

	cancel()
	if ln != nil {
		ln.Close()
	}
	if udp != nil {
		udp.Close()
	}
	for _, sess := range s.reg.Drain() {
		if sess.Peer != nil {
			sess.Peer.Close()
		}
	}

	s.log.Info("chat server forcefully terminated")
}

// Registry exposes the session registry, for tests.
func (s *Server) Registry() *chat.Registry { return s.reg }

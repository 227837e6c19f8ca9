// Package client implements the interactive chat client for both
// transports.  The stream variant introduces itself by sending the
// display name as its first payload; the datagram variant registers
// with "REGISTER:<name>" and keeps its session alive with periodic
// HEARTBEAT datagrams.
package client

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"gochat/config"
	gcerr "gochat/internal/errors"
	"gochat/internal/transport"
	"gochat/util"
)

// Client joins a chat server and relays stdin lines to it.
type Client struct {
	cfg    *config.Config
	log    *util.Logger
	dialer transport.Dialer

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	Stdin  io.Reader
	Stdout io.Writer
}

// New returns a ready-to-run Client.
func New(cfg *config.Config, log *util.Logger, dialer transport.Dialer) *Client {
	return &Client{cfg: cfg, log: log, dialer: dialer}
}

func (c *Client) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c *Client) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// Run dials the server, registers the display name, and relays
// messages until /quit, stdin EOF, server disconnect, or cancellation.
func (c *Client) Run(ctx context.Context) error {
	network := "tcp"
	if c.cfg.UDP {
		network = "udp"
	}
	addr := util.FormatAddr(c.cfg.Host, c.cfg.Port)

	c.log.Verbose("connecting to chat server at %s (%s)", addr, network)
	conn, err := c.dialer.Dial(ctx, network, addr)
	if err != nil {
		return gcerr.Wrap("dial", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Introduce ourselves.  The stream server takes the first payload
	// as the display name; the datagram server wants an explicit
	// REGISTER command.
	hello := c.cfg.Name
	if c.cfg.UDP {
		hello = "REGISTER:" + c.cfg.Name
	}
	if _, err := conn.Write([]byte(hello)); err != nil {
		return gcerr.Wrap("write", addr, err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.receiveLoop(ctx, cancel, conn)
	}()

	if c.cfg.UDP {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.heartbeatLoop(ctx, conn)
		}()
	}

	err = c.inputLoop(ctx, conn, addr)

	cancel()
	conn.Close() // unblock the receive loop
	if closer, ok := c.Stdin.(io.Closer); ok {
		closer.Close() // unblock a scanner parked on a read
	}
	wg.Wait()
	return err
}

// receiveLoop prints server lines until the connection drops or the
// context is cancelled.
func (c *Client) receiveLoop(ctx context.Context, cancel context.CancelFunc, conn net.Conn) {
	buf := make([]byte, config.DefaultDatagramBufSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() == nil && !gcerr.Is(err, io.EOF) && !gcerr.Is(err, net.ErrClosed) {
				c.log.Error("receive: %v", err)
			}
			cancel() // server gone; stop the other loops
			return
		}
		c.stdout().Write(buf[:n]) //nolint:errcheck
	}
}

// heartbeatLoop keeps the datagram session alive.  Without it the
// server's reaper would evict a quiet client well before it stopped
// listening.
func (c *Client) heartbeatLoop(ctx context.Context, conn net.Conn) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := conn.Write([]byte("HEARTBEAT")); err != nil {
				if ctx.Err() == nil {
					c.log.Warn("heartbeat: %v", err)
				}
				return
			}
		}
	}
}

// inputLoop reads stdin lines and sends each one as a single payload.
// The scanner goroutine stays parked in Scan until its reader yields;
// Run closes an injected Stdin on teardown to release it.  With the
// real os.Stdin it is only released by process exit.
func (c *Client) inputLoop(ctx context.Context, conn net.Conn, addr string) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.stdin())
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil // stdin closed
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if _, err := conn.Write([]byte(line)); err != nil {
				return gcerr.Wrap("write", addr, err)
			}
			if line == "/quit" {
				return nil
			}
		}
	}
}

package server

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	gcerr "gochat/internal/errors"
	"gochat/util"
)

func TestStreamPeer_DeliversInOrder(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	p := newStreamPeer(srv, util.NewLogger(0), nil)
	defer p.Close()

	var mu sync.Mutex
	var got bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 256)
		for {
			n, err := cli.Read(buf)
			if n > 0 {
				mu.Lock()
				got.Write(buf[:n])
				mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	for _, msg := range []string{"one\n", "two\n", "three\n"} {
		if err := p.Send([]byte(msg)); err != nil {
			t.Fatalf("Send(%q): %v", msg, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		s := got.String()
		mu.Unlock()
		if s == "one\ntwo\nthree\n" {
			p.Close()
			<-done
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	t.Fatalf("received %q, want messages in order", got.String())
}

func TestStreamPeer_SendDoesNotMutateCallerBuffer(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	p := newStreamPeer(srv, util.NewLogger(0), nil)
	defer p.Close()

	msg := []byte("original")
	if err := p.Send(msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	copy(msg, "mutated!") // caller reuses its buffer

	buf := make([]byte, 64)
	cli.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	n, err := cli.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "original" {
		t.Errorf("delivered %q, want the enqueued copy", buf[:n])
	}
}

func TestStreamPeer_SendAfterClose(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	p := newStreamPeer(srv, util.NewLogger(0), nil)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := p.Send([]byte("too late")); !gcerr.Is(err, gcerr.ErrPeerClosed) {
		t.Errorf("Send after Close = %v, want ErrPeerClosed", err)
	}
}

func TestStreamPeer_SendNeverBlocksOnSlowReader(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	// Nobody reads from cli: every conn.Write would block forever.
	p := newStreamPeer(srv, util.NewLogger(0), nil)
	defer p.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			p.Send([]byte("backlog\n")) //nolint:errcheck
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a slow reader")
	}
}

func TestStreamPeer_CloseUnblocksReader(t *testing.T) {
	srv, cli := net.Pipe()
	p := newStreamPeer(srv, util.NewLogger(0), nil)

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 16)
		_, err := cli.Read(buf)
		done <- err
	}()

	p.Close()

	select {
	case err := <-done:
		if err != io.EOF && !gcerr.Is(err, net.ErrClosed) {
			t.Logf("reader unblocked with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reader still blocked after Close")
	}
}

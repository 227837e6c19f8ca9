package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, environment variable loading, and tests.

const (
	// DefaultTCPPort is the stream chat port.
	DefaultTCPPort = 8084

	// DefaultUDPPort is the datagram chat port.
	DefaultUDPPort = 8085

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultConnTimeout is the client dial timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultPollInterval bounds every blocking receive so that loops
	// observe cancellation with bounded latency.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultReapInterval is the period of the inactivity reaper sweep.
	DefaultReapInterval = 30 * time.Second

	// DefaultStreamIdle is how long a stream session may stay silent
	// before the reaper evicts it.
	DefaultStreamIdle = 5 * time.Minute

	// DefaultDatagramIdle is the eviction threshold for datagram
	// sessions.  Shorter than the stream threshold because there is no
	// connection to signal departure; liveness rests on heartbeats.
	DefaultDatagramIdle = 2 * time.Minute

	// DefaultHeartbeatInterval is the period of the datagram client's
	// HEARTBEAT keepalive.
	DefaultHeartbeatInterval = 30 * time.Second

	// DefaultStreamBufSize is the stream receive buffer size.
	DefaultStreamBufSize = 1024

	// DefaultDatagramBufSize is the datagram receive buffer size.
	DefaultDatagramBufSize = 4096
)

// Package config defines the runtime configuration for gochat and
// provides helpers for parsing tunnel specifications and ports.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	gcerr "gochat/internal/errors"
)

// Config holds every tuneable for a single gochat run.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host    string // client: chat server host
	Port    int    // client: destination port (0 = transport default)
	Listen  bool   // serve mode
	UDP     bool   // client: use the datagram transport
	TCPPort int    // server: stream port (0 disables the adapter)
	UDPPort int    // server: datagram port (0 disables the adapter)
	Timeout time.Duration
	Name    string // client: display name

	// ── Server tuning ────────────────────────────────────────────────
	PollInterval      time.Duration // receive-poll bound, shutdown latency
	ReapInterval      time.Duration // reaper sweep period
	StreamIdle        time.Duration // stream eviction threshold
	DatagramIdle      time.Duration // datagram eviction threshold
	HeartbeatInterval time.Duration // client: datagram keepalive period

	// ── SSH tunnel (client) ──────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	DryRun  bool
}

// ApplyDefaults fills in zero-valued tuneables.  Ports default only in
// the mode that uses them, so "--tcp-port 0" stays a deliberate disable
// once flags are parsed.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultConnTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ReapInterval == 0 {
		c.ReapInterval = DefaultReapInterval
	}
	if c.StreamIdle == 0 {
		c.StreamIdle = DefaultStreamIdle
	}
	if c.DatagramIdle == 0 {
		c.DatagramIdle = DefaultDatagramIdle
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if !c.Listen && c.Port == 0 {
		if c.UDP {
			c.Port = DefaultUDPPort
		} else {
			c.Port = DefaultTCPPort
		}
	}
}

// ── Port helper ──────────────────────────────────────────────────────

// ParsePort parses a single port number in 1-65535.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", spec)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Listen {
		if c.TCPPort == 0 && c.UDPPort == 0 {
			return &gcerr.ConfigError{
				Field:   "port",
				Message: "serve mode needs at least one transport",
				Hint:    "set --port and/or --udp-port to a non-zero value",
			}
		}
		if c.TunnelEnabled {
			return &gcerr.ConfigError{
				Field:   "tunnel",
				Message: "serve mode through an SSH tunnel is not supported",
			}
		}
	} else {
		if c.Host == "" {
			return fmt.Errorf("server hostname is required (use --help for usage)")
		}
		if c.Name == "" {
			return &gcerr.ConfigError{
				Field:   "name",
				Message: "a display name is required to join the chat",
				Hint:    "pass --name <name>",
			}
		}
	}

	if c.UDP && c.TunnelEnabled {
		return fmt.Errorf("UDP is not supported through SSH tunnels")
	}

	if c.TunnelEnabled && c.TunnelHost == "" {
		return fmt.Errorf("tunnel host is required")
	}

	if c.PollInterval < 0 || c.ReapInterval < 0 ||
		c.StreamIdle < 0 || c.DatagramIdle < 0 {
		return fmt.Errorf("intervals must be non-negative")
	}

	return nil
}

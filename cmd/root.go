// Package cmd wires up the CLI flags and dispatches to the chat server
// or the interactive client.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"gochat/config"
	"gochat/internal/client"
	"gochat/internal/metrics"
	"gochat/internal/server"
	"gochat/internal/transport"
	"gochat/tunnel"
	"gochat/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X gochat/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the appropriate gochat mode.
func Execute(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("gochat", flag.ContinueOnError)

	// ── mode ─────────────────────────────────────────────────────
	fs.BoolVarP(&cfg.Listen, "listen", "l", cfg.Listen, "Serve mode")
	fs.BoolVarP(&cfg.UDP, "udp", "u", cfg.UDP, "Use the datagram transport (connect mode)")
	fs.IntVarP(&cfg.TCPPort, "port", "p", intOr(cfg.TCPPort, config.DefaultTCPPort),
		"Stream port in serve mode (0 disables)")
	fs.IntVar(&cfg.UDPPort, "udp-port", intOr(cfg.UDPPort, config.DefaultUDPPort),
		"Datagram port in serve mode (0 disables)")
	fs.StringVarP(&cfg.Name, "name", "n", cfg.Name, "Display name (connect mode)")

	var timeoutSec, idleSec, udpIdleSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Dial timeout in seconds")
	fs.IntVar(&idleSec, "idle", 0, "Stream inactivity eviction threshold in seconds")
	fs.IntVar(&udpIdleSec, "udp-idle", 0, "Datagram inactivity eviction threshold in seconds")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Connect via SSH bastion [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Validate configuration and exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("gochat %s\n", version)
		return nil
	}

	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	if idleSec > 0 {
		cfg.StreamIdle = time.Duration(idleSec) * time.Second
	}
	if udpIdleSec > 0 {
		cfg.DatagramIdle = time.Duration(udpIdleSec) * time.Second
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DryRun {
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	if cfg.Listen {
		return server.New(cfg, logger, metrics.New()).Run(ctx)
	}

	var dialer transport.Dialer = &transport.NetDialer{Timeout: cfg.Timeout}
	if cfg.TunnelEnabled {
		tun := tunnel.NewSSHTunnel(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.Timeout,
		}, logger)
		if err := tun.Connect(ctx); err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		defer tun.Close()
		dialer = tun
	}

	return client.New(cfg, logger, dialer).Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

func intOr(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Listen {
		if len(remaining) > 0 {
			return fmt.Errorf("serve mode takes no positional arguments")
		}
		return nil
	}

	// Connect mode: host [port]
	switch len(remaining) {
	case 0:
		if cfg.Host == "" {
			return fmt.Errorf("server hostname required (use --help for usage)")
		}
	case 1:
		cfg.Host = remaining[0]
	case 2:
		cfg.Host = remaining[0]
		port, err := config.ParsePort(remaining[1])
		if err != nil {
			return fmt.Errorf("port: %w", err)
		}
		cfg.Port = port
	default:
		return fmt.Errorf("too many arguments for connect mode")
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `GoChat – Live Chat over TCP/UDP v%s

A small real-time chat service with stream and datagram transports.

Usage:
  gochat -l [-p <tcp-port>] [--udp-port <port>]    Serve
  gochat -n <name> <host> [port]                   Connect (TCP)
  gochat -u -n <name> <host> [port]                Connect (UDP)
  gochat -T user@bastion -n <name> <host> [port]   Connect via SSH

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Commands once connected:
  /users                List connected users
  /msg <name> <text>    Private message
  /quit                 Leave the chat

Examples:
  gochat -l                                   Serve on %d/tcp and %d/udp
  gochat -n alice chat.example.com            Join over TCP
  gochat -u -n bob chat.example.com           Join over UDP
  gochat -T admin@bastion -n eve chat-internal
`, config.DefaultTCPPort, config.DefaultUDPPort)
}

package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOCHAT_HOST", "chat.internal")
	t.Setenv("GOCHAT_NAME", "alice")
	t.Setenv("GOCHAT_UDP", "true")
	t.Setenv("GOCHAT_TCP_PORT", "9001")
	t.Setenv("GOCHAT_UDP_PORT", "9002")
	t.Setenv("GOCHAT_TIMEOUT", "5")
	t.Setenv("GOCHAT_IDLE", "120")
	t.Setenv("GOCHAT_TUNNEL", "admin@bastion")
	t.Setenv("GOCHAT_VERBOSE", "2")

	cfg := &Config{}
	LoadFromEnv(cfg)

	if cfg.Host != "chat.internal" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Name != "alice" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if !cfg.UDP {
		t.Error("UDP not set")
	}
	if cfg.TCPPort != 9001 || cfg.UDPPort != 9002 {
		t.Errorf("ports = (%d, %d)", cfg.TCPPort, cfg.UDPPort)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.StreamIdle != 2*time.Minute {
		t.Errorf("StreamIdle = %v", cfg.StreamIdle)
	}
	if cfg.TunnelSpec != "admin@bastion" {
		t.Errorf("TunnelSpec = %q", cfg.TunnelSpec)
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d", cfg.Verbose)
	}
}

func TestLoadFromEnv_EmptyLeavesConfigAlone(t *testing.T) {
	cfg := &Config{Host: "preset", TCPPort: 1234}
	LoadFromEnv(cfg)

	if cfg.Host != "preset" || cfg.TCPPort != 1234 {
		t.Errorf("cfg = %+v, want preset values untouched", cfg)
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"Yes", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Setenv("GOCHAT_TEST_BOOL", tt.val)
		if got := envBool("GOCHAT_TEST_BOOL"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.val, got, tt.want)
		}
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("GOCHAT_TEST_INT", "42")
	if got := envInt("GOCHAT_TEST_INT"); got != 42 {
		t.Errorf("envInt = %d, want 42", got)
	}

	t.Setenv("GOCHAT_TEST_INT", "not-a-number")
	if got := envInt("GOCHAT_TEST_INT"); got != 0 {
		t.Errorf("envInt on garbage = %d, want 0", got)
	}
}

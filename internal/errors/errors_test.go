package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

func TestNetworkError(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap("dial", "127.0.0.1:8084", base)

	if !strings.Contains(err.Error(), "dial 127.0.0.1:8084") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
	if err.Retryable {
		t.Error("plain error classified retryable")
	}
}

func TestNetworkError_RetryableSuffix(t *testing.T) {
	err := &NetworkError{Op: "read", Addr: "a", Err: errors.New("x"), Retryable: true}
	if !strings.HasSuffix(err.Error(), "(retryable)") {
		t.Errorf("Error() = %q, want retryable suffix", err.Error())
	}
}

func TestWrapClassifiesDNSError(t *testing.T) {
	dns := &net.DNSError{Err: "timeout", Name: "x", IsTemporary: true}
	err := Wrap("dial", "x:8084", dns)
	if !err.Retryable {
		t.Error("temporary DNS error should be retryable")
	}

	dns2 := &net.DNSError{Err: "no such host", Name: "x"}
	if err := Wrap("dial", "x:8084", dns2); err.Retryable {
		t.Error("permanent DNS error should not be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error is not retryable")
	}

	ne := &NetworkError{Op: "accept", Addr: "a", Err: errors.New("x"), Retryable: true}
	if !IsRetryable(ne) {
		t.Error("explicit retryable NetworkError should be retryable")
	}
	if !IsRetryable(fmt.Errorf("outer: %w", ne)) {
		t.Error("retryability must survive wrapping")
	}
}

func TestSSHError(t *testing.T) {
	base := errors.New("no auth methods")
	err := WrapSSH("auth", "bastion", 22, base)

	if got := err.Error(); !strings.Contains(got, "ssh auth bastion:22") {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "port", Value: 99999, Message: "out of range", Hint: "use 1-65535"}
	got := err.Error()

	for _, want := range []string{"--port", "99999", "out of range", "hint: use 1-65535"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}

	bare := &ConfigError{Field: "name", Message: "required"}
	if got := bare.Error(); strings.Contains(got, "hint") {
		t.Errorf("Error() = %q, hint should be omitted", got)
	}
}

func TestSentinels(t *testing.T) {
	wrapped := fmt.Errorf("send: %w", ErrPeerClosed)
	if !Is(wrapped, ErrPeerClosed) {
		t.Error("Is failed on wrapped sentinel")
	}
	if Is(wrapped, ErrServerClosed) {
		t.Error("Is matched the wrong sentinel")
	}
	if Unwrap(wrapped) != ErrPeerClosed {
		t.Error("Unwrap did not return the sentinel")
	}
}

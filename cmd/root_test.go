package cmd

import (
	"context"
	"testing"
)

func TestExecute_DryRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"serve", []string{"-l", "--dry-run"}, false},
		{"serve custom ports", []string{"-l", "-p", "9001", "--udp-port", "9002", "--dry-run"}, false},
		{"serve udp only", []string{"-l", "-p", "0", "--dry-run"}, false},
		{"serve no transports", []string{"-l", "-p", "0", "--udp-port", "0", "--dry-run"}, true},
		{"serve rejects positionals", []string{"-l", "--dry-run", "surplus"}, true},
		{"connect", []string{"-n", "alice", "--dry-run", "chat.example.com"}, false},
		{"connect with port", []string{"-n", "alice", "--dry-run", "chat.example.com", "9000"}, false},
		{"connect bad port", []string{"-n", "alice", "--dry-run", "chat.example.com", "nope"}, true},
		{"connect extra args", []string{"-n", "alice", "--dry-run", "host", "9000", "surplus"}, true},
		{"connect without name", []string{"--dry-run", "chat.example.com"}, true},
		{"connect without host", []string{"-n", "alice", "--dry-run"}, true},
		{"connect udp", []string{"-u", "-n", "bob", "--dry-run", "chat.example.com"}, false},
		{"tunnel", []string{"-n", "eve", "-T", "admin@bastion", "--dry-run", "chat-internal"}, false},
		{"tunnel bad spec", []string{"-n", "eve", "-T", "bastion:notaport", "--dry-run", "chat-internal"}, true},
		{"udp through tunnel", []string{"-u", "-n", "eve", "-T", "admin@bastion", "--dry-run", "chat-internal"}, true},
		{"unknown flag", []string{"--no-such-flag"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Execute(context.Background(), tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestExecute_Version(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Errorf("Execute(--version): %v", err)
	}
}

func TestExecute_HelpAndNoArgs(t *testing.T) {
	if err := Execute(context.Background(), []string{"--help"}); err != nil {
		t.Errorf("Execute(--help): %v", err)
	}
	if err := Execute(context.Background(), nil); err != nil {
		t.Errorf("Execute with no args: %v", err)
	}
}

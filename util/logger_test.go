package util

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		method    string
		want      bool
	}{
		{0, "Error", true},
		{0, "Info", false},
		{0, "Verbose", false},
		{1, "Info", true},
		{1, "Warn", true},
		{1, "Verbose", false},
		{2, "Verbose", true},
		{2, "Debug", false},
		{3, "Debug", true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(tt.verbosity)
		l.SetOutput(&buf)
		l.SetTimestamps(false)

		switch tt.method {
		case "Error":
			l.Error("msg")
		case "Warn":
			l.Warn("msg")
		case "Info":
			l.Info("msg")
		case "Verbose":
			l.Verbose("msg")
		case "Debug":
			l.Debug("msg")
		}

		got := buf.Len() > 0
		if got != tt.want {
			t.Errorf("verbosity %d, %s: printed = %v, want %v",
				tt.verbosity, tt.method, got, tt.want)
		}
	}
}

func TestLoggerPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3)
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Error("boom")
	if !strings.Contains(buf.String(), "[ERR] boom") {
		t.Errorf("output = %q, want [ERR] prefix", buf.String())
	}

	buf.Reset()
	l.Info("hello %s", "world")
	if !strings.Contains(buf.String(), "[INF] hello world") {
		t.Errorf("output = %q, want formatted [INF] line", buf.String())
	}
}

func TestLoggerTimestamps(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetTimestamps(true)

	l.Info("stamped")
	line := buf.String()
	// "HH:MM:SS.mmm [INF] stamped\n"
	if len(line) < 13 || line[2] != ':' || line[5] != ':' || line[8] != '.' {
		t.Errorf("output = %q, want a leading HH:MM:SS.mmm timestamp", line)
	}
}

func TestLoggerConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Info("line")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Errorf("got %d lines, want 400", len(lines))
	}
	for _, line := range lines {
		if line != "[INF] line" {
			t.Fatalf("interleaved line %q", line)
		}
	}
}

// Package util provides the logging and address helpers shared by the
// chat server, the client, and the tunnel.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel controls how chatty the process is on stderr.
type LogLevel int

const (
	// LogQuiet prints errors only.
	LogQuiet LogLevel = 0
	// LogNormal adds session lifecycle: joins, departures, evictions.
	LogNormal LogLevel = 1
	// LogVerbose adds per-message traffic and connection churn.
	LogVerbose LogLevel = 2
	// LogDebug adds wire-level detail and enables timestamps.
	LogDebug LogLevel = 3
)

// Logger writes levelled diagnostics, one line per event.  Chat
// payloads go to the peers; everything a server operator sees goes
// through here.  Safe for concurrent use.
type Logger struct {
	level      LogLevel
	output     io.Writer
	mu         sync.Mutex
	timestamps bool
}

// NewLogger maps the counted -v flag onto a level: 0 = quiet,
// 1 = normal, 2 = verbose, 3 = debug.
func NewLogger(verbosity int) *Logger {
	return &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stderr,
		timestamps: verbosity >= 3,
	}
}

// SetTimestamps enables or disables HH:MM:SS.mmm prefixes.
func (l *Logger) SetTimestamps(on bool) { l.timestamps = on }

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) { l.output = w }

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// Info reports session lifecycle events.  Prefixed with [INF].
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write("INF", format, args...)
	}
}

// Warn reports recoverable delivery problems, such as a failed send to
// one peer.  Prefixed with [WRN].
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogNormal {
		l.write("WRN", format, args...)
	}
}

// Verbose reports per-message traffic.  Prefixed with [VRB].
func (l *Logger) Verbose(format string, args ...interface{}) {
	if l.level >= LogVerbose {
		l.write("VRB", format, args...)
	}
}

// Debug reports wire-level detail.  Prefixed with [DBG].
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogDebug {
		l.write("DBG", format, args...)
	}
}

// Error always prints regardless of verbosity.  Prefixed with [ERR].
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("ERR", format, args...)
}

func (l *Logger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.timestamps {
		ts := time.Now().Format("15:04:05.000")
		fmt.Fprintf(l.output, "%s [%s] %s\n", ts, level, msg)
	} else {
		fmt.Fprintf(l.output, "[%s] %s\n", level, msg)
	}
}

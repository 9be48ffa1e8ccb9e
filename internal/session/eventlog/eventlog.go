// Package eventlog appends newline-delimited JSON lifecycle events to a
// file under the daemon's state directory. Adapted from the teacher's
// activitylog.Logger convention (spec §1 ambient stack: plain
// encoding/json + os.File, no logging framework) and used by
// internal/session's daemon, which also logs the SvError messages that
// internal/bus's panic relay posts.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"muxd/internal/bus"
)

// Level names an event's severity.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event is one JSON line written to the log file.
type Event struct {
	Time         time.Time `json:"time"`
	Thread       string    `json:"thread"`
	Level        Level     `json:"level"`
	Message      string    `json:"message"`
	ErrorContext []string  `json:"error_context,omitempty"`
}

// Logger appends Events to an open file, one JSON object per line.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// Open creates (or appends to) the log file at path.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Logger{file: f}, nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Log appends one event.
func (l *Logger) Log(thread string, level Level, message string, ctx bus.ErrorContext) {
	ev := Event{
		Time:         time.Now(),
		Thread:       thread,
		Level:        level,
		Message:      message,
		ErrorContext: ctx.Frames(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	l.file.Write(b)
}

// Info and Error are thin convenience wrappers around Log.
func (l *Logger) Info(thread, message string, ctx bus.ErrorContext)  { l.Log(thread, LevelInfo, message, ctx) }
func (l *Logger) Warn(thread, message string, ctx bus.ErrorContext)  { l.Log(thread, LevelWarn, message, ctx) }
func (l *Logger) Error(thread, message string, ctx bus.ErrorContext) { l.Log(thread, LevelError, message, ctx) }

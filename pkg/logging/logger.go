// Package logging provides structured debug logging for engine components.
// All logs for one execution are written to a session-specific file under
// ~/.pagesage/logs/, so a single browsing session's orchestration, provider,
// and persistence activity can be read in one place.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes timestamped, component-tagged entries to the session log
// file. All log methods write unconditionally; there is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	logPath   string
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once
)

// getSessionID returns or creates the session ID for this execution.
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// DefaultLogDirectory returns ~/.pagesage/logs.
func DefaultLogDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("logging: failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pagesage", "logs"), nil
}

// NewLogger creates a logger for a component, writing to the default log
// directory. If the directory or file cannot be prepared, it returns a
// stderr fallback logger along with the error so callers can detect fallback
// mode.
func NewLogger(component string) (*Logger, error) {
	dir, err := DefaultLogDirectory()
	if err != nil {
		return newFallbackLogger(component, err), err
	}
	return NewLoggerAt(dir, component)
}

// NewLoggerAt creates a logger for a component writing under dir. Multiple
// components share the same session file; the file is opened in append mode.
func NewLoggerAt(dir, component string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		wrapped := fmt.Errorf("logging: failed to create log directory: %w", err)
		return newFallbackLogger(component, wrapped), wrapped
	}

	sessID := getSessionID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-pagesage.log", sessID))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		wrapped := fmt.Errorf("logging: failed to open log file: %w", err)
		return newFallbackLogger(component, wrapped), wrapped
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0), // timestamps are formatted by formatEntry
		logPath:   logPath,
	}, nil
}

// Discard returns a logger that drops all output, used by components whose
// caller configured no logging.
func Discard() *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: "discard",
		logger:    log.New(io.Discard, "", 0),
	}
}

// newFallbackLogger creates a logger that writes to stderr when file logging
// fails.
func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: failed to initialize file logging: %v", err)

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    logger,
	}
}

// formatEntry creates a structured entry with timestamp, component, and
// level.
func (l *Logger) formatEntry(level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Println(l.formatEntry(level, fmt.Sprintf(format, v...)))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.write("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// Writer returns the underlying destination, for handing to collaborators
// that want raw output in the session file.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// SessionID returns the session ID shared by all loggers in this execution.
func (l *Logger) SessionID() string { return l.sessionID }

// LogPath returns the log file path, or an empty string in fallback mode.
func (l *Logger) LogPath() string { return l.logPath }

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

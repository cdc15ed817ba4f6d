// Package logger is the leveled printf logger shared by every stylewiz
// package. Output is discarded until a destination is configured so the
// wizard keeps sole ownership of the terminal.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

var levelAliases = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

func (l Level) String() string {
	if l < LevelDebug || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a case-insensitive level name. Unknown names yield
// LevelInfo and an error.
func ParseLevel(s string) (Level, error) {
	if lvl, ok := levelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// StderrPath is the log file value that sends output to stderr instead of a
// file. Only useful outside the TUI.
const StderrPath = "-"

// Logger writes "[LEVEL] message" lines at or above its level.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	file  *os.File
}

// Default is the logger behind the package-level functions.
var Default = New()

// New creates a logger configured from STYLEWIZ_LOG_LEVEL and
// STYLEWIZ_LOG_FILE.
func New() *Logger {
	l := &Logger{
		level: LevelInfo,
		out:   log.New(io.Discard, "", log.LstdFlags),
	}
	// An invalid level must not keep the log file from opening
	_ = l.Configure(os.Getenv("STYLEWIZ_LOG_LEVEL"), "")
	_ = l.Configure("", os.Getenv("STYLEWIZ_LOG_FILE"))
	return l
}

// Configure applies a level and destination coming from the config layer.
// Empty values leave the current setting untouched.
func (l *Logger) Configure(level, path string) error {
	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lvl)
	}

	switch path {
	case "":
		return nil
	case StderrPath:
		l.setDestination(nil, os.Stderr)
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	l.setDestination(f, f)
	return nil
}

// setDestination switches output to w, closing the previously owned file.
// f is the new owned file, or nil when w is not ours to close.
func (l *Logger) setDestination(f *os.File, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.out.SetOutput(w)
}

// Close releases the log file, if any, and discards further output.
// Calling it twice is harmless.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out.SetOutput(io.Discard)
	return err
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.SetOutput(w)
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) Debug(format string, v ...any) { l.log(LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...any)  { l.log(LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...any)  { l.log(LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...any) { l.log(LevelError, format, v...) }

func (l *Logger) log(level Level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}

func Debug(format string, v ...any) { Default.Debug(format, v...) }
func Info(format string, v ...any)  { Default.Info(format, v...) }
func Warn(format string, v ...any)  { Default.Warn(format, v...) }
func Error(format string, v ...any) { Default.Error(format, v...) }

// Enabled reports whether the default logger writes messages at level.
func Enabled(level Level) bool { return Default.Enabled(level) }

// Configure applies level and destination settings to the default logger.
func Configure(level, path string) error { return Default.Configure(level, path) }

// Close closes the default logger.
func Close() error { return Default.Close() }

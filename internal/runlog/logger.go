// Package runlog provides the diagnostic logger used during a recovery run.
// Lines go to an optional log file and, in verbose mode, to stderr, so that
// normal output stays limited to the user-facing summary.
package runlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger writes key/value log lines to up to two sinks: a file that
// receives every level, and a console writer that receives lines at or
// above its own threshold.
type Logger struct {
	mu           sync.Mutex
	file         *os.File
	console      io.Writer
	consoleLevel Level
	now          func() time.Time
}

var (
	// Log is the process-wide logger. It discards everything until Init
	// or SetConsole is called.
	Log     = &Logger{}
	logOnce sync.Once
)

// Init opens path for appending and attaches it to the global logger.
// An empty path leaves file logging disabled.
func Init(path string) error {
	if path == "" {
		return nil
	}

	var initErr error
	logOnce.Do(func() {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = err
			return
		}
		Log.mu.Lock()
		Log.file = f
		Log.mu.Unlock()
		Log.Info("Logger initialized", "path", path)
	})
	return initErr
}

// New returns a logger that writes every line at or above level to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{console: w, consoleLevel: level}
}

// SetConsole routes lines at or above level to w. A nil writer disables
// console output.
func (l *Logger) SetConsole(w io.Writer, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
	l.consoleLevel = level
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Enabled reports whether any sink would receive a line at level.
func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file != nil || (l.console != nil && level >= l.consoleLevel)
}

func (l *Logger) log(level Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	toConsole := l.console != nil && level >= l.consoleLevel
	if l.file == nil && !toConsole {
		return
	}

	now := time.Now
	if l.now != nil {
		now = l.now
	}
	line := fmt.Sprintf("%s [%s] %s", now().Format("15:04:05.000"), level, msg)

	for i := 0; i < len(keyvals)-1; i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	if len(keyvals)%2 == 1 {
		line += fmt.Sprintf(" %v=<missing>", keyvals[len(keyvals)-1])
	}

	if l.file != nil {
		fmt.Fprintln(l.file, line)
		l.file.Sync()
	}
	if toConsole {
		fmt.Fprintln(l.console, line)
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log(LevelDebug, msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log(LevelInfo, msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.log(LevelWarn, msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log(LevelError, msg, keyvals...)
}

// Timed logs the duration of an operation. Usage:
//
//	defer runlog.Log.Timed("unwrap device key")()
func (l *Logger) Timed(operation string) func() {
	if !l.Enabled(LevelDebug) {
		return func() {}
	}
	start := time.Now()
	l.Debug(operation, "status", "started")
	return func() {
		l.Debug(operation, "status", "completed", "duration", time.Since(start))
	}
}

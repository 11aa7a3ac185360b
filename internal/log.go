package internal

import (
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelTags = [...]string{"ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l LogLevel) String() string {
	if l < LogLevelError || l > LogLevelTrace {
		return "UNKNOWN"
	}
	return levelTags[l]
}

// ParseLevel maps a LOG_LEVEL value to a level, ignoring case.
func ParseLevel(s string) (LogLevel, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, tag := range levelTags {
		if s == tag {
			return LogLevel(i), true
		}
	}
	return LogLevelInfo, false
}

// Logger provides leveled logging. It is safe for concurrent use.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger writing to stderr at the specified level
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	level, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
	if !ok {
		level = LogLevelInfo
	}
	return NewLogger(level)
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return l.level >= level
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if l.Enabled(level) {
		l.out.Printf("["+level.String()+"] "+format, args...)
	}
}

func (l *Logger) Error(format string, args ...interface{}) { l.logf(LogLevelError, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(LogLevelWarn, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(LogLevelInfo, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LogLevelDebug, format, args...) }
func (l *Logger) Trace(format string, args ...interface{}) { l.logf(LogLevelTrace, format, args...) }

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()

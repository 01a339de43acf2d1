// Package logger provides a simple logging interface and implementation
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// New creates a logger whose level comes from LOG_LEVEL.
func New() Logger {
	return NewWithLevel(os.Getenv("LOG_LEVEL"))
}

// NewWithLevel creates a logger writing to stderr at the given level, so
// command output on stdout stays clean.
func NewWithLevel(level string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	return l
}

// NewDiscard returns a logger that drops everything. Used by tests.
func NewDiscard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ParseLevel converts a string log level, defaulting to info.
func ParseLevel(levelStr string) logrus.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ValidLevel reports whether levelStr names a known level.
func ValidLevel(levelStr string) bool {
	switch strings.ToLower(levelStr) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

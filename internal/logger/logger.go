// Package logger provides the shared logging interface for bandvault.
package logger

import (
	"io"
	"log"
)

// Verbosity levels.
const (
	LevelError = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger is the interface the store and cache log through.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Ensure implementations satisfy the interface.
var (
	_ Logger = (*standardLogger)(nil)
	_ Logger = nopLogger{}
)

// NopLogger is a Logger that discards everything.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// standardLogger writes leveled lines through a stdlib log.Logger.
type standardLogger struct {
	logger    *log.Logger
	verbosity int
}

// NewStandardLogger returns a Logger writing to w with timestamps.
// Messages above verbosity are dropped.
func NewStandardLogger(w io.Writer, verbosity int) Logger {
	return &standardLogger{
		logger:    log.New(w, "", log.LstdFlags|log.LUTC),
		verbosity: verbosity,
	}
}

func (l *standardLogger) logf(level int, prefix, format string, v ...any) {
	if level > l.verbosity {
		return
	}

	l.logger.Printf(prefix+format, v...)
}

func (l *standardLogger) Debugf(format string, v ...any) {
	l.logf(LevelDebug, "DEBUG: ", format, v...)
}

func (l *standardLogger) Infof(format string, v ...any) {
	l.logf(LevelInfo, "INFO:  ", format, v...)
}

func (l *standardLogger) Warnf(format string, v ...any) {
	l.logf(LevelWarn, "WARN:  ", format, v...)
}

func (l *standardLogger) Errorf(format string, v ...any) {
	l.logf(LevelError, "ERROR: ", format, v...)
}

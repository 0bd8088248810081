package logging

import (
	"io"
	"log"
	"strings"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	Level     = LevelInfo
	DebugLogs bool
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel falls back to info for anything it does not recognise.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func SetLevel(l LogLevel) {
	Level = l
	DebugLogs = l == LevelDebug
}

// Discard silences all output. The terminal belongs to the UI unless a log
// file was requested.
func Discard() {
	log.SetOutput(io.Discard)
}

func logf(l LogLevel, format string, args ...any) {
	if l < Level {
		return
	}
	log.Printf(strings.ToUpper(l.String())+" "+format, args...)
}

func Debugf(format string, args ...any) {
	if DebugLogs {
		logf(LevelDebug, format, args...)
	}
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}

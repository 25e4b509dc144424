// Package logger provides leveled logging on top of the standard log package.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a logging severity.
type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var (
	level Level = InfoLevel
	out         = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

// Init sets the minimum level from its string form. Unknown values fall
// back to info.
func Init(levelName string) {
	switch strings.ToLower(levelName) {
	case "debug":
		setLevel(DebugLevel)
	case "info":
		setLevel(InfoLevel)
	case "warn":
		setLevel(WarnLevel)
	case "error":
		setLevel(ErrorLevel)
	default:
		setLevel(InfoLevel)
	}
}

func setLevel(l Level) {
	atomic.StoreInt32((*int32)(&level), int32(l))
}

func enabled(l Level) bool {
	return Level(atomic.LoadInt32((*int32)(&level))) <= l
}

// Debug logs at DebugLevel.
func Debug(format string, args ...interface{}) {
	if enabled(DebugLevel) {
		out.Output(2, fmt.Sprintf("[DEBUG] "+format, args...))
	}
}

// Info logs at InfoLevel.
func Info(format string, args ...interface{}) {
	if enabled(InfoLevel) {
		out.Output(2, fmt.Sprintf("[INFO] "+format, args...))
	}
}

// Warn logs at WarnLevel.
func Warn(format string, args ...interface{}) {
	if enabled(WarnLevel) {
		out.Output(2, fmt.Sprintf("[WARN] "+format, args...))
	}
}

// Error logs at ErrorLevel.
func Error(format string, args ...interface{}) {
	if enabled(ErrorLevel) {
		out.Output(2, fmt.Sprintf("[ERROR] "+format, args...))
	}
}

// Fatal logs at ErrorLevel and exits.
func Fatal(format string, args ...interface{}) {
	out.Output(2, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}

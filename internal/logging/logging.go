// Package logging provides the leveled logger used throughout mcrawfs,
// kept intentionally close to plain log.Printf calls rather than pulling
// in a structured-logging dependency.
package logging

import (
	"log"
	"os"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	std       = log.New(os.Stderr, "", log.LstdFlags)
	threshold = LevelInfo
)

// SetLevel adjusts the minimum level that is printed. Used by the mount
// command's --verbose flag.
func SetLevel(l Level) {
	threshold = l
}

func logf(l Level, prefix, format string, args ...any) {
	if l < threshold {
		return
	}
	std.Printf(prefix+format, args...)
}

func Debugf(format string, args ...any) { logf(LevelDebug, "DEBUG ", format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, "INFO  ", format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, "WARN  ", format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, "ERROR ", format, args...) }

package log

import (
	"os"
	"strings"
)

// SetupLogger configures the library default logger for command line use.
// The logger writes JSON to stderr so that prediction output on stdout
// stays machine readable.
func SetupLogger(loglevel string) {
	SetDefaultProvider(NewZerologProvider(os.Stderr, ParseLevel(loglevel)))
}

// ParseLevel maps a textual level name to a Level.
// Unknown values map to LevelInfo.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
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

// Attribute keys shared by the logging backend and its tests.
const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

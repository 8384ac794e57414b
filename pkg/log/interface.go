// Package log provides structured logging for ElmGo.
//
// The Logger interface mirrors log/slog's leveled, key-value style so callers
// write slog-shaped calls, while the shipped backend is zerolog. A provider
// indirection lets the CLI install a configured backend and lets tests swap
// in a capturing logger. Attribute keys for ML operations (model names, data
// shapes, optimizer state) live in attributes.go so field names stay
// consistent across the library.
//
// Typical use:
//
//	logger := log.GetLoggerWithName("elm").With(
//	    log.ModelNameKey, "MhaELMRegressor",
//	    log.OptimizerKey, "PSO",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)
package log

import (
	"context"
)

// Logger is the leveled, structured logging interface used throughout the
// library. Fields are alternating key-value pairs, slog style. With returns
// a derived logger that carries its fields into every later call.
type Logger interface {
	// Debug logs detailed diagnostic information, normally filtered out.
	Debug(msg string, fields ...any)

	// Info logs normal operational events such as fit start and completion.
	Info(msg string, fields ...any)

	// Warn logs recoverable problems, including bridged library warnings.
	Warn(msg string, fields ...any)

	// Error logs failures. A field holding an error value gets its stack
	// trace extracted when the backend supports it.
	Error(msg string, fields ...any)

	// With returns a Logger that includes fields in every record it emits.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted, so callers
	// can skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level. Values match slog.Level so the two systems can
// be bridged without translation.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the conventional upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates configured loggers. The package-level default
// provider is replaceable, which is how the CLI and tests install their
// backends.
type LoggerProvider interface {
	// GetLogger returns the provider's root logger.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers from this provider.
	SetLevel(level Level)
}

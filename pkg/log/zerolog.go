// Package log provides a zerolog-backed implementation of the Logger interface.
//
// zerolog is used as the default backend for library-level logging because it
// produces allocation-free structured JSON and integrates with the typed
// warnings in pkg/errors through the LogObjectMarshaler interface.

package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	elmgoErrors "github.com/elmgo-ml/elmgo/pkg/errors"
)

// ZerologLogger implements Logger on top of a zerolog.Logger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a Logger backed by zerolog writing to w at the
// given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{logger: zl}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields...)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields...)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields...)
}

// Error implements Logger.Error.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	z.emit(z.logger.Error(), msg, fields...)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.logger.GetLevel()
}

// extractStacktrace pulls the first recorded stack trace out of a
// cockroachdb/errors chain. Errors built through pkg/errors carry their
// stack in the safe details.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// emit attaches structured fields to the event and sends it.
// Error values marshal through MarshalZerologObject when they implement it.
func (z *ZerologLogger) emit(event *zerolog.Event, msg string, fields ...any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		case error:
			event = event.AnErr(key, v)
			if key == ErrAttrKey {
				if st := extractStacktrace(v); st != "" {
					event = event.Str(StacktraceAttrKey, st)
				}
			}
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg(msg)
}

// ZerologProvider implements LoggerProvider with a shared zerolog backend.
type ZerologProvider struct {
	mu     sync.Mutex
	writer io.Writer
	level  Level
	logger *ZerologLogger
}

// NewZerologProvider creates a provider writing to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{
		writer: w,
		level:  level,
		logger: NewZerologLogger(w, level),
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logger.With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.logger = NewZerologLogger(p.writer, level)
}

var (
	defaultProviderOnce sync.Once
	defaultProvider     LoggerProvider
	defaultProviderMu   sync.RWMutex
)

// GetLogger returns the library default logger.
// The first call installs a zerolog provider writing to stderr and bridges
// pkg/errors warnings into structured warn logs.
func GetLogger() Logger {
	return getDefaultProvider().GetLogger()
}

// GetLoggerWithName returns the library default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return getDefaultProvider().GetLoggerWithName(name)
}

// SetDefaultProvider replaces the library default provider.
// Useful for tests and for applications with their own logging setup.
func SetDefaultProvider(p LoggerProvider) {
	getDefaultProvider() // make sure the warn bridge is installed once
	defaultProviderMu.Lock()
	defaultProvider = p
	defaultProviderMu.Unlock()
}

func getDefaultProvider() LoggerProvider {
	defaultProviderOnce.Do(func() {
		defaultProviderMu.Lock()
		defaultProvider = NewZerologProvider(os.Stderr, LevelInfo)
		defaultProviderMu.Unlock()

		// Route library warnings (ConvergenceWarning etc.) through zerolog.
		elmgoErrors.SetZerologWarnFunc(func(warning error) {
			defaultProviderMu.RLock()
			p := defaultProvider
			defaultProviderMu.RUnlock()
			p.GetLogger().Warn("elmgo warning", ErrAttrKey, warning)
		})
	})
	defaultProviderMu.RLock()
	defer defaultProviderMu.RUnlock()
	return defaultProvider
}

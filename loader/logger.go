package loader

import (
	"context"
	"log/slog"
)

// Logger is the interface that oasgraph uses for structured logging.
//
// The interface is minimal yet compatible with popular logging libraries
// including log/slog, zap, and zerolog. It uses variadic key-value pairs for
// structured attributes, following the same convention as log/slog:
//
//	logger.Debug("loaded document", "locator", "pets.yaml", "bytes", 1832)
//
// Use [NewSlogAdapter] to wrap a standard library slog.Logger.
type Logger interface {
	// Debug logs at debug level. Use for detailed diagnostic information.
	Debug(msg string, attrs ...any)

	// Info logs at info level. Use for general operational information.
	Info(msg string, attrs ...any)

	// Warn logs at warn level. Use for potentially harmful situations.
	Warn(msg string, attrs ...any)

	// Error logs at error level. Use for error conditions.
	Error(msg string, attrs ...any)

	// With returns a new Logger with the given attributes prepended to every log.
	With(attrs ...any) Logger
}

// NopLogger is a no-op logger that discards all output.
// It is the default logger used when no logger is configured.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(_ string, _ ...any) {}

// Info implements Logger.
func (NopLogger) Info(_ string, _ ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(_ string, _ ...any) {}

// Error implements Logger.
func (NopLogger) Error(_ string, _ ...any) {}

// With implements Logger.
func (NopLogger) With(_ ...any) Logger { return NopLogger{} }

// SlogAdapter adapts a *slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps a standard library slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Debug implements Logger.
func (a *SlogAdapter) Debug(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, argsToAttrs(attrs)...)
}

// Info implements Logger.
func (a *SlogAdapter) Info(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, argsToAttrs(attrs)...)
}

// Warn implements Logger.
func (a *SlogAdapter) Warn(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, argsToAttrs(attrs)...)
}

// Error implements Logger.
func (a *SlogAdapter) Error(msg string, attrs ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelError, msg, argsToAttrs(attrs)...)
}

// With implements Logger.
func (a *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: a.logger.With(attrs...)}
}

// argsToAttrs converts alternating key-value pairs into slog attributes.
// A trailing key without a value is logged under the "!BADKEY" convention
// slog itself uses.
func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		if i+1 < len(args) {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		} else {
			attrs = append(attrs, slog.Any("!BADKEY", args[i]))
		}
	}
	return attrs
}

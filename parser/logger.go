package parser

import (
	"context"
	"log/slog"
)

// Logger is the interface that oasmerge uses for structured logging.
//
// The interface is small enough to be backed by log/slog, zap or zerolog. It
// uses variadic key-value pairs for structured attributes, following the same
// convention as log/slog:
//
//	logger.Debug("renamed component", "from", "Pet", "to", "Pet1", "input", 1)
//
// # Usage with log/slog
//
//	logger := parser.NewSlogAdapter(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
//	merged, err := joiner.Merge(inputs, joiner.WithLogger(logger))
//
// # Usage with zap
//
// The oasmerge command wraps a *zap.SugaredLogger:
//
//	type zapLogger struct{ s *zap.SugaredLogger }
//
//	func (z zapLogger) Debug(msg string, attrs ...any) { z.s.Debugw(msg, attrs...) }
//	// ... Info, Warn, Error likewise
//	func (z zapLogger) With(attrs ...any) parser.Logger { return zapLogger{z.s.With(attrs...)} }
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

// NopLogger discards everything. It is the default wherever no logger is
// configured.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
func (n NopLogger) With(...any) Logger { return n }

// SlogAdapter sends log output to a *slog.Logger. The MCP server uses it by
// default, writing through slog.Default.
type SlogAdapter struct {
	logger *slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

// NewSlogAdapter returns an adapter for logger, or for slog.Default() when
// logger is nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.log(slog.LevelDebug, msg, attrs) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.log(slog.LevelInfo, msg, attrs) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.log(slog.LevelWarn, msg, attrs) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.log(slog.LevelError, msg, attrs) }

// With returns an adapter whose records all carry attrs.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

// log skips building the record when the level is disabled; the joiner logs
// every rename at debug level.
func (s *SlogAdapter) log(level slog.Level, msg string, attrs []any) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, level) {
		return
	}
	s.logger.Log(ctx, level, msg, attrs...)
}

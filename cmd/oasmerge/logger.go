package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erraggy/oasmerge/parser"
)

// newLogger builds the command's zap logger. Production encoding is used in
// both modes; verbose only lowers the level to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// zapAdapter bridges a zap logger into the library's parser.Logger.
type zapAdapter struct {
	s *zap.SugaredLogger
}

var _ parser.Logger = zapAdapter{}

func newZapAdapter(l *zap.Logger) parser.Logger {
	return zapAdapter{s: l.Sugar()}
}

func (z zapAdapter) Debug(msg string, attrs ...any) { z.s.Debugw(msg, attrs...) }
func (z zapAdapter) Info(msg string, attrs ...any)  { z.s.Infow(msg, attrs...) }
func (z zapAdapter) Warn(msg string, attrs ...any)  { z.s.Warnw(msg, attrs...) }
func (z zapAdapter) Error(msg string, attrs ...any) { z.s.Errorw(msg, attrs...) }

func (z zapAdapter) With(attrs ...any) parser.Logger {
	return zapAdapter{s: z.s.With(attrs...)}
}

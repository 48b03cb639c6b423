package xlog

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Banner is printed once per process, without level or timestamp.
type Banner interface {
	JSON() string
	PlainText() string
}

// XLogCore exposes the pieces a core was built from, so that a
// component core (see WrapCore) can share them.
type XLogCore interface {
	zapcore.Core

	timeEncoder() zapcore.TimeEncoder
	levelEncoder() zapcore.LevelEncoder
	writeSyncer() zapcore.WriteSyncer
	outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder
}

type XLogger interface {
	zap() *zap.Logger
	Banner(banner Banner)
	Sync() error

	// Level reports the current level, lower case as zap prints it.
	Level() string
	// IncreaseLogLevel swaps the level atomically, derived component
	// loggers follow it.
	IncreaseLogLevel(level zapcore.Level)

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	// ErrorStack inlines an infra.ErrorStack (message, frame, causes)
	// as structured fields.
	ErrorStack(err error, msg string, fields ...zap.Field)
	Logf(lvl zapcore.Level, format string, args ...any)

	// The context variants prepend the fields registered by
	// WithXLoggerContextFieldExtract.
	DebugContext(ctx context.Context, msg string, fields ...zap.Field)
	InfoContext(ctx context.Context, msg string, fields ...zap.Field)
	WarnContext(ctx context.Context, msg string, fields ...zap.Field)
	ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field)
}

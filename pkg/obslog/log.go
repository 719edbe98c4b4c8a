// Package obslog provides the small structured-logging interface used
// throughout this module, backed by zap.
package obslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface every package in this module depends on.
// Keeping it this small lets call sites stay agnostic of the backend.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
	WithField(key string, value interface{}) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger writing structured JSON to stdout at the given
// level ("debug", "info", "warn", "error"). An unrecognized level falls
// back to "info".
func New(level string) Logger {
	lvl := zapcore.InfoLevel
	_ = lvl.UnmarshalText([]byte(level))

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(os.Stdout), lvl)
	logger := zap.New(core, zap.AddCaller())
	return &zapLogger{sugar: logger.Sugar()}
}

// Nop returns a Logger that discards everything, for tests.
func Nop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }
func (l *zapLogger) Fatal(msg string, kv ...interface{}) { l.sugar.Fatalw(msg, kv...) }

func (l *zapLogger) WithField(key string, value interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(key, value)}
}

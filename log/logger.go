package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around zap so callers don't import zap directly.
type Logger struct {
	*zap.Logger
}

var defaultLogger *Logger

// Init builds the process-wide logger. Unknown levels fall back to info,
// a config that fails to build falls back to zap's example logger.
func Init(level string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}
	defaultLogger = &Logger{l}
	return defaultLogger
}

// Default returns the process-wide logger, initializing it at info level on
// first use.
func Default() *Logger {
	if defaultLogger == nil {
		return Init("info")
	}
	return defaultLogger
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l.Logger.Named(name)}
}

func ErrorField(err error) zap.Field { return zap.Error(err) }

func String(key, val string) zap.Field      { return zap.String(key, val) }
func Int(key string, val int) zap.Field     { return zap.Int(key, val) }
func Any(key string, val any) zap.Field     { return zap.Any(key, val) }
func Float64(k string, v float64) zap.Field { return zap.Float64(k, v) }

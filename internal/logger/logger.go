package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production JSON logger. An unknown level falls back to info.
func New(logLevel string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}

// Must is New for main: it falls back to a no-op logger instead of failing.
func Must(logLevel string) *zap.Logger {
	log, err := New(logLevel)
	if err != nil {
		return zap.NewNop()
	}
	return log
}

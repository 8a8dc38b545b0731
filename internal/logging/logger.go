package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance. It discards everything until
	// InitLogger is called so packages can log from tests without setup.
	Logger = &SafeLogger{logger: zap.NewNop()}
)

// SafeLogger wraps a zap logger and tolerates a nil receiver or a nil
// underlying logger.
type SafeLogger struct {
	logger *zap.Logger
}

// NewSafeLogger wraps an existing zap logger
func NewSafeLogger(logger *zap.Logger) *SafeLogger {
	return &SafeLogger{logger: logger}
}

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	zapLogger, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "restaurant-finder"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger = &SafeLogger{logger: zapLogger}
	zap.ReplaceGlobals(zapLogger)
	return nil
}

func (l *SafeLogger) zap() *zap.Logger {
	if l == nil || l.logger == nil {
		return nil
	}
	return l.logger
}

// Debug logs at debug level
func (l *SafeLogger) Debug(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Debug(msg, fields...)
	}
}

// Info logs at info level
func (l *SafeLogger) Info(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Info(msg, fields...)
	}
}

// Warn logs at warn level
func (l *SafeLogger) Warn(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Warn(msg, fields...)
	}
}

// Error logs at error level
func (l *SafeLogger) Error(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Error(msg, fields...)
	}
}

// Fatal logs at fatal level and exits. With no logger configured it still exits.
func (l *SafeLogger) Fatal(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Fatal(msg, fields...)
		return
	}
	os.Exit(1)
}

// With returns a child logger carrying the given fields
func (l *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	if z := l.zap(); z != nil {
		return &SafeLogger{logger: z.With(fields...)}
	}
	return l
}

// Named returns a child logger with the given name segment
func (l *SafeLogger) Named(name string) *SafeLogger {
	if z := l.zap(); z != nil {
		return &SafeLogger{logger: z.Named(name)}
	}
	return l
}

// Sync flushes buffered log entries
func (l *SafeLogger) Sync() error {
	if z := l.zap(); z != nil {
		return z.Sync()
	}
	return nil
}

// Zap exposes the underlying zap logger, falling back to a no-op logger
func (l *SafeLogger) Zap() *zap.Logger {
	if z := l.zap(); z != nil {
		return z
	}
	return zap.NewNop()
}

// Package log builds the zap loggers used by fx tracing and the executor.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// NewProduction returns zap's production logger, falling back to a no-op
// logger if it cannot be built.
func NewProduction() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewConsole returns a debug-level console logger writing to w.
func NewConsole(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// NewTest returns the console logger used by tests.
func NewTest() *zap.Logger {
	return NewConsole(os.Stdout)
}

// OrNop returns logger, or a no-op logger if it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Emit writes msg at level. Unknown levels are logged as info.
func Emit(logger *zap.Logger, level LogLevel, msg string, fields ...zap.Field) {
	switch level {
	case LogInfo:
		logger.Info(msg, fields...)
	case LogWarn:
		logger.Warn(msg, fields...)
	case LogError:
		logger.Error(msg, fields...)
	case LogDebug:
		logger.Debug(msg, fields...)
	default:
		logger.Info(msg, fields...)
	}
}

// Sync flushes logger, reporting a failure through the logger itself.
func Sync(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		logger.Warn("failed to sync logger", zap.Error(err))
	}
}

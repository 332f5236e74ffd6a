package minkowski

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with coordinate-map-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTensorStride adds a tensor stride field to the logger.
func (l *Logger) WithTensorStride(ts []int32) *Logger {
	return &Logger{
		Logger: l.Logger.With("tensor_stride", ts),
	}
}

// LogInsert logs a batch insertion.
func (l *Logger) LogInsert(n, unique int, tensorStride []int32) {
	l.Debug("batch insert completed",
		"count", n,
		"unique", unique,
		"tensor_stride", tensorStride,
	)
}

// LogStride logs a stride derivation.
func (l *Logger) LogStride(inSize, outSize int, stride []int32) {
	l.Debug("stride map derived",
		"in_size", inSize,
		"out_size", outSize,
		"stride", stride,
	)
}

// LogKernelMap logs a kernel map construction.
func (l *Logger) LogKernelMap(volume, pairs int) {
	l.Debug("kernel map completed",
		"volume", volume,
		"pairs", pairs,
	)
}

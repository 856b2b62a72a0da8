package chromatch

import (
	"context"
	"log/slog"
	"os"

	"github.com/chromatch/chromatch/metric"
)

// Logger wraps slog.Logger with chromatch-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithModel adds a model name field to the logger.
func (l *Logger) WithModel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", name),
	}
}

// WithMetric adds a metric field to the logger.
func (l *Logger) WithMetric(m metric.Metric) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", m.String()),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogAddModel logs an add-model operation.
func (l *Logger) LogAddModel(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add model failed",
			"model", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "model added",
			"model", name,
		)
	}
}

// LogRemoveModel logs a successful model removal.
func (l *Logger) LogRemoveModel(name string, index int) {
	l.Debug("model removed",
		"model", name,
		"index", index,
	)
}

// LogCompare logs a comparison operation.
func (l *Logger) LogCompare(ctx context.Context, m metric.Metric, models int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "comparison failed",
			"metric", m.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "comparison completed",
			"metric", m.String(),
			"models", models,
		)
	}
}

// WarnModelOverwrite logs the non-fatal overwrite advisory raised when
// a model is added under a name that is already present.
func (l *Logger) WarnModelOverwrite(ctx context.Context, name string, index int) {
	l.WarnContext(ctx, "model name already present, histogram replaced in place",
		"model", name,
		"index", index,
	)
}

// WarnInitLengthMismatch logs the non-fatal construction advisory
// raised when frame and name counts differ; no models are added.
func (l *Logger) WarnInitLengthMismatch(ctx context.Context, frames, names int) {
	l.WarnContext(ctx, "frame and name counts differ, no models added",
		"frames", frames,
		"names", names,
	)
}

// WarnNoComparison logs the non-fatal advisory raised when a
// cache-first read finds no cached comparison and no frame was given.
func (l *Logger) WarnNoComparison(ctx context.Context) {
	l.WarnContext(ctx, "no cached comparison and no frame provided")
}

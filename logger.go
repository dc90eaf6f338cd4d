package e57

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with write-path helpers using consistent field
// names.
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

// LogNewData3D logs a 3D record creation.
func (l *Logger) LogNewData3D(index, pointCount int64, err error) {
	if err != nil {
		l.Error("new data3d failed",
			"error", err,
		)
	} else {
		l.Debug("new data3d created",
			"index", index,
			"point_count", pointCount,
		)
	}
}

// LogPointsWritten logs a streaming point write.
func (l *Logger) LogPointsWritten(index, count, written int64, err error) {
	if err != nil {
		l.Error("point write failed",
			"index", index,
			"count", count,
			"error", err,
		)
	} else {
		l.Debug("points written",
			"index", index,
			"count", count,
			"written_total", written,
		)
	}
}

// LogSessionClose logs the finalization of a streaming writer.
func (l *Logger) LogSessionClose(index, written int64, err error) {
	if err != nil {
		l.Error("session close failed",
			"index", index,
			"error", err,
		)
	} else {
		l.Debug("session closed",
			"index", index,
			"written_total", written,
		)
	}
}

// LogNewImage2D logs a 2D record creation.
func (l *Logger) LogNewImage2D(index, imageSize int64, err error) {
	if err != nil {
		l.Error("new image2d failed",
			"error", err,
		)
	} else {
		l.Debug("new image2d created",
			"index", index,
			"image_size", imageSize,
		)
	}
}

// LogImageBytes logs an image payload write.
func (l *Logger) LogImageBytes(index, start, accepted int64, err error) {
	if err != nil {
		l.Error("image write failed",
			"index", index,
			"start", start,
			"error", err,
		)
	} else {
		l.Debug("image bytes written",
			"index", index,
			"start", start,
			"accepted", accepted,
		)
	}
}

// LogGroups logs a group index write.
func (l *Logger) LogGroups(index int64, groupCount int, err error) {
	if err != nil {
		l.Error("group write failed",
			"index", index,
			"group_count", groupCount,
			"error", err,
		)
	} else {
		l.Debug("group index written",
			"index", index,
			"group_count", groupCount,
		)
	}
}

// LogClose logs the finalization of the whole file.
func (l *Logger) LogClose(path string, records int, err error) {
	if err != nil {
		l.Error("close failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("container closed",
			"path", path,
			"records", records,
		)
	}
}

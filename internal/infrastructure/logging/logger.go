package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
)

// Logger writes the application's log messages through slog
type Logger struct {
	logger *slog.Logger
	file   *os.File
}

// NewLogger builds a logger from the logging configuration
func NewLogger(cfg config.LoggingConfig) (*Logger, error) {
	var (
		out  io.Writer
		file *os.File
	)
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, file = f, f
	default:
		return nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}

	logger, err := NewWriterLogger(out, cfg)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, err
	}
	logger.file = file
	return logger, nil
}

// NewWriterLogger builds a logger writing to w, ignoring cfg.Output
func NewWriterLogger(w io.Writer, cfg config.LoggingConfig) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.IncludeCaller}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return &Logger{logger: slog.New(handler)}, nil
}

// ParseLevel maps a configured level name to its slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Log writes message at level with metadata as attributes, in key order. Unknown
// levels are logged at INFO.
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, metadata[k])
	}
	l.logger.Log(context.Background(), lvl, message, args...)
}

// Slog exposes the underlying slog logger
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

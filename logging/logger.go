// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package logging provides structured logging for the light client. It
// wraps log/slog rather than replacing it, so callers can still reach the
// underlying *slog.Logger when they need an API this wrapper doesn't cover.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"near-light-verifier/errors"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
	config *Config
}

// Config represents logging configuration
type Config struct {
	Level      slog.Level `json:"level"`
	Format     string     `json:"format"` // "json" or "text"
	Output     string     `json:"output"` // "stdout", "stderr", or file path
	Structured bool       `json:"structured"`
	AddSource  bool       `json:"add_source"`
	TimeFormat string     `json:"time_format"`
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var output io.Writer
	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	var handler slog.Handler
	handlerOpts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	if config.Format == "json" || config.Structured {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	return &Logger{
		Logger: slog.New(handler),
		config: config,
	}, nil
}

// DefaultConfig returns a default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      slog.LevelInfo,
		Format:     "text",
		Output:     "stdout",
		Structured: false,
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// WithContext returns a logger with context values added
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.WithFields(fields...)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}

	args := make([]any, len(fields)*2)
	for i, field := range fields {
		args[i*2] = field.Key
		args[i*2+1] = field.Value
	}

	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithError returns a logger with error information. When err wraps this
// package's own *errors.Error, its Code/Details/Context are surfaced as
// their own fields rather than flattened into the message string.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	args := []any{"error", err.Error()}

	if pe, ok := errors.As(err); ok {
		args = append(args, "error_code", pe.Code.String())

		if pe.Details != "" {
			args = append(args, "error_details", pe.Details)
		}

		for k, v := range pe.Context {
			args = append(args, fmt.Sprintf("error_context_%s", k), v)
		}
	}

	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithComponent returns a logger with component information
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields(Field{Key: "component", Value: component})
}

// WithOperation returns a logger with operation information
func (l *Logger) WithOperation(operation string) *Logger {
	return l.WithFields(Field{Key: "operation", Value: operation})
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(slog.LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(slog.LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(slog.LevelWarn, msg, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields...)
	os.Exit(1)
}

// log is the internal logging method
func (l *Logger) log(level slog.Level, msg string, fields ...Field) {
	if !l.Logger.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]slog.Attr, len(fields))
	for i, field := range fields {
		attrs[i] = slog.Any(field.Key, field.Value)
	}

	if l.config.AddSource {
		_, file, line, ok := runtime.Caller(2)
		if ok {
			attrs = append(attrs, slog.Group("source",
				slog.String("file", file),
				slog.Int("line", line),
			))
		}
	}

	l.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogSyncStep logs one step of the light client's sync state machine.
func (l *Logger) LogSyncStep(step string, success bool, duration time.Duration, fields ...Field) {
	allFields := append([]Field{
		{Key: "step", Value: step},
		{Key: "success", Value: success},
		{Key: "duration_ms", Value: duration.Milliseconds()},
		{Key: "type", Value: "sync_step"},
	}, fields...)

	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}

	l.log(level, "Sync step", allFields...)
}

// LogMetric logs a metric value
func (l *Logger) LogMetric(name string, value interface{}, tags map[string]string) {
	fields := []Field{
		{Key: "metric_name", Value: name},
		{Key: "metric_value", Value: value},
		{Key: "type", Value: "metric"},
	}

	for k, v := range tags {
		fields = append(fields, Field{Key: fmt.Sprintf("tag_%s", k), Value: v})
	}

	l.log(slog.LevelInfo, "Metric", fields...)
}

// extractContextFields extracts logging fields from context
func extractContextFields(ctx context.Context) []Field {
	var fields []Field

	if requestID := ctx.Value("request_id"); requestID != nil {
		if id, ok := requestID.(string); ok {
			fields = append(fields, Field{Key: "request_id", Value: id})
		}
	}

	if traceID := ctx.Value("trace_id"); traceID != nil {
		if id, ok := traceID.(string); ok {
			fields = append(fields, Field{Key: "trace_id", Value: id})
		}
	}

	return fields
}

// ParseLevel parses a log level string
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// globalLogger is the package-level default, lazily initialized.
var globalLogger *Logger

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		logger, _ := NewLogger(DefaultConfig())
		globalLogger = logger
	}
	return globalLogger
}

// Global logging functions for convenience
func Debug(msg string, fields ...Field) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { GetGlobalLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { GetGlobalLogger().Fatal(msg, fields...) }

// MarshalJSON renders a Field for structured log sinks.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"key":   f.Key,
		"value": f.Value,
	})
}

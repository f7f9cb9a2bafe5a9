// Package logging wraps zap.Logger with the service's structured-field
// conventions, adapted from the shared logging library used across the
// pricing stack this engine was ported from.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps *zap.Logger with service-scoped fields and request-ID plumbing.
type Logger struct {
	*zap.Logger
	serviceName string
	version     string
	environment string
}

// Config controls logger construction.
type Config struct {
	Level       string
	ServiceName string
	Version     string
	Environment string
	Format      string // "json" or "console"
}

type contextKey string

// RequestIDKey is the context key carrying the per-request ID.
const RequestIDKey contextKey = "request_id"

// New builds a Logger for serviceName with the given config.
func New(serviceName string, cfg Config) *Logger {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("service", serviceName),
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base, serviceName: serviceName, version: cfg.Version, environment: cfg.Environment}
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), serviceName: "test"}
}

func (l *Logger) clone(z *zap.Logger) *Logger {
	return &Logger{Logger: z, serviceName: l.serviceName, version: l.version, environment: l.environment}
}

// WithRequestID returns a Logger scoped to one request.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.clone(l.Logger.With(zap.String("request_id", requestID)))
}

// WithContext extracts a request ID from ctx, if present, and scopes the Logger to it.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return l.WithRequestID(requestID)
	}
	return l
}

// WithError returns a Logger with err attached.
func (l *Logger) WithError(err error) *Logger {
	return l.clone(l.Logger.With(zap.Error(err)))
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error { return l.Logger.Sync() }

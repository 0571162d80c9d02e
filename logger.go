package changekit

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured logger
type Logger interface {
	// Error logs an error level message with the given error and tags
	Error(ctx context.Context, msg string, err error, tags map[string]any)
	// Info logs an info level message with the given tags
	Info(ctx context.Context, msg string, tags map[string]any)
	// Debug logs a debug level message with the given tags
	Debug(ctx context.Context, msg string, tags map[string]any)
	// Warn logs a warn level message with the given tags
	Warn(ctx context.Context, msg string, tags map[string]any)
}

// NewLogger returns a json Logger writing at the given level - defaultFields
// are attached to every entry and context metadata is attached when present
func NewLogger(level string, defaultFields map[string]any) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	opts := []zap.Option{
		zap.WithCaller(true),
		zap.AddCallerSkip(1),
	}
	for k, v := range defaultFields {
		opts = append(opts, zap.Fields(zap.Any(k, v)))
	}
	logger, err := cfg.Build(opts...)
	if err != nil {
		return nil, err
	}
	return &zapLogger{logger: logger}, nil
}

type zapLogger struct {
	logger *zap.Logger
}

func (z *zapLogger) Error(ctx context.Context, msg string, err error, tags map[string]any) {
	z.logger.Error(msg, append(z.fields(ctx, tags), zap.Error(err))...)
}

func (z *zapLogger) Info(ctx context.Context, msg string, tags map[string]any) {
	z.logger.Info(msg, z.fields(ctx, tags)...)
}

func (z *zapLogger) Debug(ctx context.Context, msg string, tags map[string]any) {
	z.logger.Debug(msg, z.fields(ctx, tags)...)
}

func (z *zapLogger) Warn(ctx context.Context, msg string, tags map[string]any) {
	z.logger.Warn(msg, z.fields(ctx, tags)...)
}

func (z *zapLogger) fields(ctx context.Context, tags map[string]any) []zap.Field {
	fields := make([]zap.Field, 0, len(tags)+1)
	for k, v := range tags {
		fields = append(fields, zap.Any(k, v))
	}
	if md, ok := GetMetadata(ctx); ok {
		fields = append(fields, zap.Any("metadata", md.Map()))
	}
	return fields
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "error":
		return zap.ErrorLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "debug":
		return zap.DebugLevel
	default:
		return zap.InfoLevel
	}
}

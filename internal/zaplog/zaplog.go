// Package zaplog backs the shared logging.Logger interface with zap.
package zaplog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a zap-backed logger
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // console or json
	Output io.Writer // defaults to stderr
}

// Logger implements logging.Logger on top of a zap core
type Logger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

var _ logging.Logger = (*Logger)(nil)

// New builds a logger from options.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), atom)
	return &Logger{logger: zap.New(core), level: atom}, nil
}

// ParseLevel converts a level name to a logging level. An empty name means
// info.
func ParseLevel(name string) (logging.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return logging.DebugLevel, nil
	case "", "info":
		return logging.InfoLevel, nil
	case "warn", "warning":
		return logging.WarnLevel, nil
	case "error":
		return logging.ErrorLevel, nil
	default:
		return logging.InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}
}

func toZapLevel(level logging.Level) zapcore.Level {
	switch level {
	case logging.DebugLevel:
		return zapcore.DebugLevel
	case logging.WarnLevel:
		return zapcore.WarnLevel
	case logging.ErrorLevel:
		return zapcore.ErrorLevel
	case logging.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debug(msg string, fields ...logging.Fields) {
	l.logger.Debug(msg, toZap(fields)...)
}

func (l *Logger) Info(msg string, fields ...logging.Fields) {
	l.logger.Info(msg, toZap(fields)...)
}

func (l *Logger) Warn(msg string, fields ...logging.Fields) {
	l.logger.Warn(msg, toZap(fields)...)
}

func (l *Logger) Error(err error, msg string, fields ...logging.Fields) {
	l.logger.Error(msg, withError(err, fields)...)
}

func (l *Logger) Fatal(err error, msg string, fields ...logging.Fields) {
	l.logger.Fatal(msg, withError(err, fields)...)
}

func (l *Logger) WithFields(fields logging.Fields) logging.Logger {
	return &Logger{logger: l.logger.With(toZap([]logging.Fields{fields})...), level: l.level}
}

// WithContext picks up fields stored under the "logger_fields" context key.
func (l *Logger) WithContext(ctx context.Context) logging.Logger {
	if fields, ok := ctx.Value("logger_fields").(logging.Fields); ok {
		return l.WithFields(fields)
	}
	return l
}

// SetLevel changes the level of l and of every logger derived from it.
func (l *Logger) SetLevel(level logging.Level) {
	l.level.SetLevel(toZapLevel(level))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func withError(err error, fields []logging.Fields) []zap.Field {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	return zf
}

func toZap(fields []logging.Fields) []zap.Field {
	var out []zap.Field
	for _, f := range fields {
		for k, v := range f {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

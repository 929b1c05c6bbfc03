package adapters

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hirescore/internal/logging/types"
)

// ZapConfig represents configuration for the zap adapter
type ZapConfig struct {
	Format string `yaml:"format"` // json or console
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// ZapAdapter writes entries through a zap core
type ZapAdapter struct {
	name   string
	logger *zap.Logger
	closer func() error
}

// NewZapAdapter builds a zap logger from the given output settings
func NewZapAdapter(name string, config ZapConfig) (*ZapAdapter, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(config.Format) {
	case "console", "text":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	closer := func() error { return nil }
	switch config.Output {
	case "", "stdout":
		sink = zapcore.Lock(os.Stdout)
	case "stderr":
		sink = zapcore.Lock(os.Stderr)
	default:
		ws, closeFn, err := zap.Open(config.Output)
		if err != nil {
			return nil, fmt.Errorf("open log output %s: %w", config.Output, err)
		}
		sink = ws
		closer = func() error { closeFn(); return nil }
	}

	// Level filtering happens in the MultiLogger
	core := zapcore.NewCore(encoder, sink, zapcore.DebugLevel)

	adapter := NewZapAdapterWithCore(name, core)
	adapter.closer = closer
	return adapter, nil
}

// NewZapAdapterWithCore wraps an existing core, e.g. zaptest/observer in tests
func NewZapAdapterWithCore(name string, core zapcore.Core) *ZapAdapter {
	return &ZapAdapter{
		name:   name,
		logger: zap.New(core),
		closer: func() error { return nil },
	}
}

// Write writes a log entry through zap
func (a *ZapAdapter) Write(entry *types.LogEntry) error {
	ce := a.logger.Check(toZapLevel(entry.Level), entry.Message)
	if ce == nil {
		return nil
	}
	ce.Time = entry.Timestamp
	ce.Write(toZapFields(entry.Fields)...)
	return nil
}

// Sync flushes buffered output. Syncing a terminal returns EINVAL, which is ignored.
func (a *ZapAdapter) Sync() error {
	if err := a.logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		return err
	}
	return nil
}

func (a *ZapAdapter) Close() error {
	return a.closer()
}

func (a *ZapAdapter) Name() string {
	return a.name
}

func toZapLevel(level types.LogLevel) zapcore.Level {
	switch level {
	case types.DebugLevel:
		return zapcore.DebugLevel
	case types.WarnLevel:
		return zapcore.WarnLevel
	case types.ErrorLevel:
		return zapcore.ErrorLevel
	case types.FatalLevel:
		// exiting is left to the MultiLogger so every adapter gets flushed
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		switch v := fields[k].(type) {
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

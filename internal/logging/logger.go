package logging

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hirescore/internal/logging/types"
)

// sinkSet is shared by a root logger and every logger derived from it
type sinkSet struct {
	mu       sync.RWMutex
	adapters map[string]types.LogAdapter
	level    atomic.Int32
}

// MultiLogger fans each entry out to all registered adapters
type MultiLogger struct {
	sinks   *sinkSet
	context context.Context
	fields  map[string]interface{}
}

// NewMultiLogger creates a new MultiLogger instance
func NewMultiLogger() *MultiLogger {
	sinks := &sinkSet{adapters: make(map[string]types.LogAdapter)}
	sinks.level.Store(int32(InfoLevel))

	return &MultiLogger{
		sinks:   sinks,
		context: context.Background(),
		fields:  make(map[string]interface{}),
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.Log(DebugLevel, message, fields...)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.Log(InfoLevel, message, fields...)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.Log(WarnLevel, message, fields...)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.Log(ErrorLevel, message, fields...)
}

// Fatal logs, flushes every adapter and exits
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.Log(FatalLevel, message, fields...)
	_ = l.Close()
	os.Exit(1)
}

// Log logs a message at the specified level
func (l *MultiLogger) Log(level LogLevel, message string, fields ...map[string]interface{}) {
	if level < l.GetLevel() {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Context:   l.context,
		Fields:    l.mergeFields(fields...),
	}

	l.sinks.mu.RLock()
	defer l.sinks.mu.RUnlock()

	for name, adapter := range l.sinks.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr only, never back through the logger
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

func (l *MultiLogger) WithContext(ctx context.Context) Logger {
	return &MultiLogger{sinks: l.sinks, context: ctx, fields: l.copyFields()}
}

func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	fields := l.copyFields()
	fields[key] = value
	return &MultiLogger{sinks: l.sinks, context: l.context, fields: fields}
}

func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	merged := l.copyFields()
	for k, v := range fields {
		merged[k] = v
	}
	return &MultiLogger{sinks: l.sinks, context: l.context, fields: merged}
}

// SetLevel sets the minimum log level for this logger and all derived loggers
func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sinks.level.Store(int32(level))
}

func (l *MultiLogger) GetLevel() LogLevel {
	return LogLevel(l.sinks.level.Load())
}

// AddAdapter registers an adapter; names must be unique
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.sinks.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}

	l.sinks.adapters[name] = adapter
	return nil
}

// RemoveAdapter closes and unregisters an adapter
func (l *MultiLogger) RemoveAdapter(adapterName string) error {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	adapter, exists := l.sinks.adapters[adapterName]
	if !exists {
		return fmt.Errorf("adapter %s not found", adapterName)
	}

	if err := adapter.Close(); err != nil {
		return fmt.Errorf("failed to close adapter %s: %w", adapterName, err)
	}

	delete(l.sinks.adapters, adapterName)
	return nil
}

// AdapterNames lists the registered adapters in name order
func (l *MultiLogger) AdapterNames() []string {
	l.sinks.mu.RLock()
	defer l.sinks.mu.RUnlock()

	names := make([]string, 0, len(l.sinks.adapters))
	for name := range l.sinks.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close syncs and closes all adapters
func (l *MultiLogger) Close() error {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	var errs []string
	for name, adapter := range l.sinks.adapters {
		_ = adapter.Sync()
		if err := adapter.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("adapter %s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close adapters: %s", strings.Join(errs, ", "))
	}

	return nil
}

func (l *MultiLogger) copyFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return fields
}

func (l *MultiLogger) mergeFields(additionalFields ...map[string]interface{}) map[string]interface{} {
	fields := l.copyFields()

	for _, fieldMap := range additionalFields {
		for k, v := range fieldMap {
			fields[k] = v
		}
	}

	return fields
}

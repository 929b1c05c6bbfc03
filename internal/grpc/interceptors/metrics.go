package interceptors

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"hirescore/internal/logging"
)

// MetricsData holds call counters for one gRPC method
type MetricsData struct {
	RequestCount    int64            `json:"request_count"`
	SuccessCount    int64            `json:"success_count"`
	ErrorCount      int64            `json:"error_count"`
	CodeCounts      map[string]int64 `json:"code_counts"`
	TotalDuration   time.Duration    `json:"total_duration"`
	AverageDuration time.Duration    `json:"average_duration"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// MetricsCollector aggregates MetricsData per method
type MetricsCollector struct {
	mu      sync.RWMutex
	methods map[string]*MetricsData
}

var (
	globalMetricsCollector *MetricsCollector
	metricsOnce            sync.Once
)

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{methods: make(map[string]*MetricsData)}
}

// GetMetricsCollector returns the process-wide collector
func GetMetricsCollector() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetricsCollector = NewMetricsCollector()
	})
	return globalMetricsCollector
}

// RecordMetrics records one finished call
func (c *MetricsCollector) RecordMetrics(method string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, exists := c.methods[method]
	if !exists {
		data = &MetricsData{CodeCounts: make(map[string]int64)}
		c.methods[method] = data
	}

	data.RequestCount++
	data.TotalDuration += duration
	data.AverageDuration = data.TotalDuration / time.Duration(data.RequestCount)
	data.LastUpdated = time.Now()
	data.CodeCounts[status.Code(err).String()]++

	if err != nil {
		data.ErrorCount++
	} else {
		data.SuccessCount++
	}
}

// GetMethodMetrics returns a copy of the counters for method, or nil
func (c *MetricsCollector) GetMethodMetrics(method string) *MetricsData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.methods[method]
	if !exists {
		return nil
	}
	return data.clone()
}

// GetAllMetrics returns copies of every method's counters
func (c *MetricsCollector) GetAllMetrics() map[string]*MetricsData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*MetricsData, len(c.methods))
	for method, data := range c.methods {
		result[method] = data.clone()
	}
	return result
}

// Reset clears all metrics
func (c *MetricsCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods = make(map[string]*MetricsData)
}

func (d *MetricsData) clone() *MetricsData {
	copied := *d
	copied.CodeCounts = make(map[string]int64, len(d.CodeCounts))
	for code, n := range d.CodeCounts {
		copied.CodeCounts[code] = n
	}
	return &copied
}

// MetricsInterceptor records every unary call in the global collector
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	collector := GetMetricsCollector()

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		resp, err := handler(ctx, req)
		collector.RecordMetrics(info.FullMethod, time.Since(startTime), err)
		return resp, err
	}
}

// StreamMetricsInterceptor records every stream in the global collector
func StreamMetricsInterceptor() grpc.StreamServerInterceptor {
	collector := GetMetricsCollector()

	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		err := handler(srv, ss)
		collector.RecordMetrics(info.FullMethod, time.Since(startTime), err)
		return err
	}
}

// LogMetricsSummary writes one line per method. Run it periodically.
func LogMetricsSummary(ctx context.Context) error {
	logger := logging.GetGlobalLogger()

	for method, data := range GetMetricsCollector().GetAllMetrics() {
		successRate := float64(0)
		if data.RequestCount > 0 {
			successRate = float64(data.SuccessCount) / float64(data.RequestCount) * 100
		}

		logger.Info("gRPC method metrics summary", map[string]interface{}{
			"method":           method,
			"request_count":    data.RequestCount,
			"error_count":      data.ErrorCount,
			"code_counts":      data.CodeCounts,
			"success_rate":     successRate,
			"average_duration": data.AverageDuration.String(),
			"type":             "grpc_metrics_summary",
		})
	}
	return nil
}

package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"hirescore/internal/logging"
	"hirescore/pkg/utils"
)

const requestIDHeader = "x-request-id"

// requestIDFromContext returns the caller's x-request-id or a fresh one
func requestIDFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDHeader); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return utils.GenerateRequestID()
}

// LoggingInterceptor logs the start and outcome of every unary call
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		logger := logging.LogWithRequestID(requestIDFromContext(ctx))

		logger.Debug("gRPC request started", map[string]interface{}{
			"method": info.FullMethod,
			"type":   "grpc_request_start",
		})

		resp, err := handler(ctx, req)

		logCompletion(logger, info.FullMethod, "grpc_request_complete", time.Since(startTime), err)
		return resp, err
	}
}

// StreamLoggingInterceptor logs the outcome of every stream, including health Watch
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		logger := logging.LogWithRequestID(requestIDFromContext(ss.Context()))

		err := handler(srv, ss)

		logCompletion(logger, info.FullMethod, "grpc_stream_complete", time.Since(startTime), err)
		return err
	}
}

func logCompletion(logger logging.Logger, method, kind string, elapsed time.Duration, err error) {
	fields := map[string]interface{}{
		"method":          method,
		"processing_time": elapsed.String(),
		"status_code":     status.Code(err).String(),
		"type":            kind,
	}

	if err != nil {
		fields["error"] = err.Error()
		logger.Error("gRPC call failed", fields)
		return
	}
	logger.Info("gRPC call completed", fields)
}

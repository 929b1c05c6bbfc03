package server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"hirescore/internal/config"
	"hirescore/internal/grpc/interceptors"
	"hirescore/internal/logging"
)

// ApplicationsService is the gRPC service name reported alongside the
// overall ("") health status.
const ApplicationsService = "hirescore.v1.Applications"

// Check probes one dependency; a nil error means healthy
type Check func(ctx context.Context) error

type Server struct {
	logger     logging.Logger
	checks     map[string]Check
	health     *health.Server
	grpcServer *grpc.Server
}

func NewServer(cfg *config.Config, checks map[string]Check, logger logging.Logger) *Server {
	s := &Server{
		logger: logger.WithField("component", "grpc"),
		checks: checks,
		health: health.NewServer(),
	}

	opts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
			interceptors.MetricsInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
			interceptors.StreamMetricsInterceptor(),
		),
	}
	if cfg.Server.ReadTimeout > 0 {
		opts = append(opts, grpc.ConnectionTimeout(cfg.Server.ReadTimeout))
	}
	s.grpcServer = grpc.NewServer(opts...)

	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)

	// Not serving until the first probe passes
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// Serve blocks accepting connections on lis
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", map[string]interface{}{
		"address": lis.Addr().String(),
	})
	return s.grpcServer.Serve(lis)
}

// Stop marks every service as not serving and drains in-flight RPCs
func (s *Server) Stop() {
	s.logger.Info("Shutting down gRPC server...")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ApplicationsService, status)
}

package server

import (
	"context"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RefreshHealth runs every dependency check and publishes the aggregate
// status to the gRPC health service. It returns the first failure so
// periodic callers can log it.
func (s *Server) RefreshHealth(ctx context.Context) error {
	var firstErr error
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Dependency health check failed", map[string]interface{}{
				"dependency": name,
				"error":      err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return firstErr
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

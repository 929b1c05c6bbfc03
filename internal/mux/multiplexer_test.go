package mux

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"hirescore/internal/config"
	"hirescore/internal/grpc/server"
	"hirescore/internal/logging"
)

func TestMultiplexerServesHTTPAndGRPC(t *testing.T) {
	cfg := config.Default()
	logger := logging.NewNopLogger()

	grpcServer := server.NewServer(cfg, map[string]server.Check{
		"database": func(ctx context.Context) error { return nil },
	}, logger)
	if err := grpcServer.RefreshHealth(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	m := NewMultiplexer(cfg, grpcServer, handler, logger)
	m.Serve(listener)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Stop(ctx)
	}()

	if !m.IsHealthy() {
		t.Error("multiplexer not healthy after Serve")
	}

	resp, err := http.Get("http://" + m.Addr() + "/health")
	if err != nil {
		t.Fatalf("http get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("http response = %d %q", resp.StatusCode, body)
	}

	conn, err := grpc.NewClient(m.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc client: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	check, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: server.ApplicationsService})
	if err != nil {
		t.Fatalf("grpc health check: %v", err)
	}
	if check.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("grpc status = %s", check.Status)
	}
}

package mux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/soheilhy/cmux"

	"hirescore/internal/config"
	"hirescore/internal/grpc/server"
	"hirescore/internal/logging"
)

// Multiplexer serves the HTTP API and the gRPC health service on one port
type Multiplexer struct {
	logger logging.Logger

	grpcServer *server.Server
	httpServer *http.Server

	mux      cmux.CMux
	listener net.Listener

	mu      sync.RWMutex
	serving bool
	wg      sync.WaitGroup
}

// NewMultiplexer creates a new protocol multiplexer
func NewMultiplexer(cfg *config.Config, grpcServer *server.Server, httpHandler http.Handler, logger logging.Logger) *Multiplexer {
	readTimeout := cfg.Server.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	idleTimeout := cfg.Server.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	return &Multiplexer{
		logger:     logger.WithField("component", "mux"),
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Handler:           httpHandler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       idleTimeout,
			// Handler deadlines come from the timeout middleware. A write
			// deadline here would also cut health Watch streams.
		},
	}
}

// Start listens on address and serves both protocols
func (m *Multiplexer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	m.Serve(listener)
	return nil
}

// Serve splits listener by protocol and serves both halves in the background
func (m *Multiplexer) Serve(listener net.Listener) {
	m.mu.Lock()
	m.listener = listener
	m.mux = cmux.New(listener)
	m.serving = true
	m.mu.Unlock()

	address := listener.Addr().String()

	grpcListener := m.mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpListener := m.mux.Match(cmux.Any())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.grpcServer.Serve(grpcListener); err != nil && !isClosed(err) {
			m.logger.Error("gRPC server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.logger.Info("Starting HTTP server", map[string]interface{}{"address": address})
		if err := m.httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) && !isClosed(err) {
			m.logger.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.mux.Serve(); err != nil && !isClosed(err) {
			m.logger.Error("Multiplexer failed", map[string]interface{}{"error": err.Error()})
		}
		m.mu.Lock()
		m.serving = false
		m.mu.Unlock()
	}()

	m.logger.Info("Multiplexer started successfully", map[string]interface{}{"address": address})
}

// Stop drains HTTP requests and gRPC calls, then closes the listener
func (m *Multiplexer) Stop(ctx context.Context) error {
	m.logger.Info("Stopping multiplexer...")

	if err := m.httpServer.Shutdown(ctx); err != nil {
		m.logger.Error("HTTP server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	grpcDone := make(chan struct{})
	go func() {
		m.grpcServer.Stop()
		close(grpcDone)
	}()
	select {
	case <-grpcDone:
	case <-ctx.Done():
		m.logger.Warn("gRPC server did not drain before the deadline")
	}

	m.mu.RLock()
	mux := m.mux
	m.mu.RUnlock()
	if mux != nil {
		mux.Close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Multiplexer stopped gracefully")
		return nil
	case <-ctx.Done():
		m.logger.Warn("Multiplexer shutdown timed out")
		return ctx.Err()
	}
}

// IsHealthy reports whether the listener is still accepting connections
func (m *Multiplexer) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.serving && m.listener != nil
}

// Addr returns the listening address, or "" before Serve
func (m *Multiplexer) Addr() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed) || errors.Is(err, cmux.ErrServerClosed)
}

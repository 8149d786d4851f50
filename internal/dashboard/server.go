package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsServer serves the profile's Prometheus registry on /metrics.
type MetricsServer struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

// NewMetricsServer binds addr and returns a server ready to Start. An empty
// addr disables the endpoint and yields a nil server.
func NewMetricsServer(addr string, reg *prometheus.Registry, logger *zap.Logger) (*MetricsServer, error) {
	if addr == "" {
		return nil, nil
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &MetricsServer{
		httpServer: &http.Server{Handler: mux},
		listener:   listener,
		logger:     logger,
	}, nil
}

// Addr returns the bound address.
func (s *MetricsServer) Addr() string {
	if s == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start serves until Stop. Blocks.
func (s *MetricsServer) Start() error {
	if s == nil {
		return nil
	}
	s.logger.Info("metrics server starting", zap.String("addr", s.Addr()))
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *MetricsServer) Stop(ctx context.Context) {
	if s == nil {
		return
	}
	s.logger.Info("metrics server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("metrics server shutdown", zap.Error(err))
	}
}

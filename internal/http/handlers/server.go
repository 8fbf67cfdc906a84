package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"go.uber.org/zap"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// HeartbeatReader returns the time of the latest background heartbeat.
type HeartbeatReader interface {
	LastHeartbeat(ctx context.Context) (time.Time, error)
}

// Server holds the dependencies shared by every handler. All of them are read-only
// after construction.
type Server struct {
	productRepo repo.ProductRepository
	app         config.AppConfig
	logger      *zap.Logger

	checks     map[string]HealthCheck
	heartbeats HeartbeatReader
}

func NewServer(productRepo repo.ProductRepository, app config.AppConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		productRepo: productRepo,
		app:         app,
		logger:      logger,
		checks:      map[string]HealthCheck{},
	}
}

// WithHealthCheck registers a named check reported by GET /health.
func (s *Server) WithHealthCheck(name string, check HealthCheck) *Server {
	s.checks[name] = check
	return s
}

// WithHeartbeatReader makes GET /health report the latest heartbeat.
func (s *Server) WithHeartbeatReader(r HeartbeatReader) *Server {
	s.heartbeats = r
	return s
}

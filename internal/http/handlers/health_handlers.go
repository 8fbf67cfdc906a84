package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler godoc
// @Summary Report backing service status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if s.heartbeats != nil {
		if last, err := s.heartbeats.LastHeartbeat(ctx); err == nil {
			resp.LastHeartbeat = last.UTC().Format(time.RFC3339)
		}
	}

	s.respond(w, status, resp)
}

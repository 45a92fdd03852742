package api

import (
	"net/http"
	"time"

	"catalog/internal/version"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Datasets  map[string]int `json:"datasets,omitempty"`
	Cache     map[string]int `json:"cache,omitempty"`
}

// handleHealth handles GET /health - simple liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version.Version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
	}
	if s.catalog != nil {
		resp.Datasets = s.catalog.Counts()
	}

	if s.cache != nil {
		stats, err := s.cache.Stats()
		if err != nil {
			s.logger.Warn("Failed to read cache stats", map[string]interface{}{
				"error": err.Error(),
			})
			resp.Status = "degraded"
		} else {
			resp.Cache = stats
		}
	}

	WriteJSON(w, resp, http.StatusOK)
}

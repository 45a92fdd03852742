package api

import (
	"net/http"

	"catalog/internal/catalog"
	"catalog/internal/response"
	"catalog/internal/version"
)

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Health check and metrics
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /metrics", s.handleMetrics)

	// Discovery
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /api/formats", s.handleFormats)

	// Organization requisites
	s.router.HandleFunc("GET /api/organization", s.handleOrganization)

	// Recipe parts
	s.router.HandleFunc("GET /api/recipes/{id}/ingredients", s.handleRecipeIngredients)
	s.router.HandleFunc("GET /api/recipes/{id}/steps", s.handleRecipeSteps)

	// Datasets: units, groups, nomenclature, recipes
	s.router.HandleFunc("GET /api/{dataset}", s.handleDataset)
}

// IndexResponse describes the service
type IndexResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Datasets  []string          `json:"datasets"`
	Formats   []response.Format `json:"formats"`
	Endpoints map[string]string `json:"endpoints"`
}

// handleIndex handles GET / - service description
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, IndexResponse{
		Name:     "catalog",
		Version:  version.Version,
		Datasets: catalog.Keys(),
		Formats:  s.factory.SupportedFormats(),
		Endpoints: map[string]string{
			"GET /health":                       "Health check",
			"GET /metrics":                      "Prometheus metrics",
			"GET /api/formats":                  "Supported and default response formats",
			"GET /api/{dataset}":                "Render a dataset, ?format=csv|markdown|json|xml",
			"GET /api/recipes/{id}/ingredients": "Render the ingredients of a recipe",
			"GET /api/recipes/{id}/steps":       "Render the cooking steps of a recipe",
			"GET /api/organization":             "Render the organization requisites",
		},
	}, http.StatusOK)
}

// FormatsResponse lists the response formats
type FormatsResponse struct {
	SupportedFormats []response.Format `json:"supportedFormats"`
	DefaultFormat    string            `json:"defaultFormat"`
}

// handleFormats handles GET /api/formats
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, FormatsResponse{
		SupportedFormats: s.factory.SupportedFormats(),
		DefaultFormat:    s.factory.Default(),
	}, http.StatusOK)
}

package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"net/http"
	"time"

	"catalog/internal/auth"
	"catalog/internal/catalog"
	"catalog/internal/domain"
	"catalog/internal/fields"
	"catalog/internal/logging"
	"catalog/internal/response"
	"catalog/internal/storage"
)

// Options holds the collaborators of the HTTP server.
type Options struct {
	Catalog *catalog.Repository
	Factory *response.Factory
	// Company is served by /api/organization. Nil makes the route return 404.
	Company *domain.Company
	// Cache stores rendered documents. Nil disables caching.
	Cache    *storage.RenderCache
	CacheTTL time.Duration
	Auth     *auth.Authenticator
	Logger   *logging.Logger
}

// Server represents the HTTP API server
type Server struct {
	router      *http.ServeMux
	server      *http.Server
	addr        string
	logger      *logging.Logger
	catalog     *catalog.Repository
	factory     *response.Factory
	company     *domain.Company
	cache       *storage.RenderCache
	cacheTTL    time.Duration
	auth        *auth.Authenticator
	fingerprint string
	metrics     *Metrics
	started     time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	factory := opts.Factory
	if factory == nil {
		factory = response.NewFactory(nil)
	}

	s := &Server{
		addr:     addr,
		logger:   logger,
		catalog:  opts.Catalog,
		factory:  factory,
		company:  opts.Company,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		auth:     opts.Auth,
		router:   http.NewServeMux(),
		metrics:  NewMetrics(),
		started:  time.Now(),
	}

	if s.cache != nil {
		fp, err := fingerprint(s.catalog, s.company, s.factory.Policy())
		if err != nil {
			logger.Warn("Render cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
			s.cache = nil
		}
		s.fingerprint = fp
	}

	// Register routes
	s.registerRoutes()

	// Create HTTP server with configured router and middleware
	handler := s.applyMiddleware(s.router)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.addr,
		"auth": s.auth.Enabled(),
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully", nil)
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler with middleware in the correct order
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last one wraps first)
	handler = AuthMiddleware(s.auth, s.logger)(handler)
	handler = RecoveryMiddleware(s.logger, s.metrics)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	handler = CompressionMiddleware()(handler)
	return handler
}

// fingerprint hashes everything a rendered document depends on, so entries
// written for older content are never served. The dump carries names only,
// so the rendered rows are hashed too; they hold the ids, which are fresh on
// every start.
func fingerprint(r *catalog.Repository, company *domain.Company, policy response.EmptyPolicy) (string, error) {
	if r == nil {
		return "", fmt.Errorf("no catalog")
	}
	data, err := catalog.Dump(r)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write(data)
	h.Write([]byte(policy))
	for _, key := range catalog.Keys() {
		entities, err := r.Dataset(key)
		if err != nil {
			return "", err
		}
		h.Write([]byte{1})
		h.Write([]byte(key))
		for _, e := range entities {
			hashRow(h, e)
		}
	}
	if company != nil {
		hashRow(h, company)
	}
	return hex.EncodeToString(h.Sum(nil)[:8]), nil
}

func hashRow(h hash.Hash, e fields.Entity) {
	h.Write([]byte{2})
	for _, v := range fields.Row(e, fields.Names(e)) {
		h.Write([]byte{0})
		h.Write([]byte(v))
	}
}

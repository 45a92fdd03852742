package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"catalog/internal/api"
	"catalog/internal/auth"
	"catalog/internal/config"
	"catalog/internal/logging"
	"catalog/internal/storage"
)

var (
	servePort    int
	serveHost    string
	serveNoCache bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Start the catalog HTTP API server. Every dataset is served under
/api/{dataset} in the format chosen by the ?format= query parameter, falling
back to response.defaultFormat.

When server.tokenHash is set, requests must carry "Authorization: Bearer <token>".
Generate a token with "catalog token new".`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: server.port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.bind)")
	serveCmd.Flags().BoolVar(&serveNoCache, "no-cache", false, "Disable the render cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	repo, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	opts := api.Options{
		Catalog: repo,
		Factory: newFactory(cfg),
		Auth:    auth.NewAuthenticator(cfg.Server.TokenHash),
		Logger:  logger,
	}

	if company, err := cfg.Company(); err != nil {
		logger.Warn("Organization requisites are invalid, /api/organization disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		opts.Company = company
	}

	if !serveNoCache {
		db, cache, err := openRenderCache(cfg, logger)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
			opts.Cache = cache
			opts.CacheTTL = time.Duration(cfg.Storage.CacheTtlSeconds) * time.Second
		}
	}

	host := cfg.Server.Bind
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	server := api.NewServer(addr, opts)

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "catalog HTTP API server listening on http://%s\n", addr)
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		logger.Info("Server stopped gracefully", nil)
	}

	return nil
}

// openRenderCache opens the storage database and purges expired documents.
// It returns nils when caching is switched off in the configuration.
func openRenderCache(cfg *config.Config, logger *logging.Logger) (*storage.DB, *storage.RenderCache, error) {
	if cfg.Storage.Path == "" || cfg.Storage.CacheTtlSeconds <= 0 {
		return nil, nil, nil
	}

	db, err := storage.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, nil, err
	}
	cache := storage.NewRenderCache(db)

	removed, err := cache.CleanupExpired()
	if err != nil {
		logger.Warn("Failed to purge expired documents", map[string]interface{}{
			"error": err.Error(),
		})
	} else if removed > 0 {
		logger.Debug("Purged expired documents", map[string]interface{}{
			"removed": removed,
		})
	}
	return db, cache, nil
}

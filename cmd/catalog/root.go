package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"catalog/internal/catalog"
	"catalog/internal/config"
	"catalog/internal/logging"
	"catalog/internal/response"
	"catalog/internal/version"
)

var (
	// configPath is the --config flag value
	configPath string
	// seedPath is the --seed flag value
	seedPath  string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "catalog - reference data catalog and document renderer",
	Long: `catalog keeps the reference data of a food service (units of measure,
nomenclature groups, nomenclature items and recipes) and renders any dataset
as CSV, Markdown, JSON or XML, from the command line or over HTTP.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("catalog version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the configuration file (default: ./"+config.DefaultFileName+" when present)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "",
		"Catalog fixture file (yaml, toml or json); overrides seed.path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides logging.level)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format: human or json (overrides logging.format)")
}

// loadConfig reads the configuration and applies the logging flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to stderr so that rendered
// documents on stdout stay clean.
func newLogger(cfg *config.Config) *logging.Logger {
	lc := cfg.LoggerConfig()
	lc.Output = os.Stderr
	return logging.NewLogger(lc)
}

// loadCatalog builds the repository from the seed file, or the built-in
// defaults when none is configured.
// Precedence: --seed flag > seed.path > built-in catalog
func loadCatalog(cfg *config.Config, logger *logging.Logger) (*catalog.Repository, error) {
	path := seedPath
	if path == "" {
		path = cfg.Seed.Path
	}
	if path == "" {
		logger.Debug("Using built-in catalog", nil)
		return catalog.NewDefaultRepository()
	}

	logger.Debug("Loading catalog fixture", map[string]interface{}{
		"path": path,
	})
	return catalog.NewFileRepository(path)
}

// newFactory returns an encoder factory bound to the configuration.
func newFactory(cfg *config.Config) *response.Factory {
	return response.NewFactory(cfg, response.WithEmptyPolicy(cfg.EmptyPolicy()))
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

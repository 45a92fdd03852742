package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"catalog/internal/domain"
	"catalog/internal/logging"
	"catalog/internal/response"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = 1

// DefaultFileName is searched for in the working directory when no path is given.
const DefaultFileName = "catalog.json"

// EnvPrefix prefixes environment overrides, e.g. CATALOG_RESPONSE_DEFAULTFORMAT.
const EnvPrefix = "CATALOG"

// Config represents the complete catalog configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Response     ResponseConfig     `json:"response" mapstructure:"response"`
	Organization OrganizationConfig `json:"organization" mapstructure:"organization"`
	Server       ServerConfig       `json:"server" mapstructure:"server"`
	Storage      StorageConfig      `json:"storage" mapstructure:"storage"`
	Export       ExportConfig       `json:"export" mapstructure:"export"`
	Logging      LoggingConfig      `json:"logging" mapstructure:"logging"`
	Seed         SeedConfig         `json:"seed" mapstructure:"seed"`

	// mu guards Response.DefaultFormat, the only field changed at runtime.
	mu sync.RWMutex
}

// ResponseConfig controls document rendering.
type ResponseConfig struct {
	DefaultFormat string `json:"defaultFormat" mapstructure:"defaultFormat"`
	EmptyPolicy   string `json:"emptyPolicy" mapstructure:"emptyPolicy"`
}

// OrganizationConfig holds the organization requisites.
type OrganizationConfig struct {
	Name                 string `json:"name" mapstructure:"name"`
	INN                  string `json:"inn" mapstructure:"inn"`
	Account              string `json:"account" mapstructure:"account"`
	CorrespondentAccount string `json:"correspondentAccount" mapstructure:"correspondentAccount"`
	BIK                  string `json:"bik" mapstructure:"bik"`
	OwnershipType        string `json:"ownershipType" mapstructure:"ownershipType"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Bind string `json:"bind" mapstructure:"bind"`
	Port int    `json:"port" mapstructure:"port"`
	// TokenHash is a bcrypt hash of the API bearer token. Empty disables auth.
	TokenHash string `json:"tokenHash" mapstructure:"tokenHash"`
}

// StorageConfig contains render cache settings.
type StorageConfig struct {
	Path            string `json:"path" mapstructure:"path"`
	CacheTtlSeconds int    `json:"cacheTtlSeconds" mapstructure:"cacheTtlSeconds"`
}

// ExportConfig contains bulk export settings.
type ExportConfig struct {
	Dir         string `json:"dir" mapstructure:"dir"`
	S3Bucket    string `json:"s3Bucket" mapstructure:"s3Bucket"`
	S3Prefix    string `json:"s3Prefix" mapstructure:"s3Prefix"`
	Compression string `json:"compression" mapstructure:"compression"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// SeedConfig points at an optional catalog fixture file.
type SeedConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Response: ResponseConfig{
			DefaultFormat: string(response.DefaultFormat),
			EmptyPolicy:   string(response.EmptyStrict),
		},
		Organization: OrganizationConfig{
			Name: "Romashka",
		},
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path:            filepath.Join(".catalog", "catalog.db"),
			CacheTtlSeconds: 300,
		},
		Export: ExportConfig{
			Dir:         "export",
			Compression: "none",
		},
		Logging: LoggingConfig{
			Format: string(logging.HumanFormat),
			Level:  string(logging.InfoLevel),
		},
	}
}

// setDefaults registers every key so that env overrides apply even when the
// file omits a section.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("response.defaultFormat", d.Response.DefaultFormat)
	v.SetDefault("response.emptyPolicy", d.Response.EmptyPolicy)
	v.SetDefault("organization.name", d.Organization.Name)
	v.SetDefault("organization.inn", d.Organization.INN)
	v.SetDefault("organization.account", d.Organization.Account)
	v.SetDefault("organization.correspondentAccount", d.Organization.CorrespondentAccount)
	v.SetDefault("organization.bik", d.Organization.BIK)
	v.SetDefault("organization.ownershipType", d.Organization.OwnershipType)
	v.SetDefault("server.bind", d.Server.Bind)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.tokenHash", d.Server.TokenHash)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.cacheTtlSeconds", d.Storage.CacheTtlSeconds)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.s3Bucket", d.Export.S3Bucket)
	v.SetDefault("export.s3Prefix", d.Export.S3Prefix)
	v.SetDefault("export.compression", d.Export.Compression)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("seed.path", d.Seed.Path)
}

// LoadConfig loads configuration from path, or from catalog.json in the
// working directory when path is empty. A missing default file yields the
// defaults; a missing explicit path is an error. CATALOG_* environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName)))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if _, err := response.ParseFormat(c.DefaultFormat()); err != nil {
		return &ConfigError{Field: "response.defaultFormat", Message: "must be one of csv, markdown, json, xml"}
	}
	if _, err := response.ParseEmptyPolicy(c.Response.EmptyPolicy); err != nil {
		return &ConfigError{Field: "response.emptyPolicy", Message: "must be strict or legacy"}
	}
	if _, err := c.Company(); err != nil {
		return &ConfigError{Field: "organization", Message: err.Error()}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	if c.Storage.CacheTtlSeconds < 0 {
		return &ConfigError{Field: "storage.cacheTtlSeconds", Message: "must not be negative"}
	}
	switch c.Export.Compression {
	case "", "none", "zstd":
	default:
		return &ConfigError{Field: "export.compression", Message: "must be none or zstd"}
	}
	switch logging.Format(c.Logging.Format) {
	case "", logging.HumanFormat, logging.JSONFormat:
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// DefaultFormat returns the configured default response format.
func (c *Config) DefaultFormat() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Response.DefaultFormat
}

// SetDefaultFormat validates and stores a new default response format.
func (c *Config) SetDefaultFormat(id string) error {
	if _, err := response.ParseFormat(id); err != nil {
		return err
	}
	c.mu.Lock()
	c.Response.DefaultFormat = id
	c.mu.Unlock()
	return nil
}

// EmptyPolicy returns the parsed empty-input policy.
func (c *Config) EmptyPolicy() response.EmptyPolicy {
	p, err := response.ParseEmptyPolicy(c.Response.EmptyPolicy)
	if err != nil {
		return response.EmptyStrict
	}
	return p
}

// Company builds the organization record from the organization section.
func (c *Config) Company() (*domain.Company, error) {
	o := c.Organization
	return domain.NewCompany(domain.CompanyInfo{
		Name:                 o.Name,
		INN:                  o.INN,
		Account:              o.Account,
		CorrespondentAccount: o.CorrespondentAccount,
		BIK:                  o.BIK,
		OwnershipType:        o.OwnershipType,
	})
}

// LoggerConfig converts the logging section for logging.NewLogger.
func (c *Config) LoggerConfig() logging.Config {
	format := logging.Format(c.Logging.Format)
	if format == "" {
		format = logging.HumanFormat
	}
	return logging.Config{
		Format: format,
		Level:  logging.ParseLevel(c.Logging.Level),
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

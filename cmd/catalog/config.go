package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"catalog/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage catalog configuration",
	Long:  "View and manage the catalog configuration stored in " + config.DefaultFileName,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after applying the file, environment overrides
and defaults. The API token hash is masked.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Run:   runConfigEnv,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shown := struct {
		Version      int                       `json:"version"`
		Response     config.ResponseConfig     `json:"response"`
		Organization config.OrganizationConfig `json:"organization"`
		Server       config.ServerConfig       `json:"server"`
		Storage      config.StorageConfig      `json:"storage"`
		Export       config.ExportConfig       `json:"export"`
		Logging      config.LoggingConfig      `json:"logging"`
		Seed         config.SeedConfig         `json:"seed"`
	}{
		Version: cfg.Version, Response: cfg.Response, Organization: cfg.Organization,
		Server: cfg.Server, Storage: cfg.Storage, Export: cfg.Export,
		Logging: cfg.Logging, Seed: cfg.Seed,
	}
	if shown.Server.TokenHash != "" {
		shown.Server.TokenHash = "********"
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(shown)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultFileName
	if len(args) == 1 {
		path = args[0]
	}
	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

// envKeys lists the keys most often overridden from the environment.
var envKeys = []string{
	"response.defaultFormat",
	"response.emptyPolicy",
	"organization.name",
	"server.bind",
	"server.port",
	"server.tokenHash",
	"storage.path",
	"storage.cacheTtlSeconds",
	"export.dir",
	"export.s3Bucket",
	"export.compression",
	"logging.level",
	"logging.format",
	"seed.path",
}

func runConfigEnv(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	for _, key := range envKeys {
		env := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		fmt.Fprintf(out, "%-36s %s\n", env, key)
	}
}

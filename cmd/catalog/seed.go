package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/internal/catalog"
)

var seedDumpOutput string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Work with catalog fixture files",
}

var seedDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the current catalog as a TOML fixture",
	Long: `Write the loaded catalog (the built-in one unless --seed is given) as a
TOML fixture that can be edited and loaded back with --seed.

Examples:
  catalog seed dump > catalog.toml
  catalog seed dump --output fixtures/catalog.toml`,
	RunE: runSeedDump,
}

func init() {
	seedDumpCmd.Flags().StringVarP(&seedDumpOutput, "output", "o", "", "Write to a file instead of stdout")
	seedCmd.AddCommand(seedDumpCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo, err := loadCatalog(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	data, err := catalog.Dump(repo)
	if err != nil {
		return err
	}

	if seedDumpOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(seedDumpOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", seedDumpOutput, err)
	}
	return nil
}

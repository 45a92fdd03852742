package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var formatsJSON bool

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported response formats",
	RunE:  runFormats,
}

func init() {
	formatsCmd.Flags().BoolVar(&formatsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	factory := newFactory(cfg)
	out := cmd.OutOrStdout()

	if formatsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"supportedFormats": factory.SupportedFormats(),
			"defaultFormat":    factory.Default(),
		})
	}

	for _, f := range factory.SupportedFormats() {
		marker := " "
		if string(f) == factory.Default() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-9s %s\n", marker, f, f.ContentType())
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"catalog/internal/catalog"
	"catalog/internal/config"
	"catalog/internal/domain"
	"catalog/internal/errors"
	"catalog/internal/fields"
)

var (
	renderFormat string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render <dataset> [recipe]",
	Short: "Render a dataset as csv, markdown, json or xml",
	Long: `Render one dataset of the catalog and print it to stdout.

Datasets: units, groups, nomenclature, recipes, organization.
The ingredients and steps of a single recipe are rendered with
"ingredients <recipe>" and "steps <recipe>", where <recipe> is a name or id.

Examples:
  catalog render units --format csv
  catalog render recipes --format markdown --output recipes.md
  catalog render ingredients "Potato pancakes" --format xml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format (default: response.defaultFormat)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	repo, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	entities, err := selectEntities(repo, cfg, args)
	if err != nil {
		return err
	}

	factory := newFactory(cfg)
	enc, err := factory.CreateDefault()
	if renderFormat != "" {
		enc, err = factory.Create(renderFormat)
	}
	if err != nil {
		return err
	}

	doc, err := enc.Build(entities)
	if err != nil {
		return err
	}

	if renderOutput == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}

	if dir := filepath.Dir(renderOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(renderOutput, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutput, err)
	}
	logger.Info("Document written", map[string]interface{}{
		"path":   renderOutput,
		"format": string(enc.Format()),
		"bytes":  len(doc),
	})
	return nil
}

// selectEntities resolves the render arguments to a record list.
func selectEntities(repo *catalog.Repository, cfg *config.Config, args []string) ([]fields.Entity, error) {
	switch name := args[0]; name {
	case "organization":
		company, err := cfg.Company()
		if err != nil {
			return nil, err
		}
		return []fields.Entity{company}, nil
	case "ingredients", "steps":
		if len(args) < 2 {
			return nil, errors.Newf(errors.ArgumentInvalid, "%s requires a recipe name or id", name)
		}
		rc, err := findRecipe(repo, args[1])
		if err != nil {
			return nil, err
		}
		if name == "ingredients" {
			return repo.RecipeIngredients(rc.ID())
		}
		return repo.RecipeSteps(rc.ID())
	default:
		if len(args) > 1 {
			return nil, errors.Newf(errors.ArgumentInvalid, "dataset %s takes no further arguments", name)
		}
		return repo.Dataset(name)
	}
}

func findRecipe(repo *catalog.Repository, ref string) (*domain.Recipe, error) {
	if rc, err := repo.Recipe(ref); err == nil {
		return rc, nil
	}
	for _, rc := range repo.Recipes() {
		if strings.EqualFold(rc.Name(), ref) {
			return rc, nil
		}
	}
	return nil, errors.Newf(errors.NotFound, "recipe %q not found", ref)
}

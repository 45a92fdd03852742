package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog/internal/errors"
)

// run executes the root command in a clean working directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, seedPath, logLevel, logFormat = "", "", "", ""
	renderFormat, renderOutput = "", ""
	formatsJSON = false
	seedDumpOutput = ""
	exportFormats, exportDir, exportS3Bucket, exportS3Prefix, exportCompression = "", "", "", "", ""
	configInitForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		args   []string
		prefix string
		want   string
	}{
		{"units csv", []string{"render", "units", "--format", "csv"}, "base_unit;factor;id;name\n", ";1000.0;"},
		{"groups default json", []string{"render", "groups"}, "[\n", `"name": "Vegetables"`},
		{"recipe ingredients", []string{"render", "ingredients", "Potato pancakes", "-f", "csv"}, "nomenclature;quantity;unit\n", "Potato;"},
		{"recipe steps", []string{"render", "steps", "carrot and apple salad", "-f", "markdown"}, "| description | step_number |\n", "| 6 |"},
		{"organization xml", []string{"render", "organization", "-f", "xml"}, `<?xml version="1.0" encoding="UTF-8"?>`, "<name>Romashka</name>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("render error = %v", err)
			}
			if !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("output does not start with %q:\n%s", tt.prefix, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRender_DefaultFormatFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_RESPONSE_DEFAULTFORMAT", "markdown")

	out, err := run(t, "render", "groups")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.HasPrefix(out, "| id | name |\n|---|---|\n") {
		t.Errorf("output = %q", out)
	}
}

func TestRender_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"unsupported format", []string{"render", "units", "--format", "yaml"}, errors.UnsupportedFormat},
		{"unknown dataset", []string{"render", "range_model"}, errors.NotFound},
		{"unknown recipe", []string{"render", "steps", "Borscht"}, errors.NotFound},
		{"missing recipe", []string{"render", "steps"}, errors.ArgumentInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); !errors.IsCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRender_OutputFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := run(t, "render", "nomenclature", "-f", "json", "-o", filepath.Join("docs", "items.json")); err != nil {
		t.Fatalf("render error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "docs", "items.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var rows []map[string]string
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) != 12 {
		t.Errorf("rows = %d, want 12", len(rows))
	}
}

func TestFormats(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "formats", "--json")
	if err != nil {
		t.Fatalf("formats error = %v", err)
	}
	var resp struct {
		SupportedFormats []string `json:"supportedFormats"`
		DefaultFormat    string   `json:"defaultFormat"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if resp.DefaultFormat != "json" || len(resp.SupportedFormats) != 4 {
		t.Errorf("formats = %+v", resp)
	}

	out, err = run(t, "formats")
	if err != nil {
		t.Fatalf("formats error = %v", err)
	}
	if !strings.Contains(out, "* json") {
		t.Errorf("default format not marked:\n%s", out)
	}
}

func TestSeedDumpAndLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fixture := filepath.Join(dir, "catalog.toml")

	if _, err := run(t, "seed", "dump", "--output", fixture); err != nil {
		t.Fatalf("seed dump error = %v", err)
	}

	out, err := run(t, "--seed", fixture, "render", "recipes", "-f", "csv")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Potato pancakes") || !strings.Contains(out, "Carrot and apple salad") {
		t.Errorf("recipes from fixture:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "export", "--format", "csv,markdown", "--dir", "out")
	if err != nil {
		t.Fatalf("export error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "10 written, 0 failed") {
		t.Errorf("summary missing:\n%s", out)
	}
	for _, name := range []string{"units.csv", "recipes.md", "organization.csv"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	if _, err := run(t, "export", "--format", "pdf"); !errors.IsCode(err, errors.UnsupportedFormat) {
		t.Errorf("export --format pdf error = %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CATALOG_SERVER_TOKENHASH", "$2a$12$secret")

	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if strings.Contains(out, "secret") || !strings.Contains(out, `"tokenHash": "********"`) {
		t.Errorf("token hash not masked:\n%s", out)
	}

	if _, err := run(t, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "catalog.json")); err != nil {
		t.Fatalf("catalog.json not written: %v", err)
	}
	if _, err := run(t, "config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}
	if _, err := run(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}
}

func TestTokenNew(t *testing.T) {
	out, err := run(t, "token", "new")
	if err != nil {
		t.Fatalf("token new error = %v", err)
	}
	if !strings.Contains(out, "Token:      cat_sk_") || !strings.Contains(out, "CATALOG_SERVER_TOKENHASH") {
		t.Errorf("output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "catalog version ") {
		t.Errorf("output = %q", out)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" csv, ,json,")
	if len(got) != 2 || got[0] != "csv" || got[1] != "json" {
		t.Errorf("splitList() = %v", got)
	}
}

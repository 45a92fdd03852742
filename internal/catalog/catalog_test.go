package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"catalog/internal/errors"
	"catalog/internal/fields"
)

func TestDefaultRepository(t *testing.T) {
	r, err := NewDefaultRepository()
	if err != nil {
		t.Fatalf("NewDefaultRepository() error = %v", err)
	}

	want := map[string]int{KeyUnits: 8, KeyGroups: 7, KeyNomenclature: 12, KeyRecipes: 2}
	for key, n := range r.Counts() {
		if n != want[key] {
			t.Errorf("%s count = %d, want %d", key, n, want[key])
		}
	}

	kg := r.UnitByName("kilogram")
	if kg == nil || kg.BaseUnit() != r.UnitByName("gram") {
		t.Error("kilogram should reference gram as its base unit")
	}

	recipes := r.Recipes()
	if got := len(recipes[0].Ingredients()); got != 7 {
		t.Errorf("first recipe ingredients = %d, want 7", got)
	}
	if got := len(recipes[1].Steps()); got != 6 {
		t.Errorf("second recipe steps = %d, want 6", got)
	}
}

func TestDefaultRepository_SharedReferences(t *testing.T) {
	r, _ := NewDefaultRepository()

	potato := r.NomenclatureByName("Potato")
	first := r.Recipes()[0].Ingredients()[0]
	if first.Nomenclature() != potato {
		t.Error("recipe ingredient should reference the stored nomenclature item")
	}
}

func TestDataset(t *testing.T) {
	r, _ := NewDefaultRepository()

	for _, key := range Keys() {
		ds, err := r.Dataset(key)
		if err != nil {
			t.Fatalf("Dataset(%s) error = %v", key, err)
		}
		if len(ds) != r.Counts()[key] {
			t.Errorf("Dataset(%s) len = %d", key, len(ds))
		}
	}

	units, _ := r.Dataset(KeyUnits)
	if v := fields.Value(units[1], "base_unit"); v != "gram" {
		t.Errorf("kilogram base_unit = %q, want gram", v)
	}

	if _, err := r.Dataset("range_model"); !errors.IsCode(err, errors.NotFound) {
		t.Errorf("Dataset(range_model) error = %v, want %s", err, errors.NotFound)
	}
}

func TestRecipeLookups(t *testing.T) {
	r, _ := NewDefaultRepository()
	id := r.Recipes()[1].ID()

	ings, err := r.RecipeIngredients(id)
	if err != nil || len(ings) != 5 {
		t.Errorf("RecipeIngredients() = %d, %v", len(ings), err)
	}
	steps, err := r.RecipeSteps(id)
	if err != nil || len(steps) != 6 {
		t.Errorf("RecipeSteps() = %d, %v", len(steps), err)
	}
	if v := fields.Value(steps[0], "step_number"); v != "1" {
		t.Errorf("step_number = %q, want 1", v)
	}

	if _, err := r.Recipe("missing"); !errors.IsCode(err, errors.NotFound) {
		t.Errorf("Recipe(missing) error = %v, want %s", err, errors.NotFound)
	}
}

const yamlFixture = `
units:
  - name: kilogram
    factor: 1000
    base: gram
  - name: gram
    factor: 1
groups:
  - Grocery
nomenclature:
  - name: Flour
    fullName: Wheat flour
    group: Grocery
    unit: gram
recipes:
  - name: Flatbread
    portions: 2
    cookingTime: 10 min
    ingredients:
      - nomenclature: Flour
        quantity: 200
        unit: gram
    steps:
      - Mix flour with water.
      - Fry on a dry pan.
`

func TestParse_YAML(t *testing.T) {
	fx, err := Parse([]byte(yamlFixture), ".yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := NewRepository()
	if err := Seed(r, FileSeeder{Fixture: fx}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if kg := r.UnitByName("kilogram"); kg == nil || kg.BaseUnit() == nil || kg.BaseUnit().Name() != "gram" {
		t.Error("base unit declared later should still resolve")
	}
	rc := r.Recipes()[0]
	if len(rc.Ingredients()) != 1 || len(rc.Steps()) != 2 {
		t.Errorf("recipe has %d ingredients, %d steps", len(rc.Ingredients()), len(rc.Steps()))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"yaml unknown key", "units:\n  - name: gram\n    factr: 1\n", "yml"},
		{"toml unknown key", "colour = 'red'\n", "toml"},
		{"json unknown key", `{"unitz": []}`, "json"},
		{"bad syntax", `{`, "json"},
		{"unsupported ext", "", "ini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.ext); !errors.IsCode(err, errors.ArgumentInvalid) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ArgumentInvalid)
			}
		})
	}
}

func TestFileSeeder_UnknownReference(t *testing.T) {
	tests := []struct {
		name string
		fx   Fixture
	}{
		{"unit base", Fixture{Units: []UnitEntry{{Name: "kilogram", Factor: 1000, Base: "gram"}}}},
		{"nomenclature group", Fixture{Nomenclature: []NomenclatureEntry{{Name: "Flour", Group: "Grocery"}}}},
		{"ingredient", Fixture{Recipes: []RecipeEntry{{
			Name: "Toast", Portions: 1,
			Ingredients: []IngredientEntry{{Nomenclature: "Bread", Quantity: 1, Unit: "piece"}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := tt.fx
			err := Seed(NewRepository(), FileSeeder{Fixture: &fx})
			if !errors.IsCode(err, errors.ArgumentInvalid) {
				t.Errorf("Seed() error = %v, want %s", err, errors.ArgumentInvalid)
			}
		})
	}
}

func TestDump_RoundTrip(t *testing.T) {
	orig, _ := NewDefaultRepository()

	data, err := Dump(orig)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loaded, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v\n%s", err, data)
	}

	for key, n := range orig.Counts() {
		if loaded.Counts()[key] != n {
			t.Errorf("%s count = %d, want %d", key, loaded.Counts()[key], n)
		}
	}

	got := FixtureOf(loaded)
	want := FixtureOf(orig)
	if got.Recipes[0].Ingredients[4].Quantity != want.Recipes[0].Ingredients[4].Quantity {
		t.Errorf("quantity = %v, want %v", got.Recipes[0].Ingredients[4].Quantity, want.Recipes[0].Ingredients[4].Quantity)
	}
	if got.Units[1].Base != "gram" {
		t.Errorf("kilogram base = %q, want gram", got.Units[1].Base)
	}
}

func TestNewFileRepository_Missing(t *testing.T) {
	if _, err := NewFileRepository(filepath.Join(t.TempDir(), "absent.yaml")); !errors.IsCode(err, errors.NotFound) {
		t.Errorf("error = %v, want %s", err, errors.NotFound)
	}
}

package domain

import (
	"strings"
	"testing"

	"catalog/internal/errors"
	"catalog/internal/fields"
)

func mustUnit(t *testing.T, name string, factor float64, base *Unit) *Unit {
	t.Helper()
	u, err := NewUnit(name, factor, base)
	if err != nil {
		t.Fatalf("NewUnit(%q) error = %v", name, err)
	}
	return u
}

func TestNewUnit(t *testing.T) {
	gram := mustUnit(t, "gram", 1, nil)
	kg := mustUnit(t, "  kilogram ", 1000, gram)

	if kg.Name() != "kilogram" {
		t.Errorf("Name() = %q, want trimmed %q", kg.Name(), "kilogram")
	}
	if kg.BaseUnit() != gram {
		t.Error("BaseUnit() did not return the base unit")
	}
	if kg.ID() == "" || kg.ID() == gram.ID() {
		t.Errorf("expected distinct non-empty ids, got %q and %q", kg.ID(), gram.ID())
	}
}

func TestNewUnit_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		unit   string
		factor float64
	}{
		{"empty name", "   ", 1},
		{"long name", strings.Repeat("x", 51), 1},
		{"zero factor", "gram", 0},
		{"negative factor", "gram", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUnit(tt.unit, tt.factor, nil)
			if !errors.IsCode(err, errors.ArgumentInvalid) {
				t.Errorf("NewUnit() error = %v, want %s", err, errors.ArgumentInvalid)
			}
		})
	}
}

func TestUnit_SelfBase(t *testing.T) {
	u := mustUnit(t, "gram", 1, nil)
	if err := u.SetBaseUnit(u); err == nil {
		t.Error("expected error when a unit is its own base")
	}
}

func TestNameLengthCountsRunes(t *testing.T) {
	name := strings.Repeat("г", 50)
	if _, err := NewNomenclatureGroup(name); err != nil {
		t.Errorf("50-rune name rejected: %v", err)
	}
}

func TestEqual(t *testing.T) {
	a, _ := NewNomenclatureGroup("Dairy")
	b, _ := NewNomenclatureGroup("Dairy")

	if Equal(a, b) {
		t.Error("records with the same name but different ids should differ")
	}
	if err := b.SetID(a.ID()); err != nil {
		t.Fatalf("SetID() error = %v", err)
	}
	if !Equal(a, b) {
		t.Error("records with the same id should be equal")
	}
	if Equal(a, nil) {
		t.Error("Equal(a, nil) should be false")
	}
}

func TestNomenclatureFields(t *testing.T) {
	gram := mustUnit(t, "gram", 1, nil)
	group, _ := NewNomenclatureGroup("Grocery")
	flour, err := NewNomenclature("Flour", "Wheat flour", group, gram)
	if err != nil {
		t.Fatalf("NewNomenclature() error = %v", err)
	}

	want := []string{"full_name", "group", "id", "name", "unit"}
	got := fields.Names(flour)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if v := fields.Value(flour, "unit"); v != "gram" {
		t.Errorf("unit = %q, want %q", v, "gram")
	}
	if v := fields.Value(flour, "group"); v != "Grocery" {
		t.Errorf("group = %q, want %q", v, "Grocery")
	}
}

func TestNomenclature_FullNameTooLong(t *testing.T) {
	_, err := NewNomenclature("Flour", strings.Repeat("x", 256), nil, nil)
	if !errors.IsCode(err, errors.ArgumentInvalid) {
		t.Errorf("error = %v, want %s", err, errors.ArgumentInvalid)
	}
}

func TestUnitFields_BaseUnitFlattened(t *testing.T) {
	gram := mustUnit(t, "gram", 1, nil)
	kg := mustUnit(t, "kilogram", 1000, gram)

	if v := fields.Value(kg, "base_unit"); v != "gram" {
		t.Errorf("base_unit = %q, want %q", v, "gram")
	}
	if v := fields.Value(gram, "base_unit"); v != "" {
		t.Errorf("base_unit of base = %q, want empty", v)
	}
	if v := fields.Value(kg, "factor"); v != "1000.0" {
		t.Errorf("factor = %q, want %q", v, "1000.0")
	}
}

func TestRecipe(t *testing.T) {
	gram := mustUnit(t, "gram", 1, nil)
	flour, _ := NewNomenclature("Flour", "Wheat flour", nil, gram)

	r, err := NewRecipe("Waffles", 10, "20 min")
	if err != nil {
		t.Fatalf("NewRecipe() error = %v", err)
	}
	in, err := NewIngredient(flour, 100, gram)
	if err != nil {
		t.Fatalf("NewIngredient() error = %v", err)
	}
	if err := r.AddIngredient(in); err != nil {
		t.Fatalf("AddIngredient() error = %v", err)
	}
	for i, text := range []string{"Mix", "Bake"} {
		step, err := NewCookingStep(i+1, text)
		if err != nil {
			t.Fatalf("NewCookingStep() error = %v", err)
		}
		if err := r.AddStep(step); err != nil {
			t.Fatalf("AddStep() error = %v", err)
		}
	}

	if v := fields.Value(r, "ingredient_count"); v != "1" {
		t.Errorf("ingredient_count = %q, want 1", v)
	}
	if v := fields.Value(r, "step_count"); v != "2" {
		t.Errorf("step_count = %q, want 2", v)
	}
	if in.DisplayName() != "Flour - 100.0 gram" {
		t.Errorf("ingredient DisplayName() = %q", in.DisplayName())
	}
	if got := r.Steps()[1].DisplayName(); got != "2. Bake" {
		t.Errorf("step DisplayName() = %q", got)
	}

	steps := r.Steps()
	steps[0] = nil
	if r.Steps()[0] == nil {
		t.Error("Steps() should return a copy")
	}
}

func TestRecipe_StepOrder(t *testing.T) {
	r, _ := NewRecipe("Waffles", 1, "")
	two, _ := NewCookingStep(2, "Bake")
	one, _ := NewCookingStep(1, "Mix")

	if err := r.AddStep(two); err != nil {
		t.Fatalf("AddStep(2) error = %v", err)
	}
	if err := r.AddStep(one); err == nil {
		t.Error("expected error adding step 1 after step 2")
	}
}

func TestRecipe_Invalid(t *testing.T) {
	if _, err := NewRecipe("Waffles", 0, ""); err == nil {
		t.Error("expected error for zero portions")
	}
	if _, err := NewRecipe("Waffles", 1, strings.Repeat("x", 51)); err == nil {
		t.Error("expected error for long cooking time")
	}
	if _, err := NewIngredient(nil, 1, nil); err == nil {
		t.Error("expected error for missing nomenclature")
	}
	if _, err := NewCookingStep(0, "Mix"); err == nil {
		t.Error("expected error for step number 0")
	}
	if _, err := NewCookingStep(1, strings.Repeat("x", 501)); err == nil {
		t.Error("expected error for long description")
	}
}

func TestNewCompany(t *testing.T) {
	c, err := NewCompany(CompanyInfo{
		Name:                 "Romashka",
		INN:                  "380080920202",
		Account:              "40702810000",
		CorrespondentAccount: "30101810000",
		BIK:                  "042520849",
		OwnershipType:        "OOO",
	})
	if err != nil {
		t.Fatalf("NewCompany() error = %v", err)
	}
	if v := fields.Value(c, "correspondent_account"); v != "30101810000" {
		t.Errorf("correspondent_account = %q", v)
	}
}

func TestNewCompany_Invalid(t *testing.T) {
	tests := []struct {
		name string
		info CompanyInfo
	}{
		{"short inn", CompanyInfo{Name: "A", INN: "123"}},
		{"letters in bik", CompanyInfo{Name: "A", BIK: "04252084x"}},
		{"long account", CompanyInfo{Name: "A", Account: "123456789012"}},
		{"long ownership", CompanyInfo{Name: "A", OwnershipType: "LIMITED"}},
		{"no name", CompanyInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCompany(tt.info); !errors.IsCode(err, errors.ArgumentInvalid) {
				t.Errorf("NewCompany() error = %v, want %s", err, errors.ArgumentInvalid)
			}
		})
	}
}

package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"catalog/internal/domain"
	"catalog/internal/errors"
)

// Fixture is the file representation of a catalog. References between
// records are by name.
type Fixture struct {
	Units        []UnitEntry         `json:"units" yaml:"units" toml:"units"`
	Groups       []string            `json:"groups" yaml:"groups" toml:"groups"`
	Nomenclature []NomenclatureEntry `json:"nomenclature" yaml:"nomenclature" toml:"nomenclature"`
	Recipes      []RecipeEntry       `json:"recipes" yaml:"recipes" toml:"recipes"`
}

// UnitEntry describes a unit. Base names another unit of the fixture.
type UnitEntry struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Factor float64 `json:"factor" yaml:"factor" toml:"factor"`
	Base   string  `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
}

// NomenclatureEntry describes a product.
type NomenclatureEntry struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	FullName string `json:"fullName,omitempty" yaml:"fullName,omitempty" toml:"fullName,omitempty"`
	Group    string `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
	Unit     string `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
}

// RecipeEntry describes a recipe. Steps are numbered from 1 in order.
type RecipeEntry struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Portions    int               `json:"portions" yaml:"portions" toml:"portions"`
	CookingTime string            `json:"cookingTime,omitempty" yaml:"cookingTime,omitempty" toml:"cookingTime,omitempty"`
	Ingredients []IngredientEntry `json:"ingredients,omitempty" yaml:"ingredients,omitempty" toml:"ingredients,omitempty"`
	Steps       []string          `json:"steps,omitempty" yaml:"steps,omitempty" toml:"steps,omitempty"`
}

// IngredientEntry describes one recipe ingredient.
type IngredientEntry struct {
	Nomenclature string  `json:"nomenclature" yaml:"nomenclature" toml:"nomenclature"`
	Quantity     float64 `json:"quantity" yaml:"quantity" toml:"quantity"`
	Unit         string  `json:"unit" yaml:"unit" toml:"unit"`
}

// LoadFile reads a fixture, choosing the decoder by extension:
// .yaml/.yml, .toml or .json.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.NotFound, "read catalog file", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes fixture data in the format named by ext (with or without
// the leading dot). Unknown keys are rejected.
func Parse(data []byte, ext string) (*Fixture, error) {
	var fx Fixture

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fx); err != nil {
			return nil, errors.Wrap(errors.ArgumentInvalid, "decode yaml catalog", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), &fx)
		if err != nil {
			return nil, errors.Wrap(errors.ArgumentInvalid, "decode toml catalog", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Newf(errors.ArgumentInvalid, "unknown key %q in toml catalog", undecoded[0].String())
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fx); err != nil {
			return nil, errors.Wrap(errors.ArgumentInvalid, "decode json catalog", err)
		}
	default:
		return nil, errors.Newf(errors.ArgumentInvalid, "unsupported catalog file type %q (want yaml, toml or json)", ext)
	}
	return &fx, nil
}

// FileSeeder seeds a repository from a Fixture. Every reference must name a
// record defined in the fixture.
type FileSeeder struct {
	Fixture *Fixture
}

// NewFileRepository loads path and returns the seeded repository.
func NewFileRepository(path string) (*Repository, error) {
	fx, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	r := NewRepository()
	if err := Seed(r, FileSeeder{Fixture: fx}); err != nil {
		return nil, err
	}
	return r, nil
}

func unknownRef(kind, name, from string) error {
	return errors.Newf(errors.ArgumentInvalid, "%s references unknown %s %q", from, kind, name)
}

// SeedUnits implements Seeder. Base units may be declared after the units
// that reference them.
func (s FileSeeder) SeedUnits(r *Repository) error {
	created := make([]*domain.Unit, len(s.Fixture.Units))
	byName := make(map[string]*domain.Unit, len(s.Fixture.Units))
	for i, entry := range s.Fixture.Units {
		u, err := domain.NewUnit(entry.Name, entry.Factor, nil)
		if err != nil {
			return err
		}
		created[i] = u
		byName[u.Name()] = u
	}
	for i, entry := range s.Fixture.Units {
		if entry.Base == "" {
			continue
		}
		base, ok := byName[strings.TrimSpace(entry.Base)]
		if !ok {
			return unknownRef("unit", entry.Base, "unit "+entry.Name)
		}
		if err := created[i].SetBaseUnit(base); err != nil {
			return err
		}
	}
	for _, u := range created {
		r.AddUnit(u)
	}
	return nil
}

// SeedGroups implements Seeder.
func (s FileSeeder) SeedGroups(r *Repository) error {
	for _, name := range s.Fixture.Groups {
		g, err := domain.NewNomenclatureGroup(name)
		if err != nil {
			return err
		}
		r.AddGroup(g)
	}
	return nil
}

// SeedNomenclature implements Seeder.
func (s FileSeeder) SeedNomenclature(r *Repository) error {
	for _, entry := range s.Fixture.Nomenclature {
		var group *domain.NomenclatureGroup
		if entry.Group != "" {
			if group = r.GroupByName(entry.Group); group == nil {
				return unknownRef("group", entry.Group, "nomenclature "+entry.Name)
			}
		}
		var unit *domain.Unit
		if entry.Unit != "" {
			if unit = r.UnitByName(entry.Unit); unit == nil {
				return unknownRef("unit", entry.Unit, "nomenclature "+entry.Name)
			}
		}
		n, err := domain.NewNomenclature(entry.Name, entry.FullName, group, unit)
		if err != nil {
			return err
		}
		r.AddNomenclature(n)
	}
	return nil
}

// SeedRecipes implements Seeder.
func (s FileSeeder) SeedRecipes(r *Repository) error {
	for _, entry := range s.Fixture.Recipes {
		rc, err := domain.NewRecipe(entry.Name, entry.Portions, entry.CookingTime)
		if err != nil {
			return err
		}
		for _, is := range entry.Ingredients {
			n := r.NomenclatureByName(is.Nomenclature)
			if n == nil {
				return unknownRef("nomenclature", is.Nomenclature, "recipe "+entry.Name)
			}
			u := r.UnitByName(is.Unit)
			if u == nil {
				return unknownRef("unit", is.Unit, "recipe "+entry.Name)
			}
			in, err := domain.NewIngredient(n, is.Quantity, u)
			if err != nil {
				return err
			}
			if err := rc.AddIngredient(in); err != nil {
				return err
			}
		}
		for i, text := range entry.Steps {
			step, err := domain.NewCookingStep(i+1, text)
			if err != nil {
				return err
			}
			if err := rc.AddStep(step); err != nil {
				return err
			}
		}
		r.AddRecipe(rc)
	}
	return nil
}

// FixtureOf converts the repository contents back to a Fixture.
func FixtureOf(r *Repository) *Fixture {
	fx := &Fixture{}
	for _, u := range r.Units() {
		entry := UnitEntry{Name: u.Name(), Factor: u.Factor()}
		if b := u.BaseUnit(); b != nil {
			entry.Base = b.Name()
		}
		fx.Units = append(fx.Units, entry)
	}
	for _, g := range r.Groups() {
		fx.Groups = append(fx.Groups, g.Name())
	}
	for _, n := range r.Nomenclature() {
		entry := NomenclatureEntry{Name: n.Name(), FullName: n.FullName()}
		if g := n.Group(); g != nil {
			entry.Group = g.Name()
		}
		if u := n.Unit(); u != nil {
			entry.Unit = u.Name()
		}
		fx.Nomenclature = append(fx.Nomenclature, entry)
	}
	for _, rc := range r.Recipes() {
		entry := RecipeEntry{Name: rc.Name(), Portions: rc.Portions(), CookingTime: rc.CookingTime()}
		for _, in := range rc.Ingredients() {
			entry.Ingredients = append(entry.Ingredients, IngredientEntry{
				Nomenclature: in.Nomenclature().Name(),
				Quantity:     in.Quantity(),
				Unit:         in.Unit().Name(),
			})
		}
		for _, st := range rc.Steps() {
			entry.Steps = append(entry.Steps, st.Description())
		}
		fx.Recipes = append(fx.Recipes, entry)
	}
	return fx
}

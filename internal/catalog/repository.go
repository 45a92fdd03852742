// Package catalog holds the in-memory catalog datasets and the seeders that
// populate them.
package catalog

import (
	"sync"

	"catalog/internal/domain"
	"catalog/internal/errors"
	"catalog/internal/fields"
)

// Dataset keys.
const (
	KeyUnits        = "units"
	KeyGroups       = "groups"
	KeyNomenclature = "nomenclature"
	KeyRecipes      = "recipes"
)

// Keys returns the dataset keys in presentation order.
func Keys() []string {
	return []string{KeyUnits, KeyGroups, KeyNomenclature, KeyRecipes}
}

// Repository stores catalog records in insertion order. It is safe for
// concurrent use.
type Repository struct {
	mu           sync.RWMutex
	units        []*domain.Unit
	groups       []*domain.NomenclatureGroup
	nomenclature []*domain.Nomenclature
	recipes      []*domain.Recipe
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// AddUnit stores a unit.
func (r *Repository) AddUnit(u *domain.Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = append(r.units, u)
}

// AddGroup stores a nomenclature group.
func (r *Repository) AddGroup(g *domain.NomenclatureGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, g)
}

// AddNomenclature stores a nomenclature item.
func (r *Repository) AddNomenclature(n *domain.Nomenclature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nomenclature = append(r.nomenclature, n)
}

// AddRecipe stores a recipe.
func (r *Repository) AddRecipe(rc *domain.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = append(r.recipes, rc)
}

// Units returns a copy of the stored units.
func (r *Repository) Units() []*domain.Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.Unit(nil), r.units...)
}

// Groups returns a copy of the stored groups.
func (r *Repository) Groups() []*domain.NomenclatureGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.NomenclatureGroup(nil), r.groups...)
}

// Nomenclature returns a copy of the stored nomenclature items.
func (r *Repository) Nomenclature() []*domain.Nomenclature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.Nomenclature(nil), r.nomenclature...)
}

// Recipes returns a copy of the stored recipes.
func (r *Repository) Recipes() []*domain.Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.Recipe(nil), r.recipes...)
}

// UnitByName returns the first unit named name, or nil.
func (r *Repository) UnitByName(name string) *domain.Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.units {
		if u.Name() == name {
			return u
		}
	}
	return nil
}

// GroupByName returns the first group named name, or nil.
func (r *Repository) GroupByName(name string) *domain.NomenclatureGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.groups {
		if g.Name() == name {
			return g
		}
	}
	return nil
}

// NomenclatureByName returns the first item named name, or nil.
func (r *Repository) NomenclatureByName(name string) *domain.Nomenclature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.nomenclature {
		if n.Name() == name {
			return n
		}
	}
	return nil
}

// Recipe returns the recipe with the given id.
func (r *Repository) Recipe(id string) (*domain.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rc := range r.recipes {
		if rc.ID() == id {
			return rc, nil
		}
	}
	return nil, errors.Newf(errors.NotFound, "recipe %q not found", id)
}

// Dataset returns the records stored under key, ready for an encoder.
func (r *Repository) Dataset(key string) ([]fields.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch key {
	case KeyUnits:
		return entities(r.units), nil
	case KeyGroups:
		return entities(r.groups), nil
	case KeyNomenclature:
		return entities(r.nomenclature), nil
	case KeyRecipes:
		return entities(r.recipes), nil
	}
	return nil, errors.Newf(errors.NotFound, "unknown dataset %q", key).
		WithDetails(map[string]interface{}{"datasets": Keys()})
}

// RecipeIngredients returns the ingredients of a recipe as records.
func (r *Repository) RecipeIngredients(id string) ([]fields.Entity, error) {
	rc, err := r.Recipe(id)
	if err != nil {
		return nil, err
	}
	return entities(rc.Ingredients()), nil
}

// RecipeSteps returns the cooking steps of a recipe as records.
func (r *Repository) RecipeSteps(id string) ([]fields.Entity, error) {
	rc, err := r.Recipe(id)
	if err != nil {
		return nil, err
	}
	return entities(rc.Steps()), nil
}

// Counts returns the number of records per dataset key.
func (r *Repository) Counts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]int{
		KeyUnits:        len(r.units),
		KeyGroups:       len(r.groups),
		KeyNomenclature: len(r.nomenclature),
		KeyRecipes:      len(r.recipes),
	}
}

func entities[T fields.Entity](items []T) []fields.Entity {
	out := make([]fields.Entity, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

package catalog

import (
	"catalog/internal/domain"
	"catalog/internal/errors"
)

// Seeder creates catalog data in four ordered stages. Later stages may
// reference records created by earlier ones.
type Seeder interface {
	SeedUnits(r *Repository) error
	SeedGroups(r *Repository) error
	SeedNomenclature(r *Repository) error
	SeedRecipes(r *Repository) error
}

// Seed runs every stage of s against r.
func Seed(r *Repository, s Seeder) error {
	stages := []struct {
		name string
		run  func(*Repository) error
	}{
		{KeyUnits, s.SeedUnits},
		{KeyGroups, s.SeedGroups},
		{KeyNomenclature, s.SeedNomenclature},
		{KeyRecipes, s.SeedRecipes},
	}
	for _, st := range stages {
		if err := st.run(r); err != nil {
			if errors.CodeOf(err) == errors.InternalError {
				return errors.Wrap(errors.InternalError, "seed "+st.name, err)
			}
			return err
		}
	}
	return nil
}

// findOrCreateUnit returns the unit named name, creating and storing a base
// unit with the given factor when it does not exist.
func findOrCreateUnit(r *Repository, name string, factor float64) (*domain.Unit, error) {
	if u := r.UnitByName(name); u != nil {
		return u, nil
	}
	u, err := domain.NewUnit(name, factor, nil)
	if err != nil {
		return nil, err
	}
	r.AddUnit(u)
	return u, nil
}

func findOrCreateGroup(r *Repository, name string) (*domain.NomenclatureGroup, error) {
	if g := r.GroupByName(name); g != nil {
		return g, nil
	}
	g, err := domain.NewNomenclatureGroup(name)
	if err != nil {
		return nil, err
	}
	r.AddGroup(g)
	return g, nil
}

func findOrCreateNomenclature(r *Repository, name string) (*domain.Nomenclature, error) {
	if n := r.NomenclatureByName(name); n != nil {
		return n, nil
	}
	n, err := domain.NewNomenclature(name, name, nil, nil)
	if err != nil {
		return nil, err
	}
	r.AddNomenclature(n)
	return n, nil
}

package catalog

import (
	"catalog/internal/domain"
)

// DefaultSeeder creates the built-in reference catalog: basic units of
// measure, product groups, a dozen products and two recipes.
type DefaultSeeder struct{}

// NewDefaultRepository returns a repository populated by DefaultSeeder.
func NewDefaultRepository() (*Repository, error) {
	r := NewRepository()
	if err := Seed(r, DefaultSeeder{}); err != nil {
		return nil, err
	}
	return r, nil
}

// SeedUnits implements Seeder.
func (DefaultSeeder) SeedUnits(r *Repository) error {
	gram, err := domain.NewUnit("gram", 1, nil)
	if err != nil {
		return err
	}
	piece, err := domain.NewUnit("piece", 1, nil)
	if err != nil {
		return err
	}
	ml, err := domain.NewUnit("milliliter", 1, nil)
	if err != nil {
		return err
	}

	derived := []struct {
		name   string
		factor float64
		base   *domain.Unit
	}{
		{"kilogram", 1000, gram},
		{"liter", 1000, ml},
		{"tablespoon", 15, gram},
		{"teaspoon", 5, gram},
		{"pinch", 1, gram},
	}

	units := []*domain.Unit{gram}
	for i, d := range derived {
		u, err := domain.NewUnit(d.name, d.factor, d.base)
		if err != nil {
			return err
		}
		units = append(units, u)
		if i == 0 {
			units = append(units, piece, ml)
		}
	}
	for _, u := range units {
		r.AddUnit(u)
	}
	return nil
}

// SeedGroups implements Seeder.
func (DefaultSeeder) SeedGroups(r *Repository) error {
	for _, name := range []string{
		"Flour products",
		"Dairy products",
		"Vegetables",
		"Fruits",
		"Meat products",
		"Spices and seasonings",
		"Beverages",
	} {
		g, err := domain.NewNomenclatureGroup(name)
		if err != nil {
			return err
		}
		r.AddGroup(g)
	}
	return nil
}

// SeedNomenclature implements Seeder.
func (DefaultSeeder) SeedNomenclature(r *Repository) error {
	items := []struct {
		name, fullName, group, unit string
	}{
		{"Wheat flour", "Wheat flour, premium grade", "Flour products", "gram"},
		{"Sugar", "White crystal sugar", "Spices and seasonings", "gram"},
		{"Potato", "Young potato", "Vegetables", "piece"},
		{"Onion", "Golden onion", "Vegetables", "piece"},
		{"Carrot", "Table carrot", "Vegetables", "piece"},
		{"Dill", "Fresh dill", "Vegetables", "gram"},
		{"Butter", "Butter 82.5%", "Dairy products", "gram"},
		{"Sour cream", "Sour cream 20%", "Dairy products", "gram"},
		{"Eggs", "Chicken eggs C0", "Dairy products", "piece"},
		{"Salt", "Table salt", "Spices and seasonings", "teaspoon"},
		{"Black pepper", "Ground black pepper", "Spices and seasonings", "pinch"},
		{"Apples", "Green apples", "Fruits", "piece"},
	}

	for _, it := range items {
		group, err := findOrCreateGroup(r, it.group)
		if err != nil {
			return err
		}
		unit, err := findOrCreateUnit(r, it.unit, 1)
		if err != nil {
			return err
		}
		n, err := domain.NewNomenclature(it.name, it.fullName, group, unit)
		if err != nil {
			return err
		}
		r.AddNomenclature(n)
	}
	return nil
}

type ingredientSeed struct {
	nomenclature string
	quantity     float64
	unit         string
}

type recipeSeed struct {
	name        string
	portions    int
	cookingTime string
	ingredients []ingredientSeed
	steps       []string
}

var defaultRecipes = []recipeSeed{
	{
		name:        "Potato pancakes",
		portions:    4,
		cookingTime: "30 min",
		ingredients: []ingredientSeed{
			{"Potato", 500, "gram"},
			{"Onion", 1, "piece"},
			{"Eggs", 1, "piece"},
			{"Wheat flour", 2, "tablespoon"},
			{"Salt", 0.5, "teaspoon"},
			{"Black pepper", 2, "pinch"},
			{"Butter", 50, "gram"},
		},
		steps: []string{
			"Peel the potatoes and onion. Grate the potatoes finely and grate or blend the onion.",
			"Squeeze excess liquid from the potato mass. Add the egg, flour, salt and pepper. Mix well.",
			"Heat a frying pan with oil. Spoon the batter into the pan, forming pancakes.",
			"Fry over medium heat for 3-4 minutes per side until golden.",
			"Serve hot with sour cream.",
		},
	},
	{
		name:        "Carrot and apple salad",
		portions:    2,
		cookingTime: "15 min",
		ingredients: []ingredientSeed{
			{"Carrot", 2, "piece"},
			{"Apples", 2, "piece"},
			{"Sour cream", 100, "gram"},
			{"Sugar", 1, "tablespoon"},
			{"Dill", 10, "gram"},
		},
		steps: []string{
			"Peel the carrots and grate them coarsely.",
			"Wash the apples, remove peel and core, and grate them coarsely.",
			"Finely chop the dill.",
			"Combine carrots, apples and dill in a salad bowl.",
			"Dress with sour cream, add sugar and stir gently.",
			"Serve immediately.",
		},
	},
}

// SeedRecipes implements Seeder.
func (DefaultSeeder) SeedRecipes(r *Repository) error {
	for _, rs := range defaultRecipes {
		rc, err := buildRecipe(r, rs)
		if err != nil {
			return err
		}
		r.AddRecipe(rc)
	}
	return nil
}

func buildRecipe(r *Repository, rs recipeSeed) (*domain.Recipe, error) {
	rc, err := domain.NewRecipe(rs.name, rs.portions, rs.cookingTime)
	if err != nil {
		return nil, err
	}
	for _, is := range rs.ingredients {
		n, err := findOrCreateNomenclature(r, is.nomenclature)
		if err != nil {
			return nil, err
		}
		u, err := findOrCreateUnit(r, is.unit, 1)
		if err != nil {
			return nil, err
		}
		in, err := domain.NewIngredient(n, is.quantity, u)
		if err != nil {
			return nil, err
		}
		if err := rc.AddIngredient(in); err != nil {
			return nil, err
		}
	}
	for i, text := range rs.steps {
		step, err := domain.NewCookingStep(i+1, text)
		if err != nil {
			return nil, err
		}
		if err := rc.AddStep(step); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

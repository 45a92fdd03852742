package domain

import (
	"fmt"
	"strconv"
	"strings"

	"catalog/internal/fields"
)

// Recipe is a dish with ingredients and ordered cooking steps.
type Recipe struct {
	record
	portions    int
	cookingTime string
	ingredients []*Ingredient
	steps       []*CookingStep
}

// NewRecipe creates a recipe without ingredients or steps.
func NewRecipe(name string, portions int, cookingTime string) (*Recipe, error) {
	rec, err := newRecord(name)
	if err != nil {
		return nil, err
	}
	r := &Recipe{record: rec}
	if err := r.SetPortions(portions); err != nil {
		return nil, err
	}
	if err := r.SetCookingTime(cookingTime); err != nil {
		return nil, err
	}
	return r, nil
}

// Portions returns the number of servings.
func (r *Recipe) Portions() int { return r.portions }

// SetPortions sets the number of servings; it must be positive.
func (r *Recipe) SetPortions(portions int) error {
	if portions <= 0 {
		return argumentError("portions must be a positive number")
	}
	r.portions = portions
	return nil
}

// CookingTime returns the approximate cooking time ("30 min").
func (r *Recipe) CookingTime() string { return r.cookingTime }

// SetCookingTime sets the cooking time (at most 50 characters).
func (r *Recipe) SetCookingTime(cookingTime string) error {
	cookingTime = strings.TrimSpace(cookingTime)
	if err := checkLength("cooking_time", cookingTime, 0, maxCookingTimeLength); err != nil {
		return err
	}
	r.cookingTime = cookingTime
	return nil
}

// AddIngredient appends an ingredient.
func (r *Recipe) AddIngredient(in *Ingredient) error {
	if in == nil {
		return argumentError("ingredient is required")
	}
	r.ingredients = append(r.ingredients, in)
	return nil
}

// AddStep appends a cooking step. Step numbers must increase.
func (r *Recipe) AddStep(step *CookingStep) error {
	if step == nil {
		return argumentError("cooking step is required")
	}
	if n := len(r.steps); n > 0 && step.number <= r.steps[n-1].number {
		return argumentError("step %d must follow step %d", step.number, r.steps[n-1].number)
	}
	r.steps = append(r.steps, step)
	return nil
}

// Ingredients returns a copy of the ingredient list.
func (r *Recipe) Ingredients() []*Ingredient {
	out := make([]*Ingredient, len(r.ingredients))
	copy(out, r.ingredients)
	return out
}

// Steps returns a copy of the cooking steps.
func (r *Recipe) Steps() []*CookingStep {
	out := make([]*CookingStep, len(r.steps))
	copy(out, r.steps)
	return out
}

// String renders "name (N portions, time)".
func (r *Recipe) String() string {
	return fmt.Sprintf("%s (%d portions, %s)", r.name, r.portions, r.cookingTime)
}

// Kind implements fields.Entity.
func (r *Recipe) Kind() string { return "Recipe" }

// Fields implements fields.Entity. Ingredient and step lists are exposed as
// counts; the lists themselves are served as separate datasets.
func (r *Recipe) Fields() []fields.Field {
	return append(r.identityFields(),
		fields.Field{Name: "cooking_time", Get: func() (any, error) { return r.cookingTime, nil }},
		fields.Field{Name: "ingredient_count", Get: func() (any, error) { return len(r.ingredients), nil }},
		fields.Field{Name: "portions", Get: func() (any, error) { return r.portions, nil }},
		fields.Field{Name: "step_count", Get: func() (any, error) { return len(r.steps), nil }},
	)
}

// Ingredient is a quantity of a nomenclature item used by a recipe.
type Ingredient struct {
	nomenclature *Nomenclature
	quantity     float64
	unit         *Unit
}

// NewIngredient creates an ingredient. Both references are required.
func NewIngredient(nomenclature *Nomenclature, quantity float64, unit *Unit) (*Ingredient, error) {
	if nomenclature == nil {
		return nil, argumentError("ingredient nomenclature is required")
	}
	if unit == nil {
		return nil, argumentError("ingredient unit is required")
	}
	if !(quantity > 0) {
		return nil, argumentError("quantity must be a positive number")
	}
	return &Ingredient{nomenclature: nomenclature, quantity: quantity, unit: unit}, nil
}

// Nomenclature returns the product.
func (i *Ingredient) Nomenclature() *Nomenclature { return i.nomenclature }

// Quantity returns the amount in Unit.
func (i *Ingredient) Quantity() float64 { return i.quantity }

// Unit returns the unit of the quantity.
func (i *Ingredient) Unit() *Unit { return i.unit }

// DisplayName renders "product - quantity unit".
func (i *Ingredient) DisplayName() string {
	return fmt.Sprintf("%s - %s %s", i.nomenclature.Name(), fields.Render(i.quantity), i.unit.Name())
}

// Kind implements fields.Entity.
func (i *Ingredient) Kind() string { return "Ingredient" }

// Fields implements fields.Entity.
func (i *Ingredient) Fields() []fields.Field {
	return []fields.Field{
		{Name: "nomenclature", Get: func() (any, error) { return fields.Ref(i.nomenclature), nil }},
		{Name: "quantity", Get: func() (any, error) { return i.quantity, nil }},
		{Name: "unit", Get: func() (any, error) { return fields.Ref(i.unit), nil }},
	}
}

// CookingStep is one numbered instruction of a recipe.
type CookingStep struct {
	number      int
	description string
}

// NewCookingStep creates a step. number must be positive.
func NewCookingStep(number int, description string) (*CookingStep, error) {
	if number <= 0 {
		return nil, argumentError("step number must be a positive number")
	}
	description = strings.TrimSpace(description)
	if err := checkLength("description", description, 0, maxDescriptionLength); err != nil {
		return nil, err
	}
	return &CookingStep{number: number, description: description}, nil
}

// Number returns the step position.
func (s *CookingStep) Number() int { return s.number }

// Description returns the instruction text.
func (s *CookingStep) Description() string { return s.description }

// DisplayName renders "N. description".
func (s *CookingStep) DisplayName() string {
	return strconv.Itoa(s.number) + ". " + s.description
}

// Kind implements fields.Entity.
func (s *CookingStep) Kind() string { return "CookingStep" }

// Fields implements fields.Entity.
func (s *CookingStep) Fields() []fields.Field {
	return []fields.Field{
		{Name: "description", Get: func() (any, error) { return s.description, nil }},
		{Name: "step_number", Get: func() (any, error) { return s.number, nil }},
	}
}

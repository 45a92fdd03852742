package domain

import "catalog/internal/fields"

// Unit is a unit of measure. A derived unit points at its base unit and
// converts to it by Factor (1 kilogram = 1000 × gram).
type Unit struct {
	record
	factor   float64
	baseUnit *Unit
}

// NewUnit creates a unit. baseUnit may be nil for a base unit.
func NewUnit(name string, factor float64, baseUnit *Unit) (*Unit, error) {
	rec, err := newRecord(name)
	if err != nil {
		return nil, err
	}
	u := &Unit{record: rec}
	if err := u.SetFactor(factor); err != nil {
		return nil, err
	}
	if err := u.SetBaseUnit(baseUnit); err != nil {
		return nil, err
	}
	return u, nil
}

// Factor returns the conversion factor to the base unit.
func (u *Unit) Factor() float64 { return u.factor }

// SetFactor sets the conversion factor; it must be positive.
func (u *Unit) SetFactor(factor float64) error {
	if !(factor > 0) {
		return argumentError("factor must be a positive number")
	}
	u.factor = factor
	return nil
}

// BaseUnit returns the base unit or nil.
func (u *Unit) BaseUnit() *Unit { return u.baseUnit }

// SetBaseUnit sets the base unit. A unit cannot be its own base.
func (u *Unit) SetBaseUnit(base *Unit) error {
	if base == u {
		return argumentError("unit %q cannot be its own base unit", u.name)
	}
	u.baseUnit = base
	return nil
}

// Kind implements fields.Entity.
func (u *Unit) Kind() string { return "Unit" }

// Fields implements fields.Entity.
func (u *Unit) Fields() []fields.Field {
	return append(u.identityFields(),
		fields.Field{Name: "base_unit", Get: func() (any, error) { return fields.Ref(u.baseUnit), nil }},
		fields.Field{Name: "factor", Get: func() (any, error) { return u.factor, nil }},
	)
}

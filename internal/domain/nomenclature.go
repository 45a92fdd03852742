package domain

import (
	"strings"

	"catalog/internal/fields"
)

// NomenclatureGroup groups nomenclature items ("Vegetables", "Dairy").
type NomenclatureGroup struct {
	record
}

// NewNomenclatureGroup creates a group.
func NewNomenclatureGroup(name string) (*NomenclatureGroup, error) {
	rec, err := newRecord(name)
	if err != nil {
		return nil, err
	}
	return &NomenclatureGroup{record: rec}, nil
}

// Kind implements fields.Entity.
func (g *NomenclatureGroup) Kind() string { return "NomenclatureGroup" }

// Fields implements fields.Entity.
func (g *NomenclatureGroup) Fields() []fields.Field {
	return g.identityFields()
}

// Nomenclature is a catalog item: a product with a group and a unit of measure.
type Nomenclature struct {
	record
	fullName string
	group    *NomenclatureGroup
	unit     *Unit
}

// NewNomenclature creates an item. group and unit may be nil.
func NewNomenclature(name, fullName string, group *NomenclatureGroup, unit *Unit) (*Nomenclature, error) {
	rec, err := newRecord(name)
	if err != nil {
		return nil, err
	}
	n := &Nomenclature{record: rec, group: group, unit: unit}
	if err := n.SetFullName(fullName); err != nil {
		return nil, err
	}
	return n, nil
}

// FullName returns the long description.
func (n *Nomenclature) FullName() string { return n.fullName }

// SetFullName sets the long description (at most 255 characters).
func (n *Nomenclature) SetFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if err := checkLength("full_name", fullName, 0, maxFullNameLength); err != nil {
		return err
	}
	n.fullName = fullName
	return nil
}

// Group returns the item's group or nil.
func (n *Nomenclature) Group() *NomenclatureGroup { return n.group }

// SetGroup sets the item's group.
func (n *Nomenclature) SetGroup(g *NomenclatureGroup) { n.group = g }

// Unit returns the item's unit or nil.
func (n *Nomenclature) Unit() *Unit { return n.unit }

// SetUnit sets the item's unit.
func (n *Nomenclature) SetUnit(u *Unit) { n.unit = u }

// Kind implements fields.Entity.
func (n *Nomenclature) Kind() string { return "Nomenclature" }

// Fields implements fields.Entity.
func (n *Nomenclature) Fields() []fields.Field {
	return append(n.identityFields(),
		fields.Field{Name: "full_name", Get: func() (any, error) { return n.fullName, nil }},
		fields.Field{Name: "group", Get: func() (any, error) { return fields.Ref(n.group), nil }},
		fields.Field{Name: "unit", Get: func() (any, error) { return fields.Ref(n.unit), nil }},
	)
}

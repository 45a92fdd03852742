package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"catalog/internal/fields"
)

// record carries the identity shared by every catalog record.
type record struct {
	id   string
	name string
}

func newRecord(name string) (record, error) {
	n, err := validName(name)
	if err != nil {
		return record{}, err
	}
	return record{id: uuid.NewString(), name: n}, nil
}

// ID returns the record identifier.
func (r *record) ID() string { return r.id }

// SetID replaces the record identifier. Used when loading persisted records.
func (r *record) SetID(id string) error {
	id = strings.TrimSpace(id)
	if err := checkLength("id", id, 1, 0); err != nil {
		return err
	}
	r.id = id
	return nil
}

// Name returns the display name.
func (r *record) Name() string { return r.name }

// SetName validates and sets the display name.
func (r *record) SetName(name string) error {
	n, err := validName(name)
	if err != nil {
		return err
	}
	r.name = n
	return nil
}

// DisplayName implements fields.Named.
func (r *record) DisplayName() string { return r.name }

// String renders "name (id)".
func (r *record) String() string { return fmt.Sprintf("%s (%s)", r.name, r.id) }

func (r *record) identityFields() []fields.Field {
	return []fields.Field{
		{Name: "id", Get: func() (any, error) { return r.id, nil }},
		{Name: "name", Get: func() (any, error) { return r.name, nil }},
	}
}

// Identified is implemented by records with a stable identifier.
type Identified interface {
	ID() string
}

// Equal reports whether a and b are the same record. Records compare by
// identifier only.
func Equal(a, b Identified) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}

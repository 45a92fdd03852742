// Package fields exposes catalog records to the encoders through explicit field tables.
//
// Every record kind publishes an explicit field table through the Entity
// interface. The table is the only source of column names and values, so the
// set of exported fields is fixed at compile time per kind.
//
// Column order is lexicographic by field name. Two builds over identical
// records therefore always enumerate fields in the same order regardless of
// how a kind declares its table.
//
// Nested record references are rendered as the referenced record's display
// name. Expansion stops after one level: a unit pointing at its base unit
// renders the base unit's name, never the base unit's own fields.
package fields

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"catalog/internal/errors"
)

// Field is one entry of a record's field table.
type Field struct {
	Name string
	Get  func() (any, error)
}

// Entity is implemented by every record kind the encoders can serialize.
type Entity interface {
	// Kind returns the record type name, e.g. "Unit" or "NomenclatureGroup".
	Kind() string
	// Fields returns the record's exposed field table.
	Fields() []Field
}

// Named is implemented by records that can be referenced from other records.
type Named interface {
	DisplayName() string
}

// ErrorMarkerPrefix prefixes the rendered value of a field that failed to read.
const ErrorMarkerPrefix = "Error: "

// Names returns the exposed field names of e in lexicographic order.
func Names(e Entity) []string {
	table := e.Fields()
	names := make([]string, 0, len(table))
	seen := make(map[string]bool, len(table))
	for _, f := range table {
		if f.Name == "" || seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Value returns the rendered value of the named field of e.
// Unknown fields render as "". Read failures render as an error marker.
func Value(e Entity, name string) string {
	for _, f := range e.Fields() {
		if f.Name == name {
			return read(f)
		}
	}
	return ""
}

// Row renders the given fields of e, in order.
func Row(e Entity, names []string) []string {
	index := make(map[string]Field, len(names))
	for _, f := range e.Fields() {
		if _, dup := index[f.Name]; !dup {
			index[f.Name] = f
		}
	}

	row := make([]string, len(names))
	for i, name := range names {
		f, ok := index[name]
		if !ok {
			continue
		}
		row[i] = read(f)
	}
	return row
}

// read calls the accessor, converting errors and panics into an error marker.
func read(f Field) (out string) {
	if f.Get == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			out = marker(errors.Newf(errors.FieldAccess, "field %q: %v", f.Name, r))
		}
	}()

	v, err := f.Get()
	if err != nil {
		return marker(errors.Wrap(errors.FieldAccess, fmt.Sprintf("field %q", f.Name), err))
	}
	return Render(v)
}

func marker(err *errors.CatalogError) string {
	if cause := err.Unwrap(); cause != nil {
		return ErrorMarkerPrefix + cause.Error()
	}
	return ErrorMarkerPrefix + err.Message
}

// Ref returns a record reference as a field value. A nil pointer becomes an
// untyped nil so it renders as "".
func Ref[T any, P interface {
	*T
	Named
}](p P) any {
	if p == nil {
		return nil
	}
	return p
}

// Render converts a field value to its textual projection. References must
// go through Ref so that a missing one arrives as nil.
func Render(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case Named:
		return val.DisplayName()
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat renders the shortest representation that round-trips,
// keeping a trailing ".0" on integral values.
func formatFloat(f float64, bits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		s += ".0"
	}
	return s
}

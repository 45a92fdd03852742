// Package response renders catalog records as CSV, Markdown, JSON or XML
// documents.
//
// Every encoder derives its column set from the first record of the input,
// using the explicit field tables of package fields. Later records are
// projected onto that column set: extra fields are ignored and missing ones
// render empty. Output is fully materialized and byte-identical for identical
// input.
//
// Encoders keep no state between Build calls and never modify their input.
package response

import (
	"catalog/internal/errors"
	"catalog/internal/fields"
)

// Encoder turns a sequence of same-kind records into one document.
type Encoder interface {
	Format() Format
	ContentType() string
	Build(entities []fields.Entity) (string, error)
}

// Placeholders returned for empty input under EmptyLegacy.
const (
	EmptyMarkdown = "No data"
	EmptyXML      = `<?xml version="1.0" encoding="UTF-8"?><data></data>`
)

// base holds what every encoder shares.
type base struct {
	format Format
	policy EmptyPolicy
}

func (b base) Format() Format { return b.format }

func (b base) ContentType() string { return b.format.ContentType() }

// table is the projection of the input onto the first record's columns.
type table struct {
	kind    string
	columns []string
	rows    [][]string
}

func errEmpty(f Format) error {
	return errors.Newf(errors.EmptyInput, "no data to render as %s", f)
}

func project(entities []fields.Entity) (table, error) {
	if len(entities) == 0 {
		return table{}, errors.New(errors.EmptyInput, "no data to render")
	}
	first := entities[0]
	if first == nil {
		return table{}, errors.New(errors.ArgumentInvalid, "record 0 is nil")
	}
	t := table{
		kind:    first.Kind(),
		columns: fields.Names(first),
		rows:    make([][]string, 0, len(entities)),
	}
	for i, e := range entities {
		if e == nil {
			return table{}, errors.Newf(errors.ArgumentInvalid, "record %d is nil", i)
		}
		t.rows = append(t.rows, fields.Row(e, t.columns))
	}
	return t, nil
}

package response

import (
	"bytes"
	"encoding/json"

	"catalog/internal/fields"
)

// JSONEncoder renders an indented array of objects whose values are the
// rendered field strings.
type JSONEncoder struct {
	base
}

// NewJSONEncoder returns a JSON encoder. JSON fails on empty input under
// every policy.
func NewJSONEncoder(policy EmptyPolicy) *JSONEncoder {
	return &JSONEncoder{base{format: FormatJSON, policy: policy}}
}

const jsonIndent = "  "

// jsonWriter writes one document. Keys keep column order, which a map would
// lose, so objects are laid out by hand and only strings go through the
// encoder.
type jsonWriter struct {
	out     bytes.Buffer
	scratch bytes.Buffer
	enc     *json.Encoder
}

func newJSONWriter() *jsonWriter {
	w := &jsonWriter{}
	w.enc = json.NewEncoder(&w.scratch)
	w.enc.SetEscapeHTML(false)
	return w
}

// str writes s as a quoted JSON string.
func (w *jsonWriter) str(s string) error {
	w.scratch.Reset()
	if err := w.enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	w.out.Write(bytes.TrimSuffix(w.scratch.Bytes(), []byte{'\n'}))
	return nil
}

func (w *jsonWriter) object(columns, values []string) error {
	if len(columns) == 0 {
		w.out.WriteString(jsonIndent + "{}")
		return nil
	}
	w.out.WriteString(jsonIndent + "{\n")
	for i, k := range columns {
		w.out.WriteString(jsonIndent + jsonIndent)
		if err := w.str(k); err != nil {
			return err
		}
		w.out.WriteString(": ")
		if err := w.str(values[i]); err != nil {
			return err
		}
		if i < len(columns)-1 {
			w.out.WriteByte(',')
		}
		w.out.WriteByte('\n')
	}
	w.out.WriteString(jsonIndent + "}")
	return nil
}

// Build implements Encoder.
func (e *JSONEncoder) Build(entities []fields.Entity) (string, error) {
	if len(entities) == 0 {
		return "", errEmpty(e.format)
	}
	t, err := project(entities)
	if err != nil {
		return "", err
	}

	w := newJSONWriter()
	w.out.WriteString("[\n")
	for i, row := range t.rows {
		if err := w.object(t.columns, row); err != nil {
			return "", err
		}
		if i < len(t.rows)-1 {
			w.out.WriteByte(',')
		}
		w.out.WriteByte('\n')
	}
	w.out.WriteByte(']')
	return w.out.String(), nil
}

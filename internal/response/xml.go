package response

import (
	"bytes"
	"encoding/xml"
	"strings"

	"catalog/internal/errors"
	"catalog/internal/fields"
)

// XMLEncoder renders one element per record under a collection root. Each
// field becomes a child element with the rendered value as text.
type XMLEncoder struct {
	base
}

// NewXMLEncoder returns an XML encoder.
func NewXMLEncoder(policy EmptyPolicy) *XMLEncoder {
	return &XMLEncoder{base{format: FormatXML, policy: policy}}
}

// ElementName derives the per-record element name from a kind:
// lowercased, with a trailing "model" removed ("UnitModel" -> "unit").
func ElementName(kind string) string {
	name := strings.ToLower(kind)
	if trimmed := strings.TrimSuffix(name, "model"); trimmed != "" {
		name = trimmed
	}
	return name
}

// CollectionName is the root element name for a kind ("UnitModel" -> "units").
func CollectionName(kind string) string {
	return ElementName(kind) + "s"
}

// Build implements Encoder.
func (e *XMLEncoder) Build(entities []fields.Entity) (string, error) {
	if len(entities) == 0 {
		if e.policy == EmptyLegacy {
			return EmptyXML, nil
		}
		return "", errEmpty(e.format)
	}
	t, err := project(entities)
	if err != nil {
		return "", err
	}

	item := ElementName(t.kind)
	if item == "" {
		return "", errors.New(errors.ArgumentInvalid, "record kind is empty")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: item + "s"}}
	if err := enc.EncodeToken(root); err != nil {
		return "", err
	}
	for _, row := range t.rows {
		if err := encodeRecord(enc, item, t.columns, row); err != nil {
			return "", err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func encodeRecord(enc *xml.Encoder, item string, columns, values []string) error {
	start := xml.StartElement{Name: xml.Name{Local: item}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for i, col := range columns {
		if err := enc.EncodeElement(values[i], xml.StartElement{Name: xml.Name{Local: col}}); err != nil {
			return errors.Wrap(errors.InternalError, "encode field "+col, err)
		}
	}
	return enc.EncodeToken(start.End())
}

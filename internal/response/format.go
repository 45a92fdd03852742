package response

import (
	"strings"

	"catalog/internal/errors"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatXML      Format = "xml"
)

// DefaultFormat is used when no configuration supplies one.
const DefaultFormat = FormatJSON

// AllFormats lists the supported formats in presentation order.
func AllFormats() []Format {
	return []Format{FormatCSV, FormatMarkdown, FormatJSON, FormatXML}
}

// IsValid reports whether f is one of the supported formats.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatMarkdown, FormatJSON, FormatXML:
		return true
	}
	return false
}

// ParseFormat validates a format identifier. Matching is exact and
// case-sensitive.
func ParseFormat(id string) (Format, error) {
	f := Format(id)
	if !f.IsValid() {
		return "", errors.Newf(errors.UnsupportedFormat, "unsupported format %q", id).
			WithDetails(map[string]interface{}{"supported": AllFormats()})
	}
	return f, nil
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatMarkdown:
		return "text/markdown"
	case FormatJSON:
		return "application/json"
	case FormatXML:
		return "application/xml"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// AttachmentName suggests a download filename for a dataset rendered as f.
// Only CSV is served as an attachment; other formats return "".
func AttachmentName(dataset string, f Format) string {
	if f != FormatCSV {
		return ""
	}
	name := strings.TrimSpace(dataset)
	if name == "" {
		name = "data"
	}
	return name + ".csv"
}

// EmptyPolicy selects how encoders treat an empty entity sequence.
type EmptyPolicy string

const (
	// EmptyStrict fails every encoder with EMPTY_INPUT.
	EmptyStrict EmptyPolicy = "strict"
	// EmptyLegacy lets Markdown and XML return placeholder documents while
	// CSV and JSON still fail.
	EmptyLegacy EmptyPolicy = "legacy"
)

// ParseEmptyPolicy validates a policy name. "" selects EmptyStrict.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch EmptyPolicy(s) {
	case "", EmptyStrict:
		return EmptyStrict, nil
	case EmptyLegacy:
		return EmptyLegacy, nil
	}
	return "", errors.Newf(errors.ArgumentInvalid, "unknown empty policy %q (want strict or legacy)", s)
}

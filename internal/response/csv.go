package response

import (
	"strings"

	"catalog/internal/fields"
)

const csvSeparator = ";"

// csvCleaner keeps a value on one line and inside one column. No quoting
// is performed.
var csvCleaner = strings.NewReplacer(
	";", ",",
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// CSVEncoder renders a ";"-separated table with a header row.
type CSVEncoder struct {
	base
}

// NewCSVEncoder returns a CSV encoder. CSV fails on empty input under every
// policy.
func NewCSVEncoder(policy EmptyPolicy) *CSVEncoder {
	return &CSVEncoder{base{format: FormatCSV, policy: policy}}
}

// Build implements Encoder.
func (e *CSVEncoder) Build(entities []fields.Entity) (string, error) {
	if len(entities) == 0 {
		return "", errEmpty(e.format)
	}
	t, err := project(entities)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeCSVLine(&sb, t.columns)
	for _, row := range t.rows {
		writeCSVLine(&sb, row)
	}
	return sb.String(), nil
}

func writeCSVLine(sb *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteString(csvSeparator)
		}
		sb.WriteString(csvCleaner.Replace(c))
	}
	sb.WriteByte('\n')
}

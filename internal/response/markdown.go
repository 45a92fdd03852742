package response

import (
	"strings"

	"catalog/internal/fields"
)

// MarkdownEncoder renders a pipe table. Cell contents are not escaped.
type MarkdownEncoder struct {
	base
}

// NewMarkdownEncoder returns a Markdown encoder.
func NewMarkdownEncoder(policy EmptyPolicy) *MarkdownEncoder {
	return &MarkdownEncoder{base{format: FormatMarkdown, policy: policy}}
}

// Build implements Encoder.
func (e *MarkdownEncoder) Build(entities []fields.Entity) (string, error) {
	if len(entities) == 0 {
		if e.policy == EmptyLegacy {
			return EmptyMarkdown, nil
		}
		return "", errEmpty(e.format)
	}
	t, err := project(entities)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeMarkdownRow(&sb, t.columns)
	sb.WriteString("|")
	for range t.columns {
		sb.WriteString("---|")
	}
	sb.WriteByte('\n')
	for _, row := range t.rows {
		writeMarkdownRow(&sb, row)
	}
	return sb.String(), nil
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

package response

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"catalog/internal/errors"
	"catalog/internal/fields"
	"catalog/internal/testutil"
)

type unitRef struct{ name string }

func (u *unitRef) DisplayName() string { return u.name }

// item mirrors a nomenclature record. extra adds a field unknown to the
// first record; noUnit drops the unit field.
type item struct {
	name     string
	fullName string
	unit     *unitRef
	extra    bool
	noUnit   bool
}

func (i *item) Kind() string { return "NomenclatureModel" }

func (i *item) Fields() []fields.Field {
	table := []fields.Field{
		{Name: "name", Get: func() (any, error) { return i.name, nil }},
		{Name: "full_name", Get: func() (any, error) { return i.fullName, nil }},
	}
	if !i.noUnit {
		table = append(table, fields.Field{Name: "unit", Get: func() (any, error) { return fields.Ref(i.unit), nil }})
	}
	if i.extra {
		table = append(table, fields.Field{Name: "weight", Get: func() (any, error) { return 1.5, nil }})
	}
	return table
}

func sampleItems() []fields.Entity {
	return []fields.Entity{
		&item{name: "Flour", fullName: "Wheat flour", unit: &unitRef{name: "gram"}},
		&item{name: "Potato", fullName: "Young potato", unit: &unitRef{name: "piece"}},
	}
}

func build(t *testing.T, f Format, policy EmptyPolicy, entities []fields.Entity) string {
	t.Helper()
	enc, err := NewFactory(nil, WithEmptyPolicy(policy)).Create(string(f))
	if err != nil {
		t.Fatalf("Create(%s) error = %v", f, err)
	}
	out, err := enc.Build(entities)
	if err != nil {
		t.Fatalf("Build(%s) error = %v", f, err)
	}
	return out
}

func TestGolden(t *testing.T) {
	for _, f := range AllFormats() {
		t.Run(string(f), func(t *testing.T) {
			got := build(t, f, EmptyStrict, sampleItems())
			testutil.CompareGolden(t, "items."+f.Extension(), []byte(got))
		})
	}
}

func TestCSV_EndToEnd(t *testing.T) {
	got := build(t, FormatCSV, EmptyStrict, sampleItems())
	want := "full_name;name;unit\nWheat flour;Flour;gram\nYoung potato;Potato;piece\n"
	if got != want {
		t.Errorf("CSV =\n%q\nwant\n%q", got, want)
	}
}

func TestCSV_Escaping(t *testing.T) {
	entities := []fields.Entity{
		&item{name: "Salt", fullName: "Sea salt; coarse\nground\r\nfine\rx", unit: &unitRef{name: "gram"}},
	}
	got := build(t, FormatCSV, EmptyStrict, entities)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != len(entities)+1 {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(entities)+1, got)
	}
	if lines[1] != "Sea salt, coarse ground fine x;Salt;gram" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestDeterminism(t *testing.T) {
	for _, f := range AllFormats() {
		t.Run(string(f), func(t *testing.T) {
			a := build(t, f, EmptyStrict, sampleItems())
			b := build(t, f, EmptyStrict, sampleItems())
			if a != b {
				t.Errorf("outputs differ:\n%s\n---\n%s", a, b)
			}
		})
	}
}

func TestFieldOrderFollowsFirstRecord(t *testing.T) {
	entities := []fields.Entity{
		&item{name: "Flour", fullName: "Wheat flour", unit: &unitRef{name: "gram"}},
		&item{name: "Milk", fullName: "Whole milk", extra: true, noUnit: true},
	}
	got := build(t, FormatCSV, EmptyStrict, entities)
	want := "full_name;name;unit\nWheat flour;Flour;gram\nWhole milk;Milk;\n"
	if got != want {
		t.Errorf("CSV =\n%q\nwant\n%q", got, want)
	}
}

func TestJSON_Shape(t *testing.T) {
	entities := sampleItems()
	got := build(t, FormatJSON, EmptyStrict, entities)

	var decoded []map[string]string
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	if len(decoded) != len(entities) {
		t.Fatalf("decoded %d objects, want %d", len(decoded), len(entities))
	}
	names := fields.Names(entities[0])
	for i, obj := range decoded {
		if len(obj) != len(names) {
			t.Errorf("object %d has %d keys, want %d", i, len(obj), len(names))
		}
		for _, n := range names {
			if _, ok := obj[n]; !ok {
				t.Errorf("object %d missing key %q", i, n)
			}
		}
	}
}

func TestJSON_NoEscaping(t *testing.T) {
	entities := []fields.Entity{&item{name: "Мука <высший>", fullName: "A & B", unit: nil}}
	got := build(t, FormatJSON, EmptyStrict, entities)

	for _, want := range []string{`"name": "Мука <высший>"`, `"full_name": "A & B"`, `"unit": ""`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("JSON output should not end with a newline")
	}
}

func TestJSON_QuotesAndControlCharacters(t *testing.T) {
	entities := []fields.Entity{
		&item{name: `Say "cheese"`, fullName: "line one\nline two\ttab", unit: &unitRef{name: `back\slash`}},
	}
	got := build(t, FormatJSON, EmptyStrict, entities)

	var decoded []map[string]string
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	want := map[string]string{
		"name":      `Say "cheese"`,
		"full_name": "line one\nline two\ttab",
		"unit":      `back\slash`,
	}
	for k, v := range want {
		if decoded[0][k] != v {
			t.Errorf("%s = %q, want %q", k, decoded[0][k], v)
		}
	}
	// "[", "{", three keys, "}" and "]": escaped newlines add no lines.
	if n := strings.Count(got, "\n"); n != 6 {
		t.Errorf("document has %d line breaks, want 6:\n%s", n, got)
	}
}

func TestXML_EscapesText(t *testing.T) {
	entities := []fields.Entity{&item{name: "A&B", fullName: "<x>", unit: nil}}
	got := build(t, FormatXML, EmptyStrict, entities)

	for _, want := range []string{"<name>A&amp;B</name>", "<full_name>&lt;x&gt;</full_name>", "<unit></unit>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
}

func TestElementName(t *testing.T) {
	tests := []struct {
		kind, element, collection string
	}{
		{"UnitModel", "unit", "units"},
		{"Unit", "unit", "units"},
		{"NomenclatureGroup", "nomenclaturegroup", "nomenclaturegroups"},
		{"Model", "model", "models"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := ElementName(tt.kind); got != tt.element {
				t.Errorf("ElementName(%q) = %q, want %q", tt.kind, got, tt.element)
			}
			if got := CollectionName(tt.kind); got != tt.collection {
				t.Errorf("CollectionName(%q) = %q, want %q", tt.kind, got, tt.collection)
			}
		})
	}
}

func TestEmptyInput_Strict(t *testing.T) {
	for _, f := range AllFormats() {
		t.Run(string(f), func(t *testing.T) {
			enc, _ := NewFactory(nil).Create(string(f))
			_, err := enc.Build(nil)
			if !errors.IsCode(err, errors.EmptyInput) {
				t.Errorf("Build(nil) error = %v, want %s", err, errors.EmptyInput)
			}
		})
	}
}

func TestEmptyInput_Legacy(t *testing.T) {
	factory := NewFactory(nil, WithEmptyPolicy(EmptyLegacy))

	for _, f := range []Format{FormatCSV, FormatJSON} {
		enc, _ := factory.Create(string(f))
		if _, err := enc.Build([]fields.Entity{}); !errors.IsCode(err, errors.EmptyInput) {
			t.Errorf("%s: Build([]) error = %v, want %s", f, err, errors.EmptyInput)
		}
	}

	md, _ := factory.Create("markdown")
	if got, err := md.Build(nil); err != nil || got != "No data" {
		t.Errorf("markdown Build(nil) = %q, %v", got, err)
	}

	x, _ := factory.Create("xml")
	if got, err := x.Build(nil); err != nil || got != `<?xml version="1.0" encoding="UTF-8"?><data></data>` {
		t.Errorf("xml Build(nil) = %q, %v", got, err)
	}
}

func TestBuild_NilRecord(t *testing.T) {
	flour := sampleItems()[0]

	tests := []struct {
		name     string
		entities []fields.Entity
		message  string
	}{
		{"first", []fields.Entity{nil, flour}, "record 0 is nil"},
		{"later", []fields.Entity{flour, nil}, "record 1 is nil"},
	}

	for _, f := range AllFormats() {
		for _, policy := range []EmptyPolicy{EmptyStrict, EmptyLegacy} {
			for _, tt := range tests {
				t.Run(string(f)+"/"+string(policy)+"/"+tt.name, func(t *testing.T) {
					enc, _ := NewFactory(nil, WithEmptyPolicy(policy)).Create(string(f))
					_, err := enc.Build(tt.entities)
					if !errors.IsCode(err, errors.ArgumentInvalid) {
						t.Fatalf("Build() error = %v, want %s", err, errors.ArgumentInvalid)
					}
					if !strings.Contains(err.Error(), tt.message) {
						t.Errorf("Build() error = %q, want it to mention %q", err, tt.message)
					}
				})
			}
		}
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	entities := sampleItems()
	first := entities[0]
	build(t, FormatXML, EmptyStrict, entities)
	if entities[0] != first || len(entities) != 2 {
		t.Error("input slice was modified")
	}
}

type staticDefault string

func (s staticDefault) DefaultFormat() string { return string(s) }

func TestFactory_Create(t *testing.T) {
	factory := NewFactory(nil)

	for _, f := range factory.SupportedFormats() {
		enc, err := factory.Create(string(f))
		if err != nil {
			t.Fatalf("Create(%s) error = %v", f, err)
		}
		if enc.Format() != f {
			t.Errorf("Create(%s).Format() = %s", f, enc.Format())
		}
		if enc.ContentType() != f.ContentType() {
			t.Errorf("Create(%s).ContentType() = %s", f, enc.ContentType())
		}
	}

	a, _ := factory.Create("csv")
	b, _ := factory.Create("csv")
	if a == b {
		t.Error("Create should return a fresh encoder on each call")
	}
}

func TestFactory_Unsupported(t *testing.T) {
	factory := NewFactory(nil)

	for _, id := range []string{"yaml", "CSV", " json", ""} {
		if _, err := factory.Create(id); !errors.IsCode(err, errors.UnsupportedFormat) {
			t.Errorf("Create(%q) error = %v, want %s", id, err, errors.UnsupportedFormat)
		}
	}
	for _, f := range factory.SupportedFormats() {
		if f == "yaml" {
			t.Error("SupportedFormats() should not include yaml")
		}
	}
	if factory.Supports("yaml") {
		t.Error("Supports(yaml) = true")
	}
}

func TestFactory_CreateDefault(t *testing.T) {
	enc, err := NewFactory(staticDefault("markdown")).CreateDefault()
	if err != nil {
		t.Fatalf("CreateDefault() error = %v", err)
	}
	if enc.Format() != FormatMarkdown {
		t.Errorf("CreateDefault().Format() = %s, want markdown", enc.Format())
	}

	enc, err = NewFactory(nil).CreateDefault()
	if err != nil || enc.Format() != DefaultFormat {
		t.Errorf("CreateDefault() without source = %v, %v", enc, err)
	}

	if _, err := NewFactory(staticDefault("yaml")).CreateDefault(); !errors.IsCode(err, errors.UnsupportedFormat) {
		t.Errorf("CreateDefault() with bad default error = %v", err)
	}
}

func TestFactory_Concurrent(t *testing.T) {
	factory := NewFactory(staticDefault("json"))
	want := build(t, FormatJSON, EmptyStrict, sampleItems())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enc, err := factory.CreateDefault()
			if err != nil {
				t.Error(err)
				return
			}
			got, err := enc.Build(sampleItems())
			if err != nil || got != want {
				t.Errorf("concurrent build differs: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestAttachmentName(t *testing.T) {
	if got := AttachmentName("units", FormatCSV); got != "units.csv" {
		t.Errorf("AttachmentName(units, csv) = %q", got)
	}
	if got := AttachmentName("units", FormatJSON); got != "" {
		t.Errorf("AttachmentName(units, json) = %q, want empty", got)
	}
}

func TestParseEmptyPolicy(t *testing.T) {
	for in, want := range map[string]EmptyPolicy{"": EmptyStrict, "strict": EmptyStrict, "legacy": EmptyLegacy} {
		got, err := ParseEmptyPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseEmptyPolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseEmptyPolicy("lenient"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

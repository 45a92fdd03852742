package response

import (
	"catalog/internal/errors"
)

// DefaultFormatSource supplies the configured default format.
type DefaultFormatSource interface {
	DefaultFormat() string
}

// constructor builds a fresh encoder.
type constructor func(policy EmptyPolicy) Encoder

var constructors = map[Format]constructor{
	FormatCSV:      func(p EmptyPolicy) Encoder { return NewCSVEncoder(p) },
	FormatMarkdown: func(p EmptyPolicy) Encoder { return NewMarkdownEncoder(p) },
	FormatJSON:     func(p EmptyPolicy) Encoder { return NewJSONEncoder(p) },
	FormatXML:      func(p EmptyPolicy) Encoder { return NewXMLEncoder(p) },
}

// Factory selects encoders by format identifier. It is immutable after
// construction and safe for concurrent use.
type Factory struct {
	defaults DefaultFormatSource
	policy   EmptyPolicy
}

// Option configures a Factory.
type Option func(*Factory)

// WithEmptyPolicy sets the empty-input policy of created encoders.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(f *Factory) {
		if p != "" {
			f.policy = p
		}
	}
}

// NewFactory returns a factory reading its default format from defaults.
// A nil source falls back to DefaultFormat.
func NewFactory(defaults DefaultFormatSource, opts ...Option) *Factory {
	f := &Factory{defaults: defaults, policy: EmptyStrict}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the empty-input policy applied to created encoders.
func (f *Factory) Policy() EmptyPolicy { return f.policy }

// Create returns a new encoder for the format identifier id.
func (f *Factory) Create(id string) (Encoder, error) {
	format, err := ParseFormat(id)
	if err != nil {
		return nil, err
	}
	return constructors[format](f.policy), nil
}

// CreateDefault returns a new encoder for the configured default format.
func (f *Factory) CreateDefault() (Encoder, error) {
	enc, err := f.Create(f.Default())
	if err != nil {
		return nil, errors.Wrap(errors.UnsupportedFormat, "default format is not supported", err)
	}
	return enc, nil
}

// Default returns the configured default format identifier.
func (f *Factory) Default() string {
	if f.defaults != nil {
		return f.defaults.DefaultFormat()
	}
	return string(DefaultFormat)
}

// SupportedFormats returns the recognized format identifiers.
func (f *Factory) SupportedFormats() []Format {
	return AllFormats()
}

// Supports reports whether id names a supported format.
func (f *Factory) Supports(id string) bool {
	return Format(id).IsValid()
}

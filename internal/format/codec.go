// Package format implements the JSON event format codec: the policy engine
// that converts envelopes to and from structured-mode documents, batch
// arrays, and binary-mode payload bodies.
//
// A Codec is immutable after construction and serves unlimited concurrent
// calls. All decision-table logic is synchronous; the Reader/Writer
// variants touch the caller's stream only to slurp or emit complete bodies.
package format

import (
	"github.com/meshwire/eventkit/internal/jsoncodec"
	"github.com/meshwire/eventkit/internal/spec"
)

// TextEngine is the serialization contract for JSON bodies and fields. The
// default engine is sonic's std-compatible configuration.
type TextEngine interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// DataCodec is a data codec strategy: an encode-side hook that converts an
// application-shaped data value into wire bytes before the standard
// decision table runs. The produced bytes then follow the binary-data rule
// (base64 side channel in structured mode, raw body in binary mode).
type DataCodec interface {
	// Matches reports whether the strategy applies to this value and
	// declared content type.
	Matches(data any, contentType string) bool

	// Encode converts the value to its wire byte representation.
	Encode(data any, contentType string) ([]byte, error)
}

// Codec encodes and decodes CloudEvents in the JSON event format.
type Codec struct {
	engine         TextEngine
	defaultCharset string
	jsonMedia      func(mediaType string) bool
	strategies     []DataCodec
	extensions     map[string]spec.Attribute
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// New builds a Codec. Without options it uses the sonic engine, UTF-8 as
// the default charset, and the suffix-based JSON media type matcher.
func New(opts ...Option) *Codec {
	c := &Codec{
		engine:         jsoncodec.Sonic{},
		defaultCharset: "utf-8",
		jsonMedia:      IsJSONMediaType,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTextEngine replaces the JSON serialization engine.
func WithTextEngine(engine TextEngine) Option {
	return func(c *Codec) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// WithDefaultCharset sets the charset assumed when a text content type
// carries no charset parameter.
func WithDefaultCharset(name string) Option {
	return func(c *Codec) {
		if name != "" {
			c.defaultCharset = name
		}
	}
}

// WithJSONMediaTypeMatcher replaces the predicate deciding which declared
// content types denote JSON.
func WithJSONMediaTypeMatcher(match func(mediaType string) bool) Option {
	return func(c *Codec) {
		if match != nil {
			c.jsonMedia = match
		}
	}
}

// WithDataCodec appends a data codec strategy. Strategies are consulted in
// registration order; the first match wins.
func WithDataCodec(strategy DataCodec) Option {
	return func(c *Codec) {
		if strategy != nil {
			c.strategies = append(c.strategies, strategy)
		}
	}
}

// WithExtensions declares extension attributes whose types the codec
// enforces while decoding. Undeclared extensions fall back to inference
// from the wire token.
func WithExtensions(extensions ...spec.Attribute) Option {
	return func(c *Codec) {
		if c.extensions == nil {
			c.extensions = make(map[string]spec.Attribute, len(extensions))
		}
		for _, ext := range extensions {
			c.extensions[ext.Name()] = ext
		}
	}
}

// Extensions returns the extension declarations the codec enforces, in no
// particular order. Transport bindings seed decoded envelopes with them.
func (c *Codec) Extensions() []spec.Attribute {
	return c.extensionList()
}

func (c *Codec) extensionList() []spec.Attribute {
	if len(c.extensions) == 0 {
		return nil
	}
	out := make([]spec.Attribute, 0, len(c.extensions))
	for _, ext := range c.extensions {
		out = append(out, ext)
	}
	return out
}

// applyStrategies runs the data codec strategies against the payload,
// returning the (possibly replaced) data value.
func (c *Codec) applyStrategies(data any, contentType string) (any, error) {
	for _, s := range c.strategies {
		if s.Matches(data, contentType) {
			b, err := s.Encode(data, contentType)
			if err != nil {
				return nil, err
			}
			return b, nil
		}
	}
	return data, nil
}

package format

import (
	"encoding/json"
	"io"

	"github.com/meshwire/eventkit/internal/event"
)

// EncodeBinaryData produces the binary-mode payload body for the envelope:
// byte-sequence data passes through unchanged, JSON-typed data serializes
// through the engine, and text data re-encodes to the declared charset.
// Absent data yields a nil body. Attributes travel out of band; the
// transport binding maps them onto carrier headers.
func (c *Codec) EncodeBinaryData(e *event.Envelope) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if !e.HasData() {
		return nil, nil
	}
	ct := e.DataContentType()
	data, err := c.applyStrategies(e.Data(), ct)
	if err != nil {
		return nil, err
	}

	switch d := data.(type) {
	case []byte:
		return d, nil
	case json.RawMessage:
		if ct == "" || c.jsonMedia(ct) {
			return c.encodeText(string(d), ct)
		}
		return nil, &UnsupportedDataTypeError{ContentType: ct, Data: data}
	}

	if ct == "" || c.jsonMedia(ct) {
		b, err := c.engine.Marshal(data)
		if err != nil {
			return nil, err
		}
		return c.encodeText(string(b), ct)
	}
	if s, ok := data.(string); ok && IsTextMediaType(ct) {
		return c.encodeText(s, ct)
	}
	return nil, &UnsupportedDataTypeError{ContentType: ct, Data: data}
}

// EncodeBinaryDataTo writes the binary-mode body to w.
func (c *Codec) EncodeBinaryDataTo(w io.Writer, e *event.Envelope) error {
	b, err := c.EncodeBinaryData(e)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err = w.Write(b)
	return err
}

// DecodeBinaryData interprets a binary-mode payload body against the
// envelope's datacontenttype and stores the result in the data slot: a
// parsed-but-opaque JSON node for JSON content types (empty body means no
// data), charset-decoded text for text content types, and the raw bytes
// otherwise.
func (c *Codec) DecodeBinaryData(body []byte, e *event.Envelope) error {
	ct := e.DataContentType()
	if ct == "" || c.jsonMedia(ct) {
		if len(body) == 0 {
			e.ReplaceData(nil)
			return nil
		}
		var probe any
		if err := c.engine.Unmarshal(body, &probe); err != nil {
			return &InvalidDataRepresentationError{Reason: "body is not valid JSON", Err: err}
		}
		node := make(json.RawMessage, len(body))
		copy(node, body)
		e.ReplaceData(node)
		return nil
	}
	if IsTextMediaType(ct) {
		s, err := c.decodeText(body, ct)
		if err != nil {
			return err
		}
		e.ReplaceData(s)
		return nil
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	e.ReplaceData(cp)
	return nil
}

// DecodeBinaryDataFrom reads a complete body from r and decodes it.
func (c *Codec) DecodeBinaryDataFrom(r io.Reader, e *event.Envelope) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return c.DecodeBinaryData(body, e)
}

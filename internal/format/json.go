package format

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"sort"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/spec"
)

// Wire field names with special handling in the structured representation.
const (
	fieldSpecVersion = "specversion"
	fieldData        = "data"
	fieldDataBase64  = "data_base64"
)

// EncodeStructured renders the envelope as a single structured-mode JSON
// object. The envelope is validated first; no partial output is produced.
func (c *Codec) EncodeStructured(e *event.Envelope) ([]byte, error) {
	m, err := c.encodeObject(e)
	if err != nil {
		return nil, err
	}
	return c.engine.Marshal(m)
}

// EncodeStructuredTo writes the structured-mode object to w.
func (c *Codec) EncodeStructuredTo(w io.Writer, e *event.Envelope) error {
	b, err := c.EncodeStructured(e)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// DecodeStructured populates a fresh envelope from a structured-mode JSON
// object. The result is fully validated; decoding either yields a valid
// envelope or fails entirely.
func (c *Codec) DecodeStructured(payload []byte) (*event.Envelope, error) {
	var m map[string]json.RawMessage
	if err := c.engine.Unmarshal(payload, &m); err != nil {
		return nil, &InvalidDataRepresentationError{Reason: "payload is not a JSON object", Err: err}
	}
	return c.decodeObject(m)
}

// DecodeStructuredFrom reads a complete body from r and decodes it. The
// decision-table logic itself never blocks; only the read does.
func (c *Codec) DecodeStructuredFrom(r io.Reader) (*event.Envelope, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return c.DecodeStructured(payload)
}

// DecodeStructuredAs decodes a structured-mode object and deserializes a
// JSON data field directly into T instead of retaining the opaque node.
// Text and binary data leave T at its zero value.
func DecodeStructuredAs[T any](c *Codec, payload []byte) (*event.Envelope, T, error) {
	var zero T
	e, err := c.DecodeStructured(payload)
	if err != nil {
		return nil, zero, err
	}
	raw, ok := e.Data().(json.RawMessage)
	if !ok {
		return e, zero, nil
	}
	var v T
	if err := c.engine.Unmarshal(raw, &v); err != nil {
		return nil, zero, &InvalidDataRepresentationError{Reason: "data does not match the requested type", Err: err}
	}
	e.ReplaceData(v)
	return e, v, nil
}

// encodeObject builds the structured-mode object for one envelope.
func (c *Codec) encodeObject(e *event.Envelope) (map[string]any, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	m := make(map[string]any, len(e.PopulatedAttributes())+2)
	for _, av := range e.PopulatedAttributes() {
		m[av.Attribute.Name()] = attributeToken(av.Value)
	}
	if e.HasData() {
		if err := c.encodeDataInto(m, e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// attributeToken maps an attribute value to its JSON token: native tokens
// for Boolean and Integer, canonical text for everything else.
func attributeToken(v spec.Value) any {
	switch v.Kind() {
	case spec.TypeBoolean:
		return v.Bool()
	case spec.TypeInteger:
		return v.Int()
	default:
		return v.String()
	}
}

// encodeDataInto applies the encoding decision table to the data payload:
//
//  1. byte-sequence data goes to the base64 side channel, whatever the
//     declared content type
//  2. absent or JSON content types serialize the value through the engine
//     into the data field, inferring application/json when none declared
//  3. text content types store text values verbatim
//  4. anything else is unsupported
func (c *Codec) encodeDataInto(m map[string]any, e *event.Envelope) error {
	ct := e.DataContentType()
	data, err := c.applyStrategies(e.Data(), ct)
	if err != nil {
		return err
	}

	switch d := data.(type) {
	case []byte:
		m[fieldDataBase64] = base64.StdEncoding.EncodeToString(d)
		return nil
	case json.RawMessage:
		if ct == "" || c.jsonMedia(ct) {
			m[fieldData] = d
			if ct == "" {
				m["datacontenttype"] = MediaTypeJSON
			}
			return nil
		}
		return &UnsupportedDataTypeError{ContentType: ct, Data: data}
	}

	if ct == "" || c.jsonMedia(ct) {
		m[fieldData] = data
		if ct == "" {
			m["datacontenttype"] = MediaTypeJSON
		}
		return nil
	}
	if s, ok := data.(string); ok && IsTextMediaType(ct) {
		m[fieldData] = s
		return nil
	}
	return &UnsupportedDataTypeError{ContentType: ct, Data: data}
}

// decodeObject applies the decoding decision table to one structured-mode
// object.
func (c *Codec) decodeObject(m map[string]json.RawMessage) (*event.Envelope, error) {
	rawVersion, ok := m[fieldSpecVersion]
	if !ok || kindOf(rawVersion) == tokenNull {
		return nil, &event.MissingRequiredAttributeError{Name: fieldSpecVersion}
	}
	if kindOf(rawVersion) != tokenString {
		return nil, &InvalidTokenTypeError{Name: fieldSpecVersion, Type: spec.TypeString, Token: kindOf(rawVersion).String()}
	}
	var versionID string
	if err := c.engine.Unmarshal(rawVersion, &versionID); err != nil {
		return nil, err
	}
	version, ok := spec.Lookup(versionID)
	if !ok {
		return nil, &spec.UnsupportedSpecVersionError{Version: versionID}
	}

	e, err := event.NewEnvelope(version, c.extensionList()...)
	if err != nil {
		return nil, err
	}

	rawData, hasData := m[fieldData]
	if hasData && kindOf(rawData) == tokenNull {
		hasData = false
	}
	rawBase64, hasBase64 := m[fieldDataBase64]
	if hasBase64 && kindOf(rawBase64) == tokenNull {
		hasBase64 = false
	}
	if hasData && hasBase64 {
		return nil, ErrConflictingDataRepresentation
	}

	for _, name := range sortedKeys(m) {
		switch name {
		case fieldSpecVersion, fieldData, fieldDataBase64:
			continue
		}
		if err := c.decodeAttribute(e, name, m[name]); err != nil {
			return nil, err
		}
	}

	if hasBase64 {
		if kindOf(rawBase64) != tokenString {
			return nil, spec.Named(&spec.InvalidAttributeValueError{
				Type: spec.TypeBinary, Text: string(rawBase64),
				Reason: "data_base64 must be a JSON string",
			}, fieldDataBase64)
		}
		var b64 string
		if err := c.engine.Unmarshal(rawBase64, &b64); err != nil {
			return nil, err
		}
		v, err := spec.TypeBinary.Parse(b64)
		if err != nil {
			return nil, spec.Named(err, fieldDataBase64)
		}
		e.ReplaceData(v.Bytes())
	}

	if hasData {
		if err := c.decodeDataField(e, rawData); err != nil {
			return nil, err
		}
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// decodeDataField applies the structured-mode data rules: JSON content
// types keep the raw token as an opaque node; text content types require a
// string token; everything else is an invalid representation.
func (c *Codec) decodeDataField(e *event.Envelope, raw json.RawMessage) error {
	ct := e.DataContentType()
	if ct == "" {
		ct = MediaTypeJSON
	}
	if c.jsonMedia(ct) {
		node := make(json.RawMessage, len(raw))
		copy(node, raw)
		e.ReplaceData(node)
		return nil
	}
	if IsTextMediaType(ct) && kindOf(raw) == tokenString {
		var s string
		if err := c.engine.Unmarshal(raw, &s); err != nil {
			return err
		}
		e.ReplaceData(s)
		return nil
	}
	return &InvalidDataRepresentationError{
		Reason: "a " + kindOf(raw).String() + " data token cannot carry content type " + ct,
	}
}

// decodeAttribute applies the attribute token rules: declared attributes
// enforce an exact token-type match, extensions decode leniently from any
// token with a textual rendering, and null tokens mean "absent".
func (c *Codec) decodeAttribute(e *event.Envelope, name string, raw json.RawMessage) error {
	kind := kindOf(raw)
	if kind == tokenNull {
		return nil
	}

	if std, ok := e.Version().Attribute(name); ok {
		v, err := c.strictValue(name, std.Kind(), raw, kind)
		if err != nil {
			return err
		}
		return e.Set(std, v)
	}

	if decl, ok := e.Attribute(name); ok {
		text, err := c.tokenText(name, decl.Kind(), raw, kind)
		if err != nil {
			return err
		}
		v, err := decl.Kind().Parse(text)
		if err != nil {
			return spec.Named(err, name)
		}
		return e.Set(decl, v)
	}

	return c.decodeInferredExtension(e, name, raw, kind)
}

// strictValue enforces the exact token shape for a declared attribute and
// parses the value.
func (c *Codec) strictValue(name string, typ spec.Type, raw json.RawMessage, kind tokenKind) (spec.Value, error) {
	switch typ {
	case spec.TypeBoolean:
		if kind != tokenBool {
			return spec.Value{}, &InvalidTokenTypeError{Name: name, Type: typ, Token: kind.String()}
		}
	case spec.TypeInteger:
		if kind != tokenNumber {
			return spec.Value{}, &InvalidTokenTypeError{Name: name, Type: typ, Token: kind.String()}
		}
	default:
		if kind != tokenString {
			return spec.Value{}, &InvalidTokenTypeError{Name: name, Type: typ, Token: kind.String()}
		}
	}
	text, err := c.tokenText(name, typ, raw, kind)
	if err != nil {
		return spec.Value{}, err
	}
	v, err := typ.Parse(text)
	if err != nil {
		return spec.Value{}, spec.Named(err, name)
	}
	return v, nil
}

// tokenText produces the textual rendering of a token: the content of a
// string, the literal text of a number, or "true"/"false". Objects and
// arrays have no textual rendering and always fail.
func (c *Codec) tokenText(name string, typ spec.Type, raw json.RawMessage, kind tokenKind) (string, error) {
	switch kind {
	case tokenString:
		var s string
		if err := c.engine.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case tokenNumber, tokenBool:
		return string(bytes.TrimSpace(raw)), nil
	default:
		return "", &InvalidTokenTypeError{Name: name, Type: typ, Token: kind.String()}
	}
}

// decodeInferredExtension handles extensions with no declaration in sight:
// string tokens become String attributes, booleans become Boolean, and
// integral numbers become Integer. Other tokens fail.
func (c *Codec) decodeInferredExtension(e *event.Envelope, name string, raw json.RawMessage, kind tokenKind) error {
	switch kind {
	case tokenString:
		var s string
		if err := c.engine.Unmarshal(raw, &s); err != nil {
			return err
		}
		return e.SetFromText(name, s)
	case tokenBool, tokenNumber:
		typ := spec.TypeBoolean
		if kind == tokenNumber {
			typ = spec.TypeInteger
		}
		ext, err := spec.NewExtension(name, typ)
		if err != nil {
			return err
		}
		v, err := typ.Parse(string(bytes.TrimSpace(raw)))
		if err != nil {
			return spec.Named(err, name)
		}
		return e.Set(ext, v)
	default:
		return &InvalidTokenTypeError{Name: name, Type: spec.TypeString, Token: kind.String()}
	}
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package event implements the CloudEvents envelope: a typed attribute bag
// for one event instance, plus the validator that decides whether an
// envelope is fit for encoding. Envelopes follow single-owner value
// semantics; nothing in this package is safe for concurrent mutation.
package event

import (
	"reflect"
	"time"

	"github.com/meshwire/eventkit/internal/ids"
	"github.com/meshwire/eventkit/internal/spec"
)

// AttributeValue pairs a populated attribute declaration with its value.
type AttributeValue struct {
	Attribute spec.Attribute
	Value     spec.Value
}

// Envelope is one event instance. It owns a spec version reference, the
// populated attribute values, the set of known extension declarations, and
// the opaque data payload slot.
//
// The data slot holds one of: nil (no data), []byte (binary data), string
// (text data), json.RawMessage (an opaque structured node), or any other
// value treated as a generic structured value.
type Envelope struct {
	version  *spec.Version
	declared map[string]spec.Attribute
	values   map[string]spec.Value
	extOrder []string
	data     any
}

// NewEnvelope creates an empty envelope for the given spec version (nil
// selects the default version) with an optional set of permitted extension
// attribute declarations. The specversion attribute is populated
// immediately; everything else starts unset.
func NewEnvelope(version *spec.Version, extensions ...spec.Attribute) (*Envelope, error) {
	if version == nil {
		version = spec.Default()
	}
	e := &Envelope{
		version:  version,
		declared: make(map[string]spec.Attribute, len(extensions)),
		values:   make(map[string]spec.Value, 8),
	}
	for _, ext := range extensions {
		if !ext.IsExtension() {
			return nil, ErrNotExtension
		}
		if prev, ok := e.declared[ext.Name()]; ok && !prev.Equal(ext) {
			return nil, &TypeConflictError{Name: ext.Name(), Existing: prev.Kind(), Proposed: ext.Kind()}
		}
		e.declared[ext.Name()] = ext
	}
	e.values["specversion"] = spec.String(version.ID())
	return e, nil
}

// New creates a populated envelope for the default spec version: a fresh
// ULID id, the current UTC time, and the given type and source.
func New(eventType, source string) (*Envelope, error) {
	e, err := NewEnvelope(nil)
	if err != nil {
		return nil, err
	}
	if err := e.SetFromText("id", ids.CreateULID()); err != nil {
		return nil, err
	}
	if err := e.SetFromText("type", eventType); err != nil {
		return nil, err
	}
	if err := e.SetFromText("source", source); err != nil {
		return nil, err
	}
	std, _ := e.version.Attribute("time")
	if err := e.Set(std, spec.Time(time.Now().UTC())); err != nil {
		return nil, err
	}
	return e, nil
}

// Version returns the envelope's spec version.
func (e *Envelope) Version() *spec.Version { return e.version }

// Attribute resolves the declaration bound to name: a standard attribute of
// the spec version, or a known extension declaration.
func (e *Envelope) Attribute(name string) (spec.Attribute, bool) {
	if std, ok := e.version.Attribute(name); ok {
		return std, true
	}
	ext, ok := e.declared[name]
	return ext, ok
}

// Set validates the value against the attribute's type and stores it. A
// name already bound to a different type is rejected; only one type is ever
// associated with a name within an envelope's lifetime.
func (e *Envelope) Set(attr spec.Attribute, v spec.Value) error {
	name := attr.Name()
	if std, ok := e.version.Attribute(name); ok {
		if attr.IsExtension() || attr.Kind() != std.Kind() {
			return &TypeConflictError{Name: name, Existing: std.Kind(), Proposed: attr.Kind()}
		}
	} else {
		if !attr.IsExtension() {
			return &UndeclaredAttributeError{Name: name, Version: e.version.ID()}
		}
		if prev, ok := e.declared[name]; ok {
			if !prev.Equal(attr) {
				return &TypeConflictError{Name: name, Existing: prev.Kind(), Proposed: attr.Kind()}
			}
		} else {
			e.declared[name] = attr
		}
	}
	if v.Kind() != attr.Kind() {
		return spec.Named(&spec.InvalidAttributeValueError{
			Type: attr.Kind(), Text: v.String(),
			Reason: "value is of type " + v.Kind().String(),
		}, name)
	}
	if err := attr.Kind().Validate(v); err != nil {
		return spec.Named(err, name)
	}
	if name == "specversion" && v.Text() != e.version.ID() {
		return &spec.UnsupportedSpecVersionError{Version: v.Text()}
	}
	e.put(name, attr, v)
	return nil
}

// SetFromText resolves the declaration for name and parses text with its
// type. Unknown names that are valid tokens are declared as permissive
// String extensions; anything else fails with InvalidAttributeValue.
func (e *Envelope) SetFromText(name, text string) error {
	attr, ok := e.Attribute(name)
	if !ok {
		ext, err := spec.NewExtension(name, spec.TypeString)
		if err != nil {
			return err
		}
		attr = ext
	}
	v, err := attr.Kind().Parse(text)
	if err != nil {
		return spec.Named(err, name)
	}
	return e.Set(attr, v)
}

// Get returns the value bound to name, if populated.
func (e *Envelope) Get(name string) (spec.Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Delete removes the value bound to name. The declaration, and with it the
// name's type binding, stays.
func (e *Envelope) Delete(name string) {
	if _, ok := e.values[name]; !ok {
		return
	}
	delete(e.values, name)
	for i, n := range e.extOrder {
		if n == name {
			e.extOrder = append(e.extOrder[:i], e.extOrder[i+1:]...)
			break
		}
	}
}

// PopulatedAttributes returns the populated attributes in deterministic
// order: standard attributes in spec-defined order first, then extensions
// in the order they were first set.
func (e *Envelope) PopulatedAttributes() []AttributeValue {
	out := make([]AttributeValue, 0, len(e.values))
	for _, std := range e.version.Attributes() {
		if v, ok := e.values[std.Name()]; ok {
			out = append(out, AttributeValue{Attribute: std, Value: v})
		}
	}
	for _, name := range e.extOrder {
		if v, ok := e.values[name]; ok {
			out = append(out, AttributeValue{Attribute: e.declared[name], Value: v})
		}
	}
	return out
}

// SetData stores the data payload and its companion datacontenttype. An
// empty contentType clears any previously set datacontenttype; a nil value
// with an empty contentType clears the data slot entirely.
func (e *Envelope) SetData(value any, contentType string) error {
	if contentType == "" {
		e.Delete("datacontenttype")
	} else {
		if err := e.SetFromText("datacontenttype", contentType); err != nil {
			return err
		}
	}
	e.data = value
	return nil
}

// ReplaceData swaps the data payload, leaving datacontenttype untouched.
func (e *Envelope) ReplaceData(value any) { e.data = value }

// Data returns the data payload, or nil when absent.
func (e *Envelope) Data() any { return e.data }

// HasData reports whether a data payload is present.
func (e *Envelope) HasData() bool { return e.data != nil }

// DataContentType returns the populated datacontenttype, or "".
func (e *Envelope) DataContentType() string {
	v, ok := e.values["datacontenttype"]
	if !ok {
		return ""
	}
	return v.Text()
}

// Clear unsets every attribute value except specversion, and drops the data
// payload. Extension declarations, and with them the type bound to each
// name, survive.
func (e *Envelope) Clear() {
	e.values = make(map[string]spec.Value, 8)
	e.values["specversion"] = spec.String(e.version.ID())
	e.extOrder = nil
	e.data = nil
}

// Clone returns a deep copy of the envelope. Binary attribute values and
// the data payload share backing storage with the original; both are
// treated as immutable once set.
func (e *Envelope) Clone() *Envelope {
	c := &Envelope{
		version:  e.version,
		declared: make(map[string]spec.Attribute, len(e.declared)),
		values:   make(map[string]spec.Value, len(e.values)),
		extOrder: append([]string(nil), e.extOrder...),
		data:     e.data,
	}
	for k, v := range e.declared {
		c.declared[k] = v
	}
	for k, v := range e.values {
		c.values[k] = v
	}
	return c
}

// Equal reports structural equality over populated attributes and data.
func (e *Envelope) Equal(o *Envelope) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.version.ID() != o.version.ID() || len(e.values) != len(o.values) {
		return false
	}
	for name, v := range e.values {
		ov, ok := o.values[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return reflect.DeepEqual(e.data, o.data)
}

func (e *Envelope) put(name string, attr spec.Attribute, v spec.Value) {
	if _, exists := e.values[name]; !exists && attr.IsExtension() {
		e.extOrder = append(e.extOrder, name)
	}
	e.values[name] = v
}

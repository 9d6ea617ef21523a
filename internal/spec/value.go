package spec

import (
	"bytes"
	"time"
)

// Value is a tagged union over the seven attribute kinds. The zero Value is
// not a valid attribute value; construct values through the typed
// constructors or Type.Parse.
type Value struct {
	typ Type
	b   bool
	i   int32
	s   string
	bin []byte
	t   time.Time
}

// Bool returns a Boolean value.
func Bool(v bool) Value { return Value{typ: TypeBoolean, b: v} }

// Int returns an Integer value.
func Int(v int32) Value { return Value{typ: TypeInteger, i: v} }

// String returns a String value. The text is not checked here; Validate
// applies the character-safety rules.
func String(v string) Value { return Value{typ: TypeString, s: v} }

// Bytes returns a Binary value. The slice is not copied.
func Bytes(v []byte) Value { return Value{typ: TypeBinary, bin: v} }

// Time returns a Timestamp value.
func Time(v time.Time) Value { return Value{typ: TypeTimestamp, t: v} }

// URI returns a URI value.
func URI(v string) Value { return Value{typ: TypeURI, s: v} }

// URIRef returns a URI-Reference value.
func URIRef(v string) Value { return Value{typ: TypeURIRef, s: v} }

// Kind returns the attribute type this value belongs to.
func (v Value) Kind() Type { return v.typ }

// IsZero reports whether v is the zero Value, i.e. no value at all.
func (v Value) IsZero() bool {
	return v.typ == 0
}

// Bool returns the boolean payload. Valid only for Boolean values.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for Integer values.
func (v Value) Int() int32 { return v.i }

// Text returns the textual payload of String, URI, and URI-Reference values.
func (v Value) Text() string { return v.s }

// Bytes returns the binary payload. Valid only for Binary values.
func (v Value) Bytes() []byte { return v.bin }

// Time returns the timestamp payload. Valid only for Timestamp values.
func (v Value) Time() time.Time { return v.t }

// String renders the value in its canonical textual form.
func (v Value) String() string { return v.typ.Format(v) }

// Empty reports whether the value carries an empty payload: the empty
// string for text-shaped kinds, zero-length bytes for Binary. Boolean,
// Integer, and Timestamp values are never empty.
func (v Value) Empty() bool {
	switch v.typ {
	case TypeString, TypeURI, TypeURIRef:
		return v.s == ""
	case TypeBinary:
		return len(v.bin) == 0
	}
	return false
}

// Equal reports whether two values have the same kind and payload.
// Timestamps compare by instant, not by wall-clock representation.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeBinary:
		return bytes.Equal(v.bin, o.bin)
	case TypeBoolean:
		return v.b == o.b
	case TypeInteger:
		return v.i == o.i
	case TypeString, TypeURI, TypeURIRef:
		return v.s == o.s
	case TypeTimestamp:
		return v.t.Equal(o.t)
	}
	return false
}

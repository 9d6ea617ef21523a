// Package spec implements the CloudEvents attribute type system: the seven
// canonical attribute types with their parse/format/validate contracts, the
// tagged-union attribute value, attribute declarations, and the spec version
// table. Everything in this package is immutable after construction and safe
// for concurrent use.
package spec

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"
)

// Type enumerates the seven CloudEvents attribute types.
type Type int

const (
	TypeBinary Type = iota + 1
	TypeBoolean
	TypeInteger
	TypeString
	TypeTimestamp
	TypeURI
	TypeURIRef
)

// String returns the canonical display name of the type as used by the
// CloudEvents specification.
func (t Type) String() string {
	switch t {
	case TypeBinary:
		return "Binary"
	case TypeBoolean:
		return "Boolean"
	case TypeInteger:
		return "Integer"
	case TypeString:
		return "String"
	case TypeTimestamp:
		return "Timestamp"
	case TypeURI:
		return "URI"
	case TypeURIRef:
		return "URI-Reference"
	default:
		return "Unknown"
	}
}

// Parse converts the canonical textual form into a Value of this type.
// Parse and Format are exact inverses for every value Format can produce.
func (t Type) Parse(text string) (Value, error) {
	switch t {
	case TypeBinary:
		raw, err := base64.StdEncoding.Strict().DecodeString(text)
		if err != nil {
			return Value{}, invalidValue(t, text, "not strict standard base64")
		}
		return Bytes(raw), nil

	case TypeBoolean:
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Value{}, invalidValue(t, text, `must be exactly "true" or "false"`)

	case TypeInteger:
		n, err := parseInt32(text)
		if err != nil {
			return Value{}, invalidValue(t, text, err.Error())
		}
		return Int(n), nil

	case TypeString:
		if err := checkStringSafe(text); err != nil {
			return Value{}, invalidValue(t, text, err.Error())
		}
		return String(text), nil

	case TypeTimestamp:
		ts, err := time.Parse(time.RFC3339, text)
		if err != nil {
			return Value{}, invalidValue(t, text, "not an RFC 3339 date-time with offset")
		}
		return Time(ts), nil

	case TypeURI:
		u, err := url.Parse(text)
		if err != nil || !u.IsAbs() {
			return Value{}, invalidValue(t, text, "not an absolute URI")
		}
		return URI(text), nil

	case TypeURIRef:
		if _, err := url.Parse(text); err != nil {
			return Value{}, invalidValue(t, text, "not a valid URI reference")
		}
		return URIRef(text), nil
	}
	return Value{}, invalidValue(t, text, "unknown attribute type")
}

// Format renders the value in its canonical textual form. The value must be
// of this type; formatting a mismatched value returns the empty string.
func (t Type) Format(v Value) string {
	if v.typ != t {
		return ""
	}
	switch t {
	case TypeBinary:
		return base64.StdEncoding.EncodeToString(v.bin)
	case TypeBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case TypeInteger:
		return strconv.FormatInt(int64(v.i), 10)
	case TypeString, TypeURI, TypeURIRef:
		return v.s
	case TypeTimestamp:
		return v.t.Format(time.RFC3339Nano)
	}
	return ""
}

// Validate checks that the value belongs to this type and satisfies the
// type's value rules. Every value produced by Parse validates cleanly.
func (t Type) Validate(v Value) error {
	if v.typ != t {
		return invalidValue(t, t.Format(v), "value is of type "+v.typ.String())
	}
	switch t {
	case TypeString:
		if err := checkStringSafe(v.s); err != nil {
			return invalidValue(t, v.s, err.Error())
		}
	case TypeURI:
		u, err := url.Parse(v.s)
		if err != nil || !u.IsAbs() {
			return invalidValue(t, v.s, "not an absolute URI")
		}
	case TypeURIRef:
		if _, err := url.Parse(v.s); err != nil {
			return invalidValue(t, v.s, "not a valid URI reference")
		}
	}
	return nil
}

// parseInt32 applies the strict CloudEvents integer syntax: base-10, an
// optional leading minus, no leading plus, no leading zeros beyond "0"
// itself, no whitespace, and a 32-bit range.
func parseInt32(text string) (int32, error) {
	digits := text
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, errStr("empty integer")
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, errStr("not a base-10 integer")
		}
	}
	if digits[0] == '0' && (len(digits) > 1 || neg) {
		return 0, errStr("leading zeros are not allowed")
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, errStr("out of 32-bit range")
	}
	return int32(n), nil
}

// checkStringSafe enforces the String character rules: no ASCII control
// characters, no Unicode non-characters, no surrogates, and valid UTF-8.
func checkStringSafe(s string) error {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return errStr("invalid UTF-8 sequence")
		}
		if r < 0x20 || r == 0x7F {
			return errStr("control characters are not allowed")
		}
		if r >= 0xD800 && r <= 0xDFFF {
			return errStr("surrogate code points are not allowed")
		}
		if isNonCharacter(r) {
			return errStr("non-character code points are not allowed")
		}
		i += size
	}
	return nil
}

// isNonCharacter reports whether r is one of the 66 Unicode non-characters.
func isNonCharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	return r&0xFFFE == 0xFFFE
}

type errStr string

func (e errStr) Error() string { return string(e) }

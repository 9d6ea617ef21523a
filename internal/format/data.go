package format

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// effectiveCharset resolves the charset of a text media type, falling back
// to the codec's default.
func (c *Codec) effectiveCharset(mediaType string) string {
	if cs := charsetParam(mediaType); cs != "" {
		return cs
	}
	return c.defaultCharset
}

func isUTF8Charset(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// encodeText re-encodes text from UTF-8 into the charset declared by the
// media type.
func (c *Codec) encodeText(text, mediaType string) ([]byte, error) {
	cs := c.effectiveCharset(mediaType)
	if isUTF8Charset(cs) {
		return []byte(text), nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, &InvalidDataRepresentationError{Reason: "unknown charset " + cs, Err: err}
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, &InvalidDataRepresentationError{Reason: "cannot encode text as " + cs, Err: err}
	}
	return out, nil
}

// decodeText decodes body bytes into UTF-8 text using the charset declared
// by the media type.
func (c *Codec) decodeText(body []byte, mediaType string) (string, error) {
	cs := c.effectiveCharset(mediaType)
	if isUTF8Charset(cs) {
		return string(body), nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return "", &InvalidDataRepresentationError{Reason: "unknown charset " + cs, Err: err}
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", &InvalidDataRepresentationError{Reason: "cannot decode text as " + cs, Err: err}
	}
	return string(out), nil
}

// tokenKind classifies a raw JSON token by its first significant byte.
type tokenKind int

const (
	tokenInvalid tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenObject
	tokenArray
)

func (k tokenKind) String() string {
	switch k {
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenBool:
		return "boolean"
	case tokenNull:
		return "null"
	case tokenObject:
		return "object"
	case tokenArray:
		return "array"
	default:
		return "invalid"
	}
}

func kindOf(raw []byte) tokenKind {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return tokenInvalid
	}
	switch trimmed[0] {
	case '"':
		return tokenString
	case '{':
		return tokenObject
	case '[':
		return tokenArray
	case 't', 'f':
		return tokenBool
	case 'n':
		return tokenNull
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return tokenNumber
	default:
		return tokenInvalid
	}
}

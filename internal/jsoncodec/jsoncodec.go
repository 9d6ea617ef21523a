// Package jsoncodec wraps the sonic JSON engine behind a std-compatible
// surface. The format codec takes it as its default text engine; callers can
// swap in any engine with the same Marshal/Unmarshal contract.
package jsoncodec

import (
	"io"

	"github.com/bytedance/sonic"
)

var defaultConfig = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return defaultConfig.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return defaultConfig.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return defaultConfig.Unmarshal(data, v)
}

func Encode(w io.Writer, v any) error {
	enc := defaultConfig.NewEncoder(w)
	return enc.Encode(v)
}

func Decode(r io.Reader, v any) error {
	dec := defaultConfig.NewDecoder(r)
	return dec.Decode(v)
}

// Sonic is the sonic-backed text engine. The zero value is ready to use and
// safe for concurrent calls.
type Sonic struct{}

func (Sonic) Marshal(v any) ([]byte, error) { return defaultConfig.Marshal(v) }

func (Sonic) Unmarshal(data []byte, v any) error { return defaultConfig.Unmarshal(data, v) }

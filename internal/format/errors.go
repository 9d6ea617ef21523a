package format

import (
	"errors"
	"fmt"

	"github.com/meshwire/eventkit/internal/spec"
)

// ErrConflictingDataRepresentation is returned when a structured-mode
// object populates both data and data_base64.
var ErrConflictingDataRepresentation = errors.New("eventkit: data and data_base64 are mutually exclusive")

// InvalidTokenTypeError reports a wire token whose JSON shape does not
// match the attribute's declared type.
type InvalidTokenTypeError struct {
	Name  string
	Type  spec.Type
	Token string
}

func (e *InvalidTokenTypeError) Error() string {
	return fmt.Sprintf("eventkit: attribute %q is declared %s but carried as a JSON %s token", e.Name, e.Type, e.Token)
}

// InvalidDataRepresentationError reports a data field whose token shape is
// not usable under the effective content type, or a body that is not valid
// for the representation being decoded.
type InvalidDataRepresentationError struct {
	Reason string
	Err    error
}

func (e *InvalidDataRepresentationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eventkit: invalid data representation: %s: %v", e.Reason, e.Err)
	}
	return "eventkit: invalid data representation: " + e.Reason
}

func (e *InvalidDataRepresentationError) Unwrap() error { return e.Err }

// UnsupportedDataTypeError reports an encode-side payload for which no
// decision-table rule matches.
type UnsupportedDataTypeError struct {
	ContentType string
	Data        any
}

func (e *UnsupportedDataTypeError) Error() string {
	return fmt.Sprintf("eventkit: unsupported data type %T for content type %q", e.Data, e.ContentType)
}

// MalformedBatchElementError reports a batch element that is not an
// object-shaped token, or that failed to decode. Index is zero-based.
type MalformedBatchElementError struct {
	Index int
	Err   error
}

func (e *MalformedBatchElementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eventkit: malformed batch element at index %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("eventkit: malformed batch element at index %d: not a JSON object", e.Index)
}

func (e *MalformedBatchElementError) Unwrap() error { return e.Err }

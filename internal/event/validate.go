package event

import (
	"mime"

	"github.com/meshwire/eventkit/internal/spec"
)

// Validate checks the envelope against its spec version. Rules apply in
// order and fail fast:
//
//  1. every required attribute is present and non-empty
//  2. every populated extension's value matches the type declared for it
//  3. when data is present, a populated datacontenttype must be a
//     syntactically valid media type
func Validate(e *Envelope) error {
	for _, req := range e.version.Required() {
		v, ok := e.values[req.Name()]
		if !ok || v.Empty() {
			return &MissingRequiredAttributeError{Name: req.Name()}
		}
	}
	for _, name := range e.extOrder {
		v, ok := e.values[name]
		if !ok {
			continue
		}
		if decl := e.declared[name]; v.Kind() != decl.Kind() {
			return &TypeConflictError{Name: name, Existing: decl.Kind(), Proposed: v.Kind()}
		}
	}
	if e.data != nil {
		if ct := e.DataContentType(); ct != "" {
			if _, _, err := mime.ParseMediaType(ct); err != nil {
				return spec.Named(&spec.InvalidAttributeValueError{
					Type: spec.TypeString, Text: ct,
					Reason: "not a valid media type",
				}, "datacontenttype")
			}
		}
	}
	return nil
}

// Validate is the method form of the package-level Validate.
func (e *Envelope) Validate() error { return Validate(e) }

package spec

import "fmt"

// InvalidAttributeValueError reports a parse or validation failure for a
// single attribute value. Name is empty when the failure is not bound to a
// named attribute yet; callers attach the name with Named.
type InvalidAttributeValueError struct {
	Name   string
	Type   Type
	Text   string
	Reason string
}

func (e *InvalidAttributeValueError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("eventkit: invalid %s value %q: %s", e.Type, e.Text, e.Reason)
	}
	return fmt.Sprintf("eventkit: invalid %s value %q for attribute %q: %s", e.Type, e.Text, e.Name, e.Reason)
}

// Named returns a copy of err with the attribute name attached, when err is
// an InvalidAttributeValueError; any other error is returned unchanged.
func Named(err error, name string) error {
	if err == nil {
		return nil
	}
	if inv, ok := err.(*InvalidAttributeValueError); ok && inv.Name == "" {
		named := *inv
		named.Name = name
		return &named
	}
	return err
}

func invalidValue(typ Type, text, reason string) error {
	return &InvalidAttributeValueError{Type: typ, Text: text, Reason: reason}
}

// UnsupportedSpecVersionError reports an unknown spec version identifier.
type UnsupportedSpecVersionError struct {
	Version string
}

func (e *UnsupportedSpecVersionError) Error() string {
	return fmt.Sprintf("eventkit: unsupported spec version %q", e.Version)
}

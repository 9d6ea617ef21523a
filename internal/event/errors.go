package event

import (
	"errors"
	"fmt"

	"github.com/meshwire/eventkit/internal/spec"
)

// ErrNotExtension is returned when a standard attribute declaration is
// supplied where an extension declaration is required.
var ErrNotExtension = errors.New("eventkit: declaration is not an extension attribute")

// MissingRequiredAttributeError reports an unset or empty required
// attribute.
type MissingRequiredAttributeError struct {
	Name string
}

func (e *MissingRequiredAttributeError) Error() string {
	return fmt.Sprintf("eventkit: required attribute %q is missing or empty", e.Name)
}

// TypeConflictError reports a second type being bound to an attribute name
// that already carries a different one.
type TypeConflictError struct {
	Name     string
	Existing spec.Type
	Proposed spec.Type
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("eventkit: attribute %q is %s, cannot rebind as %s", e.Name, e.Existing, e.Proposed)
}

// UndeclaredAttributeError reports a non-extension declaration that the
// envelope's spec version does not define.
type UndeclaredAttributeError struct {
	Name    string
	Version string
}

func (e *UndeclaredAttributeError) Error() string {
	return fmt.Sprintf("eventkit: attribute %q is not defined by spec version %s", e.Name, e.Version)
}

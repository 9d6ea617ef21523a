package spec

// Attribute declares a single context attribute: its name, type, whether it
// is required by the spec version, and whether it is an extension. Two
// declarations are equal iff name and type match.
type Attribute struct {
	name      string
	typ       Type
	required  bool
	extension bool
}

// NewExtension declares an extension attribute. The name must be a
// lowercase alphanumeric token and must not collide with a standard
// attribute name of any registered spec version.
func NewExtension(name string, typ Type) (Attribute, error) {
	if !ValidName(name) {
		return Attribute{}, &InvalidAttributeValueError{
			Name: name, Type: typ, Text: name,
			Reason: "attribute names must be non-empty lowercase alphanumeric tokens",
		}
	}
	if reservedNames[name] {
		return Attribute{}, &InvalidAttributeValueError{
			Name: name, Type: typ, Text: name,
			Reason: "name is reserved by the CloudEvents specification",
		}
	}
	return Attribute{name: name, typ: typ, extension: true}, nil
}

func standardAttribute(name string, typ Type, required bool) Attribute {
	return Attribute{name: name, typ: typ, required: required}
}

// Name returns the attribute name.
func (a Attribute) Name() string { return a.name }

// Kind returns the declared attribute type.
func (a Attribute) Kind() Type { return a.typ }

// Required reports whether the attribute is required by its spec version.
func (a Attribute) Required() bool { return a.required }

// IsExtension reports whether the attribute is an extension attribute.
func (a Attribute) IsExtension() bool { return a.extension }

// IsZero reports whether a is the zero declaration.
func (a Attribute) IsZero() bool { return a.name == "" }

// Equal reports declaration equality: same name and same type.
func (a Attribute) Equal(o Attribute) bool {
	return a.name == o.name && a.typ == o.typ
}

// ValidName reports whether name is a legal attribute name: a non-empty
// token of lowercase ASCII letters and digits.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

var reservedNames = map[string]bool{
	"specversion":     true,
	"id":              true,
	"source":          true,
	"type":            true,
	"datacontenttype": true,
	"dataschema":      true,
	"subject":         true,
	"time":            true,
	"data":            true,
}

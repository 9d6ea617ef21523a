package spec

// Version describes one revision of the CloudEvents specification: the
// ordered required attributes and the recognized optional attributes, each
// with a fixed type. Versions are created once at package init and never
// mutated.
type Version struct {
	id       string
	ordered  []Attribute
	byName   map[string]Attribute
	required []Attribute
}

// V1 is CloudEvents 1.0, the canonical default version.
var V1 = newVersion("1.0",
	[]Attribute{
		standardAttribute("specversion", TypeString, true),
		standardAttribute("id", TypeString, true),
		standardAttribute("source", TypeURIRef, true),
		standardAttribute("type", TypeString, true),
	},
	[]Attribute{
		standardAttribute("datacontenttype", TypeString, false),
		standardAttribute("dataschema", TypeURI, false),
		standardAttribute("subject", TypeString, false),
		standardAttribute("time", TypeTimestamp, false),
	},
)

var versions = map[string]*Version{
	V1.ID(): V1,
}

// Lookup resolves a version identifier. The second return is false for
// unknown identifiers; callers surface UnsupportedSpecVersionError.
func Lookup(id string) (*Version, bool) {
	v, ok := versions[id]
	return v, ok
}

// Default returns the version used for envelopes constructed without an
// explicit version.
func Default() *Version { return V1 }

func newVersion(id string, required, optional []Attribute) *Version {
	v := &Version{
		id:       id,
		required: required,
		ordered:  append(append([]Attribute{}, required...), optional...),
		byName:   make(map[string]Attribute, len(required)+len(optional)),
	}
	for _, a := range v.ordered {
		v.byName[a.name] = a
	}
	return v
}

// ID returns the version identifier string, e.g. "1.0".
func (v *Version) ID() string { return v.id }

// Required returns the required attribute declarations in spec order.
func (v *Version) Required() []Attribute {
	return append([]Attribute{}, v.required...)
}

// Attributes returns all standard attribute declarations in spec order,
// required first.
func (v *Version) Attributes() []Attribute {
	return append([]Attribute{}, v.ordered...)
}

// Attribute resolves a standard attribute declaration by name.
func (v *Version) Attribute(name string) (Attribute, bool) {
	a, ok := v.byName[name]
	return a, ok
}

// Package transport holds the attribute mapping shared by the concrete
// protocol bindings. In binary mode every populated attribute except
// datacontenttype travels as a prefixed carrier header in canonical textual
// form; datacontenttype maps onto the carrier's native content-type slot.
package transport

import (
	"strings"

	"github.com/meshwire/eventkit/internal/event"
)

// Carrier key prefixes. Header-based carriers use HeaderPrefix; Watermill
// metadata uses MetadataPrefix because some brokers reject dashes in keys.
const (
	HeaderPrefix   = "ce-"
	MetadataPrefix = "ce_"
)

// Mode selects how an envelope travels on a carrier.
type Mode int

const (
	// ModeBinary spreads attributes over carrier headers and sends the
	// data payload as the carrier body.
	ModeBinary Mode = iota
	// ModeStructured sends the whole envelope as a single JSON document.
	ModeStructured
)

// WriteAttributes renders every populated attribute except datacontenttype
// through set, keyed by prefix plus the attribute name. The binding maps
// datacontenttype onto the carrier's content-type slot itself.
func WriteAttributes(e *event.Envelope, prefix string, set func(key, value string)) {
	for _, av := range e.PopulatedAttributes() {
		name := av.Attribute.Name()
		if name == "datacontenttype" {
			continue
		}
		set(prefix+name, av.Value.String())
	}
}

// ReadAttribute stores one carrier entry on the envelope if its key carries
// the prefix. The first return reports whether the key belonged to the
// binding at all; unprefixed keys are the carrier's own and are skipped.
func ReadAttribute(e *event.Envelope, prefix, key, value string) (bool, error) {
	name, ok := AttributeName(key, prefix)
	if !ok {
		return false, nil
	}
	return true, e.SetFromText(name, value)
}

// AttributeName strips the binding prefix from a carrier key and lowercases
// the remainder. Carrier keys are matched case-insensitively.
func AttributeName(key, prefix string) (string, bool) {
	if len(key) < len(prefix) || !strings.EqualFold(key[:len(prefix)], prefix) {
		return "", false
	}
	return strings.ToLower(key[len(prefix):]), true
}

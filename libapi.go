package eventkit

import (
	eventpkg "github.com/meshwire/eventkit/internal/event"
	formatpkg "github.com/meshwire/eventkit/internal/format"
	idspkg "github.com/meshwire/eventkit/internal/ids"
	loggingpkg "github.com/meshwire/eventkit/internal/logging"
	metricspkg "github.com/meshwire/eventkit/internal/metrics"
	specpkg "github.com/meshwire/eventkit/internal/spec"
)

type (
	// Attribute type system
	Type      = specpkg.Type
	Value     = specpkg.Value
	Attribute = specpkg.Attribute
	Version   = specpkg.Version

	// Envelope model
	Envelope       = eventpkg.Envelope
	AttributeValue = eventpkg.AttributeValue

	// JSON event format codec
	Codec      = formatpkg.Codec
	Option     = formatpkg.Option
	TextEngine = formatpkg.TextEngine
	DataCodec  = formatpkg.DataCodec

	ProtoDataCodec = formatpkg.ProtoDataCodec

	// Attribute and version errors
	InvalidAttributeValueError  = specpkg.InvalidAttributeValueError
	UnsupportedSpecVersionError = specpkg.UnsupportedSpecVersionError

	// Envelope errors
	MissingRequiredAttributeError = eventpkg.MissingRequiredAttributeError
	TypeConflictError             = eventpkg.TypeConflictError
	UndeclaredAttributeError      = eventpkg.UndeclaredAttributeError

	// Codec errors
	InvalidTokenTypeError          = formatpkg.InvalidTokenTypeError
	InvalidDataRepresentationError = formatpkg.InvalidDataRepresentationError
	UnsupportedDataTypeError       = formatpkg.UnsupportedDataTypeError
	MalformedBatchElementError     = formatpkg.MalformedBatchElementError

	// Logging contract used by the transport bindings
	LogFields = loggingpkg.LogFields
	Logger    = loggingpkg.Logger

	// Prometheus instrumentation
	CodecMetrics      = metricspkg.CodecMetrics
	InstrumentedCodec = metricspkg.InstrumentedCodec
)

// Attribute types.
const (
	TypeBinary    = specpkg.TypeBinary
	TypeBoolean   = specpkg.TypeBoolean
	TypeInteger   = specpkg.TypeInteger
	TypeString    = specpkg.TypeString
	TypeTimestamp = specpkg.TypeTimestamp
	TypeURI       = specpkg.TypeURI
	TypeURIRef    = specpkg.TypeURIRef
)

// Media types of the JSON event format.
const (
	MediaTypeJSON                 = formatpkg.MediaTypeJSON
	MediaTypeCloudEventsJSON      = formatpkg.MediaTypeCloudEventsJSON
	MediaTypeCloudEventsBatchJSON = formatpkg.MediaTypeCloudEventsBatchJSON
)

var (
	// Envelope constructors and validation
	New         = eventpkg.New
	NewEnvelope = eventpkg.NewEnvelope
	Validate    = eventpkg.Validate

	// Attribute declarations and spec versions
	NewExtension = specpkg.NewExtension
	Lookup       = specpkg.Lookup
	Default      = specpkg.Default
	V1           = specpkg.V1

	// Typed value constructors
	Bool   = specpkg.Bool
	Int    = specpkg.Int
	String = specpkg.String
	Bytes  = specpkg.Bytes
	Time   = specpkg.Time
	URI    = specpkg.URI
	URIRef = specpkg.URIRef

	// Codec construction
	NewCodec                 = formatpkg.New
	WithTextEngine           = formatpkg.WithTextEngine
	WithDefaultCharset       = formatpkg.WithDefaultCharset
	WithJSONMediaTypeMatcher = formatpkg.WithJSONMediaTypeMatcher
	WithDataCodec            = formatpkg.WithDataCodec
	WithExtensions           = formatpkg.WithExtensions

	// Media type predicates
	IsJSONMediaType             = formatpkg.IsJSONMediaType
	IsTextMediaType             = formatpkg.IsTextMediaType
	IsCloudEventsMediaType      = formatpkg.IsCloudEventsMediaType
	IsCloudEventsBatchMediaType = formatpkg.IsCloudEventsBatchMediaType

	// Sentinel errors
	ErrNotExtension                  = eventpkg.ErrNotExtension
	ErrConflictingDataRepresentation = formatpkg.ErrConflictingDataRepresentation

	// Logging adapters
	NewSlogLogger       = loggingpkg.NewSlogLogger
	NewWatermillLogger  = loggingpkg.NewWatermillLogger
	NewWatermillAdapter = loggingpkg.NewWatermillAdapter
	NopLogger           = loggingpkg.Nop

	// Prometheus instrumentation
	NewCodecMetrics      = metricspkg.NewCodecMetrics
	NewInstrumentedCodec = metricspkg.NewInstrumentedCodec

	// CreateULID returns a lexicographically sortable unique event id.
	CreateULID = idspkg.CreateULID
)

// DecodeStructuredAs decodes a structured-mode payload and additionally
// unmarshals its data into T.
func DecodeStructuredAs[T any](c *Codec, payload []byte) (*Envelope, T, error) {
	return formatpkg.DecodeStructuredAs[T](c, payload)
}

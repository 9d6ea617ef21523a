// Package eventkit implements the CloudEvents envelope model and its JSON
// event format: a typed attribute system, versioned envelopes, and a codec
// for structured, binary, and batch payloads.
//
// An Envelope is one event instance. New creates a populated envelope with
// a fresh ULID id and the current time; NewEnvelope gives full control over
// the spec version and the permitted extension attributes. Attribute values
// are typed (Boolean, Integer, String, Binary, Timestamp, URI, and
// URI-Reference); every value round-trips through a canonical textual form,
// so envelopes survive any header-based transport unchanged.
//
// A Codec converts envelopes to and from the JSON event format. Structured
// mode carries the whole event in one application/cloudevents+json
// document, batch mode carries an array of them, and binary mode carries
// only the data payload, leaving attributes to the carrier. Codecs are
// immutable and safe for concurrent use; options select the serialization
// engine, declared extensions, and data codec strategies such as
// ProtoDataCodec for protobuf payloads.
//
// # Transports
//
// The transport subpackages bind envelopes to concrete carriers:
//   - transport/http: requests, responses, and an http.Handler adapter
//   - transport/watermill: Watermill messages with ce_ metadata keys
//   - transport/nats: NATS messages with ce- headers
//
// # Observability
//
// The tracing package propagates W3C trace context through the traceparent
// and tracestate extension attributes. InstrumentedCodec wraps a Codec with
// Prometheus counters per operation. Bindings log through the Logger
// contract, which adapts both slog and Watermill loggers.
package eventkit

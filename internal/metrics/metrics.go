// Package metrics exposes Prometheus instrumentation for codec operations.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/format"
	"github.com/meshwire/eventkit/internal/spec"
)

// Operation label values used by the codec collectors.
const (
	OpEncodeStructured = "encode_structured"
	OpDecodeStructured = "decode_structured"
	OpEncodeBatch      = "encode_batch"
	OpDecodeBatch      = "decode_batch"
	OpEncodeBinary     = "encode_binary"
	OpDecodeBinary     = "decode_binary"
)

// CodecMetrics tracks envelope encode/decode statistics.
type CodecMetrics struct {
	mu sync.Mutex

	opsTotal     *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	payloadBytes *prometheus.HistogramVec

	registerer prometheus.Registerer
	registered bool
}

// newCodecCounterVec creates a new counter vec with the standard eventkit/codec namespace.
func newCodecCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventkit",
			Subsystem: "codec",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewCodecMetrics creates a new codec metrics collector.
func NewCodecMetrics(registerer prometheus.Registerer) *CodecMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CodecMetrics{
		registerer:  registerer,
		opsTotal:    newCodecCounterVec("operations_total", "Total number of codec operations", []string{"operation"}),
		errorsTotal: newCodecCounterVec("errors_total", "Total number of failed codec operations", []string{"operation", "kind"}),
		payloadBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "eventkit",
				Subsystem: "codec",
				Name:      "payload_bytes",
				Help:      "Size of encoded or decoded payloads in bytes",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
			},
			[]string{"operation"},
		),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *CodecMetrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.opsTotal,
		m.errorsTotal,
		m.payloadBytes,
	}

	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// RecordOperation records a completed codec operation and its payload size.
func (m *CodecMetrics) RecordOperation(operation string, payloadSize int, err error) {
	m.opsTotal.WithLabelValues(operation).Inc()
	if err != nil {
		m.errorsTotal.WithLabelValues(operation, ErrorKind(err)).Inc()
		return
	}
	m.payloadBytes.WithLabelValues(operation).Observe(float64(payloadSize))
}

// Reset resets all metrics (useful for testing).
func (m *CodecMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opsTotal.Reset()
	m.errorsTotal.Reset()
	m.payloadBytes.Reset()
}

// ErrorKind maps a codec error to a low-cardinality label value.
func ErrorKind(err error) string {
	var (
		invalidAttr    *spec.InvalidAttributeValueError
		unsupportedVer *spec.UnsupportedSpecVersionError
		missing        *event.MissingRequiredAttributeError
		conflict       *event.TypeConflictError
		undeclared     *event.UndeclaredAttributeError
		token          *format.InvalidTokenTypeError
		invalidData    *format.InvalidDataRepresentationError
		unsupported    *format.UnsupportedDataTypeError
		batchElem      *format.MalformedBatchElementError
	)

	switch {
	case errors.Is(err, format.ErrConflictingDataRepresentation):
		return "data_conflict"
	case errors.As(err, &invalidAttr):
		return "invalid_attribute"
	case errors.As(err, &unsupportedVer):
		return "unsupported_version"
	case errors.As(err, &missing):
		return "missing_required"
	case errors.As(err, &conflict):
		return "type_conflict"
	case errors.As(err, &undeclared):
		return "undeclared_attribute"
	case errors.As(err, &token):
		return "invalid_token"
	case errors.As(err, &batchElem):
		return "malformed_batch"
	case errors.As(err, &invalidData):
		return "invalid_data"
	case errors.As(err, &unsupported):
		return "unsupported_data"
	default:
		return "other"
	}
}

// InstrumentedCodec wraps a Codec and records a metric per operation.
type InstrumentedCodec struct {
	codec   *format.Codec
	metrics *CodecMetrics
}

// NewInstrumentedCodec wraps codec so every operation updates metrics.
func NewInstrumentedCodec(codec *format.Codec, metrics *CodecMetrics) *InstrumentedCodec {
	if codec == nil {
		panic("eventkit: codec cannot be nil")
	}
	if metrics == nil {
		panic("eventkit: metrics cannot be nil")
	}
	return &InstrumentedCodec{codec: codec, metrics: metrics}
}

// Codec returns the wrapped codec.
func (c *InstrumentedCodec) Codec() *format.Codec {
	return c.codec
}

func (c *InstrumentedCodec) EncodeStructured(e *event.Envelope) ([]byte, error) {
	payload, err := c.codec.EncodeStructured(e)
	c.metrics.RecordOperation(OpEncodeStructured, len(payload), err)
	return payload, err
}

func (c *InstrumentedCodec) DecodeStructured(payload []byte) (*event.Envelope, error) {
	e, err := c.codec.DecodeStructured(payload)
	c.metrics.RecordOperation(OpDecodeStructured, len(payload), err)
	return e, err
}

func (c *InstrumentedCodec) EncodeBatch(envelopes []*event.Envelope) ([]byte, error) {
	payload, err := c.codec.EncodeBatch(envelopes)
	c.metrics.RecordOperation(OpEncodeBatch, len(payload), err)
	return payload, err
}

func (c *InstrumentedCodec) DecodeBatch(payload []byte) ([]*event.Envelope, error) {
	envelopes, err := c.codec.DecodeBatch(payload)
	c.metrics.RecordOperation(OpDecodeBatch, len(payload), err)
	return envelopes, err
}

func (c *InstrumentedCodec) EncodeBinaryData(e *event.Envelope) ([]byte, error) {
	body, err := c.codec.EncodeBinaryData(e)
	c.metrics.RecordOperation(OpEncodeBinary, len(body), err)
	return body, err
}

func (c *InstrumentedCodec) DecodeBinaryData(body []byte, e *event.Envelope) error {
	err := c.codec.DecodeBinaryData(body, e)
	c.metrics.RecordOperation(OpDecodeBinary, len(body), err)
	return err
}

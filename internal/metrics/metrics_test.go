package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/format"
	"github.com/meshwire/eventkit/internal/spec"
)

func newTestEnvelope(t *testing.T) *event.Envelope {
	t.Helper()
	e, err := event.NewEnvelope(nil)
	require.NoError(t, err)
	require.NoError(t, e.SetFromText("id", "e1"))
	require.NoError(t, e.SetFromText("source", "//src"))
	require.NoError(t, e.SetFromText("type", "t"))
	return e
}

func TestInstrumentedCodecCountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCodecMetrics(reg)
	require.NoError(t, m.Register())
	c := NewInstrumentedCodec(format.New(), m)

	payload, err := c.EncodeStructured(newTestEnvelope(t))
	require.NoError(t, err)

	_, err = c.DecodeStructured(payload)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues(OpEncodeStructured)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues(OpDecodeStructured)))
}

func TestInstrumentedCodecCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCodecMetrics(reg)
	require.NoError(t, m.Register())
	c := NewInstrumentedCodec(format.New(), m)

	_, err := c.DecodeStructured([]byte(`{"specversion":"9.9","id":"a","source":"//s","type":"t"}`))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues(OpDecodeStructured, "unsupported_version")))
}

func TestInstrumentedCodecBatchAndBinary(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCodecMetrics(reg)
	require.NoError(t, m.Register())
	c := NewInstrumentedCodec(format.New(), m)

	e := newTestEnvelope(t)
	require.NoError(t, e.SetData("hello", "text/plain"))

	payload, err := c.EncodeBatch([]*event.Envelope{e})
	require.NoError(t, err)
	_, err = c.DecodeBatch(payload)
	require.NoError(t, err)

	body, err := c.EncodeBinaryData(e)
	require.NoError(t, err)
	target := newTestEnvelope(t)
	require.NoError(t, target.SetFromText("datacontenttype", "text/plain"))
	require.NoError(t, c.DecodeBinaryData(body, target))

	for _, op := range []string{OpEncodeBatch, OpDecodeBatch, OpEncodeBinary, OpDecodeBinary} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues(op)), op)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"data_conflict":        format.ErrConflictingDataRepresentation,
		"invalid_attribute":    &spec.InvalidAttributeValueError{Name: "id"},
		"unsupported_version":  &spec.UnsupportedSpecVersionError{Version: "9.9"},
		"missing_required":     &event.MissingRequiredAttributeError{Name: "id"},
		"type_conflict":        &event.TypeConflictError{Name: "ext"},
		"undeclared_attribute": &event.UndeclaredAttributeError{Name: "ext"},
		"invalid_token":        &format.InvalidTokenTypeError{Name: "id"},
		"invalid_data":         &format.InvalidDataRepresentationError{Reason: "bad"},
		"unsupported_data":     &format.UnsupportedDataTypeError{ContentType: "text/plain"},
		"malformed_batch":      &format.MalformedBatchElementError{Index: 0, Err: errors.New("x")},
		"other":                errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, ErrorKind(err), "%v", err)
	}

	// Wrapped errors still classify by their innermost kind.
	wrapped := &MalformedWrapper{inner: &spec.UnsupportedSpecVersionError{Version: "2.0"}}
	assert.Equal(t, "unsupported_version", ErrorKind(wrapped))
}

type MalformedWrapper struct{ inner error }

func (w *MalformedWrapper) Error() string { return "wrapped: " + w.inner.Error() }
func (w *MalformedWrapper) Unwrap() error { return w.inner }

func TestRegisterIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCodecMetrics(reg)

	require.NoError(t, m.Register())
	require.NoError(t, m.Register())
}

func TestReset(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCodecMetrics(reg)
	require.NoError(t, m.Register())

	m.RecordOperation(OpEncodeStructured, 10, nil)
	m.Reset()

	assert.Equal(t, 0.0, testutil.ToFloat64(m.opsTotal.WithLabelValues(OpEncodeStructured)))
}

func TestNilArgumentsPanic(t *testing.T) {
	m := NewCodecMetrics(prometheus.NewRegistry())
	require.Panics(t, func() { NewInstrumentedCodec(nil, m) })
	require.Panics(t, func() { NewInstrumentedCodec(format.New(), nil) })
}

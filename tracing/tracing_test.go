package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/meshwire/eventkit/internal/event"
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

func testSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	state, err := trace.ParseTraceState("vendor=value")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		TraceState: state,
	})
}

func TestInjectWritesTraceExtensions(t *testing.T) {
	e := newTestEnvelope(t)
	ctx := trace.ContextWithSpanContext(context.Background(), testSpanContext(t))

	Inject(ctx, e)

	parent, ok := e.Get(ExtTraceParent)
	require.True(t, ok)
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", parent.Text())

	state, ok := e.Get(ExtTraceState)
	require.True(t, ok)
	assert.Equal(t, "vendor=value", state.Text())
}

func TestInjectWithoutSpanIsNoop(t *testing.T) {
	e := newTestEnvelope(t)
	Inject(context.Background(), e)

	_, ok := e.Get(ExtTraceParent)
	assert.False(t, ok)
}

func TestExtractRoundTrip(t *testing.T) {
	e := newTestEnvelope(t)
	src := testSpanContext(t)
	Inject(trace.ContextWithSpanContext(context.Background(), src), e)

	got := SpanContext(e)
	require.True(t, got.IsValid())
	assert.Equal(t, src.TraceID(), got.TraceID())
	assert.Equal(t, src.SpanID(), got.SpanID())
	assert.Equal(t, src.TraceFlags(), got.TraceFlags())
	assert.Equal(t, "vendor=value", got.TraceState().String())
	assert.True(t, got.IsRemote())
}

func TestExtractWithoutExtensions(t *testing.T) {
	e := newTestEnvelope(t)
	assert.False(t, SpanContext(e).IsValid())
}

func TestExtensionsDeclareStringTypes(t *testing.T) {
	exts := Extensions()
	require.Len(t, exts, 2)
	e, err := event.NewEnvelope(nil, exts...)
	require.NoError(t, err)

	attr, ok := e.Attribute(ExtTraceParent)
	require.True(t, ok)
	assert.True(t, attr.IsExtension())
}

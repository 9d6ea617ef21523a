// Package tracing propagates W3C trace context through event envelopes.
// The span context travels as the traceparent and tracestate extension
// attributes, so consumers on the other side of any transport can continue
// the trace.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/spec"
)

// Extension attribute names carrying the trace context.
const (
	ExtTraceParent = "traceparent"
	ExtTraceState  = "tracestate"
)

var propagator = propagation.TraceContext{}

// Extensions returns the declared extension attributes used by this package.
// Pass them to NewEnvelope (or the codec's extension option) so decoders bind
// the names to the String type up front.
func Extensions() []spec.Attribute {
	parent, err := spec.NewExtension(ExtTraceParent, spec.TypeString)
	if err != nil {
		panic(err)
	}
	state, err := spec.NewExtension(ExtTraceState, spec.TypeString)
	if err != nil {
		panic(err)
	}
	return []spec.Attribute{parent, state}
}

// Inject writes the span context found in ctx onto the envelope's trace
// extensions. A context without a valid span leaves the envelope untouched.
func Inject(ctx context.Context, e *event.Envelope) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return
	}
	propagator.Inject(ctx, carrier{e: e})
}

// Extract returns a context carrying the span context stored on the
// envelope. An envelope without trace extensions returns ctx unchanged.
func Extract(ctx context.Context, e *event.Envelope) context.Context {
	return propagator.Extract(ctx, carrier{e: e})
}

// SpanContext returns the span context stored on the envelope, if any.
func SpanContext(e *event.Envelope) trace.SpanContext {
	return trace.SpanContextFromContext(Extract(context.Background(), e))
}

// carrier adapts an envelope to the propagation.TextMapCarrier contract.
type carrier struct {
	e *event.Envelope
}

func (c carrier) Get(key string) string {
	v, ok := c.e.Get(key)
	if !ok {
		return ""
	}
	return v.Text()
}

func (c carrier) Set(key, value string) {
	// traceparent and tracestate are valid extension names; the permissive
	// String fallback in SetFromText declares them on first use.
	_ = c.e.SetFromText(key, value)
}

func (c carrier) Keys() []string {
	keys := make([]string, 0, 2)
	for _, name := range []string{ExtTraceParent, ExtTraceState} {
		if _, ok := c.e.Get(name); ok {
			keys = append(keys, name)
		}
	}
	return keys
}

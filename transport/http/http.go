// Package http binds event envelopes to HTTP requests and responses.
// Structured mode sends the whole envelope as an application/cloudevents+json
// body; binary mode spreads attributes over ce- headers and sends the data
// payload as the body, with datacontenttype on the Content-Type header.
package http

import (
	"bytes"
	"context"
	"io"
	nethttp "net/http"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/format"
	"github.com/meshwire/eventkit/internal/logging"
	"github.com/meshwire/eventkit/internal/spec"
	"github.com/meshwire/eventkit/transport"
)

const contentTypeHeader = "Content-Type"

// Binding converts between envelopes and HTTP messages using a shared codec.
type Binding struct {
	codec *format.Codec
	log   logging.Logger
}

// NewBinding creates an HTTP binding. A nil logger discards binding logs.
func NewBinding(codec *format.Codec, log logging.Logger) *Binding {
	if codec == nil {
		panic("eventkit: codec cannot be nil")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Binding{codec: codec, log: log.With(logging.LogFields{"binding": "http"})}
}

// NewRequest builds an outgoing HTTP request carrying the envelope in the
// given mode.
func (b *Binding) NewRequest(ctx context.Context, method, url string, e *event.Envelope, mode transport.Mode) (*nethttp.Request, error) {
	body, contentType, header, err := b.render(e, mode)
	if err != nil {
		return nil, err
	}
	req, err := nethttp.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set(contentTypeHeader, contentType)
	}
	return req, nil
}

// WriteResponse writes the envelope onto an HTTP response in the given mode.
func (b *Binding) WriteResponse(w nethttp.ResponseWriter, e *event.Envelope, mode transport.Mode) error {
	body, contentType, header, err := b.render(e, mode)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if contentType != "" {
		w.Header().Set(contentTypeHeader, contentType)
	}
	_, err = w.Write(body)
	return err
}

func (b *Binding) render(e *event.Envelope, mode transport.Mode) (body []byte, contentType string, header nethttp.Header, err error) {
	switch mode {
	case transport.ModeStructured:
		body, err = b.codec.EncodeStructured(e)
		return body, format.MediaTypeCloudEventsJSON, nil, err
	default:
		body, err = b.codec.EncodeBinaryData(e)
		if err != nil {
			return nil, "", nil, err
		}
		header = nethttp.Header{}
		transport.WriteAttributes(e, transport.HeaderPrefix, func(k, v string) {
			header.Set(k, v)
		})
		return body, e.DataContentType(), header, nil
	}
}

// FromRequest reads one envelope from an incoming HTTP request. The mode is
// detected from the Content-Type header: application/cloudevents+json means
// structured mode, anything else binary mode.
func (b *Binding) FromRequest(r *nethttp.Request) (*event.Envelope, error) {
	contentType := r.Header.Get(contentTypeHeader)
	if format.IsCloudEventsMediaType(contentType) {
		return b.codec.DecodeStructuredFrom(r.Body)
	}
	return b.fromBinary(r.Header, r.Body, contentType)
}

func (b *Binding) fromBinary(header nethttp.Header, body io.Reader, contentType string) (*event.Envelope, error) {
	versionID := header.Get(transport.HeaderPrefix + "specversion")
	version, ok := spec.Lookup(versionID)
	if !ok {
		return nil, &spec.UnsupportedSpecVersionError{Version: versionID}
	}
	e, err := event.NewEnvelope(version, b.codec.Extensions()...)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		if len(values) == 0 {
			continue
		}
		if _, err := transport.ReadAttribute(e, transport.HeaderPrefix, key, values[0]); err != nil {
			return nil, err
		}
	}
	if contentType != "" {
		if err := e.SetFromText("datacontenttype", contentType); err != nil {
			return nil, err
		}
	}
	if err := b.codec.DecodeBinaryDataFrom(body, e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// HandlerFunc processes one decoded envelope.
type HandlerFunc func(ctx context.Context, e *event.Envelope) error

// NewHandler returns an http.Handler that decodes each request into an
// envelope and passes it to fn. Decode failures answer 400, handler
// failures 500; both are logged.
func (b *Binding) NewHandler(fn HandlerFunc) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		e, err := b.FromRequest(r)
		if err != nil {
			b.log.Error("failed to decode event", err, logging.LogFields{
				"remote": r.RemoteAddr,
				"path":   r.URL.Path,
			})
			nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
			return
		}
		id, _ := e.Get("id")
		if err := fn(r.Context(), e); err != nil {
			b.log.Error("event handler failed", err, logging.LogFields{"event_id": id.Text()})
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		b.log.Debug("event handled", logging.LogFields{"event_id": id.Text()})
		w.WriteHeader(nethttp.StatusNoContent)
	})
}

// Package nats binds event envelopes to NATS messages. Binary mode spreads
// attributes over ce- message headers with the data payload as the message
// body; structured mode sends the whole envelope as the body with the
// structured media type on the Content-Type header.
package nats

import (
	"github.com/nats-io/nats.go"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/format"
	"github.com/meshwire/eventkit/internal/spec"
	"github.com/meshwire/eventkit/transport"
)

const contentTypeHeader = "Content-Type"

// Binding converts between envelopes and NATS messages.
type Binding struct {
	codec *format.Codec
}

// NewBinding creates a NATS binding on top of codec.
func NewBinding(codec *format.Codec) *Binding {
	if codec == nil {
		panic("eventkit: codec cannot be nil")
	}
	return &Binding{codec: codec}
}

// ToMsg converts the envelope into a NATS message for the given subject.
func (b *Binding) ToMsg(subject string, e *event.Envelope, mode transport.Mode) (*nats.Msg, error) {
	msg := nats.NewMsg(subject)
	switch mode {
	case transport.ModeStructured:
		body, err := b.codec.EncodeStructured(e)
		if err != nil {
			return nil, err
		}
		msg.Data = body
		msg.Header.Set(contentTypeHeader, format.MediaTypeCloudEventsJSON)
	default:
		body, err := b.codec.EncodeBinaryData(e)
		if err != nil {
			return nil, err
		}
		msg.Data = body
		transport.WriteAttributes(e, transport.HeaderPrefix, func(k, v string) {
			msg.Header.Set(k, v)
		})
		if ct := e.DataContentType(); ct != "" {
			msg.Header.Set(contentTypeHeader, ct)
		}
	}
	return msg, nil
}

// FromMsg reads one envelope from a NATS message. The mode is detected from
// the Content-Type header.
func (b *Binding) FromMsg(msg *nats.Msg) (*event.Envelope, error) {
	contentType := msg.Header.Get(contentTypeHeader)
	if format.IsCloudEventsMediaType(contentType) {
		return b.codec.DecodeStructured(msg.Data)
	}

	versionID := msg.Header.Get(transport.HeaderPrefix + "specversion")
	version, ok := spec.Lookup(versionID)
	if !ok {
		return nil, &spec.UnsupportedSpecVersionError{Version: versionID}
	}
	e, err := event.NewEnvelope(version, b.codec.Extensions()...)
	if err != nil {
		return nil, err
	}
	for key, values := range msg.Header {
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
	if err := b.codec.DecodeBinaryData(msg.Data, e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Publish converts the envelope and publishes it on conn.
func (b *Binding) Publish(conn *nats.Conn, subject string, e *event.Envelope, mode transport.Mode) error {
	msg, err := b.ToMsg(subject, e, mode)
	if err != nil {
		return err
	}
	return conn.PublishMsg(msg)
}

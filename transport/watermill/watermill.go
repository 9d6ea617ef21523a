// Package watermill binds event envelopes to Watermill messages. Binary
// mode spreads attributes over ce_ metadata keys (brokers commonly reject
// dashes in keys) with the data payload as the message body; structured
// mode sends the whole envelope as the body with only the content type in
// metadata.
package watermill

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/format"
	"github.com/meshwire/eventkit/internal/spec"
	"github.com/meshwire/eventkit/transport"
)

// MetadataContentType carries the payload content type on a message.
const MetadataContentType = "content-type"

// Binding converts between envelopes and Watermill messages.
type Binding struct {
	codec *format.Codec
}

// NewBinding creates a Watermill binding on top of codec.
func NewBinding(codec *format.Codec) *Binding {
	if codec == nil {
		panic("eventkit: codec cannot be nil")
	}
	return &Binding{codec: codec}
}

// ToMessage converts the envelope into a Watermill message. The message
// UUID is the event id.
func (b *Binding) ToMessage(e *event.Envelope, mode transport.Mode) (*message.Message, error) {
	var (
		body []byte
		err  error
	)
	md := message.Metadata{}
	switch mode {
	case transport.ModeStructured:
		body, err = b.codec.EncodeStructured(e)
		md[MetadataContentType] = format.MediaTypeCloudEventsJSON
	default:
		body, err = b.codec.EncodeBinaryData(e)
		transport.WriteAttributes(e, transport.MetadataPrefix, func(k, v string) {
			md[k] = v
		})
		if ct := e.DataContentType(); ct != "" {
			md[MetadataContentType] = ct
		}
	}
	if err != nil {
		return nil, err
	}

	id, _ := e.Get("id")
	msg := message.NewMessage(id.Text(), body)
	msg.Metadata = md
	return msg, nil
}

// FromMessage reads one envelope from a Watermill message. Messages whose
// content-type metadata names the structured media type decode as a whole
// document; everything else decodes from ce_ metadata plus the body.
func (b *Binding) FromMessage(msg *message.Message) (*event.Envelope, error) {
	contentType := msg.Metadata.Get(MetadataContentType)
	if format.IsCloudEventsMediaType(contentType) {
		return b.codec.DecodeStructured(msg.Payload)
	}

	versionID := msg.Metadata.Get(transport.MetadataPrefix + "specversion")
	version, ok := spec.Lookup(versionID)
	if !ok {
		return nil, &spec.UnsupportedSpecVersionError{Version: versionID}
	}
	e, err := event.NewEnvelope(version, b.codec.Extensions()...)
	if err != nil {
		return nil, err
	}
	for key, value := range msg.Metadata {
		if key == MetadataContentType {
			continue
		}
		if _, err := transport.ReadAttribute(e, transport.MetadataPrefix, key, value); err != nil {
			return nil, err
		}
	}
	if contentType != "" {
		if err := e.SetFromText("datacontenttype", contentType); err != nil {
			return nil, err
		}
	}
	if err := b.codec.DecodeBinaryData(msg.Payload, e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Publish converts the envelope and hands it to publisher on topic.
func (b *Binding) Publish(ctx context.Context, publisher message.Publisher, topic string, e *event.Envelope, mode transport.Mode) error {
	msg, err := b.ToMessage(e, mode)
	if err != nil {
		return err
	}
	if ctx != nil {
		msg.SetContext(ctx)
	}
	return publisher.Publish(topic, msg)
}

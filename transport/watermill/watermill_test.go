package watermill

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwire/eventkit/internal/event"
	"github.com/meshwire/eventkit/internal/format"
	"github.com/meshwire/eventkit/transport"
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

func TestToMessageBinary(t *testing.T) {
	b := NewBinding(format.New())
	e := newTestEnvelope(t)
	require.NoError(t, e.SetFromText("myext", "x"))
	require.NoError(t, e.SetData("hello", "text/plain"))

	msg, err := b.ToMessage(e, transport.ModeBinary)
	require.NoError(t, err)

	assert.Equal(t, "e1", msg.UUID)
	assert.Equal(t, []byte("hello"), []byte(msg.Payload))
	assert.Equal(t, "1.0", msg.Metadata.Get("ce_specversion"))
	assert.Equal(t, "e1", msg.Metadata.Get("ce_id"))
	assert.Equal(t, "x", msg.Metadata.Get("ce_myext"))
	assert.Equal(t, "text/plain", msg.Metadata.Get(MetadataContentType))
	assert.Empty(t, msg.Metadata.Get("ce_datacontenttype"))
}

func TestToMessageStructured(t *testing.T) {
	b := NewBinding(format.New())
	msg, err := b.ToMessage(newTestEnvelope(t), transport.ModeStructured)
	require.NoError(t, err)

	assert.Equal(t, format.MediaTypeCloudEventsJSON, msg.Metadata.Get(MetadataContentType))
	assert.Contains(t, string(msg.Payload), `"specversion":"1.0"`)
}

func TestFromMessageStructured(t *testing.T) {
	b := NewBinding(format.New())
	msg := message.NewMessage("m1", []byte(`{"specversion":"1.0","id":"e1","source":"//src","type":"t"}`))
	msg.Metadata = message.Metadata{MetadataContentType: format.MediaTypeCloudEventsJSON}

	e, err := b.FromMessage(msg)
	require.NoError(t, err)
	id, _ := e.Get("id")
	assert.Equal(t, "e1", id.Text())
}

func TestFromMessageBinary(t *testing.T) {
	b := NewBinding(format.New())
	msg := message.NewMessage("m1", []byte(`{"n":1}`))
	msg.Metadata = message.Metadata{
		"ce_specversion":    "1.0",
		"ce_id":             "e1",
		"ce_source":         "//src",
		"ce_type":           "t",
		"ce_myext":          "7",
		MetadataContentType: "application/json",
	}

	e, err := b.FromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "application/json", e.DataContentType())
	assert.True(t, e.HasData())
	ext, ok := e.Get("myext")
	require.True(t, ok)
	assert.Equal(t, "7", ext.Text())
}

func TestFromMessageUnknownVersion(t *testing.T) {
	b := NewBinding(format.New())
	msg := message.NewMessage("m1", nil)
	msg.Metadata = message.Metadata{"ce_specversion": "9.9"}

	_, err := b.FromMessage(msg)
	require.Error(t, err)
}

func TestRoundTripBothModes(t *testing.T) {
	b := NewBinding(format.New())
	src := newTestEnvelope(t)
	require.NoError(t, src.SetData("hello", "text/plain"))

	for _, mode := range []transport.Mode{transport.ModeBinary, transport.ModeStructured} {
		msg, err := b.ToMessage(src, mode)
		require.NoError(t, err)
		got, err := b.FromMessage(msg)
		require.NoError(t, err)
		assert.True(t, src.Equal(got), "mode %d", mode)
	}
}

type capturePublisher struct {
	topic string
	msgs  []*message.Message
}

func (p *capturePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestPublish(t *testing.T) {
	b := NewBinding(format.New())
	pub := &capturePublisher{}

	err := b.Publish(context.Background(), pub, "orders", newTestEnvelope(t), transport.ModeBinary)
	require.NoError(t, err)
	assert.Equal(t, "orders", pub.topic)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "e1", pub.msgs[0].UUID)
}

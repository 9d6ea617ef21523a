package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/meshwire/eventkit/internal/event"
)

// EncodeBatch renders the envelopes as a JSON array of structured-mode
// objects, preserving order. An empty batch encodes as "[]".
func (c *Codec) EncodeBatch(envelopes []*event.Envelope) ([]byte, error) {
	objects := make([]map[string]any, 0, len(envelopes))
	for _, e := range envelopes {
		m, err := c.encodeObject(e)
		if err != nil {
			return nil, err
		}
		objects = append(objects, m)
	}
	return c.engine.Marshal(objects)
}

// EncodeBatchTo writes the batch array to w.
func (c *Codec) EncodeBatchTo(w io.Writer, envelopes []*event.Envelope) error {
	b, err := c.EncodeBatch(envelopes)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// DecodeBatch decodes a JSON array of structured-mode objects. Elements
// decode sequentially in wire order; the first invalid element aborts the
// whole batch.
func (c *Codec) DecodeBatch(payload []byte) ([]*event.Envelope, error) {
	if kindOf(payload) != tokenArray {
		return nil, &InvalidDataRepresentationError{Reason: "batch payload is not a JSON array"}
	}
	var elements []json.RawMessage
	if err := c.engine.Unmarshal(payload, &elements); err != nil {
		return nil, &InvalidDataRepresentationError{Reason: "batch payload is not a JSON array", Err: err}
	}

	out := make([]*event.Envelope, 0, len(elements))
	for i, element := range elements {
		if kindOf(element) != tokenObject {
			return nil, &MalformedBatchElementError{Index: i}
		}
		var m map[string]json.RawMessage
		if err := c.engine.Unmarshal(element, &m); err != nil {
			return nil, &MalformedBatchElementError{Index: i, Err: err}
		}
		e, err := c.decodeObject(m)
		if err != nil {
			return nil, fmt.Errorf("eventkit: batch element %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// DecodeBatchFrom reads a complete body from r and decodes it as a batch.
func (c *Codec) DecodeBatchFrom(r io.Reader) ([]*event.Envelope, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return c.DecodeBatch(payload)
}

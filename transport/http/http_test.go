package http

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func TestNewRequestStructured(t *testing.T) {
	b := NewBinding(format.New(), nil)
	e := newTestEnvelope(t)
	require.NoError(t, e.SetData("hello", ""))

	req, err := b.NewRequest(context.Background(), nethttp.MethodPost, "http://example.com/events", e, transport.ModeStructured)
	require.NoError(t, err)
	assert.Equal(t, format.MediaTypeCloudEventsJSON, req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"specversion":"1.0"`)
}

func TestNewRequestBinary(t *testing.T) {
	b := NewBinding(format.New(), nil)
	e := newTestEnvelope(t)
	require.NoError(t, e.SetFromText("subject", "orders/1"))
	require.NoError(t, e.SetData([]byte{1, 2, 3}, "application/octet-stream"))

	req, err := b.NewRequest(context.Background(), nethttp.MethodPost, "http://example.com/events", e, transport.ModeBinary)
	require.NoError(t, err)

	assert.Equal(t, "application/octet-stream", req.Header.Get("Content-Type"))
	assert.Equal(t, "1.0", req.Header.Get("ce-specversion"))
	assert.Equal(t, "e1", req.Header.Get("ce-id"))
	assert.Equal(t, "orders/1", req.Header.Get("ce-subject"))
	assert.Empty(t, req.Header.Get("ce-datacontenttype"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, body)
}

func TestFromRequestStructured(t *testing.T) {
	b := NewBinding(format.New(), nil)
	payload := `{"specversion":"1.0","id":"e1","source":"//src","type":"t","data":{"n":1}}`
	req := httptest.NewRequest(nethttp.MethodPost, "/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/cloudevents+json; charset=utf-8")

	e, err := b.FromRequest(req)
	require.NoError(t, err)
	id, _ := e.Get("id")
	assert.Equal(t, "e1", id.Text())
	assert.True(t, e.HasData())
}

func TestFromRequestBinary(t *testing.T) {
	b := NewBinding(format.New(), nil)
	req := httptest.NewRequest(nethttp.MethodPost, "/events", strings.NewReader("plain text"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("ce-specversion", "1.0")
	req.Header.Set("ce-id", "e1")
	req.Header.Set("ce-source", "//src")
	req.Header.Set("ce-type", "t")
	req.Header.Set("ce-myext", "7")

	e, err := b.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "plain text", e.Data())
	assert.Equal(t, "text/plain", e.DataContentType())
	ext, ok := e.Get("myext")
	require.True(t, ok)
	assert.Equal(t, "7", ext.Text())
}

func TestFromRequestBinaryUnknownVersion(t *testing.T) {
	b := NewBinding(format.New(), nil)
	req := httptest.NewRequest(nethttp.MethodPost, "/events", strings.NewReader(""))
	req.Header.Set("ce-specversion", "9.9")

	_, err := b.FromRequest(req)
	require.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	b := NewBinding(format.New(), nil)
	src := newTestEnvelope(t)
	require.NoError(t, src.SetFromText("time", "2024-05-01T10:00:00Z"))
	require.NoError(t, src.SetData("hello", "text/plain"))

	req, err := b.NewRequest(context.Background(), nethttp.MethodPost, "http://example.com/", src, transport.ModeBinary)
	require.NoError(t, err)

	got, err := b.FromRequest(req)
	require.NoError(t, err)
	assert.True(t, src.Equal(got))
}

func TestWriteResponseStructured(t *testing.T) {
	b := NewBinding(format.New(), nil)
	rec := httptest.NewRecorder()
	require.NoError(t, b.WriteResponse(rec, newTestEnvelope(t), transport.ModeStructured))

	assert.Equal(t, format.MediaTypeCloudEventsJSON, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"id":"e1"`)
}

func TestHandlerSuccess(t *testing.T) {
	b := NewBinding(format.New(), nil)
	var seen string
	h := b.NewHandler(func(ctx context.Context, e *event.Envelope) error {
		id, _ := e.Get("id")
		seen = id.Text()
		return nil
	})

	payload := `{"specversion":"1.0","id":"e1","source":"//src","type":"t"}`
	req := httptest.NewRequest(nethttp.MethodPost, "/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/cloudevents+json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusNoContent, rec.Code)
	assert.Equal(t, "e1", seen)
}

func TestHandlerDecodeFailure(t *testing.T) {
	b := NewBinding(format.New(), nil)
	h := b.NewHandler(func(ctx context.Context, e *event.Envelope) error { return nil })

	req := httptest.NewRequest(nethttp.MethodPost, "/events", strings.NewReader(`{"specversion":`))
	req.Header.Set("Content-Type", "application/cloudevents+json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestHandlerFailure(t *testing.T) {
	b := NewBinding(format.New(), nil)
	h := b.NewHandler(func(ctx context.Context, e *event.Envelope) error {
		return errors.New("boom")
	})

	payload := `{"specversion":"1.0","id":"e1","source":"//src","type":"t"}`
	req := httptest.NewRequest(nethttp.MethodPost, "/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/cloudevents+json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
}

package nats

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewMessage_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	msg, err := newMessage(ctx, "listing.created", map[string]string{"id": "rec-1"})
	require.NoError(t, err)

	assert.Equal(t, "listing.created", msg.Subject)
	var body map[string]string
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, "rec-1", body["id"])
	assert.Contains(t, msg.Header.Get("traceparent"), span.SpanContext().TraceID().String())
}

func TestNewMessage_MarshalError(t *testing.T) {
	_, err := newMessage(context.Background(), "listing.created", make(chan int))
	assert.Error(t, err)
}

func TestHeaderCarrier(t *testing.T) {
	h := nats.Header{}
	c := HeaderCarrier(h)
	c.Set("traceparent", "abc")

	assert.Equal(t, "abc", c.Get("traceparent"))
	assert.Equal(t, []string{"traceparent"}, c.Keys())
}

package checkoutlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestNewEntry_WithoutSpan(t *testing.T) {
	e := NewEntry(context.Background(), "s1", "browsing", "cart_review", "", "")

	assert.Equal(t, "s1", e.SessionID)
	assert.Equal(t, "browsing", e.From)
	assert.Equal(t, "cart_review", e.To)
	assert.Empty(t, e.TraceID)
	assert.Empty(t, e.SpanID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestNewEntry_WithSpan(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	e := NewEntry(ctx, "s1", "submitting", "confirmed", "order-1", "700")

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", e.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", e.SpanID)
	assert.Equal(t, "order-1", e.OrderID)
}

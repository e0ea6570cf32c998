package checkoutlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when the
// context carries no valid span, which is the normal case in tests.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry stamped with the current trace and time.
//
//	entry := checkoutlog.NewEntry(ctx, sessionID, "contacts", "submitting", "", "")
//	_ = repo.Append(ctx, entry)
func NewEntry(ctx context.Context, sessionID, from, to, orderID, detail string) *Entry {
	ti := ExtractTraceInfo(ctx)
	return &Entry{
		SessionID: sessionID,
		From:      from,
		To:        to,
		OrderID:   orderID,
		Detail:    detail,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		CreatedAt: time.Now().UTC(),
	}
}

// Package checkoutlog records every state transition of a checkout session.
//
// The journal is append-only. Each row captures which step the session left, which
// step it entered and the trace that was active at the time, so a failed order can
// be followed from the buyer's clicks to the remote call.
package checkoutlog

import "time"

// Entry is a single row of the checkout journal.
type Entry struct {
	// SessionID identifies one storefront session. A new id is issued after every
	// confirmed order.
	SessionID string

	// From and To are the checkout step names, e.g. "contacts" -> "submitting".
	From string
	To   string

	// OrderID is set on the transition into the confirmed step.
	OrderID string

	// Detail carries the failure message for rejected submissions and the
	// server-side total for confirmed ones.
	Detail string

	TraceID string
	SpanID  string

	CreatedAt time.Time
}

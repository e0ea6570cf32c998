package checkoutlog

import "context"

// Repository persists journal entries. The coordinator depends on this
// abstraction and skips journaling when it is nil.
type Repository interface {
	// Append stores a new entry; existing rows are never updated.
	Append(ctx context.Context, entry *Entry) error
}

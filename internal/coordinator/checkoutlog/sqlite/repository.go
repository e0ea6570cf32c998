// Package sqlite provides a SQLite-backed implementation of checkoutlog.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/storefront/internal/coordinator/checkoutlog"

	// pure-Go driver, no CGO
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkout_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT NOT NULL,
    from_step   TEXT NOT NULL,
    to_step     TEXT NOT NULL,
    order_id    TEXT,
    detail      TEXT NOT NULL DEFAULT '',
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_log_session ON checkout_log(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_checkout_log_order ON checkout_log(order_id);
`

// Repository is the SQLite implementation of checkoutlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ checkoutlog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/checkout.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Append(ctx context.Context, entry *checkoutlog.Entry) error {
	const q = `
		INSERT INTO checkout_log
			(session_id, from_step, to_step, order_id, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SessionID,
		entry.From,
		entry.To,
		nullableString(entry.OrderID),
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append checkout log for %q: %w", entry.SessionID, err)
	}
	return nil
}

// Session returns the entries of one session in the order they were written.
func (r *Repository) Session(ctx context.Context, sessionID string) ([]checkoutlog.Entry, error) {
	const q = `
		SELECT session_id, from_step, to_step, COALESCE(order_id, ''), detail,
		       trace_id, span_id, created_at
		FROM   checkout_log
		WHERE  session_id = ?
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query session %q: %w", sessionID, err)
	}
	defer rows.Close()

	var out []checkoutlog.Entry
	for rows.Next() {
		var e checkoutlog.Entry
		var createdAt string
		if err := rows.Scan(&e.SessionID, &e.From, &e.To, &e.OrderID, &e.Detail,
			&e.TraceID, &e.SpanID, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan session %q: %w", sessionID, err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate session %q: %w", sessionID, err)
	}
	return out, nil
}

// ByOrder returns the latest entry that references orderID.
func (r *Repository) ByOrder(ctx context.Context, orderID string) (*checkoutlog.Entry, error) {
	const q = `
		SELECT session_id, from_step, to_step, COALESCE(order_id, ''), detail,
		       trace_id, span_id, created_at
		FROM   checkout_log
		WHERE  order_id = ?
		ORDER  BY id DESC
		LIMIT  1`

	var e checkoutlog.Entry
	var createdAt string
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(&e.SessionID, &e.From, &e.To,
		&e.OrderID, &e.Detail, &e.TraceID, &e.SpanID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: order %q not found", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", orderID, err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// nullableString stores empty strings as NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

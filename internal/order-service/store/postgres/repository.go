// Package postgres stores accepted orders in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/storefront/internal/order-service/domain"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id              TEXT PRIMARY KEY,
	payment         TEXT NOT NULL,
	address         TEXT NOT NULL,
	email           TEXT NOT NULL,
	phone           TEXT NOT NULL,
	items           TEXT[] NOT NULL,
	subtotal        DOUBLE PRECISION NOT NULL,
	total           DOUBLE PRECISION NOT NULL,
	status          TEXT NOT NULL,
	idempotency_key TEXT,
	request_id      TEXT,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_idempotency_key ON orders (idempotency_key);
`

// Open connects to url and checks the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table when it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: apply schema: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, o *domain.Order) error {
	const q = `INSERT INTO orders
		(id, payment, address, email, phone, items, subtotal, total, status, idempotency_key, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.Payment,
		o.Address,
		o.Email,
		o.Phone,
		pq.Array(o.Items),
		o.Subtotal,
		o.Total,
		string(o.Status),
		nullable(o.IdempotencyKey),
		nullable(o.RequestID),
		o.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("postgres: order %s already exists", o.ID)
		}
		return fmt.Errorf("postgres: insert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT id, payment, address, email, phone, items, subtotal, total, status,
		idempotency_key, request_id, created_at
		FROM orders WHERE id = $1`

	var (
		o         domain.Order
		items     pq.StringArray
		status    string
		idemKey   sql.NullString
		requestID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID,
		&o.Payment,
		&o.Address,
		&o.Email,
		&o.Phone,
		&items,
		&o.Subtotal,
		&o.Total,
		&status,
		&idemKey,
		&requestID,
		&o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get order %s: %w", id, err)
	}

	o.Items = []string(items)
	o.Status = domain.OrderStatus(status)
	o.IdempotencyKey = idemKey.String
	o.RequestID = requestID.String
	return &o, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

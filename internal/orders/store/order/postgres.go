package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"letwise/internal/orders/models"
	"letwise/pkg/platform/sentinel"
	txcontext "letwise/pkg/platform/tx"
)

// Schema creates the orders table. The checkout service owns writes in
// production; this store only reads, plus Save for seeding and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id           UUID PRIMARY KEY,
	session_id   TEXT NOT NULL UNIQUE,
	product      TEXT NOT NULL,
	amount_pence BIGINT NOT NULL DEFAULT 0,
	paid_at      TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore reads orders from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed order store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// executor joins the caller's transaction when one is in the context.
func (s *PostgresStore) executor(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate orders: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, o *models.Order) error {
	_, err := s.executor(ctx).ExecContext(ctx, `
		INSERT INTO orders (id, session_id, product, amount_pence, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO UPDATE SET
			product = EXCLUDED.product,
			amount_pence = EXCLUDED.amount_pence,
			paid_at = EXCLUDED.paid_at`,
		o.ID, o.SessionID, o.Product, o.AmountPence, o.PaidAt, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var (
		o      models.Order
		paidAt sql.NullTime
	)
	err := s.executor(ctx).QueryRowContext(ctx, `
		SELECT id, session_id, product, amount_pence, paid_at, created_at
		FROM orders
		WHERE session_id = $1`, sessionID,
	).Scan(&o.ID, &o.SessionID, &o.Product, &o.AmountPence, &paidAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find order by session: %w", err)
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return &o, nil
}

// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mmynk/ledgerbot/internal/models"
	"github.com/mmynk/ledgerbot/internal/storage"
)

// Database schema, idempotent. seq orders records written in the same instant.
const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	amount      NUMERIC NOT NULL CHECK (amount > 0),
	category    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS shared_expenses (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	amount      NUMERIC NOT NULL CHECK (amount > 0),
	payer       TEXT NOT NULL,
	payee       TEXT NOT NULL,
	description TEXT NOT NULL,
	split       BOOLEAN NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS expenses_owner_created ON expenses(owner_id, created_at);
CREATE INDEX IF NOT EXISTS shared_expenses_owner_created ON shared_expenses(owner_id, created_at);
`

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// New connects to the database at dsn, checks it answers and creates the
// schema if needed.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrap("failed to reach database", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, wrap("failed to create schema", err)
	}

	return &PostgresStore{db: db}, nil
}

// wrap annotates err with the postgres error class when there is one.
func wrap(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (%s): %w", msg, pqErr.Code.Name(), err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Ping checks the server is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InsertExpense persists a personal expense.
func (s *PostgresStore) InsertExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, owner_id, amount, category, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, e.ID, e.OwnerID, e.Amount, e.Category, e.CreatedAt)
	if err != nil {
		return wrap("failed to insert expense", err)
	}
	return nil
}

// ListExpenses returns the owner's expenses since the given time, oldest first.
func (s *PostgresStore) ListExpenses(ctx context.Context, ownerID string, since time.Time) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, amount, category, created_at
		FROM expenses WHERE owner_id = $1 AND created_at >= $2
		ORDER BY created_at ASC, seq ASC
	`, ownerID, since)
	if err != nil {
		return nil, wrap("failed to list expenses", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Amount, &e.Category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("failed to iterate expenses", err)
	}
	return expenses, nil
}

// SumExpensesByCategory aggregates the owner's expenses per category, largest first.
func (s *PostgresStore) SumExpensesByCategory(ctx context.Context, ownerID string, since time.Time) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(amount) AS total
		FROM expenses WHERE owner_id = $1 AND created_at >= $2
		GROUP BY category
		ORDER BY total DESC, category ASC
	`, ownerID, since)
	if err != nil {
		return nil, wrap("failed to sum expenses", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("failed to iterate category totals", err)
	}
	return totals, nil
}

// InsertObligation persists one shared-expense obligation.
func (s *PostgresStore) InsertObligation(ctx context.Context, o *models.Obligation) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shared_expenses (id, owner_id, amount, payer, payee, description, split, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.OwnerID, o.Amount, o.Payer, o.Payee, o.Description, o.Split, o.CreatedAt)
	if err != nil {
		return wrap("failed to insert obligation", err)
	}
	return nil
}

// ListObligations returns all of the owner's obligations in the given order.
func (s *PostgresStore) ListObligations(ctx context.Context, ownerID string, order storage.Order) ([]models.Obligation, error) {
	query := `
		SELECT id, owner_id, amount, payer, payee, description, split, created_at
		FROM shared_expenses WHERE owner_id = $1
		ORDER BY created_at ASC, seq ASC`
	if order == storage.NewestFirst {
		query = `
		SELECT id, owner_id, amount, payer, payee, description, split, created_at
		FROM shared_expenses WHERE owner_id = $1
		ORDER BY created_at DESC, seq DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, wrap("failed to list obligations", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var o models.Obligation
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Amount, &o.Payer, &o.Payee, &o.Description, &o.Split, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		o.CreatedAt = o.CreatedAt.UTC()
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("failed to iterate obligations", err)
	}
	return obligations, nil
}

// DeleteObligations removes every obligation of the owner in one statement.
func (s *PostgresStore) DeleteObligations(ctx context.Context, ownerID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM shared_expenses WHERE owner_id = $1", ownerID)
	if err != nil {
		return 0, wrap("failed to delete obligations", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted obligations: %w", err)
	}
	return n, nil
}

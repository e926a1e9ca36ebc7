// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/ledgerbot/internal/models"
)

// Order selects the timestamp ordering of a listing.
type Order int

const (
	OldestFirst Order = iota
	NewestFirst
)

// Store defines the ledger storage operations.
// Every query is scoped to one owner; no method ever returns another owner's
// records. This abstraction allows swapping storage backends (SQLite,
// PostgreSQL) without changing the bot.
type Store interface {
	// InsertExpense persists a personal expense.
	// ID and CreatedAt are populated by the store when empty.
	InsertExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns the owner's expenses created at or after since,
	// oldest first.
	ListExpenses(ctx context.Context, ownerID string, since time.Time) ([]models.Expense, error)

	// SumExpensesByCategory groups the owner's expenses created at or after
	// since by category, largest total first.
	SumExpensesByCategory(ctx context.Context, ownerID string, since time.Time) ([]models.CategoryTotal, error)

	// InsertObligation persists one shared-expense obligation.
	// ID and CreatedAt are populated by the store when empty.
	InsertObligation(ctx context.Context, obligation *models.Obligation) error

	// ListObligations returns all of the owner's obligations in the given order.
	ListObligations(ctx context.Context, ownerID string, order Order) ([]models.Obligation, error)

	// DeleteObligations removes every obligation of the owner and reports
	// how many were removed.
	DeleteObligations(ctx context.Context, ownerID string) (int64, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbot/internal/models"
)

// InsertExpense persists a personal expense.
func (s *SQLiteStore) InsertExpense(ctx context.Context, expense *models.Expense) error {
	expense.ID = newID(expense.ID)
	expense.CreatedAt = stamp(expense.CreatedAt)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (id, owner_id, amount, category, created_at) VALUES (?, ?, ?, ?, ?)",
		expense.ID, expense.OwnerID, expense.Amount.InexactFloat64(), expense.Category, expense.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// ListExpenses retrieves the owner's expenses since the given time, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, ownerID string, since time.Time) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, amount, category, created_at
		 FROM expenses WHERE owner_id = ? AND created_at >= ?
		 ORDER BY created_at ASC, rowid ASC`,
		ownerID, since.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Amount, &e.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.CreatedAt = fromNanos(createdAt)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// SumExpensesByCategory aggregates the owner's expenses per category, largest first.
func (s *SQLiteStore) SumExpensesByCategory(ctx context.Context, ownerID string, since time.Time) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount) AS total
		 FROM expenses WHERE owner_id = ? AND created_at >= ?
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		ownerID, since.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		var total float64
		if err := rows.Scan(&ct.Category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		ct.Total = decimal.NewFromFloat(total)
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return totals, nil
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/ledgerbot/internal/models"
	"github.com/mmynk/ledgerbot/internal/storage"
)

// InsertObligation persists one shared-expense obligation.
func (s *SQLiteStore) InsertObligation(ctx context.Context, o *models.Obligation) error {
	o.ID = newID(o.ID)
	o.CreatedAt = stamp(o.CreatedAt)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shared_expenses (id, owner_id, amount, payer, payee, description, split, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OwnerID, o.Amount.InexactFloat64(), o.Payer, o.Payee, o.Description, o.Split, o.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert obligation: %w", err)
	}

	return nil
}

// ListObligations retrieves all of the owner's obligations.
func (s *SQLiteStore) ListObligations(ctx context.Context, ownerID string, order storage.Order) ([]models.Obligation, error) {
	query := `SELECT id, owner_id, amount, payer, payee, description, split, created_at
		 FROM shared_expenses WHERE owner_id = ?
		 ORDER BY created_at ASC, rowid ASC`
	if order == storage.NewestFirst {
		query = `SELECT id, owner_id, amount, payer, payee, description, split, created_at
		 FROM shared_expenses WHERE owner_id = ?
		 ORDER BY created_at DESC, rowid DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var o models.Obligation
		var createdAt int64
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Amount, &o.Payer, &o.Payee, &o.Description, &o.Split, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		o.CreatedAt = fromNanos(createdAt)
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}

	return obligations, nil
}

// DeleteObligations removes every obligation owned by ownerID in one statement.
func (s *SQLiteStore) DeleteObligations(ctx context.Context, ownerID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM shared_expenses WHERE owner_id = ?", ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete obligations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted obligations: %w", err)
	}

	return n, nil
}

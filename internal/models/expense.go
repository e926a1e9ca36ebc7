package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when /add is given an amount but no category.
const DefaultCategory = "misc"

// Expense is a personal expense. It is immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// OwnerID is the user who logged the expense.
	OwnerID string

	// Amount is always positive.
	Amount decimal.Decimal

	// Category is free text, e.g. "lunch" or "cab home".
	Category string

	// CreatedAt is when the expense was logged.
	CreatedAt time.Time
}

// CategoryTotal is one row of the month-to-date grouping.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

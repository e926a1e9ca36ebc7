package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obligation records that Payee owes Payer Amount for a shared expense.
// One obligation is written per payee named in a /shared command.
type Obligation struct {
	// ID is the unique identifier for the obligation (UUID format).
	ID string

	// OwnerID is the user who issued the command. It is neither the payer
	// nor the payee necessarily; it only partitions the data.
	OwnerID string

	// Amount is this payee's share, always positive.
	Amount decimal.Decimal

	Payer       string
	Payee       string
	Description string

	// Split is true for an equal-split share and false for a full-owe record.
	Split bool

	CreatedAt time.Time
}

// Balance is one person's net position across all obligations of an owner.
// Positive means the person gets money back, negative means they owe.
type Balance struct {
	Name string
	Net  decimal.Decimal
}

// Transfer is a suggested payment that settles part of the balances.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

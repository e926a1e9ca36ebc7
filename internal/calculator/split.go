package calculator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbot/internal/models"
)

// Strategy selects how a shared amount is divided among the payees.
// The values double as the choice actions offered to the user.
type Strategy string

const (
	EqualSplitExcludePayer Strategy = "split_exclude"
	EqualSplitIncludePayer Strategy = "split_include"
	FullOwe                Strategy = "owe"
)

var ErrUnknownStrategy = errors.New("unknown split strategy")

// ParseStrategy maps a choice action to a Strategy.
func ParseStrategy(action string) (Strategy, error) {
	switch s := Strategy(action); s {
	case EqualSplitExcludePayer, EqualSplitIncludePayer, FullOwe:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, action)
	}
}

// Share is the amount one payee owes the payer.
type Share struct {
	Payee  string
	Amount decimal.Decimal
}

// Resolution is the outcome of applying a Strategy to a pending split.
type Resolution struct {
	Shares        []Share
	Divisor       int
	IncludesPayer bool
	// Split is stored on every obligation: true for equal splits.
	Split bool
}

// ResolveSplit computes each payee's share of a pending split.
//
// Algorithm:
//   - split_exclude: divisor = len(payees), share = amount / divisor
//   - split_include: divisor = len(payees) + 1, the payer is appended as a payee
//   - owe: every payee owes the full amount
//
// Shares are not rounded.
func ResolveSplit(intent models.PendingSplit, strategy Strategy) (Resolution, error) {
	if len(intent.Payees) == 0 {
		return Resolution{}, fmt.Errorf("must have at least one payee")
	}
	if !intent.Amount.IsPositive() {
		return Resolution{}, fmt.Errorf("amount must be positive")
	}

	payees := append([]string(nil), intent.Payees...)
	res := Resolution{}

	switch strategy {
	case EqualSplitExcludePayer:
		res.Divisor = len(payees)
		res.Split = true
	case EqualSplitIncludePayer:
		res.Divisor = len(payees) + 1
		res.Split = true
		res.IncludesPayer = true
		payees = append(payees, intent.Payer)
	case FullOwe:
		res.Divisor = 1
	default:
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	share := intent.Amount.Div(decimal.NewFromInt(int64(res.Divisor)))
	res.Shares = make([]Share, len(payees))
	for i, payee := range payees {
		res.Shares[i] = Share{Payee: payee, Amount: share}
	}
	return res, nil
}

// Obligations turns a resolution into the records to persist, one per share.
func (r Resolution) Obligations(ownerID string, intent models.PendingSplit, now time.Time) []models.Obligation {
	out := make([]models.Obligation, len(r.Shares))
	for i, share := range r.Shares {
		out[i] = models.Obligation{
			ID:          uuid.New().String(),
			OwnerID:     ownerID,
			Amount:      share.Amount,
			Payer:       intent.Payer,
			Payee:       share.Payee,
			Description: intent.Description,
			Split:       r.Split,
			CreatedAt:   now,
		}
	}
	return out
}

package models

import "github.com/shopspring/decimal"

// PendingSplit is a parsed /shared command waiting for the user to pick a
// split strategy. It is never persisted as a record.
type PendingSplit struct {
	Amount      decimal.Decimal `json:"amount"`
	Payer       string          `json:"payer"`
	Description string          `json:"description"`
	Payees      []string        `json:"payees"`
}

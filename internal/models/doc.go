// Package models defines the core domain models for ledgerbot.
//
// # Records
//
// Two kinds of records are persisted, both partitioned by OwnerID (the chat
// user who issued the command):
//   - Expense: a personal expense logged with /add
//   - Obligation: one payee's share of a shared expense logged with /shared
//
// # Names
//
// Payers and payees are free-text names, not user accounts. They are compared
// by exact, case-sensitive string equality. "Jai" and "jai" are two people.
//
// # Amounts
//
// Amounts are decimal values and are stored unrounded. Rounding to two places
// happens only when a value is rendered.
package models

// Package session holds split intents that are waiting on a button press.
//
// A /shared command parks its parsed intent here under a random id; the
// buttons it sends carry only that id. The first valid press takes the
// entry, so a second press on the same message finds nothing.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ledgerbot/internal/models"
)

// ErrNotFound is returned when an entry is missing or has expired.
var ErrNotFound = errors.New("session not found")

// entryVersion is bumped whenever Entry changes shape.
const entryVersion = 1

// Entry is one pending intent and the chat it belongs to.
type Entry struct {
	Version int                 `json:"v"`
	OwnerID string              `json:"owner_id"`
	Pending models.PendingSplit `json:"pending"`
}

// Store is a TTL map of pending intents.
type Store interface {
	// Put stores an entry under id for ttl.
	Put(ctx context.Context, id string, entry Entry, ttl time.Duration) error
	// Get returns the entry without consuming it.
	Get(ctx context.Context, id string) (Entry, error)
	// Take returns the entry and removes it in one step.
	Take(ctx context.Context, id string) (Entry, error)
	// Delete removes the entry. Missing ids are not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// NewEntry wraps a pending intent for the given owner.
func NewEntry(ownerID string, pending models.PendingSplit) Entry {
	return Entry{Version: entryVersion, OwnerID: ownerID, Pending: pending}
}

func encode(entry Entry) (string, error) {
	entry.Version = entryVersion
	b, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return string(b), nil
}

func decode(raw string) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if entry.Version != entryVersion {
		return Entry{}, fmt.Errorf("unsupported session version %d: %w", entry.Version, ErrNotFound)
	}
	return entry, nil
}

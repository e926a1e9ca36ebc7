package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
)

const buntPrefix = "session:"

// BuntStore implements Store on a buntdb database, either a file or ":memory:".
type BuntStore struct {
	db *buntdb.DB
}

// NewBuntStore opens the buntdb database at path.
func NewBuntStore(path string) (*BuntStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return &BuntStore{db: db}, nil
}

// Put stores entry under id with a native buntdb TTL.
func (b *BuntStore) Put(_ context.Context, id string, entry Entry, ttl time.Duration) error {
	raw, err := encode(entry)
	if err != nil {
		return err
	}

	err = b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(buntPrefix+id, raw, &buntdb.SetOptions{Expires: true, TTL: ttl})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the live entry under id.
func (b *BuntStore) Get(_ context.Context, id string) (Entry, error) {
	var raw string
	err := b.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(buntPrefix + id)
		return err
	})
	if err != nil {
		return Entry{}, buntErr("read", err)
	}
	return decode(raw)
}

// Take returns the live entry under id and removes it in one transaction.
func (b *BuntStore) Take(_ context.Context, id string) (Entry, error) {
	var raw string
	err := b.db.Update(func(tx *buntdb.Tx) error {
		var err error
		if raw, err = tx.Get(buntPrefix + id); err != nil {
			return err
		}
		_, err = tx.Delete(buntPrefix + id)
		return err
	})
	if err != nil {
		return Entry{}, buntErr("take", err)
	}
	return decode(raw)
}

// Delete removes id.
func (b *BuntStore) Delete(_ context.Context, id string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(buntPrefix + id)
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *BuntStore) Close() error {
	return b.db.Close()
}

func buntErr(op string, err error) error {
	if errors.Is(err, buntdb.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s session: %w", op, err)
}

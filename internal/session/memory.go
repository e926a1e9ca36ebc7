package session

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	raw     string
	expires time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryItem
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryItem),
		now:     time.Now,
	}
}

// Put stores entry under id until ttl elapses.
func (m *MemoryStore) Put(_ context.Context, id string, entry Entry, ttl time.Duration) error {
	raw, err := encode(entry)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.entries[id] = memoryItem{raw: raw, expires: m.now().Add(ttl)}
	return nil
}

// Get returns the live entry under id.
func (m *MemoryStore) Get(_ context.Context, id string) (Entry, error) {
	m.mu.Lock()
	item, ok := m.lookup(id)
	m.mu.Unlock()
	if !ok {
		return Entry{}, ErrNotFound
	}
	return decode(item.raw)
}

// Take returns the live entry under id and removes it.
func (m *MemoryStore) Take(_ context.Context, id string) (Entry, error) {
	m.mu.Lock()
	item, ok := m.lookup(id)
	delete(m.entries, id)
	m.mu.Unlock()
	if !ok {
		return Entry{}, ErrNotFound
	}
	return decode(item.raw)
}

// Delete removes id.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Close drops every entry.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}

// lookup must be called with mu held.
func (m *MemoryStore) lookup(id string) (memoryItem, bool) {
	item, ok := m.entries[id]
	if !ok {
		return memoryItem{}, false
	}
	if !m.now().Before(item.expires) {
		delete(m.entries, id)
		return memoryItem{}, false
	}
	return item, true
}

// sweep drops expired entries. Must be called with mu held.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, item := range m.entries {
		if !now.Before(item.expires) {
			delete(m.entries, id)
		}
	}
}

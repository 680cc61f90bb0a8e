package store

import (
	"context"
	"sync"
	"time"

	"github.com/moneymind/backend/internal/model"
)

// MemoryStore implements Store with in-memory storage. Used by tests and for
// local development without a data file.
type MemoryStore struct {
	mu     sync.RWMutex
	snap   model.Snapshot
	loaded bool

	// SaveCount is incremented on every Save; tests assert on it to verify
	// that mutations persist the snapshot.
	saveCount int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates an in-memory store pre-seeded with snap.
func NewMemoryStoreWith(snap model.Snapshot) *MemoryStore {
	return &MemoryStore{snap: cloneSnapshot(snap), loaded: true}
}

func (m *MemoryStore) Load(ctx context.Context) (model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return model.DefaultSnapshot(time.Now()), nil
	}
	return cloneSnapshot(m.snap), nil
}

func (m *MemoryStore) Save(ctx context.Context, snap model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = cloneSnapshot(snap)
	m.loaded = true
	m.saveCount++
	return nil
}

// SaveCount returns how many times Save has been called.
func (m *MemoryStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveCount
}

// cloneSnapshot deep-copies the slices so callers never share backing arrays
// with the stored state.
func cloneSnapshot(snap model.Snapshot) model.Snapshot {
	out := model.Snapshot{
		Transactions: make([]model.Transaction, len(snap.Transactions)),
		Goals:        make([]model.Goal, len(snap.Goals)),
		Budget:       snap.Budget,
	}
	copy(out.Transactions, snap.Transactions)
	copy(out.Goals, snap.Goals)
	return out
}

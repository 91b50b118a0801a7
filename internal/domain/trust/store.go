package trust

import (
	"context"
	"sync"
)

// Store persists the trust snapshot. Implementations own their internal
// serialization: Load and Save may be called concurrently by the evaluator
// and the key-distribution refresher.
type Store interface {
	// Load returns the current snapshot, or the empty snapshot when no
	// state has ever been saved.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snapshot Snapshot) error
}

// MemoryStore is the reference in-memory Store, used in tests and by hosts
// that manage persistence themselves.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the current snapshot.
func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone(), nil
}

// Save replaces the stored snapshot with a copy of the given one.
func (s *MemoryStore) Save(_ context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
	return nil
}

var _ Store = (*MemoryStore)(nil)

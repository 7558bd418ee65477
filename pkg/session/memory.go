package session

import "sync"

// MemoryStore is a process-local Persister.
type MemoryStore struct {
	mu    sync.Mutex
	rec   *Record
	saves int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a MemoryStore preloaded with raw records, as if
// written by an earlier run.
func NewMemoryStoreWith(token string, user []byte) *MemoryStore {
	return &MemoryStore{rec: &Record{Token: token, User: append([]byte(nil), user...)}}
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Record{}, ErrNoRecord
	}
	return Record{Token: m.rec.Token, User: append([]byte(nil), m.rec.User...)}, nil
}

func (m *MemoryStore) Save(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &Record{Token: r.Token, User: append([]byte(nil), r.User...)}
	m.saves++
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

// Stored returns the raw record and whether one exists.
func (m *MemoryStore) Stored() (Record, bool) {
	r, err := m.Load()
	return r, err == nil
}

// Saves counts Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

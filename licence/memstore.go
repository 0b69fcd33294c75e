/*
memstore.go - In-memory licence store

PURPOSE:
  Map-backed Store implementation for tests and demos. The sqlite
  store is the production implementation; this one keeps service and
  handler tests free of a database.
*/
package licence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/licence-engine/engine"
)

// MemStore is a thread-safe in-memory Store.
type MemStore struct {
	mu       sync.RWMutex
	licences map[uuid.UUID]*Licence
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{licences: make(map[uuid.UUID]*Licence)}
}

func (m *MemStore) Get(ctx context.Context, id uuid.UUID) (*Licence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lic, ok := m.licences[id]
	if !ok {
		return nil, ErrLicenceNotFound
	}
	cp := *lic
	return &cp, nil
}

func (m *MemStore) Save(ctx context.Context, lic *Licence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *lic
	m.licences[lic.ID] = &cp
	return nil
}

func (m *MemStore) ListLive(ctx context.Context) ([]*Licence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Licence
	for _, lic := range m.licences {
		if lic.Status == engine.StatusInactive {
			continue
		}
		cp := *lic
		out = append(out, &cp)
	}
	return out, nil
}

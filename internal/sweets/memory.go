package sweets

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in memory with a mutex per record id, so the
// same lock discipline as the postgres store holds on a single node. Used in
// tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	sweets map[string]Sweet
	order  []string // insertion order, for stable listing
	locks  map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sweets: make(map[string]Sweet),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (m *MemoryStore) recordLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *MemoryStore) Create(ctx context.Context, s Sweet) (Sweet, error) {
	if err := s.Validate(); err != nil {
		return Sweet{}, err
	}
	s.ID = uuid.NewString()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweets[s.ID] = s
	m.order = append(m.order, s.ID)
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Sweet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sweets[id]
	if !ok {
		return Sweet{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) List(ctx context.Context, f Filter) ([]Sweet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Sweet, 0)
	for _, id := range m.order {
		s, ok := m.sweets[id]
		if !ok {
			continue // deleted
		}
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, upd Update) (Sweet, error) {
	l := m.recordLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return Sweet{}, err
	}
	s = upd.Apply(s)
	if err := s.Validate(); err != nil {
		return Sweet{}, err
	}
	s.UpdatedAt = time.Now().UTC()
	m.put(s)
	return s, nil
}

func (m *MemoryStore) put(s Sweet) {
	m.mu.Lock()
	m.sweets[s.ID] = s
	m.mu.Unlock()
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	l := m.recordLock(id)
	l.Lock()
	defer l.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[id]; !ok {
		return ErrNotFound
	}
	delete(m.sweets, id)
	return nil
}

func (m *MemoryStore) Purchase(ctx context.Context, id string) (Sweet, error) {
	l := m.recordLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return Sweet{}, err
	}
	if s.Quantity <= 0 {
		return Sweet{}, ErrOutOfStock
	}
	s.Quantity--
	s.UpdatedAt = time.Now().UTC()
	m.put(s)
	return s, nil
}

func (m *MemoryStore) Restock(ctx context.Context, id string, amount int) (Sweet, error) {
	l := m.recordLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return Sweet{}, err
	}
	s.Quantity += amount
	s.UpdatedAt = time.Now().UTC()
	m.put(s)
	return s, nil
}

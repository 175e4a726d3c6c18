package users

import (
	"context"
	"sync"
)

// MemoryStore keeps users in memory for tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]User
	byUsername map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]User),
		byUsername: make(map[string]string),
	}
}

func (m *MemoryStore) Create(ctx context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byUsername[u.Username]; taken {
		return ErrExists
	}
	m.byID[u.ID] = u
	m.byUsername[u.Username] = u.ID
	return nil
}

func (m *MemoryStore) GetByUsername(ctx context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUsername[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// SetStaff flips the staff capability; test helper standing in for the
// out-of-band admin bootstrap.
func (m *MemoryStore) SetStaff(id string, staff bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.IsStaff = staff
		m.byID[id] = u
	}
}

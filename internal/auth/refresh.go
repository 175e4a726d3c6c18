package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/charuprabha111/sweet-shop-management/internal/redisx"
)

// RefreshStore is the allowlist of issued refresh tokens, keyed by jti.
// A refresh token that is not in the store is treated as invalid even when
// its signature checks out.
type RefreshStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	UserID(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

type RedisRefreshStore struct{ Client *redis.Client }

func refreshKey(jti string) string { return fmt.Sprintf(redisx.KeyRefreshToken, jti) }

func (s *RedisRefreshStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.Client.Set(ctx, refreshKey(jti), userID, ttl).Err()
}

func (s *RedisRefreshStore) UserID(ctx context.Context, jti string) (string, error) {
	userID, err := s.Client.Get(ctx, refreshKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisRefreshStore) Revoke(ctx context.Context, jti string) error {
	return s.Client.Del(ctx, refreshKey(jti)).Err()
}

// MemoryRefreshStore backs tests that run without redis.
type MemoryRefreshStore struct {
	mu      sync.Mutex
	entries map[string]memoryRefreshEntry
}

type memoryRefreshEntry struct {
	userID  string
	expires time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{entries: make(map[string]memoryRefreshEntry)}
}

func (s *MemoryRefreshStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = memoryRefreshEntry{userID: userID, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) UserID(ctx context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[jti]
	if !ok || time.Now().After(e.expires) {
		return "", ErrInvalidToken
	}
	return e.userID, nil
}

func (s *MemoryRefreshStore) Revoke(ctx context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jti)
	return nil
}

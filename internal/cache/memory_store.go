package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// entry stores a serialized value and its absolute expiration timestamp.
type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiration
}

// MemoryStore is a map-backed Store with per-key TTL and lazy cleanup.
// It backs tests and single-node deployments without a redis.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]entry),
	}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// SetJSON implements Store.SetJSON.
func (s *MemoryStore) SetJSON(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry{data: data, expiresAt: exp}
	return nil
}

// GetJSON implements Store.GetJSON. Expired entries are removed on read.
func (s *MemoryStore) GetJSON(key string, dest any) (bool, error) {
	s.mu.Lock()
	e, ok := s.items[key]
	if ok && !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		delete(s.items, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

var _ Store = (*MemoryStore)(nil)

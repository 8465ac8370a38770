package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a map-backed Store used in tests and anywhere persistence
// across restarts is not required.
type MemoryStore struct {
	notifier
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := s.values[key]; ok {
			out[key] = value
		}
	}
	return out, nil
}

func (s *MemoryStore) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	old := s.values[key]
	s.values[key] = value
	s.mu.Unlock()

	s.publish([]Change{{Key: key, Old: old, New: value}})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	old, existed := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()

	if existed {
		s.publish([]Change{{Key: key, Old: old}})
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	changes := make([]Change, 0, len(s.values))
	for key, old := range s.values {
		changes = append(changes, Change{Key: key, Old: old})
	}
	s.values = make(map[string]json.RawMessage)
	s.mu.Unlock()

	s.publish(changes)
	return nil
}

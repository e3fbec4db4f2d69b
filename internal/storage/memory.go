package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// MemoryKV is an in-memory key-value store. Values are copied on the way in and out.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		values: make(map[string][]byte),
	}
}

// Get returns the value stored under key.
func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value under key.
func (s *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stores all values at once.
func (s *MemoryKV) SetMany(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = append([]byte(nil), v...)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *MemoryKV) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Keys returns the stored keys starting with prefix, sorted.
func (s *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Update runs fn over the stored values of keys and applies its writes under one lock.
func (s *MemoryKV) Update(
	_ context.Context, keys []string, fn func(current map[string][]byte) (map[string][]byte, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			current[k] = append([]byte(nil), v...)
		}
	}

	writes, err := fn(current)
	if err != nil {
		return err
	}
	for k, v := range writes {
		s.values[k] = append([]byte(nil), v...)
	}
	return nil
}

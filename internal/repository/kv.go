package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aliskhannn/japan-trivia/internal/storage"
)

// ErrCorruptData is returned when a stored payload cannot be decoded.
var ErrCorruptData = errors.New("stored data is corrupt")

// KeyValueStore persists JSON blobs under string keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Update reads keys, passes the stored ones to fn and writes what fn returns,
	// all in one transaction. Missing keys are absent from current.
	Update(ctx context.Context, keys []string, fn func(current map[string][]byte) (map[string][]byte, error)) error
}

// getJSON decodes the value under key into dst. It reports false when the key is missing.
func getJSON(ctx context.Context, kv KeyValueStore, key string, dst any) (bool, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := decodeJSON(key, data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func decodeJSON(key string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptData, key, err)
	}
	return nil
}

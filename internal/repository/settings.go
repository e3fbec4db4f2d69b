package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

var ErrSettingsNotFound = errors.New("settings not found")

const settingsKeyPrefix = "@quiz_settings:"

// SettingsRepository stores per-user settings.
type SettingsRepository struct {
	kv KeyValueStore
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(kv KeyValueStore) *SettingsRepository {
	return &SettingsRepository{kv: kv}
}

// GetByUserID retrieves settings by user ID.
// Returns ErrSettingsNotFound if settings don't exist.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Settings, error) {
	var settings entities.Settings
	found, err := getJSON(ctx, r.kv, settingsKeyPrefix+strconv.FormatInt(userID, 10), &settings)
	if err != nil {
		return nil, fmt.Errorf("get settings by user id: %w", err)
	}
	if !found {
		return nil, ErrSettingsNotFound
	}
	return &settings, nil
}

// Save replaces the settings of a user.
func (r *SettingsRepository) Save(ctx context.Context, userID int64, settings entities.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := r.kv.Set(ctx, settingsKeyPrefix+strconv.FormatInt(userID, 10), data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

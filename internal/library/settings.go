package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slidecore/internal/kv"
)

// Settings holds the asset search API keys.
type Settings struct {
	UnsplashKey string `json:"unsplashKey"`
	GiphyKey    string `json:"giphyKey"`
}

// Settings returns the stored settings, or zero values when none are stored
// or the payload is unreadable.
func (l *Library) Settings(ctx context.Context) (Settings, error) {
	raw, err := l.store.Get(ctx, SettingsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		l.logger.Warn("settings are corrupt, using defaults", zap.String("key", SettingsKey), zap.Error(err))
		return Settings{}, nil
	}
	return s, nil
}

// SaveSettings replaces the stored settings.
func (l *Library) SaveSettings(ctx context.Context, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := l.store.Set(ctx, SettingsKey, raw); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

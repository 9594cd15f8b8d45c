package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slidecore/internal/kv"
	"slidecore/pkg/deck"
)

// legacyHead is the part of a legacy payload the index needs.
type legacyHead struct {
	Meta *struct {
		Title string         `json:"title"`
		Theme deck.ThemeName `json:"theme"`
	} `json:"meta"`
}

// migrateLegacy moves a pre-library single document into the library. It runs
// only while the index is empty; an unreadable legacy payload is left alone.
func (l *Library) migrateLegacy(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.index) > 0 {
		return nil
	}
	raw, err := l.store.Get(ctx, LegacyKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read legacy presentation: %w", err)
	}

	var head legacyHead
	if err := json.Unmarshal(raw, &head); err != nil {
		l.logger.Warn("legacy presentation is unreadable, leaving it in place",
			zap.String("key", LegacyKey), zap.Error(err))
		return nil
	}

	id := l.newID()
	entry := Entry{ID: id, Title: deck.MigratedTitle, LastModified: l.stamp(), Theme: deck.ThemeDefault}
	if head.Meta != nil {
		if head.Meta.Title != "" {
			entry.Title = head.Meta.Title
		}
		if head.Meta.Theme.Valid() {
			entry.Theme = head.Meta.Theme
		}
	}

	if err := l.store.Set(ctx, BodyKey(id), raw); err != nil {
		return fmt.Errorf("write migrated presentation: %w", err)
	}
	next := upsertEntry(l.index, entry)
	if err := l.saveIndexLocked(ctx, next); err != nil {
		_, _ = l.store.Delete(ctx, BodyKey(id))
		return err
	}
	l.index = next
	if _, err := l.store.Delete(ctx, LegacyKey); err != nil {
		return fmt.Errorf("remove legacy presentation: %w", err)
	}
	l.logger.Info("migrated legacy presentation", zap.String("id", id), zap.String("title", entry.Title))
	return nil
}

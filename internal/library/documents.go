package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"slidecore/internal/kv"
	"slidecore/internal/observability"
	"slidecore/pkg/deck"
)

// Create stores a new default presentation and indexes it. seed, when not nil,
// replaces the default custom theme.
func (l *Library) Create(ctx context.Context, seed *deck.CustomTheme) (*deck.Presentation, error) {
	p := deck.NewPresentation(l.newID)
	if seed != nil {
		p.Meta.CustomTheme = deck.NormalizeTheme(*seed)
	}
	p.ID = l.newID()
	err := observability.Time(ctx, l.metrics, "library.create", func() error {
		return l.put(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("presentation created", zap.String("id", p.ID))
	return p, nil
}

// Load decodes presentation id. Elements of an unknown kind are dropped and a
// body that cannot be decoded at all is replaced by the default presentation;
// neither case touches the stored body. Every loaded document is normalised.
func (l *Library) Load(ctx context.Context, id string) (*deck.Presentation, error) {
	var p *deck.Presentation
	err := observability.Time(ctx, l.metrics, "library.load", func() error {
		raw, err := l.store.Get(ctx, BodyKey(id))
		if errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("load %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", id, err)
		}
		p = l.decode(id, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

func (l *Library) decode(id string, raw []byte) *deck.Presentation {
	p, skipped, err := deck.DecodeLenient(raw)
	if err != nil {
		l.logger.Warn("presentation body is corrupt, using default",
			zap.String("id", id), zap.String("key", BodyKey(id)), zap.Error(err))
		return deck.NewPresentation(l.newID)
	}
	for _, s := range skipped {
		l.logger.Warn("dropping undecodable element",
			zap.String("id", id), zap.String("slide", s.SlideID), zap.Int("index", s.Index), zap.Error(s.Err))
	}
	deck.Normalize(p, l.newID)
	if err := deck.Validate(p); err != nil {
		l.logger.Warn("presentation body violates document invariants",
			zap.String("id", id), zap.Error(err))
	}
	return p
}

// Save writes p under id and refreshes its index entry.
func (l *Library) Save(ctx context.Context, id string, p *deck.Presentation) error {
	if id == "" {
		return errors.New("save: empty presentation id")
	}
	return observability.Time(ctx, l.metrics, "library.save", func() error {
		doc := *p
		doc.ID = id
		return l.put(ctx, &doc)
	})
}

// put writes the body and then the index entry for p.ID. The in-memory index
// changes only once the stored index does; a failed index write removes a
// body that had no entry before.
func (l *Library) put(ctx context.Context, p *deck.Presentation) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.ID, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	indexed := l.entryIndex(p.ID) >= 0
	if err := l.store.Set(ctx, BodyKey(p.ID), raw); err != nil {
		return fmt.Errorf("write %s: %w", p.ID, err)
	}
	next := upsertEntry(l.index, Entry{
		ID:           p.ID,
		Title:        p.Meta.Title,
		LastModified: l.stamp(),
		Theme:        p.Meta.Theme,
	})
	if err := l.saveIndexLocked(ctx, next); err != nil {
		if !indexed {
			if _, derr := l.store.Delete(ctx, BodyKey(p.ID)); derr != nil {
				l.logger.Warn("orphaned presentation body",
					zap.String("id", p.ID), zap.String("key", BodyKey(p.ID)), zap.Error(derr))
			}
		}
		return err
	}
	l.index = next
	return nil
}

// Delete removes the index entry and body of id. It reports whether either
// existed. The entry goes first so a failure never leaves it pointing at a
// missing body.
func (l *Library) Delete(ctx context.Context, id string) (bool, error) {
	var existed bool
	err := observability.Time(ctx, l.metrics, "library.delete", func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if i := l.entryIndex(id); i >= 0 {
			next := slices.Delete(slices.Clone(l.index), i, i+1)
			if err := l.saveIndexLocked(ctx, next); err != nil {
				return err
			}
			l.index = next
			existed = true
		}
		removed, err := l.store.Delete(ctx, BodyKey(id))
		if err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		existed = existed || removed
		return nil
	})
	if err != nil {
		return false, err
	}
	if existed {
		l.logger.Info("presentation deleted", zap.String("id", id))
	}
	return existed, nil
}

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slidecore/internal/kv"
	"slidecore/internal/observability"
	"slidecore/pkg/deck"
)

// Export returns the stored body of id verbatim.
func (l *Library) Export(ctx context.Context, id string) (string, error) {
	var out string
	err := observability.Time(ctx, l.metrics, "library.export", func() error {
		raw, err := l.store.Get(ctx, BodyKey(id))
		if errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("export %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", id, err)
		}
		out = string(raw)
		return nil
	})
	return out, err
}

// Import adds an exported presentation under a fresh id. The payload must be
// a JSON object carrying meta and slides; otherwise ErrInvalidPresentation is
// returned and the library is unchanged.
func (l *Library) Import(ctx context.Context, text string) (string, error) {
	var id string
	err := observability.Time(ctx, l.metrics, "library.import", func() error {
		p, err := decodeImport([]byte(text))
		if err != nil {
			return err
		}
		if len(p.Slides) > 0 {
			p.ActiveSlideID = p.Slides[0].ID
		}
		if p.Meta.Title == "" {
			p.Meta.Title = deck.ImportedTitle
		}
		deck.Normalize(p, l.newID)
		if err := deck.Validate(p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
		}
		p.ID = l.newID()
		if err := l.put(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return nil
	})
	if err != nil {
		l.logger.Warn("import failed", zap.Error(err))
		return "", err
	}
	l.logger.Info("presentation imported", zap.String("id", id))
	return id, nil
}

func decodeImport(raw []byte) (*deck.Presentation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
	}
	for _, field := range []string{"meta", "slides"} {
		v, ok := fields[field]
		if !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidPresentation, field)
		}
	}
	var p deck.Presentation
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
	}
	return &p, nil
}

// ImportSlides stores a new presentation built from slides, such as the
// output of the Markdown importer. An empty title falls back to the import
// default.
func (l *Library) ImportSlides(ctx context.Context, title string, slides []deck.Slide) (*deck.Presentation, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: no slides", ErrInvalidPresentation)
	}
	p := deck.NewPresentation(l.newID)
	p.Slides = make([]deck.Slide, len(slides))
	for i, s := range slides {
		p.Slides[i] = s.Clone()
	}
	p.ActiveSlideID = p.Slides[0].ID
	p.Meta.Title = title
	if title == "" {
		p.Meta.Title = deck.ImportedTitle
	}
	deck.Normalize(p, l.newID)
	p.ID = l.newID()
	err := observability.Time(ctx, l.metrics, "library.import_slides", func() error {
		return l.put(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("slides imported", zap.String("id", p.ID), zap.Int("slides", len(p.Slides)))
	return p, nil
}

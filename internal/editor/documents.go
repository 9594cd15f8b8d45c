package editor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"slidecore/internal/markdown"
	"slidecore/pkg/deck"
)

// CreatePresentation stores a new deck seeded with the current custom
// palette and opens it.
func (e *Editor) CreatePresentation(ctx context.Context) (string, error) {
	seed := e.doc.Meta.CustomTheme
	p, err := e.lib.Create(ctx, &seed)
	if err != nil {
		return "", err
	}
	e.open(p)
	return p.ID, nil
}

// LoadPresentation opens deck id, clearing history. Nothing is written back
// until the deck is edited.
func (e *Editor) LoadPresentation(ctx context.Context, id string) error {
	p, err := e.lib.Load(ctx, id)
	if err != nil {
		return err
	}
	e.open(p)
	return nil
}

func (e *Editor) open(p *deck.Presentation) {
	e.doc = p
	e.currentID = p.ID
	e.view = ViewEditor
	e.saveErr = nil
	e.unsaved = false
	e.history.Reset()
	e.logger.Info("presentation opened", zap.String("id", p.ID))
	e.Notify()
}

// ClosePresentation flushes unsaved edits and returns to the library view. If
// the final save fails the deck stays open.
func (e *Editor) ClosePresentation(ctx context.Context) error {
	if e.currentID == "" {
		return ErrNoOpenPresentation
	}
	if e.unsaved {
		if err := e.SaveCurrentDeck(ctx); err != nil {
			return err
		}
	}
	id := e.currentID
	e.currentID = ""
	e.view = ViewLibrary
	e.history.Reset()
	e.logger.Info("presentation closed", zap.String("id", id))
	e.Notify()
	return nil
}

// SaveCurrentDeck writes the open deck to the library.
func (e *Editor) SaveCurrentDeck(ctx context.Context) error {
	if e.currentID == "" {
		return ErrNoOpenPresentation
	}
	if err := e.lib.Save(ctx, e.currentID, e.doc); err != nil {
		e.saveErr = err
		return err
	}
	e.saveErr = nil
	e.unsaved = false
	return nil
}

// DeletePresentation removes deck id after the configured Confirmer agrees.
// It reports whether a deck was deleted. The open deck cannot be deleted.
func (e *Editor) DeletePresentation(ctx context.Context, id string) (bool, error) {
	if id == e.currentID && id != "" {
		return false, ErrPresentationOpen
	}
	title := id
	if entry, ok := e.lib.Entry(id); ok {
		title = entry.Title
	}
	if !e.confirm.Confirm(fmt.Sprintf("Delete presentation %q?", title)) {
		return false, nil
	}
	ok, err := e.lib.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		e.Notify()
	}
	return ok, nil
}

// ExportPresentation returns the stored form of deck id.
func (e *Editor) ExportPresentation(ctx context.Context, id string) (string, error) {
	return e.lib.Export(ctx, id)
}

// ImportPresentation adds an exported deck to the library and returns its id.
func (e *Editor) ImportPresentation(ctx context.Context, text string) (string, error) {
	id, err := e.lib.Import(ctx, text)
	if err != nil {
		return "", err
	}
	e.Notify()
	return id, nil
}

// ImportMarkdown converts text into a new library deck titled title.
func (e *Editor) ImportMarkdown(ctx context.Context, title, text string) (string, error) {
	slides := markdown.Parse(text, e.newID)
	if len(slides) == 0 {
		return "", ErrEmptyMarkdown
	}
	p, err := e.lib.ImportSlides(ctx, title, slides)
	if err != nil {
		return "", err
	}
	e.Notify()
	return p.ID, nil
}

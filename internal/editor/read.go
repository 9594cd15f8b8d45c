package editor

import (
	"slidecore/internal/history"
	"slidecore/internal/library"
	"slidecore/pkg/deck"
)

// State returns a copy of the current state.
func (e *Editor) State() State {
	s := State{
		View:         e.view,
		CurrentID:    e.currentID,
		Deck:         e.Deck(),
		HistoryIndex: e.history.Index(),
		HistoryLen:   e.history.Len(),
	}
	if e.lib != nil {
		s.Library = e.lib.Entries()
	}
	return s
}

// Deck returns a copy of the document.
func (e *Editor) Deck() *deck.Presentation {
	p := e.doc.Clone()
	p.ID = e.currentID
	return p
}

// Slides returns copies of the slides in display order.
func (e *Editor) Slides() []deck.Slide {
	out := make([]deck.Slide, len(e.doc.Slides))
	for i, s := range e.doc.Slides {
		out[i] = s.Clone()
	}
	return out
}

// ActiveSlide returns a copy of the active slide.
func (e *Editor) ActiveSlide() (deck.Slide, bool) {
	s := e.doc.ActiveSlide()
	if s == nil {
		return deck.Slide{}, false
	}
	return s.Clone(), true
}

// ActiveSlideID returns the active slide id.
func (e *Editor) ActiveSlideID() string { return e.doc.ActiveSlideID }

// Meta returns the document settings.
func (e *Editor) Meta() deck.Meta { return e.doc.Meta }

// Theme returns the selected theme name.
func (e *Editor) Theme() deck.ThemeName { return e.doc.Meta.Theme }

// CustomTheme returns the custom palette.
func (e *Editor) CustomTheme() deck.CustomTheme { return e.doc.Meta.CustomTheme }

// Palette returns the colours a renderer should use.
func (e *Editor) Palette() deck.CustomTheme { return deck.ResolvePalette(e.doc.Meta) }

// History lists the stored snapshots.
func (e *Editor) History() []history.Entry { return e.history.Entries() }

// HistoryIndex returns the materialised snapshot index, or -1.
func (e *Editor) HistoryIndex() int { return e.history.Index() }

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// View returns the current view.
func (e *Editor) View() View { return e.view }

// CurrentID returns the open deck id, or "".
func (e *Editor) CurrentID() string { return e.currentID }

// Library returns the library index.
func (e *Editor) Library() []library.Entry {
	if e.lib == nil {
		return nil
	}
	return e.lib.Entries()
}

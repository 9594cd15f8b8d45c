package editor

import (
	"slices"

	"slidecore/pkg/deck"
)

// Direction moves a slide one position.
type Direction int

// Directions.
const (
	Up Direction = iota
	Down
)

// AddSlide inserts a slide with the default content of layout after the
// active slide, or at the end, and makes it active. An empty layout means
// title-body. It returns the new slide id.
func (e *Editor) AddSlide(layout deck.Layout) string {
	if layout == "" {
		layout = deck.LayoutTitleBody
	}
	s := deck.Slide{ID: e.newID(), Layout: layout, Content: deck.DefaultContent(layout)}
	e.apply("add_slide", false, func() {
		at := len(e.doc.Slides)
		if i := e.doc.SlideIndex(e.doc.ActiveSlideID); i >= 0 {
			at = i + 1
		}
		e.doc.Slides = slices.Insert(e.doc.Slides, at, s)
		e.doc.ActiveSlideID = s.ID
	})
	return s.ID
}

// DeleteSlide removes slide id. The last remaining slide cannot be deleted.
// Deleting the active slide activates its predecessor, or the new first slide.
func (e *Editor) DeleteSlide(id string) bool {
	i := e.doc.SlideIndex(id)
	if i < 0 || len(e.doc.Slides) <= 1 {
		return e.reject("delete_slide")
	}
	e.apply("delete_slide", true, func() {
		e.doc.Slides = slices.Delete(e.doc.Slides, i, i+1)
		if e.doc.ActiveSlideID == id {
			e.doc.ActiveSlideID = e.doc.Slides[max(0, i-1)].ID
		}
	})
	return true
}

// MoveSlide swaps slide id with its neighbour in dir.
func (e *Editor) MoveSlide(id string, dir Direction) bool {
	i := e.doc.SlideIndex(id)
	if i < 0 {
		return e.reject("move_slide")
	}
	switch dir {
	case Up:
		return e.reorderSlide("move_slide", i, i-1)
	case Down:
		return e.reorderSlide("move_slide", i, i+1)
	default:
		return e.reject("move_slide")
	}
}

// ReorderSlide moves slide id to newIndex, clamped into range.
func (e *Editor) ReorderSlide(id string, newIndex int) bool {
	i := e.doc.SlideIndex(id)
	if i < 0 {
		return e.reject("reorder_slide")
	}
	return e.reorderSlide("reorder_slide", i, min(max(newIndex, 0), len(e.doc.Slides)-1))
}

func (e *Editor) reorderSlide(op string, from, to int) bool {
	if to < 0 || to >= len(e.doc.Slides) || to == from {
		return e.reject(op)
	}
	e.apply(op, true, func() {
		s := e.doc.Slides[from]
		e.doc.Slides = slices.Delete(e.doc.Slides, from, from+1)
		e.doc.Slides = slices.Insert(e.doc.Slides, to, s)
	})
	return true
}

// ContentPatch carries the content fields to overwrite. Nil fields are kept.
type ContentPatch struct {
	Title    *string
	Subtitle *string
	Body     *string
	Notes    *string
}

func (p ContentPatch) empty() bool {
	return p.Title == nil && p.Subtitle == nil && p.Body == nil && p.Notes == nil
}

// UpdateSlideContent merges patch into slide id. It never snapshots; callers
// call SaveHistory when an editing session begins.
func (e *Editor) UpdateSlideContent(id string, patch ContentPatch) bool {
	s := e.doc.Slide(id)
	if s == nil || patch.empty() {
		return e.reject("update_slide_content")
	}
	e.apply("update_slide_content", false, func() {
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&s.Content.Title, patch.Title)
		set(&s.Content.Subtitle, patch.Subtitle)
		set(&s.Content.Body, patch.Body)
		set(&s.Content.Notes, patch.Notes)
	})
	return true
}

// UpdateNotes replaces the speaker notes of slide id.
func (e *Editor) UpdateNotes(id, notes string) bool {
	s := e.doc.Slide(id)
	if s == nil {
		return e.reject("update_notes")
	}
	e.apply("update_notes", false, func() { s.Content.Notes = notes })
	return true
}

// SetActiveSlide activates slide id.
func (e *Editor) SetActiveSlide(id string) bool {
	if e.doc.SlideIndex(id) < 0 {
		return e.reject("set_active_slide")
	}
	e.apply("set_active_slide", false, func() { e.doc.ActiveSlideID = id })
	return true
}

// NextSlide activates the slide after the active one.
func (e *Editor) NextSlide() bool { return e.step("next_slide", 1) }

// PrevSlide activates the slide before the active one.
func (e *Editor) PrevSlide() bool { return e.step("prev_slide", -1) }

func (e *Editor) step(op string, delta int) bool {
	i := e.doc.SlideIndex(e.doc.ActiveSlideID)
	j := i + delta
	if i < 0 || j < 0 || j >= len(e.doc.Slides) {
		return e.reject(op)
	}
	e.apply(op, false, func() { e.doc.ActiveSlideID = e.doc.Slides[j].ID })
	return true
}

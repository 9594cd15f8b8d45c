package editor

import (
	"slices"

	"slidecore/pkg/deck"
)

// ZOrder moves an element within its slide's paint order.
type ZOrder string

// Paint order moves.
const (
	ToFront  ZOrder = "front"
	ToBack   ZOrder = "back"
	Forward  ZOrder = "forward"
	Backward ZOrder = "backward"
)

// AddElementToSlide appends el on top of slide slideID and returns its id.
// An empty id is minted; an id already used on the slide is rejected.
func (e *Editor) AddElementToSlide(slideID string, el deck.Element) (string, bool) {
	s := e.doc.Slide(slideID)
	if s == nil || el.Body == nil {
		return "", e.reject("add_element")
	}
	if el.ID == "" {
		el.ID = e.newID()
	} else if s.ElementIndex(el.ID) >= 0 {
		return "", e.reject("add_element")
	}
	e.apply("add_element", true, func() {
		s.Content.Elements = append(s.Content.Elements, el)
	})
	return el.ID, true
}

// ElementPatch carries element fields to overwrite. Nil fields are kept;
// body fields that do not apply to the element's kind are ignored.
type ElementPatch struct {
	X, Y, Width, Height *float64

	Src     *string
	Content *string
	Style   *string
}

// UpdateElement merges patch into element index of slide slideID. Like
// UpdateSlideContent it never snapshots.
func (e *Editor) UpdateElement(slideID string, index int, patch ElementPatch) bool {
	s := e.doc.Slide(slideID)
	if s == nil || index < 0 || index >= len(s.Content.Elements) {
		return e.reject("update_element")
	}
	e.apply("update_element", false, func() {
		el := &s.Content.Elements[index]
		setF := func(dst *float64, v *float64) {
			if v != nil {
				*dst = *v
			}
		}
		setS := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		setF(&el.X, patch.X)
		setF(&el.Y, patch.Y)
		setF(&el.Width, patch.Width)
		setF(&el.Height, patch.Height)
		switch b := el.Body.(type) {
		case deck.ImageBody:
			setS(&b.Src, patch.Src)
			el.Body = b
		case deck.IconTextBody:
			setS(&b.Content, patch.Content)
			setS(&b.Style, patch.Style)
			el.Body = b
		}
	})
	return true
}

// ReorderElement changes the paint order of element elementID.
func (e *Editor) ReorderElement(slideID, elementID string, order ZOrder) bool {
	s := e.doc.Slide(slideID)
	if s == nil {
		return e.reject("reorder_element")
	}
	i := s.ElementIndex(elementID)
	if i < 0 {
		return e.reject("reorder_element")
	}
	last := len(s.Content.Elements) - 1
	var to int
	switch order {
	case ToFront:
		to = last
	case ToBack:
		to = 0
	case Forward:
		to = min(i+1, last)
	case Backward:
		to = max(i-1, 0)
	default:
		return e.reject("reorder_element")
	}
	if to == i {
		return e.reject("reorder_element")
	}
	e.apply("reorder_element", true, func() {
		el := s.Content.Elements[i]
		s.Content.Elements = slices.Delete(s.Content.Elements, i, i+1)
		s.Content.Elements = slices.Insert(s.Content.Elements, to, el)
	})
	return true
}

// DeleteElement removes element elementID from slide slideID.
func (e *Editor) DeleteElement(slideID, elementID string) bool {
	s := e.doc.Slide(slideID)
	if s == nil {
		return e.reject("delete_element")
	}
	i := s.ElementIndex(elementID)
	if i < 0 {
		return e.reject("delete_element")
	}
	e.apply("delete_element", true, func() {
		s.Content.Elements = slices.Delete(s.Content.Elements, i, i+1)
	})
	return true
}

package deck

import (
	"encoding/json"
	"fmt"
)

// SkippedElement describes an element record DecodeLenient dropped.
type SkippedElement struct {
	SlideID string
	Index   int
	Err     error
}

type lenientContent struct {
	Title    string            `json:"title,omitempty"`
	Subtitle string            `json:"subtitle,omitempty"`
	Body     string            `json:"body,omitempty"`
	Notes    string            `json:"notes,omitempty"`
	Elements []json.RawMessage `json:"elements"`
}

type lenientSlide struct {
	ID      string         `json:"id"`
	Layout  Layout         `json:"layout"`
	Content lenientContent `json:"content"`
}

type lenientPresentation struct {
	Meta          Meta           `json:"meta"`
	Slides        []lenientSlide `json:"slides"`
	ActiveSlideID string         `json:"activeSlideId"`
}

// DecodeLenient decodes a persisted presentation, dropping element records
// that fail to decode instead of failing the document. The returned error is
// non-nil only when the document itself is malformed.
func DecodeLenient(data []byte) (*Presentation, []SkippedElement, error) {
	var w lenientPresentation
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, nil, fmt.Errorf("decode presentation: %w", err)
	}
	p := &Presentation{Meta: w.Meta, ActiveSlideID: w.ActiveSlideID}
	if w.Slides != nil {
		p.Slides = make([]Slide, 0, len(w.Slides))
	}
	var skipped []SkippedElement
	for _, ws := range w.Slides {
		s := Slide{ID: ws.ID, Layout: ws.Layout, Content: Content{
			Title:    ws.Content.Title,
			Subtitle: ws.Content.Subtitle,
			Body:     ws.Content.Body,
			Notes:    ws.Content.Notes,
		}}
		if ws.Content.Elements != nil {
			s.Content.Elements = make([]Element, 0, len(ws.Content.Elements))
		}
		for i, raw := range ws.Content.Elements {
			var el Element
			if err := json.Unmarshal(raw, &el); err != nil {
				skipped = append(skipped, SkippedElement{SlideID: ws.ID, Index: i, Err: err})
				continue
			}
			s.Content.Elements = append(s.Content.Elements, el)
		}
		p.Slides = append(p.Slides, s)
	}
	return p, skipped, nil
}

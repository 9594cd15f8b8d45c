package deck

import (
	"errors"
	"fmt"
)

// Normalize repairs a decoded presentation so every document invariant holds:
// the custom theme is complete, theme and transition are recognised, at least
// one slide exists, and the active id references a slide. newID mints ids for
// a backfilled slide or elements without one.
func Normalize(p *Presentation, newID func() string) {
	if p.Meta.Title == "" {
		p.Meta.Title = DefaultTitle
	}
	p.Meta.CustomTheme = NormalizeTheme(p.Meta.CustomTheme)
	if !p.Meta.Theme.Valid() {
		p.Meta.Theme = ThemeDefault
	}
	if !p.Meta.Transition.Valid() {
		p.Meta.Transition = TransitionNone
	}
	if len(p.Slides) == 0 {
		p.Slides = []Slide{{ID: newID(), Layout: LayoutTitleBody, Content: DefaultContent(LayoutTitleBody)}}
	}
	for i := range p.Slides {
		s := &p.Slides[i]
		if s.ID == "" {
			s.ID = newID()
		}
		if s.Layout == "" {
			s.Layout = LayoutTitleBody
		}
		if s.Content.Elements == nil {
			s.Content.Elements = []Element{}
		}
		for j := range s.Content.Elements {
			if s.Content.Elements[j].ID == "" {
				s.Content.Elements[j].ID = newID()
			}
		}
	}
	if p.SlideIndex(p.ActiveSlideID) < 0 {
		p.ActiveSlideID = p.Slides[0].ID
	}
}

// Validate reports every invariant the presentation violates.
func Validate(p *Presentation) error {
	var errs []error
	if len(p.Slides) == 0 {
		errs = append(errs, errors.New("presentation has no slides"))
	}
	if len(p.Slides) > 0 && p.SlideIndex(p.ActiveSlideID) < 0 {
		errs = append(errs, fmt.Errorf("active slide %q not found", p.ActiveSlideID))
	}
	if !p.Meta.Theme.Valid() {
		errs = append(errs, fmt.Errorf("unknown theme %q", p.Meta.Theme))
	}
	if !p.Meta.Transition.Valid() {
		errs = append(errs, fmt.Errorf("unknown transition %q", p.Meta.Transition))
	}
	slideIDs := make(map[string]struct{}, len(p.Slides))
	for _, s := range p.Slides {
		if _, dup := slideIDs[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate slide id %q", s.ID))
		}
		slideIDs[s.ID] = struct{}{}
		elemIDs := make(map[string]struct{}, len(s.Content.Elements))
		for _, e := range s.Content.Elements {
			if e.Body == nil {
				errs = append(errs, fmt.Errorf("slide %q: element %q has no body", s.ID, e.ID))
			}
			if _, dup := elemIDs[e.ID]; dup {
				errs = append(errs, fmt.Errorf("slide %q: duplicate element id %q", s.ID, e.ID))
			}
			elemIDs[e.ID] = struct{}{}
		}
	}
	return errors.Join(errs...)
}

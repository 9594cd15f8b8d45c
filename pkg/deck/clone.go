package deck

// Clone returns a deep copy of the presentation.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Slides = cloneSlides(p.Slides)
	return &cp
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	s.Content.Elements = cloneElements(s.Content.Elements)
	return s
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.Slides = cloneSlides(s.Slides)
	return s
}

func cloneSlides(in []Slide) []Slide {
	if in == nil {
		return nil
	}
	out := make([]Slide, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// Bodies are value types, so copying the slice copies every element.
func cloneElements(in []Element) []Element {
	if in == nil {
		return nil
	}
	out := make([]Element, len(in))
	copy(out, in)
	return out
}

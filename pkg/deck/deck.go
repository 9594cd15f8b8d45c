// Package deck defines the presentation document model used by slidecore:
// presentations, slides, positioned elements, themes, and the deep-copy
// snapshots the editor keeps for undo.
package deck

// ThemeName identifies either a named preset palette or the custom palette.
type ThemeName string

// Recognised theme names. ThemeCustom means consumers read Meta.CustomTheme.
const (
	ThemeDefault ThemeName = "default"
	ThemeDark    ThemeName = "dark"
	ThemeOcean   ThemeName = "ocean"
	ThemeSunset  ThemeName = "sunset"
	ThemeCustom  ThemeName = "custom"
)

// Valid reports whether the theme name is recognised.
func (n ThemeName) Valid() bool {
	switch n {
	case ThemeDefault, ThemeDark, ThemeOcean, ThemeSunset, ThemeCustom:
		return true
	}
	return false
}

// Transition names the slide-to-slide animation.
type Transition string

// Supported transitions.
const (
	TransitionNone  Transition = "none"
	TransitionFade  Transition = "fade"
	TransitionSlide Transition = "slide"
	TransitionZoom  Transition = "zoom"
)

// Valid reports whether the transition is supported.
func (t Transition) Valid() bool {
	switch t {
	case TransitionNone, TransitionFade, TransitionSlide, TransitionZoom:
		return true
	}
	return false
}

// Default titles applied when a document does not carry one.
const (
	DefaultTitle  = "Untitled Deck"
	ImportedTitle = "Imported Presentation"
	MigratedTitle = "Migrated Presentation"
)

// Meta holds the document-level settings of a presentation.
type Meta struct {
	Title       string      `json:"title"`
	Theme       ThemeName   `json:"theme"`
	CustomTheme CustomTheme `json:"customTheme"`
	Transition  Transition  `json:"transition"`
}

// Content is the templated payload of a slide plus its free-floating elements.
type Content struct {
	Title    string    `json:"title,omitempty"`
	Subtitle string    `json:"subtitle,omitempty"`
	Body     string    `json:"body,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Elements []Element `json:"elements"`
}

// Slide is one page of a presentation. Its position in Presentation.Slides is
// its display order.
type Slide struct {
	ID      string  `json:"id"`
	Layout  Layout  `json:"layout"`
	Content Content `json:"content"`
}

// Presentation is the root document. ID is the library key and is not part of
// the persisted body.
type Presentation struct {
	ID            string  `json:"-"`
	Meta          Meta    `json:"meta"`
	Slides        []Slide `json:"slides"`
	ActiveSlideID string  `json:"activeSlideId"`
}

// Snapshot is an independent copy of the undoable portion of a presentation.
type Snapshot struct {
	Meta          Meta    `json:"meta"`
	Slides        []Slide `json:"slides"`
	ActiveSlideID string  `json:"activeSlideId"`
}

// NewPresentation builds the default single-slide presentation. newID mints
// slide identifiers.
func NewPresentation(newID func() string) *Presentation {
	slide := Slide{
		ID:     newID(),
		Layout: LayoutTitle,
		Content: Content{
			Title:    "Title",
			Body:     "Subtitle",
			Elements: []Element{},
		},
	}
	return &Presentation{
		Meta: Meta{
			Title:       DefaultTitle,
			Theme:       ThemeDefault,
			CustomTheme: DefaultCustomTheme(),
			Transition:  TransitionNone,
		},
		Slides:        []Slide{slide},
		ActiveSlideID: slide.ID,
	}
}

// SlideIndex returns the index of the slide with id, or -1.
func (p *Presentation) SlideIndex(id string) int {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// Slide returns a pointer into Slides for id, or nil.
func (p *Presentation) Slide(id string) *Slide {
	if i := p.SlideIndex(id); i >= 0 {
		return &p.Slides[i]
	}
	return nil
}

// ActiveSlide returns the active slide or nil when the active id dangles.
func (p *Presentation) ActiveSlide() *Slide {
	return p.Slide(p.ActiveSlideID)
}

// Snapshot returns a deep copy of the undoable state.
func (p *Presentation) Snapshot() Snapshot {
	return Snapshot{
		Meta:          p.Meta,
		Slides:        cloneSlides(p.Slides),
		ActiveSlideID: p.ActiveSlideID,
	}
}

// Restore replaces meta, slides and the active id with copies from s.
func (p *Presentation) Restore(s Snapshot) {
	p.Meta = s.Meta
	p.Slides = cloneSlides(s.Slides)
	p.ActiveSlideID = s.ActiveSlideID
}

// ElementIndex returns the index of the element with id, or -1.
func (s *Slide) ElementIndex(id string) int {
	for i := range s.Content.Elements {
		if s.Content.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

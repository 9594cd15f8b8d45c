package deck

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownElementKind is returned when an element record carries a type
// with no matching body.
var ErrUnknownElementKind = errors.New("unknown element type")

// ElementKind is the wire discriminator of an element body.
type ElementKind string

// Element kinds. Icons and free text share the "text" kind.
const (
	KindImage    ElementKind = "image"
	KindIconText ElementKind = "text"
)

// Frame positions an element on the slide canvas.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Body is the kind-specific payload of an element. The set of bodies is closed.
type Body interface {
	Kind() ElementKind
	isBody()
}

// ImageBody renders an image from Src.
type ImageBody struct {
	Src string
}

// Kind implements Body.
func (ImageBody) Kind() ElementKind { return KindImage }
func (ImageBody) isBody()           {}

// IconTextBody renders Content as text. Style carries renderer hints such as
// "svg-icon".
type IconTextBody struct {
	Content string
	Style   string
}

// Kind implements Body.
func (IconTextBody) Kind() ElementKind { return KindIconText }
func (IconTextBody) isBody()           {}

// Element is a positioned object overlaid on a slide. Its index in
// Content.Elements is its paint order; later entries draw on top.
type Element struct {
	ID string
	Frame
	Body Body
}

// Kind returns the body kind or "" when the element has no body.
func (e Element) Kind() ElementKind {
	if e.Body == nil {
		return ""
	}
	return e.Body.Kind()
}

// NewImage builds an image element.
func NewImage(id, src string, f Frame) Element {
	return Element{ID: id, Frame: f, Body: ImageBody{Src: src}}
}

// NewText builds an icon/text element.
func NewText(id, content, style string, f Frame) Element {
	return Element{ID: id, Frame: f, Body: IconTextBody{Content: content, Style: style}}
}

type elementWire struct {
	ID      string      `json:"id"`
	Type    ElementKind `json:"type"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Src     string      `json:"src,omitempty"`
	Content string      `json:"content,omitempty"`
	Style   string      `json:"style,omitempty"`
}

// MarshalJSON flattens the body into the persisted element record.
func (e Element) MarshalJSON() ([]byte, error) {
	w := elementWire{ID: e.ID, X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
	switch b := e.Body.(type) {
	case ImageBody:
		w.Type = KindImage
		w.Src = b.Src
	case IconTextBody:
		w.Type = KindIconText
		w.Content = b.Content
		w.Style = b.Style
	default:
		return nil, fmt.Errorf("element %q: missing body", e.ID)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a persisted element record.
func (e *Element) UnmarshalJSON(data []byte) error {
	var w elementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Element{ID: w.ID, Frame: Frame{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}}
	switch w.Type {
	case KindImage:
		out.Body = ImageBody{Src: w.Src}
	case KindIconText:
		out.Body = IconTextBody{Content: w.Content, Style: w.Style}
	default:
		return fmt.Errorf("element %q: %w %q", w.ID, ErrUnknownElementKind, w.Type)
	}
	*e = out
	return nil
}

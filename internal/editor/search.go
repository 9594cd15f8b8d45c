package editor

import (
	"strings"

	"slidecore/pkg/deck"
)

// ReplaceText replaces every occurrence of find in slide titles, subtitles,
// bodies and text elements. It snapshots once when anything matches and
// returns the number of replacements.
func (e *Editor) ReplaceText(find, replace string) int {
	if find == "" {
		e.reject("replace_text")
		return 0
	}
	n := e.countMatches(find)
	if n == 0 {
		e.reject("replace_text")
		return 0
	}
	e.apply("replace_text", true, func() {
		for i := range e.doc.Slides {
			c := &e.doc.Slides[i].Content
			c.Title = strings.ReplaceAll(c.Title, find, replace)
			c.Subtitle = strings.ReplaceAll(c.Subtitle, find, replace)
			c.Body = strings.ReplaceAll(c.Body, find, replace)
			for j := range c.Elements {
				if b, ok := c.Elements[j].Body.(deck.IconTextBody); ok {
					b.Content = strings.ReplaceAll(b.Content, find, replace)
					c.Elements[j].Body = b
				}
			}
		}
	})
	return n
}

func (e *Editor) countMatches(find string) int {
	n := 0
	for _, s := range e.doc.Slides {
		c := s.Content
		n += strings.Count(c.Title, find) + strings.Count(c.Subtitle, find) + strings.Count(c.Body, find)
		for _, el := range c.Elements {
			if b, ok := el.Body.(deck.IconTextBody); ok {
				n += strings.Count(b.Content, find)
			}
		}
	}
	return n
}

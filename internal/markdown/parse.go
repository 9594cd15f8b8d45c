// Package markdown converts a small Markdown dialect into deck slides.
//
// Recognised lines, after trimming:
//
//	---            starts a new slide
//	# Title        sets the title; on a slide that already has one, starts a new slide
//	## Subtitle    sets the subtitle
//	![alt](src)    appends an image element
//
// Every other non-blank line is body text. A body made only of "- " or "* "
// items becomes an HTML list; anything else is joined with <br>.
package markdown

import (
	"regexp"
	"strings"

	"slidecore/pkg/deck"
)

// ImageFrame is where imported images are placed.
var ImageFrame = deck.Frame{X: 50, Y: 150, Width: 400, Height: 300}

var imagePattern = regexp.MustCompile(`^!\[(.*?)\]\((.*?)\)`)

type draft struct {
	slide deck.Slide
	body  []string
}

func (d *draft) empty() bool {
	c := d.slide.Content
	return c.Title == "" && c.Subtitle == "" && len(d.body) == 0 && len(c.Elements) == 0
}

// Parse splits text into title-body slides. newID mints slide and element
// ids. Slides with no content are dropped, so blank input yields none.
func Parse(text string, newID func() string) []deck.Slide {
	var (
		slides []deck.Slide
		cur    *draft
	)
	start := func() {
		cur = &draft{slide: deck.Slide{
			ID:      newID(),
			Layout:  deck.LayoutTitleBody,
			Content: deck.Content{Elements: []deck.Element{}},
		}}
	}
	finish := func() {
		if cur == nil || cur.empty() {
			return
		}
		if len(cur.body) > 0 {
			cur.slide.Content.Body = body(cur.body)
		}
		slides = append(slides, cur.slide)
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			finish()
			start()
			continue
		}
		if cur == nil {
			start()
		}
		switch {
		case strings.HasPrefix(trimmed, "# "):
			if cur.slide.Content.Title != "" {
				finish()
				start()
			}
			cur.slide.Content.Title = strings.TrimSpace(trimmed[2:])
		case strings.HasPrefix(trimmed, "## "):
			cur.slide.Content.Subtitle = strings.TrimSpace(trimmed[3:])
		default:
			if m := imagePattern.FindStringSubmatch(trimmed); m != nil {
				cur.slide.Content.Elements = append(cur.slide.Content.Elements,
					deck.NewImage(newID(), m[2], ImageFrame))
				continue
			}
			if trimmed != "" {
				cur.body = append(cur.body, trimmed)
			}
		}
	}
	finish()
	return slides
}

func body(lines []string) string {
	for _, l := range lines {
		if !strings.HasPrefix(l, "- ") && !strings.HasPrefix(l, "* ") {
			return strings.Join(lines, "<br>")
		}
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, l := range lines {
		b.WriteString("<li>")
		b.WriteString(l[2:])
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

package deck

// Layout names the template a renderer uses for a slide. Unknown layouts are
// preserved as-is.
type Layout string

// Built-in layouts.
const (
	LayoutTitle         Layout = "title"
	LayoutTitleBody     Layout = "title-body"
	LayoutHero          Layout = "hero"
	LayoutStatement     Layout = "statement"
	LayoutSplitDiagonal Layout = "split-diagonal"
	LayoutPhotoGrid     Layout = "photo-grid"
	LayoutStats         Layout = "stats"
	LayoutTimeline      Layout = "timeline"
	LayoutVenn          Layout = "venn"
	LayoutFunnel        Layout = "funnel"
	LayoutPyramid       Layout = "pyramid"
	LayoutSWOT          Layout = "swot"
	LayoutTeam          Layout = "team"
	LayoutVideo         Layout = "video"
	LayoutKanban        Layout = "kanban"
	LayoutAgenda        Layout = "agenda"
	LayoutChart         Layout = "chart"
	LayoutQuote         Layout = "quote"
	LayoutGallery       Layout = "gallery"
	LayoutCode          Layout = "code"
	LayoutComparison    Layout = "comparison"
	LayoutBigList       Layout = "big-list"
)

var knownLayouts = []Layout{
	LayoutTitle, LayoutTitleBody, LayoutHero, LayoutStatement, LayoutSplitDiagonal,
	LayoutPhotoGrid, LayoutStats, LayoutTimeline, LayoutVenn, LayoutFunnel,
	LayoutPyramid, LayoutSWOT, LayoutTeam, LayoutVideo, LayoutKanban, LayoutAgenda,
	LayoutChart, LayoutQuote, LayoutGallery, LayoutCode, LayoutComparison, LayoutBigList,
}

// Layouts lists the built-in layouts.
func Layouts() []Layout {
	out := make([]Layout, len(knownLayouts))
	copy(out, knownLayouts)
	return out
}

// Known reports whether l is a built-in layout.
func (l Layout) Known() bool {
	for _, k := range knownLayouts {
		if k == l {
			return true
		}
	}
	return false
}

const defaultBody = "<ul><li>Add content here</li></ul>"

// DefaultContent returns the starting content for a new slide of layout l.
func DefaultContent(l Layout) Content {
	c := Content{Title: "New Slide", Body: defaultBody, Elements: []Element{}}
	switch l {
	case LayoutTitle, LayoutHero:
		c.Body = "Subtitle"
	case LayoutStatement:
		c.Title = "Make a bold statement"
		c.Body = ""
	case LayoutQuote:
		c.Title = "Author"
		c.Body = "\"Add a memorable quote here.\""
	case LayoutCode:
		c.Body = "<pre><code>// code</code></pre>"
	}
	return c
}

package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"sync"
	"testing"

	"slidecore/internal/history"
	"slidecore/internal/kv"
	"slidecore/internal/library"
	"slidecore/internal/observability"
	"slidecore/pkg/deck"
)

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type fixture struct {
	ed    *Editor
	lib   *library.Library
	store kv.Store
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	ids := seqIDs()
	store := kv.NewMemory()
	lib, err := library.Open(context.Background(), store, library.WithIDGenerator(ids))
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	opts = append([]Option{WithIDGenerator(ids), WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return fixture{ed: New(lib, opts...), lib: lib, store: store}
}

// openDeck creates a library deck and opens it.
func (f fixture) openDeck(t *testing.T) string {
	t.Helper()
	id, err := f.ed.CreatePresentation(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}

func slideIDs(e *Editor) []string {
	out := make([]string, 0, len(e.doc.Slides))
	for _, s := range e.doc.Slides {
		out = append(out, s.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestNewEditorStartsInLibraryWithDefaultDeck(t *testing.T) {
	f := newFixture(t)
	if f.ed.View() != ViewLibrary || f.ed.CurrentID() != "" {
		t.Fatalf("unexpected view %q current %q", f.ed.View(), f.ed.CurrentID())
	}
	if len(f.ed.Slides()) != 1 || f.ed.Meta().Title != deck.DefaultTitle {
		t.Fatalf("unexpected default deck %+v", f.ed.Deck())
	}
	if f.ed.HistoryIndex() != -1 {
		t.Fatalf("expected empty history")
	}
}

func TestExampleAddSaveDeleteUndo(t *testing.T) {
	f := newFixture(t)
	e := f.ed
	s1 := e.ActiveSlideID()

	s2 := e.AddSlide(deck.LayoutTitleBody)
	if got := slideIDs(e); !reflect.DeepEqual(got, []string{s1, s2}) {
		t.Fatalf("expected [%s %s], got %v", s1, s2, got)
	}
	if e.ActiveSlideID() != s2 {
		t.Fatalf("new slide should be active")
	}

	e.SaveHistory()
	if !e.DeleteSlide(s2) {
		t.Fatalf("delete rejected")
	}
	if len(e.Slides()) != 1 || e.ActiveSlideID() != s1 {
		t.Fatalf("expected only %s active, got %v active %s", s1, slideIDs(e), e.ActiveSlideID())
	}

	if !e.Undo() {
		t.Fatalf("undo rejected")
	}
	if got := slideIDs(e); !reflect.DeepEqual(got, []string{s1, s2}) || e.ActiveSlideID() != s2 {
		t.Fatalf("undo did not restore: %v active %s", got, e.ActiveSlideID())
	}
}

func TestExampleSetCustomThemeProperty(t *testing.T) {
	e := newFixture(t).ed
	before := e.CustomTheme()
	if !e.SetCustomThemeProperty(deck.KeyPrimary, "#ff0000") {
		t.Fatalf("rejected")
	}
	after := e.CustomTheme()
	if e.Theme() != deck.ThemeCustom || after.Primary != "#ff0000" {
		t.Fatalf("unexpected theme %q %+v", e.Theme(), after)
	}
	before.Primary = "#ff0000"
	if after != before {
		t.Fatalf("other keys changed: %+v", after)
	}
	if e.HistoryIndex() != -1 {
		t.Fatalf("custom property edits must not snapshot")
	}
	if e.SetCustomThemeProperty("shadow", "x") {
		t.Fatalf("unknown key accepted")
	}
	if e.SetCustomThemeProperty(deck.KeyAccent, "teal-ish") {
		t.Fatalf("non-colour value accepted for a colour key")
	}
	if !e.SetCustomThemeProperty(deck.KeyFont, "Lato") || e.CustomTheme().Font != "Lato" {
		t.Fatalf("font rejected")
	}
}

func TestAddSlideInsertsAfterActive(t *testing.T) {
	e := newFixture(t).ed
	s1 := e.ActiveSlideID()
	s2 := e.AddSlide("")
	e.SetActiveSlide(s1)
	s3 := e.AddSlide(deck.LayoutQuote)
	if got := slideIDs(e); !reflect.DeepEqual(got, []string{s1, s3, s2}) {
		t.Fatalf("unexpected order %v", got)
	}
	added, _ := e.ActiveSlide()
	if added.Layout != deck.LayoutQuote || added.Content.Title != deck.DefaultContent(deck.LayoutQuote).Title {
		t.Fatalf("unexpected new slide %+v", added)
	}
	untyped := e.Slides()[2]
	if untyped.Layout != deck.LayoutTitleBody || untyped.Content.Title != "New Slide" {
		t.Fatalf("empty layout should mean title-body defaults, got %+v", untyped)
	}
	if e.HistoryIndex() != -1 {
		t.Fatalf("add slide must not snapshot")
	}

	// dangling active id appends
	e.doc.ActiveSlideID = "gone"
	s4 := e.AddSlide(deck.LayoutStats)
	if ids := slideIDs(e); ids[len(ids)-1] != s4 {
		t.Fatalf("expected append, got %v", ids)
	}
}

func TestDeleteSlideRules(t *testing.T) {
	e := newFixture(t).ed
	only := e.ActiveSlideID()
	if e.DeleteSlide(only) {
		t.Fatalf("last slide deleted")
	}
	if len(e.Slides()) != 1 || e.HistoryIndex() != -1 {
		t.Fatalf("rejected delete changed state")
	}

	a := only
	b := e.AddSlide("")
	c := e.AddSlide("")
	// deleting a non-active slide keeps the active one
	if !e.DeleteSlide(a) || e.ActiveSlideID() != c {
		t.Fatalf("unexpected active %s", e.ActiveSlideID())
	}
	// deleting the first, active slide activates the new first
	e.SetActiveSlide(b)
	if !e.DeleteSlide(b) || e.ActiveSlideID() != c {
		t.Fatalf("expected %s active, got %s", c, e.ActiveSlideID())
	}
	if e.DeleteSlide("missing") {
		t.Fatalf("unknown id accepted")
	}
}

func TestSlidesNeverEmpty(t *testing.T) {
	e := newFixture(t).ed
	r := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 500; i++ {
		ids := slideIDs(e)
		pick := ids[r.IntN(len(ids))]
		switch r.IntN(7) {
		case 0:
			e.AddSlide("")
		case 1, 2:
			e.DeleteSlide(pick)
		case 3:
			e.MoveSlide(pick, Direction(r.IntN(2)))
		case 4:
			e.Undo()
		case 5:
			e.Redo()
		case 6:
			e.SaveHistory()
		}
		if len(e.doc.Slides) < 1 {
			t.Fatalf("step %d: no slides", i)
		}
		if err := deck.Validate(e.doc); err != nil {
			t.Fatalf("step %d: invalid deck: %v", i, err)
		}
	}
}

func TestMoveAndReorderSlide(t *testing.T) {
	e := newFixture(t).ed
	a := e.ActiveSlideID()
	b := e.AddSlide("")
	c := e.AddSlide("")

	if e.MoveSlide(a, Up) || e.MoveSlide(c, Down) {
		t.Fatalf("boundary moves should be no-ops")
	}
	if e.HistoryIndex() != -1 {
		t.Fatalf("rejected moves must not snapshot")
	}
	if !e.MoveSlide(a, Down) {
		t.Fatalf("move down rejected")
	}
	if got := slideIDs(e); !reflect.DeepEqual(got, []string{b, a, c}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !e.ReorderSlide(c, -5) {
		t.Fatalf("reorder rejected")
	}
	if got := slideIDs(e); !reflect.DeepEqual(got, []string{c, b, a}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !e.ReorderSlide(c, 99) {
		t.Fatalf("reorder rejected")
	}
	if got := slideIDs(e); !reflect.DeepEqual(got, []string{b, a, c}) {
		t.Fatalf("unexpected order %v", got)
	}
	if e.ReorderSlide(c, 2) || e.ReorderSlide("missing", 0) {
		t.Fatalf("no-op reorder accepted")
	}
}

func TestUpdateContentAndNotesDoNotSnapshot(t *testing.T) {
	e := newFixture(t).ed
	id := e.ActiveSlideID()
	if !e.UpdateSlideContent(id, ContentPatch{Title: ptr("Hello"), Body: ptr("")}) {
		t.Fatalf("update rejected")
	}
	s, _ := e.ActiveSlide()
	if s.Content.Title != "Hello" || s.Content.Body != "" {
		t.Fatalf("unexpected content %+v", s.Content)
	}
	if !e.UpdateNotes(id, "speak slowly") {
		t.Fatalf("notes rejected")
	}
	s, _ = e.ActiveSlide()
	if s.Content.Notes != "speak slowly" || s.Content.Title != "Hello" {
		t.Fatalf("notes update clobbered content %+v", s.Content)
	}
	if e.HistoryIndex() != -1 {
		t.Fatalf("continuous edits must not snapshot")
	}
	if e.UpdateSlideContent("missing", ContentPatch{Title: ptr("x")}) || e.UpdateSlideContent(id, ContentPatch{}) {
		t.Fatalf("invalid update accepted")
	}
	if e.UpdateNotes("missing", "x") {
		t.Fatalf("notes on unknown slide accepted")
	}
}

func TestContinuousEditUndoWithSaveHistory(t *testing.T) {
	e := newFixture(t).ed
	id := e.ActiveSlideID()
	e.SaveHistory()
	for _, v := range []string{"H", "He", "Hel", "Hell", "Hello"} {
		e.UpdateSlideContent(id, ContentPatch{Title: ptr(v)})
	}
	if !e.Undo() {
		t.Fatalf("undo rejected")
	}
	s, _ := e.ActiveSlide()
	if s.Content.Title != "Title" {
		t.Fatalf("expected pre-edit title, got %q", s.Content.Title)
	}
	if !e.Redo() {
		t.Fatalf("redo rejected")
	}
	s, _ = e.ActiveSlide()
	if s.Content.Title != "Hello" {
		t.Fatalf("expected redo to restore typed title, got %q", s.Content.Title)
	}
}

func TestNSavesThenNUndos(t *testing.T) {
	e := newFixture(t).ed
	original := e.Deck()
	const n = 4
	for i := 0; i < n; i++ {
		e.SaveHistory()
	}
	for i := 0; i < n; i++ {
		e.Undo()
	}
	if !reflect.DeepEqual(e.Deck(), original) {
		t.Fatalf("state differs after N saves and N undos")
	}
}

func TestUndoRedoIdempotent(t *testing.T) {
	e := newFixture(t).ed
	e.AddSlide("")
	e.SetTheme(deck.ThemeDark)
	e.SetTransition(deck.TransitionFade)
	before := e.Deck()

	if !e.Undo() {
		t.Fatalf("undo rejected")
	}
	if e.Meta().Transition != deck.TransitionNone {
		t.Fatalf("undo did not revert transition")
	}
	if !e.Redo() {
		t.Fatalf("redo rejected")
	}
	if !reflect.DeepEqual(e.Deck(), before) {
		t.Fatalf("state after redo differs from before undo")
	}
}

func TestMutationAfterUndoTruncatesRedo(t *testing.T) {
	e := newFixture(t).ed
	e.SetTheme(deck.ThemeDark)
	e.SetTheme(deck.ThemeOcean)
	e.Undo()
	if !e.CanRedo() {
		t.Fatalf("redo should be available")
	}
	e.SetTransition(deck.TransitionZoom)
	before := e.Deck()
	if e.Redo() {
		t.Fatalf("redo after new edit should be a no-op")
	}
	if !reflect.DeepEqual(e.Deck(), before) {
		t.Fatalf("rejected redo changed state")
	}
}

func TestHistoryRetentionBound(t *testing.T) {
	e := newFixture(t).ed
	for i := 0; i < 80; i++ {
		e.SetTheme(deck.ThemeDark)
		if n := len(e.History()); n > history.DefaultLimit {
			t.Fatalf("history length %d exceeds %d", n, history.DefaultLimit)
		}
		if idx := e.HistoryIndex(); idx < -1 || idx >= len(e.History()) {
			t.Fatalf("invalid history index %d", idx)
		}
	}

	small := newFixture(t, WithHistoryLimit(3)).ed
	for i := 0; i < 10; i++ {
		small.SaveHistory()
	}
	if len(small.History()) != 3 {
		t.Fatalf("expected configured bound of 3, got %d", len(small.History()))
	}
}

func TestJumpToHistory(t *testing.T) {
	e := newFixture(t).ed
	e.SetTheme(deck.ThemeDark)
	e.SetTheme(deck.ThemeOcean)
	e.SetTheme(deck.ThemeSunset)
	if !e.JumpToHistory(0) {
		t.Fatalf("jump rejected")
	}
	if e.Theme() != deck.ThemeDefault {
		t.Fatalf("expected first snapshot, got %q", e.Theme())
	}
	if !e.JumpToHistory(len(e.History()) - 1) {
		t.Fatalf("jump to tip rejected")
	}
	if e.Theme() != deck.ThemeSunset {
		t.Fatalf("expected captured tip, got %q", e.Theme())
	}
	if e.JumpToHistory(99) {
		t.Fatalf("out of range jump accepted")
	}
}

func TestRestoreSnapshotCopiesAndNotifies(t *testing.T) {
	e := newFixture(t).ed
	snap := e.doc.Snapshot()
	snap.Meta.Title = "Restored"
	var got State
	e.Subscribe(func(s State) { got = s })
	e.RestoreSnapshot(snap)
	snap.Slides[0].Content.Title = "mutated after restore"
	if e.Meta().Title != "Restored" || got.Deck == nil || got.Deck.Meta.Title != "Restored" {
		t.Fatalf("restore not applied or not notified")
	}
	if s, _ := e.ActiveSlide(); s.Content.Title == "mutated after restore" {
		t.Fatalf("restored state aliases the snapshot")
	}
}

func elementIDs(e *Editor, slideID string) []string {
	var out []string
	for _, el := range e.doc.Slide(slideID).Content.Elements {
		out = append(out, el.ID)
	}
	return out
}

func TestElements(t *testing.T) {
	e := newFixture(t).ed
	sid := e.ActiveSlideID()
	frame := deck.Frame{X: 10, Y: 20, Width: 100, Height: 50}

	a, ok := e.AddElementToSlide(sid, deck.NewImage("", "cat.png", frame))
	if !ok || a == "" {
		t.Fatalf("add image rejected")
	}
	b, _ := e.AddElementToSlide(sid, deck.NewText("b", "<svg/>", "svg-icon", frame))
	c, _ := e.AddElementToSlide(sid, deck.NewText("c", "hi", "", frame))
	if _, ok := e.AddElementToSlide(sid, deck.NewText("c", "dup", "", frame)); ok {
		t.Fatalf("duplicate element id accepted")
	}
	if _, ok := e.AddElementToSlide(sid, deck.Element{ID: "nobody"}); ok {
		t.Fatalf("element without body accepted")
	}
	if _, ok := e.AddElementToSlide("missing", deck.NewImage("", "x", frame)); ok {
		t.Fatalf("element on unknown slide accepted")
	}
	if got := elementIDs(e, sid); !reflect.DeepEqual(got, []string{a, b, c}) {
		t.Fatalf("unexpected paint order %v", got)
	}

	if !e.ReorderElement(sid, a, ToFront) {
		t.Fatalf("front rejected")
	}
	if got := elementIDs(e, sid); got[len(got)-1] != a {
		t.Fatalf("front should paint last, got %v", got)
	}
	if !e.ReorderElement(sid, a, ToBack) {
		t.Fatalf("back rejected")
	}
	if got := elementIDs(e, sid); got[0] != a {
		t.Fatalf("back should paint first, got %v", got)
	}
	if e.ReorderElement(sid, a, ToBack) || e.ReorderElement(sid, a, Backward) {
		t.Fatalf("no-op reorder accepted")
	}
	if !e.ReorderElement(sid, a, Forward) {
		t.Fatalf("forward rejected")
	}
	if got := elementIDs(e, sid); !reflect.DeepEqual(got, []string{b, a, c}) {
		t.Fatalf("unexpected order after forward %v", got)
	}
	if e.ReorderElement(sid, a, "sideways") || e.ReorderElement(sid, "nope", ToFront) {
		t.Fatalf("invalid reorder accepted")
	}

	// geometry applies to every kind, body fields only to their kind
	if !e.UpdateElement(sid, 1, ElementPatch{X: ptr(5.0), Src: ptr("dog.png"), Content: ptr("ignored")}) {
		t.Fatalf("update rejected")
	}
	img := e.doc.Slide(sid).Content.Elements[1]
	if img.X != 5 || img.Y != 20 || img.Body != (deck.ImageBody{Src: "dog.png"}) {
		t.Fatalf("unexpected image after update %+v", img)
	}
	if !e.UpdateElement(sid, 2, ElementPatch{Content: ptr("bye"), Src: ptr("ignored")}) {
		t.Fatalf("update rejected")
	}
	if txt := e.doc.Slide(sid).Content.Elements[2]; txt.Body != (deck.IconTextBody{Content: "bye"}) {
		t.Fatalf("unexpected text after update %+v", txt)
	}
	if e.UpdateElement(sid, 9, ElementPatch{}) || e.UpdateElement("missing", 0, ElementPatch{}) {
		t.Fatalf("invalid update accepted")
	}

	if !e.DeleteElement(sid, b) {
		t.Fatalf("delete rejected")
	}
	if got := elementIDs(e, sid); !reflect.DeepEqual(got, []string{a, c}) {
		t.Fatalf("unexpected elements after delete %v", got)
	}
	if e.DeleteElement(sid, b) {
		t.Fatalf("second delete accepted")
	}
}

func TestActiveSlideNavigation(t *testing.T) {
	e := newFixture(t).ed
	a := e.ActiveSlideID()
	b := e.AddSlide("")
	if e.NextSlide() {
		t.Fatalf("next at end should be a no-op")
	}
	if !e.PrevSlide() || e.ActiveSlideID() != a {
		t.Fatalf("prev failed")
	}
	if e.PrevSlide() {
		t.Fatalf("prev at start should be a no-op")
	}
	if !e.NextSlide() || e.ActiveSlideID() != b {
		t.Fatalf("next failed")
	}
	if e.SetActiveSlide("missing") || e.ActiveSlideID() != b {
		t.Fatalf("unknown active id accepted")
	}
}

func TestThemeOperations(t *testing.T) {
	e := newFixture(t).ed
	if e.SetTheme("neon") || e.SetTransition("spin") {
		t.Fatalf("unknown names accepted")
	}
	if e.HistoryIndex() != -1 {
		t.Fatalf("rejected theme ops snapshotted")
	}
	if !e.SetTheme(deck.ThemeOcean) || e.HistoryIndex() != 0 {
		t.Fatalf("set theme should apply and snapshot")
	}
	if e.Palette() != deck.ResolvePalette(deck.Meta{Theme: deck.ThemeOcean}) {
		t.Fatalf("palette does not follow named theme")
	}

	if err := e.ApplyThemeJSON([]byte(`{"primary":"#010101","background":"#020202"}`)); err != nil {
		t.Fatalf("apply theme json: %v", err)
	}
	ct := e.CustomTheme()
	if e.Theme() != deck.ThemeCustom || ct.Primary != "#010101" || ct.Bg != "#020202" || ct.Text != "#333333" {
		t.Fatalf("unexpected custom theme %+v", ct)
	}
	if err := e.ApplyThemeJSON([]byte(`{"unrelated":1}`)); err == nil {
		t.Fatalf("expected error for patch with no keys")
	}
	if e.ApplyTheme(deck.ThemePatch{}) {
		t.Fatalf("empty patch accepted")
	}
	if e.ApplyTheme(deck.ThemePatch{Primary: "#zzzzzz"}) {
		t.Fatalf("invalid colour accepted")
	}
	if err := e.ApplyThemeJSON([]byte(`{"accent":"not a colour"}`)); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if e.CustomTheme().Accent != ct.Accent {
		t.Fatalf("rejected patch changed the palette")
	}

	if !e.ApplyPreset("midnight") {
		t.Fatalf("preset rejected")
	}
	preset, _ := deck.PresetByName("Midnight")
	if e.CustomTheme().Bg != preset.Bg || e.CustomTheme().Font != preset.Font {
		t.Fatalf("preset not applied: %+v", e.CustomTheme())
	}
	if e.ApplyPreset("no such preset") {
		t.Fatalf("unknown preset accepted")
	}

	got := e.RandomizeTheme()
	if e.CustomTheme() != got || !deck.ValidColor(got.Primary) {
		t.Fatalf("random theme not applied: %+v", got)
	}

	if !e.SetTitle("  Keynote  ") || e.Meta().Title != "Keynote" {
		t.Fatalf("title not set: %q", e.Meta().Title)
	}
	if e.SetTitle("   ") {
		t.Fatalf("blank title accepted")
	}
}

func TestReplaceText(t *testing.T) {
	e := newFixture(t).ed
	sid := e.ActiveSlideID()
	e.UpdateSlideContent(sid, ContentPatch{Title: ptr("cat and cat"), Subtitle: ptr("cat"), Body: ptr("no match"), Notes: ptr("cat")})
	e.AddElementToSlide(sid, deck.NewText("t", "a cat", "", deck.Frame{}))
	e.AddElementToSlide(sid, deck.NewImage("i", "cat.png", deck.Frame{}))
	before := e.HistoryIndex()

	if n := e.ReplaceText("cat", "dog"); n != 4 {
		t.Fatalf("expected 4 replacements, got %d", n)
	}
	if e.HistoryIndex() != before+1 {
		t.Fatalf("replace should snapshot exactly once")
	}
	s, _ := e.ActiveSlide()
	if s.Content.Title != "dog and dog" || s.Content.Subtitle != "dog" || s.Content.Notes != "cat" {
		t.Fatalf("unexpected content %+v", s.Content)
	}
	if s.Content.Elements[0].Body != (deck.IconTextBody{Content: "a dog"}) {
		t.Fatalf("text element not replaced: %+v", s.Content.Elements[0])
	}
	if s.Content.Elements[1].Body != (deck.ImageBody{Src: "cat.png"}) {
		t.Fatalf("image src must not be touched")
	}
	mark := e.HistoryIndex()
	if e.ReplaceText("zebra", "x") != 0 || e.ReplaceText("", "x") != 0 || e.HistoryIndex() != mark {
		t.Fatalf("no-match replace should not snapshot")
	}
	e.Undo()
	s, _ = e.ActiveSlide()
	if s.Content.Title != "cat and cat" {
		t.Fatalf("undo should restore pre-replace text, got %q", s.Content.Title)
	}
}

func TestRejectedMutationDoesNotNotify(t *testing.T) {
	e := newFixture(t).ed
	calls := 0
	unsub := e.Subscribe(func(State) { calls++ })
	e.DeleteSlide(e.ActiveSlideID())
	e.SetTheme("bogus")
	e.ReorderSlide(e.ActiveSlideID(), 0)
	if calls != 0 {
		t.Fatalf("rejected mutations notified %d times", calls)
	}
	e.AddSlide("")
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
	unsub()
	unsub()
	e.AddSlide("")
	if calls != 1 {
		t.Fatalf("unsubscribed listener still called")
	}
}

func TestSubscribersReceiveCopies(t *testing.T) {
	e := newFixture(t).ed
	e.Subscribe(func(s State) { s.Deck.Slides[0].Content.Title = "vandalised" })
	e.AddSlide("")
	if e.doc.Slides[0].Content.Title == "vandalised" {
		t.Fatalf("listener mutated live document")
	}
}

func TestOpenDeckWritesThrough(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.ed
	var states []State
	e.Subscribe(func(s State) { states = append(states, s) })

	e.SetCustomThemeProperty(deck.KeyPrimary, "#abcdef")
	id := f.openDeck(t)
	if e.View() != ViewEditor || e.CurrentID() != id {
		t.Fatalf("create should open the deck")
	}
	if e.CustomTheme().Primary != "#abcdef" {
		t.Fatalf("new deck should inherit the current custom theme")
	}
	if last := states[len(states)-1]; last.View != ViewEditor || last.CurrentID != id || len(last.Library) != 1 {
		t.Fatalf("unexpected state %+v", last)
	}

	e.SetTitle("Live")
	e.AddSlide("")
	loaded, err := f.lib.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Meta.Title != "Live" || len(loaded.Slides) != 2 {
		t.Fatalf("write-through missing: %+v", loaded)
	}
	if entry, _ := f.lib.Entry(id); entry.Title != "Live" {
		t.Fatalf("index entry not refreshed: %+v", entry)
	}
	if e.SaveErr() != nil {
		t.Fatalf("unexpected save error %v", e.SaveErr())
	}
}

func TestLibraryViewDoesNotWriteThrough(t *testing.T) {
	f := newFixture(t)
	f.ed.AddSlide("")
	if len(f.lib.Entries()) != 0 {
		t.Fatalf("library view mutations must not persist")
	}
}

func TestLoadResetsHistoryAndClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.ed
	first := f.openDeck(t)
	e.SetTheme(deck.ThemeDark)
	if err := e.ClosePresentation(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if e.View() != ViewLibrary || e.CurrentID() != "" || len(e.History()) != 0 {
		t.Fatalf("close left view=%q id=%q history=%d", e.View(), e.CurrentID(), len(e.History()))
	}
	if err := e.ClosePresentation(ctx); !errors.Is(err, ErrNoOpenPresentation) {
		t.Fatalf("expected ErrNoOpenPresentation, got %v", err)
	}

	if err := e.LoadPresentation(ctx, first); err != nil {
		t.Fatalf("load: %v", err)
	}
	if e.Theme() != deck.ThemeDark || len(e.History()) != 0 || e.CanUndo() {
		t.Fatalf("load should restore persisted state with empty history")
	}
	if err := e.LoadPresentation(ctx, "missing"); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected library.ErrNotFound, got %v", err)
	}
	if e.CurrentID() != first {
		t.Fatalf("failed load changed the open deck")
	}
}

func TestOpeningDamagedDeckDoesNotOverwriteIt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.ed
	withVideo := `{"meta":{"title":"Keep me","theme":"default"},"activeSlideId":"a","slides":[
		{"id":"a","layout":"title","content":{"title":"One","elements":[{"id":"v","type":"video","x":1}]}},
		{"id":"b","layout":"title-body","content":{"title":"Two","elements":[]}}]}`
	broken := `{"meta":`
	if err := f.store.Set(ctx, library.BodyKey("d1"), []byte(withVideo)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := f.store.Set(ctx, library.BodyKey("d2"), []byte(broken)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := e.LoadPresentation(ctx, "d1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(e.Slides()) != 2 || e.Meta().Title != "Keep me" {
		t.Fatalf("deck replaced on load: %+v", e.Deck())
	}
	if err := e.ClosePresentation(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, _ := f.store.Get(ctx, library.BodyKey("d1"))
	if string(raw) != withVideo {
		t.Fatalf("opening rewrote the body: %s", raw)
	}

	if err := e.LoadPresentation(ctx, "d2"); err != nil {
		t.Fatalf("load broken: %v", err)
	}
	if e.Meta().Title != deck.DefaultTitle {
		t.Fatalf("expected default deck for unreadable body")
	}
	if err := e.ClosePresentation(ctx); err != nil {
		t.Fatalf("close broken: %v", err)
	}
	raw, _ = f.store.Get(ctx, library.BodyKey("d2"))
	if string(raw) != broken {
		t.Fatalf("unedited fallback deck was written back: %s", raw)
	}

	// editing the reopened deck persists it, minus the unknown element
	if err := e.LoadPresentation(ctx, "d1"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	e.SetTitle("Edited")
	stored, err := f.lib.Load(ctx, "d1")
	if err != nil || stored.Meta.Title != "Edited" || len(stored.Slides) != 2 {
		t.Fatalf("edit not written through: %+v %v", stored, err)
	}
}

func TestDeletePresentation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.ed
	doomed := f.openDeck(t)
	open := f.openDeck(t)

	if _, err := e.DeletePresentation(ctx, open); !errors.Is(err, ErrPresentationOpen) {
		t.Fatalf("expected ErrPresentationOpen, got %v", err)
	}
	ok, err := e.DeletePresentation(ctx, doomed)
	if err != nil || ok {
		t.Fatalf("default confirmer should decline: ok=%v err=%v", ok, err)
	}
	if len(e.Library()) != 2 {
		t.Fatalf("declined delete removed a deck")
	}

	var prompt string
	e.confirm = ConfirmFunc(func(p string) bool { prompt = p; return true })
	ok, err = e.DeletePresentation(ctx, doomed)
	if err != nil || !ok {
		t.Fatalf("confirmed delete failed: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(prompt, deck.DefaultTitle) {
		t.Fatalf("prompt should name the deck, got %q", prompt)
	}
	if len(e.Library()) != 1 || e.Library()[0].ID != open {
		t.Fatalf("unexpected library %+v", e.Library())
	}
}

func TestExportImportThroughEditor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.ed
	id := f.openDeck(t)
	e.AddSlide(deck.LayoutStats)

	text, err := e.ExportPresentation(ctx, id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	newID, err := e.ImportPresentation(ctx, text)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if newID == id {
		t.Fatalf("import reused the id")
	}
	orig, _ := f.lib.Load(ctx, id)
	imp, _ := f.lib.Load(ctx, newID)
	if !reflect.DeepEqual(orig.Slides, imp.Slides) {
		t.Fatalf("imported slides differ")
	}
	if _, err := e.ImportPresentation(ctx, `{"slides":[]}`); !errors.Is(err, library.ErrInvalidPresentation) {
		t.Fatalf("expected ErrInvalidPresentation, got %v", err)
	}
	if len(e.Library()) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(e.Library()))
	}
}

func TestImportMarkdown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.ed
	id, err := e.ImportMarkdown(ctx, "Notes", "# One\n- a\n- b\n---\n# Two\n")
	if err != nil {
		t.Fatalf("import markdown: %v", err)
	}
	p, err := f.lib.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Meta.Title != "Notes" || len(p.Slides) != 2 || p.Slides[0].Content.Body != "<ul><li>a</li><li>b</li></ul>" {
		t.Fatalf("unexpected imported deck %+v", p)
	}
	if _, err := e.ImportMarkdown(ctx, "x", "\n\n"); !errors.Is(err, ErrEmptyMarkdown) {
		t.Fatalf("expected ErrEmptyMarkdown, got %v", err)
	}
}

// brokenStore fails every write after it is armed.
type brokenStore struct {
	kv.Store
	armed bool
}

func (b *brokenStore) Set(ctx context.Context, key string, value []byte) error {
	if b.armed {
		return errors.New("read-only filesystem")
	}
	return b.Store.Set(ctx, key, value)
}

func TestWriteThroughFailureIsExposed(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: kv.NewMemory()}
	lib, err := library.Open(ctx, store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	e := New(lib)
	if _, err := e.CreatePresentation(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	store.armed = true
	e.AddSlide("")
	if e.SaveErr() == nil {
		t.Fatalf("expected write-through error")
	}
	if len(e.Slides()) != 2 {
		t.Fatalf("in-memory mutation should survive a failed save")
	}
	if err := e.ClosePresentation(ctx); err == nil {
		t.Fatalf("close should report the failed flush")
	}
	if e.View() != ViewEditor {
		t.Fatalf("deck should stay open after a failed flush")
	}
	store.armed = false
	if err := e.SaveCurrentDeck(ctx); err != nil || e.SaveErr() != nil {
		t.Fatalf("save after recovery: %v / %v", err, e.SaveErr())
	}
}

func TestMutationsRecordMetrics(t *testing.T) {
	rec := observability.NewExpvarRecorder("editor_test_metrics")
	e := newFixture(t, WithMetrics(rec)).ed
	e.AddSlide("")
	e.SetTheme("bogus")
	r := rec.Snapshot().Results
	if r["editor.add_slide"]["success"] != 1 || r["editor.set_theme"]["error"] != 1 {
		t.Fatalf("unexpected metrics %+v", r)
	}
}

func TestStateJSONShapeMatchesPersistedRecord(t *testing.T) {
	f := newFixture(t)
	id := f.openDeck(t)
	raw, err := f.ed.ExportPresentation(context.Background(), id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var wire struct {
		Meta struct {
			CustomTheme map[string]string `json:"customTheme"`
		} `json:"meta"`
		Slides        []map[string]any `json:"slides"`
		ActiveSlideID string           `json:"activeSlideId"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(wire.Meta.CustomTheme) != 7 || wire.ActiveSlideID == "" || len(wire.Slides) != 1 {
		t.Fatalf("unexpected wire shape %s", raw)
	}
}

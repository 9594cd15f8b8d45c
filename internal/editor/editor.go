// Package editor owns the open presentation. Every change goes through an
// Editor method that validates its arguments, optionally snapshots for undo,
// mutates the document, and notifies subscribers. When a library deck is
// open, the document is then written through to the library.
//
// An Editor is a single actor: it is not safe for concurrent use.
package editor

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"slidecore/internal/history"
	"slidecore/internal/library"
	"slidecore/internal/logging"
	"slidecore/internal/notify"
	"slidecore/internal/observability"
	"slidecore/pkg/deck"
)

// View is the screen the editor is showing.
type View string

// Views.
const (
	ViewLibrary View = "library"
	ViewEditor  View = "editor"
)

var (
	// ErrNoOpenPresentation is returned by operations that need an open deck.
	ErrNoOpenPresentation = errors.New("no presentation is open")
	// ErrPresentationOpen is returned when deleting the deck being edited.
	ErrPresentationOpen = errors.New("presentation is open")
	// ErrEmptyMarkdown is returned when a Markdown import yields no slides.
	ErrEmptyMarkdown = errors.New("markdown produced no slides")
	// ErrInvalidTheme is returned when a theme patch is refused.
	ErrInvalidTheme = errors.New("invalid theme")
)

// DefaultSaveTimeout bounds each write-through.
const DefaultSaveTimeout = 5 * time.Second

// State is what subscribers receive after every change. Deck is a copy.
type State struct {
	View         View
	CurrentID    string
	Deck         *deck.Presentation
	Library      []library.Entry
	HistoryIndex int
	HistoryLen   int
}

// Confirmer approves destructive operations.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Deny declines every confirmation.
var Deny Confirmer = ConfirmFunc(func(string) bool { return false })

// Editor is the state container driving one document at a time.
type Editor struct {
	lib     *library.Library
	doc     *deck.Presentation
	history *history.Stack[deck.Snapshot]
	bus     *notify.Bus[State]

	view      View
	currentID string
	saveErr   error
	// unsaved is set by every committed edit and cleared by a successful save.
	unsaved bool

	logger  *zap.Logger
	metrics observability.Recorder
	confirm Confirmer
	timeout time.Duration
	newID   func() string
	rng     *rand.Rand
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(e *Editor) { e.logger = logging.OrNop(l) } }

// WithMetrics sets the recorder for mutation outcomes.
func WithMetrics(r observability.Recorder) Option {
	return func(e *Editor) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithConfirmer sets the confirmation used by DeletePresentation. The
// default is Deny.
func WithConfirmer(c Confirmer) Option {
	return func(e *Editor) {
		if c != nil {
			e.confirm = c
		}
	}
}

// WithHistoryLimit sets how many snapshots are retained.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.history = history.New(n, deck.Snapshot.Clone) }
}

// WithSaveTimeout bounds each write-through.
func WithSaveTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithIDGenerator overrides slide and element id minting.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithRand sets the source used by RandomizeTheme.
func WithRand(r *rand.Rand) Option {
	return func(e *Editor) {
		if r != nil {
			e.rng = r
		}
	}
}

// New returns an editor in the library view holding an unsaved default
// document.
func New(lib *library.Library, opts ...Option) *Editor {
	e := &Editor{
		lib:     lib,
		history: history.New(history.DefaultLimit, deck.Snapshot.Clone),
		bus:     notify.New[State](),
		view:    ViewLibrary,
		logger:  zap.NewNop(),
		metrics: observability.Nop{},
		confirm: Deny,
		timeout: DefaultSaveTimeout,
		newID:   deck.NewID,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.doc = deck.NewPresentation(e.newID)
	return e
}

// Subscribe registers fn for every change and returns its unsubscribe func.
func (e *Editor) Subscribe(fn func(State)) (unsubscribe func()) {
	return e.bus.Subscribe(fn)
}

// Notify publishes the current state and writes an open deck with unsaved
// edits through to the library. Every mutation calls it.
func (e *Editor) Notify() {
	e.bus.Notify(e.State())
	if e.view == ViewEditor && e.currentID != "" && e.unsaved {
		e.writeThrough()
	}
}

func (e *Editor) writeThrough() {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	if err := e.lib.Save(ctx, e.currentID, e.doc); err != nil {
		e.saveErr = err
		e.logger.Error("write-through failed", zap.String("id", e.currentID), zap.Error(err))
		return
	}
	e.saveErr = nil
	e.unsaved = false
}

// SaveErr returns the error of the most recent write-through, or nil.
func (e *Editor) SaveErr() error { return e.saveErr }

// apply commits one mutation: an optional snapshot, the change, the dirty
// mark and notification. fn must not fail; callers validate first.
func (e *Editor) apply(op string, snapshot bool, fn func()) {
	start := time.Now()
	if snapshot {
		e.history.Save(e.doc.Snapshot())
	}
	fn()
	e.history.MarkDirty()
	e.unsaved = true
	e.Notify()
	e.metrics.Observe(context.Background(), "editor."+op, true, time.Since(start))
}

// reject records a refused mutation and returns false.
func (e *Editor) reject(op string) bool {
	e.metrics.Observe(context.Background(), "editor."+op, false, 0)
	e.logger.Debug("mutation rejected", zap.String("op", op))
	return false
}

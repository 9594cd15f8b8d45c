// Package library stores many presentations in a key-value store: one body
// per presentation plus an index listing them for the library view.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"slidecore/internal/kv"
	"slidecore/internal/logging"
	"slidecore/internal/observability"
	"slidecore/pkg/deck"
)

// Storage keys.
const (
	IndexKey    = "presentation_index"
	LegacyKey   = "presentation_store"
	SettingsKey = "presentation_settings"
	bodyPrefix  = "presentation_"
)

// BodyKey returns the key holding the body of presentation id.
func BodyKey(id string) string { return bodyPrefix + id }

var (
	// ErrNotFound reports a presentation id with no stored body.
	ErrNotFound = errors.New("presentation not found")
	// ErrInvalidPresentation reports an import payload that is not a presentation.
	ErrInvalidPresentation = errors.New("invalid presentation")
)

// Entry is one row of the library index.
type Entry struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	LastModified int64          `json:"lastModified"`
	Theme        deck.ThemeName `json:"theme"`
}

// Library manages the index and presentation bodies. Index reads and writes
// are serialised; the store itself handles concurrent body access.
type Library struct {
	store   kv.Store
	logger  *zap.Logger
	metrics observability.Recorder
	newID   func() string
	now     func() time.Time

	mu    sync.RWMutex
	index []Entry
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(lib *Library) { lib.logger = logging.OrNop(l) }
}

// WithMetrics sets the operation recorder.
func WithMetrics(r observability.Recorder) Option {
	return func(lib *Library) {
		if r != nil {
			lib.metrics = r
		}
	}
}

// WithIDGenerator overrides presentation and slide id minting.
func WithIDGenerator(fn func() string) Option {
	return func(lib *Library) {
		if fn != nil {
			lib.newID = fn
		}
	}
}

// WithClock overrides the time source used for LastModified.
func WithClock(fn func() time.Time) Option {
	return func(lib *Library) {
		if fn != nil {
			lib.now = fn
		}
	}
}

// Open loads the index from store and migrates a legacy single-document
// payload into the library when the index is empty.
func Open(ctx context.Context, store kv.Store, opts ...Option) (*Library, error) {
	if store == nil {
		return nil, errors.New("library: store is required")
	}
	lib := &Library{
		store:   store,
		logger:  zap.NewNop(),
		metrics: observability.Nop{},
		newID:   deck.NewID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(lib)
	}
	err := observability.Time(ctx, lib.metrics, "library.open", func() error {
		if err := lib.loadIndex(ctx); err != nil {
			return err
		}
		return lib.migrateLegacy(ctx)
	})
	if err != nil {
		return nil, err
	}
	lib.logger.Info("library opened",
		zap.String("driver", string(store.Driver())),
		zap.Int("presentations", len(lib.index)))
	return lib, nil
}

// Store returns the backing store.
func (l *Library) Store() kv.Store { return l.store }

// Entries returns a copy of the index in insertion order.
func (l *Library) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.index)
}

// Entry returns the index row for id.
func (l *Library) Entry(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.entryIndex(id); i >= 0 {
		return l.index[i], true
	}
	return Entry{}, false
}

func (l *Library) entryIndex(id string) int {
	return slices.IndexFunc(l.index, func(e Entry) bool { return e.ID == id })
}

func (l *Library) loadIndex(ctx context.Context) error {
	raw, err := l.store.Get(ctx, IndexKey)
	if errors.Is(err, kv.ErrNotFound) {
		l.index = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("read library index: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.logger.Warn("library index is corrupt, starting empty",
			zap.String("key", IndexKey), zap.Error(err))
		l.index = nil
		return nil
	}
	l.index = entries
	return nil
}

// saveIndexLocked writes entries as the stored index. Callers hold l.mu and
// assign l.index only after it succeeds.
func (l *Library) saveIndexLocked(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode library index: %w", err)
	}
	if err := l.store.Set(ctx, IndexKey, raw); err != nil {
		return fmt.Errorf("write library index: %w", err)
	}
	return nil
}

// upsertEntry returns a copy of index with the entry for e.ID replaced or
// appended.
func upsertEntry(index []Entry, e Entry) []Entry {
	out := slices.Clone(index)
	if i := slices.IndexFunc(out, func(x Entry) bool { return x.ID == e.ID }); i >= 0 {
		out[i] = e
		return out
	}
	return append(out, e)
}

func (l *Library) stamp() int64 { return l.now().UnixMilli() }

// Package notify provides a synchronous observer registry.
//
// Listeners run in subscription order on the caller's goroutine. There is no
// queueing or coalescing; callers that want debouncing do it themselves.
package notify

import "sync"

// Listener receives each published value.
type Listener[T any] func(T)

type subscription[T any] struct {
	id uint64
	fn Listener[T]
}

// Bus fans a value out to every current listener.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   []subscription[T]
	nextID uint64
}

// New returns an empty bus.
func New[T any]() *Bus[T] { return &Bus[T]{} }

// Subscribe registers fn and returns a function that removes it. The returned
// function is idempotent.
func (b *Bus[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Notify calls every listener registered at the time of the call with v.
// Listeners may subscribe or unsubscribe while being notified; changes apply
// from the next Notify.
func (b *Bus[T]) Notify(v T) {
	b.mu.Lock()
	subs := make([]subscription[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(v)
	}
}

// Package library keeps the user's saved lists (watchlist, continue
// watching, recent searches) in memory and mirrors every change to a
// durable document store.
package library

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/flix/internal/debuglog"
)

// Backend stores one JSON document per key. GetDocument returns nil, nil
// for a key that was never written.
type Backend interface {
	GetDocument(key string) ([]byte, error)
	PutDocument(key string, data []byte) error
	DeleteDocument(key string) error
}

// Option configures a list.
type Option func(*options)

type options struct {
	now      func() time.Time
	capacity int
}

// WithClock replaces time.Now for timestamping entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCapacity overrides the default size cap of a bounded list.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func buildOptions(capacity int, opts []Option) options {
	o := options{now: time.Now, capacity: capacity}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// durableList is the shared core: an ordered slice guarded by a mutex whose
// full contents are written back after every change.
type durableList[T any] struct {
	mu        sync.RWMutex
	backend   Backend
	key       string
	items     []T
	sanitize  func([]T) []T
	observers []func()
}

func newDurableList[T any](backend Backend, key string, sanitize func([]T) []T) *durableList[T] {
	return &durableList[T]{
		backend:  backend,
		key:      key,
		items:    []T{},
		sanitize: sanitize,
	}
}

// load replaces the in-memory list with the stored document. Malformed
// documents are logged and treated as an empty list.
func (l *durableList[T]) load() error {
	data, err := l.backend.GetDocument(l.key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", l.key, err)
	}

	var items []T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			debuglog.WithFields(map[string]any{"key": l.key}).
				Warnf("discarding malformed stored list: %v", err)
			items = nil
		}
	}

	before := len(items)
	items = l.sanitize(items)
	if dropped := before - len(items); dropped > 0 {
		debuglog.WithFields(map[string]any{"key": l.key, "dropped": dropped}).
			Warnf("discarded invalid stored entries")
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()

	l.notify()
	return nil
}

// mutate runs fn under the write lock. fn returns the next list and whether
// anything changed; it must not modify its argument in place.
func (l *durableList[T]) mutate(fn func(current []T) ([]T, bool)) (bool, error) {
	l.mu.Lock()
	next, changed := fn(l.items)
	if !changed {
		l.mu.Unlock()
		return false, nil
	}
	l.items = next
	err := l.persistLocked()
	l.mu.Unlock()

	l.notify()
	return true, err
}

func (l *durableList[T]) persistLocked() error {
	data, err := json.Marshal(l.items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", l.key, err)
	}
	if err := l.backend.PutDocument(l.key, data); err != nil {
		debuglog.Errorf("failed to persist %s: %v", l.key, err)
		return fmt.Errorf("writing %s: %w", l.key, err)
	}
	return nil
}

// reset empties the list. With drop set the stored document is deleted
// instead of overwritten.
func (l *durableList[T]) reset(drop bool) error {
	l.mu.Lock()
	l.items = []T{}
	var err error
	if drop {
		if delErr := l.backend.DeleteDocument(l.key); delErr != nil {
			err = fmt.Errorf("deleting %s: %w", l.key, delErr)
		}
	} else {
		err = l.persistLocked()
	}
	l.mu.Unlock()

	l.notify()
	return err
}

func (l *durableList[T]) snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *durableList[T]) size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *durableList[T]) onChange(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

func (l *durableList[T]) notify() {
	l.mu.RLock()
	observers := make([]func(), len(l.observers))
	copy(observers, l.observers)
	l.mu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}

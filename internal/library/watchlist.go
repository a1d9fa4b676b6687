package library

import (
	"fmt"

	"github.com/pders01/flix/internal/storage"
)

// Watchlist is the unbounded, insertion-ordered set of saved movies.
type Watchlist struct {
	list *durableList[storage.ListItem]
}

func NewWatchlist(backend Backend) *Watchlist {
	return &Watchlist{
		list: newDurableList(backend, storage.WatchlistKey, func(items []storage.ListItem) []storage.ListItem {
			return sanitizeItems(items, 0)
		}),
	}
}

// Load reads the stored watchlist. Only backend failures are returned.
func (w *Watchlist) Load() error {
	return w.list.load()
}

// Add appends item unless its id is already saved. It reports whether the
// list changed.
func (w *Watchlist) Add(item storage.ListItem) (bool, error) {
	if item.ID <= 0 {
		return false, fmt.Errorf("watchlist: invalid id %d", item.ID)
	}
	item = normalizeItem(item)
	return w.list.mutate(func(current []storage.ListItem) ([]storage.ListItem, bool) {
		if indexOfID(current, item.ID) >= 0 {
			return current, false
		}
		next := make([]storage.ListItem, 0, len(current)+1)
		next = append(next, current...)
		return append(next, item), true
	})
}

func (w *Watchlist) Remove(id int) error {
	_, err := w.list.mutate(func(current []storage.ListItem) ([]storage.ListItem, bool) {
		i := indexOfID(current, id)
		if i < 0 {
			return current, false
		}
		return withoutIndex(current, i), true
	})
	return err
}

func (w *Watchlist) Contains(id int) bool {
	w.list.mu.RLock()
	defer w.list.mu.RUnlock()
	return indexOfID(w.list.items, id) >= 0
}

// Toggle adds item when absent and removes it when present. It returns
// whether the item is saved afterwards.
func (w *Watchlist) Toggle(item storage.ListItem) (bool, error) {
	if item.ID <= 0 {
		return false, fmt.Errorf("watchlist: invalid id %d", item.ID)
	}
	item = normalizeItem(item)
	var saved bool
	_, err := w.list.mutate(func(current []storage.ListItem) ([]storage.ListItem, bool) {
		if i := indexOfID(current, item.ID); i >= 0 {
			saved = false
			return withoutIndex(current, i), true
		}
		saved = true
		next := make([]storage.ListItem, 0, len(current)+1)
		next = append(next, current...)
		return append(next, item), true
	})
	return saved, err
}

func (w *Watchlist) Clear() error {
	return w.list.reset(false)
}

// Items returns a copy in insertion order.
func (w *Watchlist) Items() []storage.ListItem {
	return w.list.snapshot()
}

func (w *Watchlist) Len() int {
	return w.list.size()
}

// OnChange registers fn to run after every load or mutation.
func (w *Watchlist) OnChange(fn func()) {
	w.list.onChange(fn)
}

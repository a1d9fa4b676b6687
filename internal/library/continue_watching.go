package library

import (
	"fmt"
	"time"

	"github.com/pders01/flix/internal/storage"
)

const DefaultContinueWatchingCap = 10

// ContinueWatching holds the most recently touched movies, newest first.
type ContinueWatching struct {
	list     *durableList[storage.ListItem]
	now      func() time.Time
	capacity int
}

func NewContinueWatching(backend Backend, opts ...Option) *ContinueWatching {
	o := buildOptions(DefaultContinueWatchingCap, opts)
	return &ContinueWatching{
		list: newDurableList(backend, storage.ContinueWatchingKey, func(items []storage.ListItem) []storage.ListItem {
			return sanitizeItems(items, o.capacity)
		}),
		now:      o.now,
		capacity: o.capacity,
	}
}

func (c *ContinueWatching) Load() error {
	return c.list.load()
}

// Add stamps item with the current time and moves it to the front,
// replacing any entry with the same id. Entries past the cap fall off the
// end.
func (c *ContinueWatching) Add(item storage.ListItem) error {
	if item.ID <= 0 {
		return fmt.Errorf("continue watching: invalid id %d", item.ID)
	}
	item = normalizeItem(item)
	item.Timestamp = c.now()
	_, err := c.list.mutate(func(current []storage.ListItem) ([]storage.ListItem, bool) {
		return prepend(current, item, func(existing storage.ListItem) bool {
			return existing.ID == item.ID
		}, c.capacity), true
	})
	return err
}

func (c *ContinueWatching) Remove(id int) error {
	_, err := c.list.mutate(func(current []storage.ListItem) ([]storage.ListItem, bool) {
		i := indexOfID(current, id)
		if i < 0 {
			return current, false
		}
		return withoutIndex(current, i), true
	})
	return err
}

// UpdateProgress sets the completion percentage and refreshes the
// timestamp in place. It reports false when id is not in the list.
func (c *ContinueWatching) UpdateProgress(id, progress int) (bool, error) {
	progress = ClampProgress(progress)
	return c.list.mutate(func(current []storage.ListItem) ([]storage.ListItem, bool) {
		i := indexOfID(current, id)
		if i < 0 {
			return current, false
		}
		next := make([]storage.ListItem, len(current))
		copy(next, current)
		next[i].Progress = progress
		next[i].Timestamp = c.now()
		return next, true
	})
}

func (c *ContinueWatching) Get(id int) (storage.ListItem, bool) {
	c.list.mu.RLock()
	defer c.list.mu.RUnlock()
	if i := indexOfID(c.list.items, id); i >= 0 {
		return c.list.items[i], true
	}
	return storage.ListItem{}, false
}

func (c *ContinueWatching) Clear() error {
	return c.list.reset(false)
}

func (c *ContinueWatching) Items() []storage.ListItem {
	return c.list.snapshot()
}

func (c *ContinueWatching) Len() int {
	return c.list.size()
}

func (c *ContinueWatching) Capacity() int {
	return c.capacity
}

func (c *ContinueWatching) OnChange(fn func()) {
	c.list.onChange(fn)
}

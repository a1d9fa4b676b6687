package library

import (
	"strings"

	"github.com/pders01/flix/internal/storage"
)

const DefaultRecentSearchesCap = 5

// RecentSearches is the short most-recent-first history of selected search
// titles.
type RecentSearches struct {
	list     *durableList[string]
	capacity int
}

func NewRecentSearches(backend Backend, opts ...Option) *RecentSearches {
	o := buildOptions(DefaultRecentSearchesCap, opts)
	return &RecentSearches{
		list: newDurableList(backend, storage.RecentSearchesKey, func(terms []string) []string {
			return sanitizeTerms(terms, o.capacity)
		}),
		capacity: o.capacity,
	}
}

func (r *RecentSearches) Load() error {
	return r.list.load()
}

// Add moves term to the front. Blank terms are ignored.
func (r *RecentSearches) Add(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	_, err := r.list.mutate(func(current []string) ([]string, bool) {
		if len(current) > 0 && current[0] == term {
			return current, false
		}
		return prepend(current, term, func(existing string) bool {
			return existing == term
		}, r.capacity), true
	})
	return err
}

// Clear forgets every term and deletes the stored document.
func (r *RecentSearches) Clear() error {
	return r.list.reset(true)
}

func (r *RecentSearches) Items() []string {
	return r.list.snapshot()
}

func (r *RecentSearches) Len() int {
	return r.list.size()
}

func (r *RecentSearches) OnChange(fn func()) {
	r.list.onChange(fn)
}

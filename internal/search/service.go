// Package search runs debounced remote searches, keeps the recent-search
// history and indexes the user's saved titles for local matches.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/library"
	"github.com/pders01/flix/internal/tmdb"
)

const DefaultMaxResults = 20

// Catalog is the remote search endpoint.
type Catalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page, error)
}

type ServiceOption func(*Service)

func WithLocalIndex(local LocalSearcher) ServiceOption {
	return func(s *Service) { s.local = local }
}

func WithMaxResults(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

type Service struct {
	catalog    Catalog
	recent     *library.RecentSearches
	local      LocalSearcher
	maxResults int
}

func NewService(catalog Catalog, recent *library.RecentSearches, opts ...ServiceOption) *Service {
	s := &Service{
		catalog:    catalog,
		recent:     recent,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search queries the remote catalog. A blank query returns no results
// without a request; otherwise at most maxResults movies come back.
func (s *Service) Search(ctx context.Context, query string) ([]tmdb.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []tmdb.Movie{}, nil
	}

	page, err := s.catalog.SearchMovies(ctx, query, 1)
	if err != nil {
		debuglog.WithFields(map[string]any{"query": query}).Warnf("search failed: %v", err)
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	results := page.Results
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}
	return results, nil
}

// Local returns saved titles matching query. Index errors are logged and
// yield no hits.
func (s *Service) Local(query string, limit int) []Hit {
	if s.local == nil {
		return nil
	}
	hits, err := s.local.Search(query, limit)
	if err != nil {
		debuglog.Warnf("local search failed: %v", err)
		return nil
	}
	return hits
}

// Select records title as the most recent search.
func (s *Service) Select(title string) error {
	return s.recent.Add(title)
}

func (s *Service) Recent() []string {
	return s.recent.Items()
}

func (s *Service) ClearRecent() error {
	return s.recent.Clear()
}

// SyncLibrary indexes the current lists into idx and keeps it current on
// every later change.
func SyncLibrary(idx Indexer, watchlist *library.Watchlist, continueWatching *library.ContinueWatching) error {
	reindex := func() error {
		return idx.Reindex(watchlist.Items(), continueWatching.Items())
	}
	onChange := func() {
		if err := reindex(); err != nil {
			debuglog.Warnf("failed to refresh library index: %v", err)
		}
	}
	watchlist.OnChange(onChange)
	continueWatching.OnChange(onChange)
	return reindex()
}

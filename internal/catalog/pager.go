package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/tmdb"
)

// ErrStale is returned when a response arrived after the selector changed.
var ErrStale = errors.New("catalog: response for a previous selector discarded")

// Source is the slice of the catalog API the pager needs.
type Source interface {
	MoviesByCategory(ctx context.Context, category string, page int) (*tmdb.Page, error)
	Discover(ctx context.Context, genreIDs []int, page int) (*tmdb.Page, error)
}

// Snapshot is a copy of the pager state for rendering.
type Snapshot struct {
	Selector    Selector
	Movies      []tmdb.Movie
	Page        int
	TotalPages  int
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Err         error
}

// Pager accumulates pages of one listing. Results from a superseded
// selector are dropped by comparing generations when they arrive.
type Pager struct {
	source Source

	mu          sync.Mutex
	gen         uint64
	selector    Selector
	movies      []tmdb.Movie
	page        int
	totalPages  int
	hasMore     bool
	inFlight    bool
	loadingMore bool
	err         error
}

func NewPager(source Source) *Pager {
	return &Pager{source: source, movies: []tmdb.Movie{}}
}

func (p *Pager) fetch(ctx context.Context, sel Selector, page int) (*tmdb.Page, error) {
	if sel.IsGenre() {
		return p.source.Discover(ctx, sel.GenreIDs, page)
	}
	return p.source.MoviesByCategory(ctx, sel.Category, page)
}

// FetchFirstPage switches to sel, resets pagination and loads page one.
// On failure the pager holds the error and an empty result set.
func (p *Pager) FetchFirstPage(ctx context.Context, sel Selector) error {
	if err := sel.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.selector = sel
	p.movies = []tmdb.Movie{}
	p.page = 0
	p.totalPages = 0
	p.hasMore = false
	p.inFlight = true
	p.loadingMore = false
	p.err = nil
	p.mu.Unlock()

	log := debuglog.WithFields(map[string]any{"selector": sel.Key(), "page": 1})
	result, err := p.fetch(ctx, sel, 1)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		log.Debugf("stale response discarded")
		return ErrStale
	}
	p.inFlight = false

	if err != nil {
		log.Warnf("failed to load listing: %v", err)
		p.err = fmt.Errorf("loading %s: %w", sel.Key(), err)
		return p.err
	}

	p.movies = append(p.movies, result.Results...)
	p.page = result.Page
	p.totalPages = result.TotalPages
	p.hasMore = result.HasMore()
	return nil
}

// FetchNextPage appends the following page. It does nothing when the end
// was reached or another fetch is running. A failure leaves the state as
// it was and is only logged.
func (p *Pager) FetchNextPage(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasMore || p.inFlight {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	sel := p.selector
	next := p.page + 1
	p.inFlight = true
	p.loadingMore = true
	p.mu.Unlock()

	log := debuglog.WithFields(map[string]any{"selector": sel.Key(), "page": next})
	result, err := p.fetch(ctx, sel, next)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		log.Debugf("stale response discarded")
		return ErrStale
	}
	p.inFlight = false
	p.loadingMore = false

	if err != nil {
		log.Warnf("failed to load next page: %v", err)
		return nil
	}

	p.movies = append(p.movies, result.Results...)
	p.page = result.Page
	p.totalPages = result.TotalPages
	p.hasMore = result.HasMore()
	return nil
}

func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	movies := make([]tmdb.Movie, len(p.movies))
	copy(movies, p.movies)
	return Snapshot{
		Selector:    p.selector,
		Movies:      movies,
		Page:        p.page,
		TotalPages:  p.totalPages,
		HasMore:     p.hasMore,
		Loading:     p.inFlight && !p.loadingMore,
		LoadingMore: p.loadingMore,
		Err:         p.err,
	}
}

func (p *Pager) Selector() Selector {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selector
}

func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Pager) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// ShouldPrefetch reports whether the cursor is within threshold rows of the
// end of a list of total rows, the terminal stand-in for a sentinel row
// scrolling into view.
func ShouldPrefetch(cursor, total, threshold int) bool {
	if total == 0 {
		return false
	}
	if threshold < 0 {
		threshold = 0
	}
	return cursor >= total-1-threshold
}

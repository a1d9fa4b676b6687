package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/flix/internal/tmdb"
)

type call struct {
	selector string
	page     int
}

// fakeSource serves totalPages pages of 20 movies per listing. Listings
// named in block wait on their channel before answering.
type fakeSource struct {
	mu         sync.Mutex
	totalPages int
	calls      []call
	failPage   map[int]error
	block      map[string]chan struct{}
	started    chan call
}

func newFakeSource(totalPages int) *fakeSource {
	return &fakeSource{
		totalPages: totalPages,
		failPage:   map[int]error{},
		block:      map[string]chan struct{}{},
	}
}

func (f *fakeSource) serve(ctx context.Context, key string, idBase, page int) (*tmdb.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{selector: key, page: page})
	gate := f.block[key]
	err := f.failPage[page]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- call{selector: key, page: page}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	movies := make([]tmdb.Movie, 20)
	for i := range movies {
		movies[i] = tmdb.Movie{ID: idBase + (page-1)*20 + i + 1, Title: key}
	}
	return &tmdb.Page{Page: page, TotalPages: f.totalPages, Results: movies}, nil
}

func (f *fakeSource) MoviesByCategory(ctx context.Context, category string, page int) (*tmdb.Page, error) {
	base := 0
	if category == tmdb.CategoryTopRated {
		base = 10000
	}
	return f.serve(ctx, "category:"+category, base, page)
}

func (f *fakeSource) Discover(ctx context.Context, genreIDs []int, page int) (*tmdb.Page, error) {
	return f.serve(ctx, GenreSelector(genreIDs...).Key(), 50000, page)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestPager_PaginatesToEnd(t *testing.T) {
	source := newFakeSource(3)
	pager := NewPager(source)
	ctx := context.Background()

	require.NoError(t, pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryNowPlaying)))
	snap := pager.Snapshot()
	assert.True(t, snap.HasMore)
	assert.Len(t, snap.Movies, 20)

	require.NoError(t, pager.FetchNextPage(ctx))
	snap = pager.Snapshot()
	assert.True(t, snap.HasMore)
	assert.Len(t, snap.Movies, 40)

	require.NoError(t, pager.FetchNextPage(ctx))
	snap = pager.Snapshot()
	assert.False(t, snap.HasMore)
	assert.Len(t, snap.Movies, 60)
	assert.Equal(t, 3, snap.Page)

	calls := source.callCount()
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, calls, source.callCount(), "fetching past the end must not hit the source")
	assert.Len(t, pager.Snapshot().Movies, 60)

	// append-only: first page stays first
	assert.Equal(t, 1, pager.Snapshot().Movies[0].ID)
	assert.Equal(t, 60, pager.Snapshot().Movies[59].ID)
}

func TestPager_GenreSelectorUsesDiscover(t *testing.T) {
	source := newFakeSource(1)
	pager := NewPager(source)

	require.NoError(t, pager.FetchFirstPage(context.Background(), GenreSelector(35, 28, 35)))
	snap := pager.Snapshot()
	assert.Equal(t, "genres:28,35", snap.Selector.Key())
	assert.False(t, snap.HasMore)
	assert.Equal(t, []call{{selector: "genres:28,35", page: 1}}, source.calls)
}

func TestPager_FirstPageFailure(t *testing.T) {
	source := newFakeSource(3)
	pager := NewPager(source)
	ctx := context.Background()

	require.NoError(t, pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryPopular)))
	require.Len(t, pager.Snapshot().Movies, 20)

	boom := errors.New("connection refused")
	source.failPage[1] = boom
	err := pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryUpcoming))
	assert.ErrorIs(t, err, boom)

	snap := pager.Snapshot()
	assert.Empty(t, snap.Movies)
	assert.ErrorIs(t, snap.Err, boom)
	assert.False(t, snap.HasMore)
	assert.False(t, snap.Loading)

	// nothing to extend after a failed first page
	calls := source.callCount()
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, calls, source.callCount())
}

func TestPager_NextPageFailureKeepsState(t *testing.T) {
	source := newFakeSource(3)
	pager := NewPager(source)
	ctx := context.Background()

	require.NoError(t, pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryNowPlaying)))
	source.failPage[2] = errors.New("timeout")

	assert.NoError(t, pager.FetchNextPage(ctx), "next-page failures are swallowed")
	snap := pager.Snapshot()
	assert.Len(t, snap.Movies, 20)
	assert.Equal(t, 1, snap.Page)
	assert.True(t, snap.HasMore)
	assert.NoError(t, snap.Err)
	assert.False(t, pager.InFlight())

	delete(source.failPage, 2)
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Len(t, pager.Snapshot().Movies, 40)
}

func TestPager_InvalidSelector(t *testing.T) {
	pager := NewPager(newFakeSource(1))
	assert.ErrorIs(t, pager.FetchFirstPage(context.Background(), Selector{}), ErrInvalidSelector)
	assert.ErrorIs(t, pager.FetchFirstPage(context.Background(), CategorySelector("nope")), ErrInvalidSelector)
}

func TestPager_SingleFetchInFlight(t *testing.T) {
	source := newFakeSource(5)
	pager := NewPager(source)
	ctx := context.Background()
	require.NoError(t, pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryNowPlaying)))

	gate := make(chan struct{})
	source.mu.Lock()
	source.block["category:now_playing"] = gate
	source.started = make(chan call, 4)
	source.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- pager.FetchNextPage(ctx) }()
	<-source.started

	assert.True(t, pager.InFlight())
	assert.True(t, pager.Snapshot().LoadingMore)
	require.NoError(t, pager.FetchNextPage(ctx))
	require.NoError(t, pager.FetchNextPage(ctx))

	close(gate)
	require.NoError(t, <-done)
	assert.Len(t, pager.Snapshot().Movies, 40)
	assert.Equal(t, 2, source.callCount())
}

func TestPager_StaleSelectorDiscarded(t *testing.T) {
	source := newFakeSource(3)
	gate := make(chan struct{})
	source.block["category:now_playing"] = gate
	source.started = make(chan call, 4)
	pager := NewPager(source)
	ctx := context.Background()

	oldDone := make(chan error, 1)
	go func() { oldDone <- pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryNowPlaying)) }()
	<-source.started

	require.NoError(t, pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryTopRated)))
	<-source.started

	close(gate)
	assert.ErrorIs(t, <-oldDone, ErrStale)

	snap := pager.Snapshot()
	assert.Equal(t, "category:top_rated", snap.Selector.Key())
	require.Len(t, snap.Movies, 20)
	for _, m := range snap.Movies {
		assert.Equal(t, "category:top_rated", m.Title)
	}
	assert.False(t, snap.Loading)
}

func TestPager_StaleNextPageDiscarded(t *testing.T) {
	source := newFakeSource(3)
	pager := NewPager(source)
	ctx := context.Background()
	require.NoError(t, pager.FetchFirstPage(ctx, CategorySelector(tmdb.CategoryNowPlaying)))

	gate := make(chan struct{})
	source.mu.Lock()
	source.block["category:now_playing"] = gate
	source.started = make(chan call, 4)
	source.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- pager.FetchNextPage(ctx) }()
	<-source.started

	require.NoError(t, pager.FetchFirstPage(ctx, GenreSelector(28)))
	<-source.started
	close(gate)
	assert.ErrorIs(t, <-done, ErrStale)

	snap := pager.Snapshot()
	assert.Equal(t, "genres:28", snap.Selector.Key())
	assert.Len(t, snap.Movies, 20)
	assert.Equal(t, 1, snap.Page)
}

func TestShouldPrefetch(t *testing.T) {
	tests := []struct {
		cursor, total, threshold int
		want                     bool
	}{
		{cursor: 0, total: 0, threshold: 3, want: false},
		{cursor: 0, total: 20, threshold: 3, want: false},
		{cursor: 15, total: 20, threshold: 3, want: false},
		{cursor: 16, total: 20, threshold: 3, want: true},
		{cursor: 19, total: 20, threshold: 0, want: true},
		{cursor: 18, total: 20, threshold: 0, want: false},
		{cursor: 19, total: 20, threshold: -1, want: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldPrefetch(tt.cursor, tt.total, tt.threshold),
			"cursor=%d total=%d threshold=%d", tt.cursor, tt.total, tt.threshold)
	}
}

func TestSelector(t *testing.T) {
	assert.Equal(t, "category:popular", CategorySelector("popular").Key())
	assert.Equal(t, GenreSelector(35, 28).Key(), GenreSelector(28, 35, 28).Key())
	assert.NoError(t, GenreSelector(28).Validate())
	assert.ErrorIs(t, Selector{GenreIDs: []int{0}}.Validate(), ErrInvalidSelector)
	assert.True(t, GenreSelector(12).IsGenre())
	assert.False(t, CategorySelector("upcoming").IsGenre())
}

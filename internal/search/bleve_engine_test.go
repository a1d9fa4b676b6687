package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/flix/internal/storage"
)

func TestBleveIndex_IndexesAndSearches(t *testing.T) {
	idx, err := NewBleveIndex("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.Reindex(
		[]storage.ListItem{
			{ID: 155, Title: "The Dark Knight", ReleaseDate: "2008-07-16", VoteAverage: 8.5, PosterPath: "/dk.jpg"},
			{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"},
		},
		[]storage.ListItem{
			{ID: 272, Title: "Batman Begins", ReleaseDate: "2005-06-10", Progress: 30},
		},
	))

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hits, err := idx.Search("batman", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 272, hits[0].Item.ID)
	assert.Equal(t, "Batman Begins", hits[0].Item.Title)
	assert.Equal(t, SourceContinueWatching, hits[0].Source)
	assert.Equal(t, 30, hits[0].Item.Progress)

	// prefix match on a partially typed word
	hits, err = idx.Search("kni", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 155, hits[0].Item.ID)
	assert.Equal(t, "/dk.jpg", hits[0].Item.PosterPath)
	assert.InDelta(t, 8.5, hits[0].Item.VoteAverage, 1e-9)

	hits, err = idx.Search("1995", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, SourceWatchlist, hits[0].Source)

	hits, err = idx.Search("x", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBleveIndex_ReindexReplacesDocuments(t *testing.T) {
	idx, err := NewBleveIndex("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.Reindex([]storage.ListItem{{ID: 1, Title: "Heat"}, {ID: 2, Title: "Ronin"}}, nil))
	require.NoError(t, idx.Reindex([]storage.ListItem{{ID: 2, Title: "Ronin"}}, nil))

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := idx.Search("heat", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBleveIndex_OnDisk(t *testing.T) {
	idxPath := filepath.Join(t.TempDir(), "nested", "library.bleve")

	idx, err := NewBleveIndex(idxPath)
	require.NoError(t, err)
	require.NoError(t, idx.Reindex([]storage.ListItem{{ID: 7, Title: "Alien"}}, nil))
	require.NoError(t, idx.Close())

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	reopened, err := NewBleveIndex(idxPath)
	require.NoError(t, err)
	defer reopened.Close()

	hits, err := reopened.Search("alien", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 7, hits[0].Item.ID)
}

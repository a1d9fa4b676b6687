package search

import "github.com/pders01/flix/internal/storage"

// Sources of locally indexed titles.
const (
	SourceWatchlist        = "watchlist"
	SourceContinueWatching = "continue"
)

// Hit is a saved title matching a local query.
type Hit struct {
	Item   storage.ListItem
	Source string
	Score  float64
}

// LocalSearcher answers queries against the user's own lists without
// touching the network.
type LocalSearcher interface {
	Search(query string, limit int) ([]Hit, error)
}

// Indexer rebuilds a local index from the current list contents.
type Indexer interface {
	Reindex(watchlist, continueWatching []storage.ListItem) error
}

// LibraryIndex is implemented by both the bleve index and the scanning
// fallback.
type LibraryIndex interface {
	LocalSearcher
	Indexer
	Close() error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

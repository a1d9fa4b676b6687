package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingCatalog = "Loading movies…"
	MsgLoadingMore    = "Loading more…"
	MsgLoadingDetail  = "Loading details…"
	MsgLoadingGenres  = "Loading genres…"
	MsgSearching      = "Searching…"
	MsgSigningIn      = "Signing in…"
	MsgSigningUp      = "Creating account…"
	MsgStartingPlayer = "Finding trailer…"
	MsgNoResults      = "No results"
	MsgNoTrailer      = "No trailer available"
	MsgLoadFailed     = "Failed to load movies"
	MsgRecentCleared  = "Recent searches cleared"
	MsgGenresCleared  = "Genre filter cleared"

	MsgWatchlistCleared = "Watchlist cleared"
	MsgContinueCleared  = "Continue watching cleared"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgWatchlistToggled(title string, saved bool) string {
	if saved {
		return fmt.Sprintf("Added '%s' to watchlist", strings.TrimSpace(title))
	}
	return fmt.Sprintf("Removed '%s' from watchlist", strings.TrimSpace(title))
}

func MsgPlaying(title, player string) string {
	return fmt.Sprintf("Playing '%s' in %s", strings.TrimSpace(title), player)
}

func MsgProgress(title string, progress int) string {
	return fmt.Sprintf("'%s' at %d%%", strings.TrimSpace(title), progress)
}

func MsgGenreFilter(n int) string {
	if n == 1 {
		return "Filtering by 1 genre"
	}
	return fmt.Sprintf("Filtering by %d genres", n)
}

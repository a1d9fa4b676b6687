package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/flix/internal/tmdb"
)

func TestTruncateEnd(t *testing.T) {
	assert.Equal(t, "", truncateEnd("hello", 0))
	assert.Equal(t, "hello", truncateEnd("hello", 5))
	assert.Equal(t, "hel…", truncateEnd("hello", 4))
	assert.Equal(t, "…", truncateEnd("hello", 1))
}

func TestTruncateMiddle(t *testing.T) {
	assert.Equal(t, "https://x", truncateMiddle("https://x", 20))
	got := truncateMiddle("https://www.youtube.com/watch?v=abcdef", 15)
	assert.Equal(t, 15, len([]rune(got)))
	assert.Contains(t, got, "…")
	assert.Equal(t, "…", truncateMiddle("https://x", 1))
}

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "1 result", MsgResultsCount(1))
	assert.Equal(t, "3 results", MsgResultsCount(3))
	assert.Equal(t, "Added 'Alien' to watchlist", MsgWatchlistToggled(" Alien ", true))
	assert.Equal(t, "Removed 'Alien' from watchlist", MsgWatchlistToggled("Alien", false))
	assert.Equal(t, "Filtering by 2 genres", MsgGenreFilter(2))
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, userMessage(tmdb.ErrNotConfigured), "FLIX_CATALOG_TOKEN")
	assert.Equal(t, "catalog error 401: Invalid API key", userMessage(&tmdb.APIError{StatusCode: 401, Message: "Invalid API key"}))
	assert.Equal(t, "boom", userMessage(errors.New("boom")))
	assert.Nil(t, wrapErr("ctx", nil))
	assert.EqualError(t, wrapErr("ctx", errors.New("boom")), "ctx: boom")
}

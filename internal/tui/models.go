package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flix/internal/format"
	"github.com/pders01/flix/internal/search"
	"github.com/pders01/flix/internal/storage"
	"github.com/pders01/flix/internal/tmdb"
)

type View int

const (
	ViewLogin View = iota
	ViewBrowse
	ViewGenres
	ViewWatchlist
	ViewContinue
	ViewSearch
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewBrowse:
		return "browse"
	case ViewGenres:
		return "genres"
	case ViewWatchlist:
		return "watchlist"
	case ViewContinue:
		return "continue"
	case ViewSearch:
		return "search"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// movieItem is a list row for anything that can open a detail view.
type movieItem struct {
	item       storage.ListItem
	overview   string
	saved      bool
	inProgress bool
}

func newMovieItem(m tmdb.Movie) movieItem {
	return movieItem{item: m.ListItem(), overview: m.Overview}
}

func (i movieItem) Title() string {
	title := i.item.Title
	if title == "" {
		title = fmt.Sprintf("#%d", i.item.ID)
	}
	if i.saved {
		title = CheckedStyle.Render("♥ ") + title
	}
	return title
}

func (i movieItem) Description() string {
	parts := []string{
		format.Year(i.item.ReleaseDate),
		ratingStyle(format.RatingColor(i.item.VoteAverage)).Render("★ " + format.Vote(i.item.VoteAverage)),
	}
	if i.inProgress {
		parts = append(parts, format.Progress(float64(i.item.Progress), 10)+fmt.Sprintf(" %d%%", i.item.Progress))
	}
	if i.overview != "" {
		parts = append(parts, truncateEnd(i.overview, 60))
	}
	return lipgloss.NewStyle().Foreground(MutedColor).Render(strings.Join(parts, " • "))
}

func (i movieItem) FilterValue() string { return i.item.Title }

type genreItem struct {
	genre    tmdb.Genre
	selected bool
}

func (i genreItem) Title() string {
	if i.selected {
		return CheckedStyle.Render("[x] ") + i.genre.Name
	}
	return "[ ] " + i.genre.Name
}

func (i genreItem) Description() string { return "" }
func (i genreItem) FilterValue() string { return i.genre.Name }

// searchRow is a recent term, a local library hit or a remote result.
type searchRow struct {
	recent string
	hit    *search.Hit
	movie  *tmdb.Movie
}

func (r searchRow) Title() string {
	switch {
	case r.recent != "":
		return "↺ " + r.recent
	case r.hit != nil:
		label := "in watchlist"
		if r.hit.Source == search.SourceContinueWatching {
			label = "continue watching"
		}
		return r.hit.Item.Title + renderMuted(" ("+label+")")
	case r.movie != nil:
		return r.movie.Title
	}
	return ""
}

func (r searchRow) Description() string {
	switch {
	case r.recent != "":
		return renderMuted("recent search")
	case r.hit != nil:
		return renderMuted(format.Year(r.hit.Item.ReleaseDate))
	case r.movie != nil:
		return renderMuted(format.Year(r.movie.ReleaseDate) + " • ★ " + format.Vote(r.movie.VoteAverage))
	}
	return ""
}

func (r searchRow) FilterValue() string {
	switch {
	case r.recent != "":
		return r.recent
	case r.hit != nil:
		return r.hit.Item.Title
	case r.movie != nil:
		return r.movie.Title
	}
	return ""
}

// listItem returns the movie behind the row, if any.
func (r searchRow) listItem() (storage.ListItem, bool) {
	switch {
	case r.hit != nil:
		return r.hit.Item, true
	case r.movie != nil:
		return r.movie.ListItem(), true
	}
	return storage.ListItem{}, false
}

package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flix/internal/debuglog"
)

func (a *App) enterSearch() tea.Cmd {
	switch a.view {
	case ViewSearch:
	case ViewDetail, ViewLogin:
		a.searchReturn = ViewBrowse
	default:
		a.searchReturn = a.view
	}
	a.view = ViewSearch
	a.searchInput.Reset()
	a.searchResults = nil
	a.searchHits = nil
	a.showRecent()
	return a.searchInput.Focus()
}

func (a *App) leaveSearch() {
	a.debouncer.Cancel()
	if a.searchCancel != nil {
		a.searchCancel()
		a.searchCancel = nil
	}
	a.stopBusy()
	a.searchInput.Blur()
	a.view = a.searchReturn
}

// showRecent lists recent terms while the input is empty.
func (a *App) showRecent() {
	recent := a.deps.Search.Recent()
	items := make([]list.Item, len(recent))
	for i, term := range recent {
		items[i] = searchRow{recent: term}
	}
	a.searchList.Title = "› recent searches"
	a.searchList.SetItems(items)
}

// onSearchInput reacts to an edit of the search box.
func (a *App) onSearchInput(prev string) tea.Cmd {
	current := a.searchInput.Value()
	if current == prev {
		return nil
	}
	if a.searchQuery() == "" {
		a.debouncer.Cancel()
		if a.searchCancel != nil {
			a.searchCancel()
			a.searchCancel = nil
		}
		a.stopBusy()
		a.searchResults = nil
		a.searchHits = nil
		a.showRecent()
		return nil
	}
	return a.scheduleSearch(current)
}

func (a *App) applySearchResults(msg searchResultsMsg) {
	if msg.query != a.searchInput.Value() {
		debuglog.Debugf("discarding results for %q", msg.query)
		return
	}
	a.stopBusy()
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return
		}
		a.setError(msg.err)
		return
	}

	a.searchResults = msg.movies
	items := make([]list.Item, 0, len(a.searchHits)+len(msg.movies))
	for i := range a.searchHits {
		items = append(items, searchRow{hit: &a.searchHits[i]})
	}
	for i := range msg.movies {
		items = append(items, searchRow{movie: &msg.movies[i]})
	}
	a.searchList.Title = "› results"
	a.searchList.SetItems(items)

	if len(msg.movies) == 0 && len(a.searchHits) == 0 {
		a.setStatus(MsgNoResults, StatusWarn)
	} else {
		a.setStatus(MsgResultsCount(len(msg.movies)), StatusInfo)
	}
}

// selectSearchRow re-runs a recent term or opens a movie.
func (a *App) selectSearchRow(row searchRow) tea.Cmd {
	if row.recent != "" {
		a.searchInput.SetValue(row.recent)
		a.searchInput.CursorEnd()
		a.searchInput.Focus()
		a.debouncer.Cancel()
		return a.startSearch(a.searchInput.Value())
	}

	item, ok := row.listItem()
	if !ok {
		return nil
	}
	a.debouncer.Cancel()
	a.searchInput.Blur()
	return tea.Batch(a.recordSearch(item.Title), a.openDetail(item))
}

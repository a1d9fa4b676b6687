package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/flix/internal/auth"
	"github.com/pders01/flix/internal/catalog"
	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/plugins"
	"github.com/pders01/flix/internal/storage"
	"github.com/pders01/flix/internal/tmdb"
)

// waitForAuth delivers the next auth state change into the update loop.
func (a *App) waitForAuth() tea.Cmd {
	events := a.authEvents
	return func() tea.Msg {
		select {
		case u := <-events:
			return authChangedMsg{user: u}
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Auth.SignIn(a.ctx, email, password)
		return authResultMsg{err: err}
	}
}

func (a *App) signUpCmd(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Auth.SignUp(a.ctx, name, email, password)
		return authResultMsg{err: err}
	}
}

func (a *App) signOut() tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Auth.SignOut(a.ctx); err != nil {
			return errorMsg{err: wrapErr("signing out", err)}
		}
		return nil
	}
}

func authNotice(err error) string {
	return auth.Message(err)
}

func (a *App) loadSelector(sel catalog.Selector) tea.Cmd {
	return func() tea.Msg {
		err := a.pager.FetchFirstPage(a.ctx, sel)
		return pageLoadedMsg{key: sel.Key(), err: err}
	}
}

func (a *App) loadNextPage() tea.Cmd {
	key := a.pager.Selector().Key()
	return func() tea.Msg {
		err := a.pager.FetchNextPage(a.ctx)
		return pageLoadedMsg{key: key, more: true, err: err}
	}
}

// maybePrefetch loads the next page once the cursor nears the last row.
func (a *App) maybePrefetch() tea.Cmd {
	if a.loadingMore || !a.pager.HasMore() || a.pager.InFlight() {
		return nil
	}
	if !catalog.ShouldPrefetch(a.movieList.Index(), len(a.movieList.Items()), a.config.Browse.PrefetchThreshold) {
		return nil
	}
	a.loadingMore = true
	a.setStatus(MsgLoadingMore, StatusInfo)
	return a.loadNextPage()
}

func (a *App) loadTrending() tea.Cmd {
	return func() tea.Msg {
		page, err := a.deps.Catalog.TrendingMovies(a.ctx, "week")
		if err != nil {
			return trendingLoadedMsg{err: err}
		}
		return trendingLoadedMsg{movies: page.Results}
	}
}

func (a *App) heroTick() tea.Cmd {
	every := a.heroRotation()
	if every <= 0 {
		return nil
	}
	return tea.Tick(every, func(time.Time) tea.Msg { return heroTickMsg{} })
}

func (a *App) loadGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := a.deps.Catalog.Genres(a.ctx)
		if err != nil {
			return genresLoadedMsg{err: wrapErr("loading genres", err)}
		}
		return genresLoadedMsg{genres: genres}
	}
}

// scheduleSearch arms the debouncer; the returned command yields a
// searchFireMsg once input has been quiet, or nothing if superseded.
func (a *App) scheduleSearch(query string) tea.Cmd {
	fired := a.debouncer.Schedule(query)
	return func() tea.Msg {
		q, ok := <-fired
		if !ok {
			return nil
		}
		return searchFireMsg{query: q}
	}
}

// startSearch cancels any running request and queries the catalog.
func (a *App) startSearch(query string) tea.Cmd {
	if query != a.searchInput.Value() {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		a.showRecent()
		return nil
	}

	if a.searchCancel != nil {
		a.searchCancel()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.searchCancel = cancel

	a.searchHits = a.deps.Search.Local(query, 5)
	busy := a.startBusy(MsgSearching)
	raw := a.searchInput.Value()

	return tea.Batch(busy, func() tea.Msg {
		movies, err := a.deps.Search.Search(ctx, query)
		return searchResultsMsg{query: raw, movies: movies, err: err}
	})
}

func (a *App) recordSearch(title string) tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Search.Select(title); err != nil {
			return errorMsg{err: wrapErr("saving recent search", err)}
		}
		return nil
	}
}

func (a *App) clearRecent() tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Search.ClearRecent(); err != nil {
			return libraryChangedMsg{err: wrapErr("clearing recent searches", err)}
		}
		return libraryChangedMsg{status: MsgRecentCleared}
	}
}

// loadDetail fetches details, credits and similar titles together.
func (a *App) loadDetail(id int) tea.Cmd {
	limit := a.config.UI.Detail.SimilarLimit
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(a.ctx)

		var details *tmdb.MovieDetails
		var credits *tmdb.Credits
		var similar []tmdb.Movie

		g.Go(func() error {
			d, err := a.deps.Catalog.MovieDetails(ctx, id)
			details = d
			return err
		})
		g.Go(func() error {
			c, err := a.deps.Catalog.MovieCredits(ctx, id)
			credits = c
			return err
		})
		g.Go(func() error {
			page, err := a.deps.Catalog.SimilarMovies(ctx, id, 1)
			if err != nil {
				return err
			}
			similar = page.Results
			if limit > 0 && len(similar) > limit {
				similar = similar[:limit]
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return detailLoadedMsg{id: id, err: wrapErr("loading details", err)}
		}
		return detailLoadedMsg{id: id, details: details, credits: credits, similar: similar}
	}
}

// play resolves the first trailer, opens it and records the movie in
// continue watching, keeping any progress it already had.
func (a *App) play(item storage.ListItem) tea.Cmd {
	return func() tea.Msg {
		log := debuglog.WithFields(map[string]any{"movie": item.ID})

		g, ctx := errgroup.WithContext(a.ctx)
		var videos []tmdb.Video
		var details *tmdb.MovieDetails
		g.Go(func() error {
			v, err := a.deps.Catalog.MovieVideos(ctx, item.ID)
			videos = v
			return err
		})
		g.Go(func() error {
			d, err := a.deps.Catalog.MovieDetails(ctx, item.ID)
			details = d
			return err
		})
		if err := g.Wait(); err != nil {
			return playedMsg{title: item.Title, err: wrapErr("loading trailer", err)}
		}
		if len(videos) == 0 {
			log.Infof("no videos listed")
			return playedMsg{title: item.Title, err: errNoTrailer}
		}

		video := videos[0]
		info, err := a.deps.Trailers.Resolve(a.ctx, plugins.Video{
			Site: video.Site,
			Key:  video.Key,
			Name: video.Name,
			Type: video.Type,
		})
		if err != nil {
			return playedMsg{title: item.Title, err: wrapErr("resolving trailer", err)}
		}
		if err := a.deps.Player.Open(info.URL); err != nil {
			return playedMsg{title: item.Title, err: err}
		}

		entry := details.ListItem()
		if prev, ok := a.deps.Continue.Get(item.ID); ok {
			entry.Progress = prev.Progress
		}
		if err := a.deps.Continue.Add(entry); err != nil {
			log.Warnf("continue watching not saved: %v", err)
		}
		return playedMsg{title: entry.Title, url: info.URL}
	}
}

func (a *App) openPoster(item storage.ListItem) tea.Cmd {
	return func() tea.Msg {
		url := a.deps.Catalog.PosterURL(item.PosterPath)
		if url == "" {
			return errorMsg{err: wrapErr(item.Title, errNoPoster)}
		}
		if err := a.deps.Player.Open(url); err != nil {
			return errorMsg{err: err}
		}
		return nil
	}
}

func (a *App) toggleWatchlist(item storage.ListItem) tea.Cmd {
	return func() tea.Msg {
		saved, err := a.deps.Watchlist.Toggle(item)
		if err != nil {
			return libraryChangedMsg{err: wrapErr("updating watchlist", err)}
		}
		return libraryChangedMsg{status: MsgWatchlistToggled(item.Title, saved)}
	}
}

func (a *App) removeFromWatchlist(item storage.ListItem) tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Watchlist.Remove(item.ID); err != nil {
			return libraryChangedMsg{err: wrapErr("updating watchlist", err)}
		}
		return libraryChangedMsg{status: MsgWatchlistToggled(item.Title, false)}
	}
}

func (a *App) removeFromContinue(item storage.ListItem) tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Continue.Remove(item.ID); err != nil {
			return libraryChangedMsg{err: wrapErr("updating continue watching", err)}
		}
		return libraryChangedMsg{}
	}
}

func (a *App) clearWatchlist() tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Watchlist.Clear(); err != nil {
			return libraryChangedMsg{err: wrapErr("clearing watchlist", err)}
		}
		return libraryChangedMsg{status: MsgWatchlistCleared}
	}
}

func (a *App) clearContinue() tea.Cmd {
	return func() tea.Msg {
		if err := a.deps.Continue.Clear(); err != nil {
			return libraryChangedMsg{err: wrapErr("clearing continue watching", err)}
		}
		return libraryChangedMsg{status: MsgContinueCleared}
	}
}

func (a *App) adjustProgress(item storage.ListItem, delta int) tea.Cmd {
	return func() tea.Msg {
		current, ok := a.deps.Continue.Get(item.ID)
		if !ok {
			return nil
		}
		if _, err := a.deps.Continue.UpdateProgress(item.ID, current.Progress+delta); err != nil {
			return libraryChangedMsg{err: wrapErr("saving progress", err)}
		}
		updated, _ := a.deps.Continue.Get(item.ID)
		return libraryChangedMsg{status: MsgProgress(item.Title, updated.Progress)}
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flix/internal/format"
	"github.com/pders01/flix/internal/tmdb"
)

var categoryLabels = map[string]string{
	tmdb.CategoryNowPlaying: "Now Playing",
	tmdb.CategoryPopular:    "Popular",
	tmdb.CategoryTopRated:   "Top Rated",
	tmdb.CategoryUpcoming:   "Upcoming",
}

func (a *App) View() string {
	var content string
	bodyHeight := a.height - 3

	switch a.view {
	case ViewLogin:
		content = renderCentered(a.width, bodyHeight, a.loginView())
	case ViewBrowse:
		content = a.browseView()
	case ViewGenres:
		content = a.genreList.View()
		if len(a.genres) == 0 {
			content = renderCentered(a.width, bodyHeight, renderMuted(MsgLoadingGenres))
		}
	case ViewWatchlist:
		content = a.watchList.View()
		if len(a.watchList.Items()) == 0 {
			content = renderCentered(a.width, bodyHeight,
				GetCompactBanner(fmt.Sprintf("Your watchlist is empty. Press %s on a movie to save it.", a.config.Keys.Bindings.Toggle)))
		}
	case ViewContinue:
		content = a.continueList.View()
		if len(a.continueList.Items()) == 0 {
			content = renderCentered(a.width, bodyHeight,
				GetCompactBanner("Nothing in progress. Play a trailer to start."))
		}
	case ViewSearch:
		content = a.searchView()
	case ViewDetail:
		content = a.detailView(bodyHeight)
	}

	content = ContentWrapper(a.width, bodyHeight).Render(content)

	statusBar := a.statusBar()
	if statusBar == "" {
		return content
	}
	return lipgloss.JoinVertical(lipgloss.Top, content, renderSeparator(a.width-1), statusBar)
}

// ContentWrapper constrains a screen body to the terminal.
func ContentWrapper(width, height int) lipgloss.Style {
	if height < 0 {
		height = 0
	}
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height)
}

func (a *App) loginView() string {
	title := "Sign In"
	toggle := "New here? ctrl+t to sign up"
	if a.signUp {
		title = "Sign Up"
		toggle = "Have an account? ctrl+t to sign in"
	}

	rows := []string{GetCompactBanner(""), "", TitleStyle.Render(title), ""}
	for i, in := range a.loginInputs() {
		rows = append(rows, renderInputFrame(in.View(), i == a.loginFocus, in.Width))
	}
	if a.notice != "" {
		rows = append(rows, "", NoticeStyle.Render("✗ "+a.notice))
	}
	rows = append(rows, "", renderHelp(toggle))
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (a *App) browseView() string {
	labels := make([]string, 0, len(tmdb.Categories)+1)
	for _, c := range tmdb.Categories {
		labels = append(labels, categoryLabels[c])
	}
	active := a.categoryIndex
	if ids := a.selectedGenreIDs(); len(ids) > 0 {
		labels = append(labels, MsgGenreFilter(len(ids)))
		active = len(labels) - 1
	}

	rows := []string{a.heroView(), renderTabs(labels, active)}
	if len(a.movieList.Items()) == 0 {
		msg := MsgLoadingCatalog
		if snap := a.pager.Snapshot(); snap.Err != nil {
			msg = MsgLoadFailed
		} else if !snap.Loading {
			msg = MsgNoResults
		}
		rows = append(rows, renderCentered(a.width, a.movieList.Height(), renderMuted(msg)))
	} else {
		rows = append(rows, a.movieList.View())
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func (a *App) heroView() string {
	if a.hero == nil {
		return lipgloss.NewStyle().Height(heroHeight).Render(GetCompactBanner(""))
	}
	h := a.hero
	meta := fmt.Sprintf("%s • %s",
		format.Year(h.ReleaseDate),
		ratingStyle(format.RatingColor(h.VoteAverage)).Render("★ "+format.Vote(h.VoteAverage)),
	)
	overview := format.Truncate(h.Overview, a.config.UI.Detail.MaxOverviewLength)
	width := a.width - 4
	if width < 20 {
		width = 20
	}
	body := lipgloss.JoinVertical(lipgloss.Top,
		HeroTitleStyle.Render(truncateEnd(h.Title, width)),
		meta,
		lipgloss.NewStyle().Foreground(MutedColor).Width(width).MaxHeight(heroHeight-2).Render(overview),
	)
	return HeroBoxStyle.Height(heroHeight).Render(body)
}

func (a *App) searchView() string {
	header := renderHeader("› search", "Titles from the catalog and your library", a.width)
	input := renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width)

	body := a.searchList.View()
	if len(a.searchList.Items()) == 0 {
		hint := "Start typing to search"
		if a.searchQuery() != "" && !a.busy {
			hint = MsgNoResults
		}
		body = renderMuted(hint)
	}
	return lipgloss.JoinVertical(lipgloss.Top, header, "", input, "", body)
}

func (a *App) detailView(height int) string {
	d := a.detail
	if d == nil {
		return ""
	}
	if !d.loaded() {
		msg := MsgLoadingDetail
		if d.err != nil {
			msg = userMessage(d.err)
		}
		return renderCentered(a.width, height, renderMuted(msg))
	}

	saved := "♡ not in watchlist"
	if a.deps.Watchlist.Contains(d.item.ID) {
		saved = CheckedStyle.Render("♥ in watchlist")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		ratingStyle(format.RatingColor(d.item.VoteAverage)).Render("★ "+format.Vote(d.item.VoteAverage)),
		"  ",
		saved,
	)
	return lipgloss.JoinVertical(lipgloss.Top, header, a.viewport.View())
}

func (a *App) statusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 && a.status == "" {
		return ""
	}

	if a.status != "" {
		text := a.status
		switch {
		case a.busy:
			text = a.spinner.View() + " " + text
		case a.statusKind == StatusError:
			text = "✗ " + text
		}
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(a.statusKind.style().Render(truncateEnd(text, a.width-2)))
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor).
		Render(truncateEnd(strings.Join(commands, " • "), a.width-2))
}

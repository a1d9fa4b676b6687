package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/format"
	"github.com/pders01/flix/internal/storage"
	"github.com/pders01/flix/internal/tmdb"
)

type detailState struct {
	item    storage.ListItem
	details *tmdb.MovieDetails
	credits *tmdb.Credits
	similar []tmdb.Movie
	err     error
}

func (d *detailState) loaded() bool {
	return d.details != nil
}

// openDetail switches to the detail view for item and starts loading it.
func (a *App) openDetail(item storage.ListItem) tea.Cmd {
	if a.view != ViewDetail {
		a.previousView = a.view
	}
	a.view = ViewDetail
	a.detail = &detailState{item: item}
	a.viewport.SetContent("")
	a.viewport.GotoTop()
	return tea.Batch(a.startBusy(MsgLoadingDetail), a.loadDetail(item.ID))
}

func (a *App) applyDetail(msg detailLoadedMsg) {
	if a.detail == nil || a.detail.item.ID != msg.id {
		debuglog.Debugf("dropping details for %d", msg.id)
		return
	}
	a.stopBusy()
	if msg.err != nil {
		a.detail.err = msg.err
		a.setError(msg.err)
		return
	}

	a.detail.details = msg.details
	a.detail.credits = msg.credits
	a.detail.similar = msg.similar

	// keep what the list knew, take the rest from the fresh record
	item := msg.details.ListItem()
	item.Progress = a.detail.item.Progress
	a.detail.item = item
	a.renderDetail()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	limits := a.config.UI.Detail
	wordWrapWidth := (a.width * 9) / 10
	if limits.WordWrapMaxWidth > 0 && wordWrapWidth > limits.WordWrapMaxWidth {
		wordWrapWidth = limits.WordWrapMaxWidth
	}
	if wordWrapWidth < limits.WordWrapMinWidth {
		wordWrapWidth = limits.WordWrapMinWidth
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) renderDetail() {
	doc := detailMarkdown(a.detail, a.config.UI.Detail.CastLimit)

	r, err := a.getRenderer()
	if err != nil {
		a.viewport.SetContent(doc)
		return
	}
	rendered, err := r.Render(doc)
	if err != nil {
		debuglog.Warnf("rendering details: %v", err)
		a.viewport.SetContent(doc)
		return
	}
	a.viewport.SetContent(rendered)
}

func detailMarkdown(d *detailState, castLimit int) string {
	m := d.details
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", m.Title, format.Year(m.ReleaseDate))
	if m.Tagline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", m.Tagline)
	}

	genres := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		genres[i] = g.Name
	}
	meta := []string{"★ " + format.Vote(m.VoteAverage), format.Runtime(m.Runtime)}
	if len(genres) > 0 {
		meta = append(meta, strings.Join(genres, ", "))
	}
	if m.Status != "" {
		meta = append(meta, m.Status)
	}
	b.WriteString(strings.Join(meta, " · "))
	b.WriteString("\n\n")

	if d.item.Progress > 0 {
		fmt.Fprintf(&b, "Watched %d%%\n\n", d.item.Progress)
	}

	if m.Overview != "" {
		b.WriteString(m.Overview)
		b.WriteString("\n\n")
	}

	if d.credits != nil {
		if director, ok := d.credits.Director(); ok {
			fmt.Fprintf(&b, "**Director:** %s\n\n", director.Name)
		}
		cast := d.credits.Cast
		if castLimit > 0 && len(cast) > castLimit {
			cast = cast[:castLimit]
		}
		if len(cast) > 0 {
			b.WriteString("## Cast\n\n")
			for _, c := range cast {
				if c.Character != "" {
					fmt.Fprintf(&b, "- %s as %s\n", c.Name, c.Character)
				} else {
					fmt.Fprintf(&b, "- %s\n", c.Name)
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Details\n\n")
	fmt.Fprintf(&b, "- Budget: %s\n", format.Currency(m.Budget))
	fmt.Fprintf(&b, "- Revenue: %s\n", format.Currency(m.Revenue))
	fmt.Fprintf(&b, "- Votes: %s\n", format.CompactNumber(int64(m.VoteCount)))
	if m.Homepage != "" {
		fmt.Fprintf(&b, "- Homepage: %s\n", m.Homepage)
	}
	b.WriteString("\n")

	if len(d.similar) > 0 {
		b.WriteString("## More Like This\n\n")
		for i, s := range d.similar {
			fmt.Fprintf(&b, "%d. %s (%s) ★ %s\n", i+1, s.Title, format.Year(s.ReleaseDate), format.Vote(s.VoteAverage))
		}
	}
	return b.String()
}

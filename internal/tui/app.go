package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/flix/internal/catalog"
	"github.com/pders01/flix/internal/config"
	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/search"
	"github.com/pders01/flix/internal/storage"
	"github.com/pders01/flix/internal/tmdb"
)

const (
	heroCandidates = 10
	heroHeight     = 5
	chromeHeight   = 4
)

type App struct {
	config     *config.Config
	deps       Deps
	keyHandler *KeyHandler
	ctx        context.Context
	cancel     context.CancelFunc

	pager     *catalog.Pager
	debouncer *search.Debouncer

	view         View
	previousView View
	width        int
	height       int

	// login
	user          *storage.User
	authEvents    chan *storage.User
	unsubscribe   func()
	signUp        bool
	nameInput     textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	notice        string

	// browse
	browseStarted bool
	categoryIndex int
	movieList     list.Model
	loadingMore   bool
	trending      []tmdb.Movie
	hero          *tmdb.Movie
	pick          func(n int) int

	// genres
	genreList      list.Model
	genres         []tmdb.Genre
	selectedGenres map[int]bool

	watchList    list.Model
	continueList list.Model

	// search
	searchInput   textinput.Model
	searchList    list.Model
	searchResults []tmdb.Movie
	searchHits    []search.Hit
	searchCancel  context.CancelFunc
	searchReturn  View

	// detail
	detail          *detailState
	viewport        viewport.Model
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int

	status     string
	statusKind StatusKind
	busy       bool
	spinner    spinner.Model
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func NewApp(deps Deps) *App {
	cfg := deps.Config
	ctx, cancel := context.WithCancel(context.Background())

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	si := textinput.New()
	si.Placeholder = "Search movies..."

	categoryIndex := 0
	for i, c := range tmdb.Categories {
		if c == cfg.Browse.DefaultCategory {
			categoryIndex = i
		}
	}

	app := &App{
		config:         cfg,
		deps:           deps,
		ctx:            ctx,
		cancel:         cancel,
		pager:          catalog.NewPager(deps.Catalog),
		debouncer:      search.NewDebouncer(cfg.Search.Debounce),
		nameInput:      name,
		emailInput:     email,
		passwordInput:  password,
		categoryIndex:  categoryIndex,
		movieList:      newList("› movies"),
		genreList:      newList("› genres"),
		watchList:      newList("› watchlist"),
		continueList:   newList("› continue watching"),
		searchInput:    si,
		searchList:     newList("› results"),
		selectedGenres: make(map[int]bool),
		viewport:       viewport.New(0, 0),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		pick:           rand.IntN,
		authEvents:     make(chan *storage.User, 8),
	}
	app.keyHandler = NewKeyHandler(app, cfg)

	app.user = deps.Auth.CurrentUser()
	if app.user == nil {
		app.view = ViewLogin
	} else {
		app.view = ViewBrowse
	}
	app.focusLogin(0)

	app.unsubscribe = deps.Auth.Subscribe(func(u *storage.User) {
		select {
		case app.authEvents <- u:
		default:
			debuglog.Warnf("auth event dropped, queue full")
		}
	})
	app.refreshLibraryLists()
	return app
}

// Close stops background work and the auth subscription.
func (a *App) Close() {
	a.cancel()
	a.debouncer.Cancel()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForAuth(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		if a.view == ViewDetail && a.detail != nil && a.detail.loaded() {
			a.renderDetail()
		}
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case authChangedMsg:
		cmds = append(cmds, a.waitForAuth(), a.applyAuth(msg.user))

	case authResultMsg:
		a.stopBusy()
		if msg.err != nil {
			a.notice = authNotice(msg.err)
			return a, nil
		}
		a.notice = ""
		a.passwordInput.Reset()

	case pageLoadedMsg:
		a.applyPage(msg)

	case trendingLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("trending unavailable: %v", msg.err)
			return a, nil
		}
		a.trending = msg.movies
		a.rotateHero()

	case heroTickMsg:
		a.rotateHero()
		cmds = append(cmds, a.heroTick())

	case genresLoadedMsg:
		a.stopBusy()
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.genres = msg.genres
		a.refreshGenreList()

	case searchFireMsg:
		cmds = append(cmds, a.startSearch(msg.query))

	case searchResultsMsg:
		a.applySearchResults(msg)

	case detailLoadedMsg:
		a.applyDetail(msg)

	case playedMsg:
		a.stopBusy()
		if msg.err != nil {
			a.setError(msg.err)
		} else {
			a.setStatus(MsgPlaying(msg.title, truncateMiddle(msg.url, 48)), StatusSuccess)
		}
		a.refreshLibraryLists()

	case libraryChangedMsg:
		if msg.err != nil {
			a.setError(msg.err)
		} else if msg.status != "" {
			a.setStatus(msg.status, StatusSuccess)
		}
		a.refreshLibraryLists()

	case errorMsg:
		a.stopBusy()
		a.setError(msg.err)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	listHeight := height - chromeHeight
	if listHeight < 5 {
		listHeight = 5
	}
	browseHeight := listHeight - heroHeight - 2
	if browseHeight < 5 {
		browseHeight = 5
	}
	a.movieList.SetSize(width, browseHeight)
	a.genreList.SetSize(width, listHeight)
	a.watchList.SetSize(width, listHeight)
	a.continueList.SetSize(width, listHeight)

	searchHeight := height - 10
	if searchHeight < 5 {
		searchHeight = 5
	}
	a.searchList.SetSize(width, searchHeight)

	a.viewport.Width = width
	a.viewport.Height = listHeight - 2

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width
	}
	a.searchInput.Width = inputWidth
	for _, in := range []*textinput.Model{&a.nameInput, &a.emailInput, &a.passwordInput} {
		in.Width = clampInt(inputWidth, 10, 40)
	}
}

// applyAuth moves between the login screen and the signed-in area.
func (a *App) applyAuth(user *storage.User) tea.Cmd {
	a.user = user
	if user == nil {
		a.view = ViewLogin
		a.detail = nil
		a.focusLogin(0)
		return nil
	}

	if a.view == ViewLogin {
		a.view = ViewBrowse
	}
	if a.browseStarted {
		return nil
	}
	a.browseStarted = true
	return tea.Batch(
		a.startBusy(MsgLoadingCatalog),
		a.loadSelector(a.currentSelector()),
		a.loadTrending(),
		a.heroTick(),
	)
}

func (a *App) currentCategory() string {
	return tmdb.Categories[a.categoryIndex]
}

// currentSelector is the genre filter when one is set, else the active tab.
func (a *App) currentSelector() catalog.Selector {
	if ids := a.selectedGenreIDs(); len(ids) > 0 {
		return catalog.GenreSelector(ids...)
	}
	return catalog.CategorySelector(a.currentCategory())
}

func (a *App) selectedGenreIDs() []int {
	ids := make([]int, 0, len(a.selectedGenres))
	for _, g := range a.genres {
		if a.selectedGenres[g.ID] {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

func (a *App) applyPage(msg pageLoadedMsg) {
	if msg.more {
		a.loadingMore = false
	}
	if errors.Is(msg.err, catalog.ErrStale) {
		return
	}

	// the spinner belongs to the current selector's request
	snap := a.pager.Snapshot()
	if snap.Selector.Key() != msg.key {
		debuglog.Debugf("ignoring page for %s, showing %s", msg.key, snap.Selector.Key())
		return
	}
	if !msg.more {
		a.stopBusy()
	}
	if msg.err != nil {
		a.setStatus(MsgLoadFailed+": "+userMessage(msg.err), StatusError)
	}
	a.setMovies(snap.Movies)
}

func (a *App) setMovies(movies []tmdb.Movie) {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		item := newMovieItem(m)
		item.saved = a.deps.Watchlist.Contains(m.ID)
		items[i] = item
	}
	a.movieList.SetItems(items)
}

func (a *App) rotateHero() {
	candidates := a.trending
	if len(candidates) > heroCandidates {
		candidates = candidates[:heroCandidates]
	}
	if len(candidates) == 0 {
		a.hero = nil
		return
	}
	hero := candidates[a.pick(len(candidates))]
	a.hero = &hero
}

func (a *App) refreshGenreList() {
	items := make([]list.Item, len(a.genres))
	for i, g := range a.genres {
		items[i] = genreItem{genre: g, selected: a.selectedGenres[g.ID]}
	}
	a.genreList.SetItems(items)
}

// refreshLibraryLists rebuilds every row that shows list membership.
func (a *App) refreshLibraryLists() {
	saved := a.deps.Watchlist.Items()
	items := make([]list.Item, len(saved))
	for i, it := range saved {
		items[i] = movieItem{item: it, saved: true}
	}
	a.watchList.SetItems(items)

	watching := a.deps.Continue.Items()
	items = make([]list.Item, len(watching))
	for i, it := range watching {
		items[i] = movieItem{item: it, inProgress: true, saved: a.deps.Watchlist.Contains(it.ID)}
	}
	a.continueList.SetItems(items)

	if len(a.movieList.Items()) > 0 {
		rows := a.movieList.Items()
		for i, row := range rows {
			if m, ok := row.(movieItem); ok {
				m.saved = a.deps.Watchlist.Contains(m.item.ID)
				rows[i] = m
			}
		}
		a.movieList.SetItems(rows)
	}
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) setError(err error) {
	if err == nil {
		return
	}
	debuglog.Errorf("%v", err)
	a.setStatus(userMessage(err), StatusError)
}

// startBusy shows text with a spinner until stopBusy.
func (a *App) startBusy(text string) tea.Cmd {
	a.setStatus(text, StatusInfo)
	if a.busy {
		return nil
	}
	a.busy = true
	return a.spinner.Tick
}

func (a *App) stopBusy() {
	if a.busy {
		a.busy = false
		a.status = ""
	}
}

func (a *App) focusLogin(i int) {
	inputs := a.loginInputs()
	a.loginFocus = clampInt(i, 0, len(inputs)-1)
	for idx, in := range inputs {
		if idx == a.loginFocus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (a *App) loginInputs() []*textinput.Model {
	if a.signUp {
		return []*textinput.Model{&a.nameInput, &a.emailInput, &a.passwordInput}
	}
	return []*textinput.Model{&a.emailInput, &a.passwordInput}
}

func (a *App) searchQuery() string {
	return strings.TrimSpace(a.searchInput.Value())
}

type authChangedMsg struct {
	user *storage.User
}

type authResultMsg struct {
	err error
}

type pageLoadedMsg struct {
	key  string
	more bool
	err  error
}

type trendingLoadedMsg struct {
	movies []tmdb.Movie
	err    error
}

type heroTickMsg struct{}

type genresLoadedMsg struct {
	genres []tmdb.Genre
	err    error
}

type searchFireMsg struct {
	query string
}

type searchResultsMsg struct {
	query  string
	movies []tmdb.Movie
	err    error
}

type detailLoadedMsg struct {
	id      int
	details *tmdb.MovieDetails
	credits *tmdb.Credits
	similar []tmdb.Movie
	err     error
}

type playedMsg struct {
	title string
	url   string
	err   error
}

type libraryChangedMsg struct {
	status string
	err    error
}

type errorMsg struct {
	err error
}

// heroRotation is zero when rotation is disabled.
func (a *App) heroRotation() time.Duration {
	return a.config.Browse.HeroRotation
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flix/internal/catalog"
	"github.com/pders01/flix/internal/config"
	"github.com/pders01/flix/internal/tmdb"
)

const progressStep = 10

type KeyHandler struct {
	app         *App
	keys        config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, keys: cfg.Keys.Bindings, modifierKey: modifierKey}
}

// is matches a binding typed plainly or with the modifier held.
func (kh *KeyHandler) is(key, binding string) bool {
	if binding == "" {
		return false
	}
	return key == binding || key == kh.modifierKey+binding
}

// isModified matches only the modifier form; text inputs need it so
// plain letters can be typed.
func (kh *KeyHandler) isModified(key, binding string) bool {
	return binding != "" && key == kh.modifierKey+binding
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		kh.app.Close()
		return kh.app, tea.Quit
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewLogin:
		return true
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.view == ViewLogin {
		return kh.handleLoginKeys(msg)
	}

	key := msg.String()
	switch {
	case kh.is(key, kh.keys.Back):
		kh.app.leaveSearch()
		return kh.app, nil
	case kh.isModified(key, kh.keys.Delete):
		return kh.app, kh.app.clearRecent()
	case key == "enter":
		if kh.app.searchQuery() != "" {
			kh.app.debouncer.Cancel()
			return kh.app, kh.app.startSearch(kh.app.searchInput.Value())
		}
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if row, ok := items[0].(searchRow); ok {
				return kh.app, kh.app.selectSearchRow(row)
			}
		}
		return kh.app, nil
	case key == "tab" || key == "down":
		if len(kh.app.searchList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchList.Select(0)
		}
		return kh.app, nil
	}

	prev := kh.app.searchInput.Value()
	var cmd tea.Cmd
	kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
	return kh.app, tea.Batch(cmd, kh.app.onSearchInput(prev))
}

func (kh *KeyHandler) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "ctrl+t":
		a.signUp = !a.signUp
		a.notice = ""
		a.focusLogin(0)
		return a, nil
	case "tab", "down":
		a.focusLogin((a.loginFocus + 1) % len(a.loginInputs()))
		return a, nil
	case "shift+tab", "up":
		n := len(a.loginInputs())
		a.focusLogin((a.loginFocus + n - 1) % n)
		return a, nil
	case "enter":
		if a.loginFocus < len(a.loginInputs())-1 {
			a.focusLogin(a.loginFocus + 1)
			return a, nil
		}
		return a, kh.submitLogin()
	}

	input := a.loginInputs()[a.loginFocus]
	updated, cmd := input.Update(msg)
	*input = updated
	return a, cmd
}

// submitLogin runs sign in or sign up. Only emptiness is checked here;
// the provider owns the real rules and its error codes become the notice.
func (kh *KeyHandler) submitLogin() tea.Cmd {
	a := kh.app
	email := strings.TrimSpace(a.emailInput.Value())
	password := a.passwordInput.Value()

	if a.signUp {
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			a.notice = "Please enter your name"
			return nil
		}
		return tea.Batch(a.startBusy(MsgSigningUp), a.signUpCmd(name, email, password))
	}
	return tea.Batch(a.startBusy(MsgSigningIn), a.signIn(email, password))
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch {
	case kh.is(key, kh.keys.Quit):
		a.Close()
		return a, tea.Quit, true
	case kh.is(key, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.is(key, kh.keys.Search):
		return a, a.enterSearch(), true
	case kh.is(key, kh.keys.Watchlist):
		a.view = ViewWatchlist
		a.refreshLibraryLists()
		return a, nil, true
	case kh.is(key, kh.keys.Continue):
		a.view = ViewContinue
		a.refreshLibraryLists()
		return a, nil, true
	case kh.is(key, kh.keys.Genres):
		return a, kh.enterGenres(), true
	}

	switch a.view {
	case ViewBrowse:
		return kh.handleBrowseKeys(key)
	case ViewGenres:
		return kh.handleGenreKeys(key)
	case ViewWatchlist:
		return kh.handleWatchlistKeys(key)
	case ViewContinue:
		return kh.handleContinueKeys(key)
	case ViewDetail:
		return kh.handleDetailKeys(key)
	case ViewSearch:
		return kh.handleSearchListKeys(key)
	default:
		return a, nil, false
	}
}

func (kh *KeyHandler) handleBrowseKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key == "right" || key == "tab":
		return a, kh.switchCategory(1), true
	case key == "left" || key == "shift+tab":
		return a, kh.switchCategory(-1), true
	case kh.is(key, kh.keys.Play):
		if it, ok := a.movieList.SelectedItem().(movieItem); ok {
			return a, tea.Batch(a.startBusy(MsgStartingPlayer), a.play(it.item)), true
		}
		return a, nil, true
	case kh.is(key, kh.keys.Toggle):
		if it, ok := a.movieList.SelectedItem().(movieItem); ok {
			return a, a.toggleWatchlist(it.item), true
		}
		return a, nil, true
	case kh.is(key, kh.keys.SignOut):
		return a, a.signOut(), true
	}
	return a, nil, false
}

// switchCategory moves along the tabs and drops any genre filter.
func (kh *KeyHandler) switchCategory(step int) tea.Cmd {
	a := kh.app
	n := len(tmdb.Categories)
	a.categoryIndex = (a.categoryIndex + step + n) % n
	a.selectedGenres = make(map[int]bool)
	a.loadingMore = false
	a.movieList.ResetSelected()
	a.movieList.SetItems(nil)
	return tea.Batch(a.startBusy(MsgLoadingCatalog), a.loadSelector(catalog.CategorySelector(a.currentCategory())))
}

func (kh *KeyHandler) enterGenres() tea.Cmd {
	a := kh.app
	a.view = ViewGenres
	if a.genres != nil {
		a.refreshGenreList()
		return nil
	}
	return tea.Batch(a.startBusy(MsgLoadingGenres), a.loadGenres())
}

func (kh *KeyHandler) handleGenreKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key == " " || key == "space":
		if it, ok := a.genreList.SelectedItem().(genreItem); ok {
			if a.selectedGenres[it.genre.ID] {
				delete(a.selectedGenres, it.genre.ID)
			} else {
				a.selectedGenres[it.genre.ID] = true
			}
			a.refreshGenreList()
		}
		return a, nil, true
	case kh.is(key, kh.keys.Delete):
		a.selectedGenres = make(map[int]bool)
		a.refreshGenreList()
		a.setStatus(MsgGenresCleared, StatusInfo)
		return a, nil, true
	case key == "enter":
		a.view = ViewBrowse
		a.loadingMore = false
		a.movieList.ResetSelected()
		a.movieList.SetItems(nil)
		sel := a.currentSelector()
		if sel.IsGenre() {
			a.setStatus(MsgGenreFilter(len(sel.GenreIDs)), StatusInfo)
		}
		return a, tea.Batch(a.startBusy(MsgLoadingCatalog), a.loadSelector(sel)), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleWatchlistKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	it, ok := a.watchList.SelectedItem().(movieItem)
	if !ok {
		return a, nil, false
	}
	switch {
	case kh.isModified(key, kh.keys.Delete):
		return a, a.clearWatchlist(), true
	case kh.is(key, kh.keys.Delete):
		return a, a.removeFromWatchlist(it.item), true
	case kh.is(key, kh.keys.Play):
		return a, tea.Batch(a.startBusy(MsgStartingPlayer), a.play(it.item)), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleContinueKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	it, ok := a.continueList.SelectedItem().(movieItem)
	if !ok {
		return a, nil, false
	}
	switch {
	case key == "+" || key == "right":
		return a, a.adjustProgress(it.item, progressStep), true
	case key == "-" || key == "left":
		return a, a.adjustProgress(it.item, -progressStep), true
	case kh.isModified(key, kh.keys.Delete):
		return a, a.clearContinue(), true
	case kh.is(key, kh.keys.Delete):
		return a, a.removeFromContinue(it.item), true
	case kh.is(key, kh.keys.Play):
		return a, tea.Batch(a.startBusy(MsgStartingPlayer), a.play(it.item)), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleDetailKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if a.detail == nil {
		return a, nil, false
	}
	item := a.detail.item
	switch {
	case kh.is(key, kh.keys.Toggle):
		return a, a.toggleWatchlist(item), true
	case kh.is(key, kh.keys.Play):
		return a, tea.Batch(a.startBusy(MsgStartingPlayer), a.play(item)), true
	case kh.is(key, kh.keys.Poster):
		return a, a.openPoster(item), true
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		i := int(key[0] - '1')
		if i < len(a.detail.similar) {
			return a, a.openDetail(a.detail.similar[i].ListItem()), true
		}
		return a, nil, true
	}
	return a, nil, false
}

// handleSearchListKeys covers the result list once it has focus.
func (kh *KeyHandler) handleSearchListKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key == "tab" || key == "shift+tab" || key == "/" || key == "i":
		return a, a.searchInput.Focus(), true
	case key == "up" && a.searchList.Index() == 0:
		return a, a.searchInput.Focus(), true
	case kh.is(key, kh.keys.Delete):
		return a, a.clearRecent(), true
	case key == "enter":
		if row, ok := a.searchList.SelectedItem().(searchRow); ok {
			return a, a.selectSearchRow(row), true
		}
		return a, nil, true
	}
	return a, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewBrowse:
		a.movieList, cmd = a.movieList.Update(msg)
		if msg.String() == "enter" {
			if it, ok := a.movieList.SelectedItem().(movieItem); ok {
				return a, a.openDetail(it.item)
			}
		}
		return a, tea.Batch(cmd, a.maybePrefetch())

	case ViewGenres:
		a.genreList, cmd = a.genreList.Update(msg)
		return a, cmd

	case ViewWatchlist:
		a.watchList, cmd = a.watchList.Update(msg)
		if msg.String() == "enter" {
			if it, ok := a.watchList.SelectedItem().(movieItem); ok {
				return a, a.openDetail(it.item)
			}
		}
		return a, cmd

	case ViewContinue:
		a.continueList, cmd = a.continueList.Update(msg)
		if msg.String() == "enter" {
			if it, ok := a.continueList.SelectedItem().(movieItem); ok {
				return a, a.openDetail(it.item)
			}
		}
		return a, cmd

	case ViewSearch:
		a.searchList, cmd = a.searchList.Update(msg)
		return a, cmd

	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	default:
		return a, nil
	}
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	switch a.view {
	case ViewDetail:
		a.stopBusy()
		a.detail = nil
		a.view = a.previousView
		if a.view == ViewDetail || a.view == ViewLogin {
			a.view = ViewBrowse
		}
		if a.view == ViewSearch && len(a.searchList.Items()) == 0 {
			a.searchInput.Focus()
		}
	case ViewSearch:
		a.leaveSearch()
	case ViewGenres, ViewWatchlist, ViewContinue:
		a.view = ViewBrowse
	}
	a.status = ""
	return a, nil
}

// GetHelpForCurrentView lists the shortcuts shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys
	global := []string{
		k.Search + ": search",
		k.Watchlist + ": watchlist",
		k.Continue + ": continue",
		k.Genres + ": genres",
		k.Quit + ": quit",
	}

	switch kh.app.view {
	case ViewLogin:
		return []string{"tab: next field", "enter: submit", "ctrl+t: sign in/sign up", "ctrl+c: quit"}
	case ViewBrowse:
		return append([]string{"←/→: category", "enter: details", k.Play + ": play", k.Toggle + ": watchlist ±", k.SignOut + ": sign out"}, global...)
	case ViewGenres:
		return []string{"space: select", "enter: apply", k.Delete + ": clear all", k.Back + ": back"}
	case ViewWatchlist:
		return append([]string{"enter: details", k.Play + ": play", k.Delete + ": remove", kh.modifierKey + k.Delete + ": clear all", k.Back + ": back"}, global...)
	case ViewContinue:
		return append([]string{"enter: details", "+/-: progress", k.Play + ": play", k.Delete + ": remove", kh.modifierKey + k.Delete + ": clear all", k.Back + ": back"}, global...)
	case ViewSearch:
		if kh.app.searchInput.Focused() {
			return []string{"type to search", "tab: results", kh.modifierKey + k.Delete + ": clear recent", k.Back + ": back"}
		}
		return []string{"enter: select", "tab: search box", k.Delete + ": clear recent", k.Back + ": back"}
	case ViewDetail:
		return []string{k.Play + ": play trailer", k.Toggle + ": watchlist ±", k.Poster + ": poster", "1-9: similar", k.Back + ": back"}
	default:
		return nil
	}
}

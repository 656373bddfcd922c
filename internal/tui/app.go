package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pders01/brief/internal/browser"
	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/feed"
	"github.com/pders01/brief/internal/news"
	"github.com/pders01/brief/internal/search"
)

const renderCacheSize = 256

type App struct {
	config     *config.Config
	source     news.Source
	feed       *feed.Controller
	searcher   search.Searcher
	launcher   *browser.Launcher
	copyText   func(string) error
	keyHandler *KeyHandler
	keys       keyMap

	header   header
	filter   textinput.Model
	focus    inputFocus
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	theme       Theme
	renderCache *lru.Cache[string, string]

	view        View
	filterQuery string
	filterKeys  []string // nil while no filter is applied
	selected    int
	rowOffset   int
	width       int
	height      int

	status     string
	statusKind StatusKind
	err        error

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	rendererMode    Mode
	reading         *news.Article
	loadingArticle  bool

	now func() time.Time
}

func NewApp(source news.Source, cfg *config.Config) *App {
	mode := ParseMode(cfg.UI.Theme)

	fi := textinput.New()
	fi.Placeholder = "Filter loaded articles..."
	fi.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	cache, _ := lru.New[string, string](renderCacheSize)

	app := &App{
		config:      cfg,
		source:      source,
		feed:        feed.NewController(cfg.API.PageSize),
		searcher:    search.New(),
		launcher:    browser.NewLauncher(cfg),
		copyText:    clipboard.WriteAll,
		keys:        newKeyMap(cfg),
		header:      newHeader(mode),
		filter:      fi,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        help.New(),
		theme:       NewTheme(mode, cfg.UI.Colors),
		renderCache: cache,
		view:        ViewFeed,
		now:         time.Now,
	}
	app.keyHandler = NewKeyHandler(app, cfg)
	app.applyThemeToWidgets()

	return app
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	if term := sanitizeTerm(a.config.UI.DefaultSearch); term != "" {
		cmds = append(cmds, a.startSession(term))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.renderCache.Purge()
		a.header.setWidth(msg.Width)
		a.filter.Width = max(10, msg.Width-8)
		a.help.Width = msg.Width
		a.viewport.Width = msg.Width
		a.viewport.Height = max(1, msg.Height-readerChrome)

		if a.view == ViewReader && a.reading != nil {
			return a, a.renderArticle(*a.reading, a.renderer())
		}
		a.ensureVisible()
		return a, a.checkProximity()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewReader {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case fetchResultMsg:
		return a, a.applyResult(msg.result)

	case termSubmittedMsg:
		a.focus = focusNone
		if a.feed.Session() != nil && msg.term == a.feed.Term() {
			return a, nil
		}
		return a, a.startSession(msg.term)

	case themeToggledMsg:
		return a, a.setTheme(msg.mode)

	case articleRenderedMsg:
		if a.view != ViewReader || a.reading == nil || a.reading.Key() != msg.key {
			return a, nil
		}
		a.loadingArticle = false
		a.viewport.SetContent(msg.content)
		return a, nil

	case statusMsg:
		a.err = nil
		a.setStatus(msg.text, msg.kind)
		return a, nil

	case errorMsg:
		a.err = msg.err
		debuglog.Warnf("%v", msg.err)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// startSession replaces the feed session and resets everything scoped to it.
func (a *App) startSession(term string) tea.Cmd {
	req := a.feed.Start(term)
	a.resetGrid()
	return a.fetch(req)
}

func (a *App) refresh() tea.Cmd {
	if a.feed.Loading() {
		a.setStatus(MsgRefreshDisabled, StatusWarn)
		return nil
	}
	req, ok := a.feed.Refresh()
	if !ok {
		return nil
	}
	a.resetGrid()
	return a.fetch(req)
}

func (a *App) resetGrid() {
	a.selected = 0
	a.rowOffset = 0
	a.clearFilter()
	a.clearStatus()
	a.err = nil
}

// applyResult hands a fetch outcome to the controller and, if it was
// accepted, keeps the local index and selection in step.
func (a *App) applyResult(res feed.Result) tea.Cmd {
	if !a.feed.Complete(res) {
		return nil
	}
	if res.Err == nil {
		if res.Full {
			if err := a.searcher.Reset(); err != nil {
				debuglog.Warnf("reset search index: %v", err)
			}
		}
		if err := a.searcher.Add(res.Articles); err != nil {
			debuglog.Warnf("index articles: %v", err)
		}
		if a.filterKeys != nil {
			a.applyFilter(a.filterQuery)
		}
	}
	a.ensureVisible()
	return a.checkProximity()
}

func (a *App) setTheme(mode Mode) tea.Cmd {
	a.header.mode = mode
	a.theme = NewTheme(mode, a.config.UI.Colors)
	a.renderCache.Purge()
	a.applyThemeToWidgets()
	debuglog.Debugf("theme set to %s", mode)

	if a.view == ViewReader && a.reading != nil {
		return a.renderArticle(*a.reading, a.renderer())
	}
	return nil
}

func (a *App) applyThemeToWidgets() {
	a.spinner.Style = a.theme.Brand
	a.help.Styles.ShortKey = a.theme.Header
	a.help.Styles.ShortDesc = a.theme.Muted
	a.help.Styles.FullKey = a.theme.Header
	a.help.Styles.FullDesc = a.theme.Muted
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// openReader switches to the detail view for the selected card.
func (a *App) openReader() tea.Cmd {
	article, ok := a.selectedArticle()
	if !ok {
		return nil
	}
	a.reading = &article
	a.view = ViewReader
	a.loadingArticle = true
	a.viewport.SetContent("")
	a.viewport.GotoTop()
	return a.renderArticle(article, a.renderer())
}

func (a *App) closeReader() tea.Cmd {
	a.view = ViewFeed
	a.reading = nil
	a.loadingArticle = false
	a.ensureVisible()
	return a.checkProximity()
}

// renderer returns a glamour renderer for the current width and mode,
// rebuilding it only when either has moved.
func (a *App) renderer() *glamour.TermRenderer {
	wrap := (a.width * 9) / 10
	if wrap > 100 {
		wrap = 100
	}
	if wrap < 20 {
		wrap = 20
	}

	if a.glamourRenderer != nil && a.rendererMode == a.theme.Mode && abs(a.rendererWidth-wrap) <= 10 {
		return a.glamourRenderer
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(a.theme.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		debuglog.Warnf("glamour renderer: %v", err)
		return nil
	}
	a.glamourRenderer = r
	a.rendererWidth = wrap
	a.rendererMode = a.theme.Mode
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/brief/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kh.app.clearStatus()
	kh.app.err = nil

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if key.Matches(msg, kh.app.keys.Quit) {
		return kh.app, tea.Quit
	}

	switch kh.app.view {
	case ViewReader:
		return kh.handleReaderKeys(msg)
	default:
		return kh.handleFeedKeys(msg)
	}
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.focus {
	case focusSearch:
		return kh.app.header.focused()
	case focusFilter:
		return kh.app.filter.Focused()
	default:
		return false
	}
}

// handleTextInputMode routes keys while a buffer has focus. Plain letters
// go to the buffer; actions still answer to their modifier form.
func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	switch msg.String() {
	case "ctrl+c":
		return app, tea.Quit
	case "esc":
		return kh.cancelInput()
	case "enter":
		return kh.submitInput()
	case kh.modifierKey + kh.config.Keys.Bindings.Theme:
		return app, app.header.toggleTheme()
	}

	switch app.focus {
	case focusSearch:
		return app, app.header.update(msg)
	case focusFilter:
		var cmd tea.Cmd
		app.filter, cmd = app.filter.Update(msg)
		app.applyFilter(app.filter.Value())
		return app, cmd
	}
	return app, nil
}

func (kh *KeyHandler) cancelInput() (tea.Model, tea.Cmd) {
	app := kh.app
	switch app.focus {
	case focusSearch:
		app.header.blur()
		app.header.input.SetValue(app.feed.Term())
		app.focus = focusNone
	case focusFilter:
		app.clearFilter()
		app.ensureVisible()
		return app, app.checkProximity()
	}
	return app, nil
}

func (kh *KeyHandler) submitInput() (tea.Model, tea.Cmd) {
	app := kh.app
	switch app.focus {
	case focusSearch:
		cmd := app.header.submit()
		if cmd == nil {
			return app, nil
		}
		app.focus = focusNone
		return app, cmd
	case focusFilter:
		// keep the filter applied, hand keys back to the grid
		app.filter.Blur()
		app.focus = focusNone
		if app.filterKeys == nil {
			app.clearFilter()
			return app, app.checkProximity()
		}
	}
	return app, nil
}

func (kh *KeyHandler) handleFeedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	keys := app.keys
	cols := app.columns()

	switch {
	case key.Matches(msg, keys.Search):
		app.focus = focusSearch
		return app, app.header.focus(app.feed.Term())

	case key.Matches(msg, keys.Filter):
		if len(app.feed.Articles()) == 0 {
			return app, nil
		}
		app.focus = focusFilter
		app.filter.SetValue(app.filterQuery)
		app.filter.CursorEnd()
		return app, app.filter.Focus()

	case key.Matches(msg, keys.Back):
		if app.filterKeys != nil {
			app.clearFilter()
			app.ensureVisible()
			return app, app.checkProximity()
		}
		return app, nil

	case key.Matches(msg, keys.Refresh):
		return app, app.refresh()

	case key.Matches(msg, keys.Theme):
		return app, app.header.toggleTheme()

	case key.Matches(msg, keys.Help):
		app.help.ShowAll = !app.help.ShowAll
		return app, nil

	case key.Matches(msg, keys.Up):
		app.move(-cols)
	case key.Matches(msg, keys.Down):
		app.move(cols)
	case key.Matches(msg, keys.Left):
		app.move(-1)
	case key.Matches(msg, keys.Right):
		app.move(1)
	case msg.String() == "home" || msg.String() == "g":
		app.move(-app.selected)
	case msg.String() == "end" || msg.String() == "G":
		app.move(len(app.visibleArticles()))

	case key.Matches(msg, keys.Select):
		return app, app.openReader()

	case key.Matches(msg, keys.Open):
		return kh.withSelected(app.openURL)
	case key.Matches(msg, keys.Copy):
		return kh.withSelected(app.copyURL)

	default:
		return app, nil
	}

	return app, app.checkProximity()
}

func (kh *KeyHandler) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	keys := app.keys

	switch {
	case key.Matches(msg, keys.Back):
		return app, app.closeReader()
	case key.Matches(msg, keys.Theme):
		return app, app.header.toggleTheme()
	case key.Matches(msg, keys.Open):
		return kh.withSelected(app.openURL)
	case key.Matches(msg, keys.Copy):
		return kh.withSelected(app.copyURL)
	}

	var cmd tea.Cmd
	app.viewport, cmd = app.viewport.Update(msg)
	return app, cmd
}

// withSelected runs action on the URL of the article in focus, which is the
// open article in the reader and the selected card otherwise.
func (kh *KeyHandler) withSelected(action func(string) tea.Cmd) (tea.Model, tea.Cmd) {
	app := kh.app
	var url string
	if app.view == ViewReader && app.reading != nil {
		url = app.reading.URL
	} else if article, ok := app.selectedArticle(); ok {
		url = article.URL
	}
	if url == "" {
		return app, nil
	}
	return app, action(url)
}

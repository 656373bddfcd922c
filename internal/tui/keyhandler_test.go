package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/brief/internal/config"
)

func TestKeyMapUsesConfiguredBindings(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.Refresh = "u"
	keys := newKeyMap(cfg)

	assert.True(t, key.Matches(keyMsg("u"), keys.Refresh))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}, Alt: true}, keys.Refresh))
	assert.False(t, key.Matches(keyMsg("r"), keys.Refresh))
	assert.True(t, key.Matches(keyMsg("ctrl+c"), keys.Quit))
}

func TestHelpListsActions(t *testing.T) {
	keys := newKeyMap(config.TestConfig())

	var descs []string
	for _, b := range keys.ShortHelp() {
		descs = append(descs, b.Help().Desc)
	}
	assert.Contains(t, descs, "search")
	assert.Contains(t, descs, "refresh")
	assert.Contains(t, descs, "theme")

	assert.Len(t, readerKeys{keys}.FullHelp(), 1)
}

func TestRebindingRoutesThroughHandler(t *testing.T) {
	src := &fakeSource{respond: corpora(nil)}
	cfg := config.TestConfig()
	cfg.UI.DefaultSearch = ""
	cfg.Keys.Bindings.Search = "f"
	app := NewApp(src, cfg)
	app.Update(tea.WindowSizeMsg{Width: 90, Height: 40})

	press(app, "s")
	assert.Equal(t, focusNone, app.focus, "old binding is gone")

	press(app, "f")
	assert.Equal(t, focusSearch, app.focus)
}

func TestFilterNeedsArticles(t *testing.T) {
	src := &fakeSource{respond: corpora(nil)}
	app := newTestApp(t, src)
	press(app, "/")
	assert.Equal(t, focusNone, app.focus)
}

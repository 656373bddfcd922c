package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/feed"
	"github.com/pders01/brief/internal/news"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu      sync.Mutex
	queries []news.Query
	respond func(news.Query) ([]news.Article, error)
}

func (f *fakeSource) Fetch(_ context.Context, q news.Query) ([]news.Article, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.respond(q)
}

func (f *fakeSource) calls() []news.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]news.Query(nil), f.queries...)
}

func makeArticles(term string, n int) []news.Article {
	out := make([]news.Article, n)
	for i := range out {
		url := fmt.Sprintf("https://news.site/%s/%d", term, i)
		out[i] = news.Article{
			ID:          url,
			URL:         url,
			Title:       fmt.Sprintf("%s story number %d", term, i),
			Summary:     "summary for the story",
			Source:      "news.site",
			PublishedAt: testNow.Add(-3 * time.Hour),
			Tags:        []string{term},
		}
	}
	return out
}

// corpora serves up to ten unseen articles per term, honouring exclusions.
func corpora(sets map[string][]news.Article) func(news.Query) ([]news.Article, error) {
	return func(q news.Query) ([]news.Article, error) {
		seen := make(map[string]bool, len(q.ExcludeURLs))
		for _, u := range q.ExcludeURLs {
			seen[u] = true
		}
		var out []news.Article
		for _, a := range sets[q.Tags] {
			if seen[a.URL] {
				continue
			}
			out = append(out, a)
			if len(out) == feed.PageSize {
				break
			}
		}
		return out, nil
	}
}

func newTestApp(t *testing.T, src *fakeSource) *App {
	t.Helper()
	cfg := config.TestConfig()
	cfg.UI.DefaultSearch = "tech"

	app := NewApp(src, cfg)
	app.now = func() time.Time { return testNow }
	app.Update(tea.WindowSizeMsg{Width: 90, Height: 40})
	return app
}

// drain runs cmd and every command it produces, feeding messages back into
// the app until the loop settles. Timer-driven messages are dropped.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := app.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(app *App, keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, last = app.Update(keyMsg(k))
	}
	return last
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeText(app *App, text string) {
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func loadedApp(t *testing.T, sets map[string][]news.Article) (*App, *fakeSource) {
	t.Helper()
	src := &fakeSource{respond: corpora(sets)}
	app := newTestApp(t, src)
	drain(t, app, app.Init())
	return app, src
}

func TestInitStartsDefaultSession(t *testing.T) {
	app, src := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 14)})

	calls := src.calls()
	require.Len(t, calls, 1, "first page does not reach the last card")
	assert.Equal(t, "tech", calls[0].Tags)
	assert.Empty(t, calls[0].ExcludeURLs)

	assert.Equal(t, feed.StateLoaded, app.feed.State())
	assert.Len(t, app.feed.Articles(), 10)
	assert.True(t, app.feed.HasMore())

	view := app.View()
	assert.Contains(t, view, `Results for: "tech"`)
	assert.Contains(t, view, "tech story number 0")
	assert.NotContains(t, view, MsgEndOfResults)
}

func TestInitWithoutDefaultTermStaysIdle(t *testing.T) {
	src := &fakeSource{respond: corpora(nil)}
	cfg := config.TestConfig()
	cfg.UI.DefaultSearch = "   "
	app := NewApp(src, cfg)
	app.Update(tea.WindowSizeMsg{Width: 90, Height: 40})

	drain(t, app, app.Init())
	assert.Empty(t, src.calls())
	assert.Equal(t, feed.StateIdle, app.feed.State())
	assert.Contains(t, app.View(), Tagline)
}

func TestSkeletonWhileFirstPageLoads(t *testing.T) {
	src := &fakeSource{respond: corpora(nil)}
	app := newTestApp(t, src)

	app.startSession("tech")
	assert.True(t, app.feed.ShowSkeleton())
	assert.Contains(t, app.View(), "▆")
}

func TestScrollingToLastCardLoadsNextPage(t *testing.T) {
	articles := makeArticles("tech", 14)
	app, src := loadedApp(t, map[string][]news.Article{"tech": articles})

	// the first move keeps the last row off screen
	assert.Nil(t, press(app, "down"))
	require.Len(t, src.calls(), 1)

	drain(t, app, press(app, "G"))

	calls := src.calls()
	require.Len(t, calls, 2)
	want := make([]string, 10)
	for i := range want {
		want[i] = articles[i].URL
	}
	assert.Equal(t, want, calls[1].ExcludeURLs, "exclusion is every loaded url in order")

	assert.Len(t, app.feed.Articles(), 14)
	assert.False(t, app.feed.HasMore())
	assert.True(t, app.feed.ShowEnd())

	drain(t, app, press(app, "g", "G"))
	assert.Len(t, src.calls(), 2, "no fetch after the backend ran dry")
	assert.Contains(t, app.View(), MsgEndOfResults)
}

func TestProximityIsIgnoredWhileLoading(t *testing.T) {
	src := &fakeSource{respond: corpora(map[string][]news.Article{"tech": makeArticles("tech", 30)})}
	app := newTestApp(t, src)
	drain(t, app, app.Init())

	first := press(app, "G")
	require.NotNil(t, first)
	assert.True(t, app.feed.ShowLoadingMore())

	assert.Nil(t, press(app, "g", "G"), "second trigger while a page is in flight")
	drain(t, app, first)
	assert.Len(t, app.feed.Articles(), 20)
}

func TestFetchFailureSurfacesMessage(t *testing.T) {
	src := &fakeSource{respond: func(news.Query) ([]news.Article, error) {
		return nil, &news.FetchError{Err: errors.New("connection refused")}
	}}
	app := newTestApp(t, src)
	drain(t, app, app.Init())

	assert.Equal(t, feed.StateError, app.feed.State())
	assert.False(t, app.feed.Loading())
	assert.Empty(t, app.feed.Articles())
	assert.Contains(t, app.View(), feed.FailureMessage)
}

func TestFailedIncrementalKeepsCards(t *testing.T) {
	calls := 0
	src := &fakeSource{respond: func(q news.Query) ([]news.Article, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("timeout")
		}
		return makeArticles("tech", 10), nil
	}}
	app := newTestApp(t, src)
	drain(t, app, app.Init())
	drain(t, app, press(app, "G"))

	assert.Len(t, app.feed.Articles(), 10)
	assert.False(t, app.feed.ShowLoadingMore())
	assert.Contains(t, app.View(), feed.FailureMessage)
}

func TestRefresh(t *testing.T) {
	app, src := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 14)})
	drain(t, app, press(app, "G"))
	require.Len(t, app.feed.Articles(), 14)
	oldID := app.feed.Session().ID

	cmd := press(app, "r")
	require.NotNil(t, cmd)
	assert.NotEqual(t, oldID, app.feed.Session().ID)
	assert.True(t, app.feed.ShowSkeleton(), "grid resets to placeholders")
	assert.Nil(t, press(app, "r"), "refresh is disabled while loading")
	assert.Equal(t, MsgRefreshDisabled, app.status)

	drain(t, app, cmd)
	calls := src.calls()
	last := calls[len(calls)-1]
	assert.True(t, last.NoCache)
	assert.True(t, last.Full())
	assert.Len(t, app.feed.Articles(), 10)
}

func TestSearchSubmitStartsNewSession(t *testing.T) {
	app, src := loadedApp(t, map[string][]news.Article{
		"tech":   makeArticles("tech", 14),
		"sports": makeArticles("sports", 3),
	})

	press(app, "s")
	require.Equal(t, focusSearch, app.focus)
	assert.Equal(t, "tech", app.header.input.Value(), "buffer starts at the active term")

	app.header.input.SetValue("")
	typeText(app, "  sports  ")
	assert.Equal(t, "tech", app.feed.Term(), "typing does not change the term")

	drain(t, app, press(app, "enter"))
	assert.Equal(t, focusNone, app.focus)
	assert.Equal(t, "sports", app.feed.Term())

	calls := src.calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "sports", last.Tags)
	assert.Empty(t, last.ExcludeURLs)

	for _, a := range app.feed.Articles() {
		assert.Equal(t, []string{"sports"}, a.Tags)
	}
	assert.True(t, app.feed.ShowEnd())
}

func TestSearchSubmitRejectsBlankAndRepeats(t *testing.T) {
	app, src := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 10)})
	before := len(src.calls())

	press(app, "s")
	app.header.input.SetValue("   \t ")
	assert.Nil(t, press(app, "enter"))
	assert.Equal(t, focusSearch, app.focus, "blank input is ignored")

	app.header.input.SetValue("tech")
	drain(t, app, press(app, "enter"))
	assert.Len(t, src.calls(), before, "same term keeps the session")

	press(app, "s")
	app.header.input.SetValue("half typed")
	press(app, "esc")
	assert.Equal(t, focusNone, app.focus)
	assert.Equal(t, "tech", app.header.input.Value())
}

func TestStaleResultIsDiscarded(t *testing.T) {
	src := &fakeSource{respond: corpora(map[string][]news.Article{
		"tech":   makeArticles("tech", 10),
		"sports": makeArticles("sports", 10),
	})}
	app := newTestApp(t, src)

	techCmd := app.startSession("tech")
	sportsCmd := app.startSession("sports")

	drain(t, app, techCmd)
	assert.Empty(t, app.feed.Articles(), "late tech page must not land in the sports session")
	assert.True(t, app.feed.Loading())

	drain(t, app, sportsCmd)
	require.Len(t, app.feed.Articles(), 10)
	assert.Equal(t, "sports", app.feed.Articles()[0].Tags[0])
}

func TestThemeToggle(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 10)})
	require.Equal(t, ModeLight, app.theme.Mode)
	app.renderCache.Add("stale", "x")

	drain(t, app, press(app, "t"))
	assert.Equal(t, ModeDark, app.theme.Mode)
	assert.Equal(t, ModeDark, app.header.mode)
	assert.Zero(t, app.renderCache.Len(), "cards are rebuilt for the new theme")
	assert.Contains(t, app.View(), "dark")

	// reachable with the modifier while typing
	press(app, "s")
	drain(t, app, press(app, "ctrl+t"))
	assert.Equal(t, ModeLight, app.theme.Mode)
	assert.Equal(t, focusSearch, app.focus)
}

func TestFilterNarrowsAndSuspendsTrigger(t *testing.T) {
	articles := makeArticles("tech", 12)
	articles[3].Title = "Rust ownership explained"
	app, src := loadedApp(t, map[string][]news.Article{"tech": articles})

	press(app, "/")
	require.Equal(t, focusFilter, app.focus)
	typeText(app, "rust")

	visible := app.visibleArticles()
	require.Len(t, visible, 1)
	assert.Equal(t, articles[3].URL, visible[0].URL)

	press(app, "enter")
	assert.Equal(t, focusNone, app.focus)
	assert.Contains(t, app.View(), MsgFilterSummary("rust", 1, 10))

	assert.Nil(t, press(app, "G"), "trigger is suspended while filtered")
	assert.Len(t, src.calls(), 1)

	press(app, "esc")
	assert.Nil(t, app.filterKeys)
	assert.Len(t, app.visibleArticles(), 10)
}

func TestNavigationClampsToGrid(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 5)})
	require.Equal(t, 2, app.columns())

	press(app, "up", "h")
	assert.Equal(t, 0, app.selected)

	press(app, "l", "down")
	assert.Equal(t, 3, app.selected)

	press(app, "down", "down")
	assert.Equal(t, 4, app.selected)
}

func TestReaderOpenAndBack(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 10)})
	press(app, "l", "down")
	require.Equal(t, 3, app.selected)

	cmd := press(app, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, ViewReader, app.view)
	assert.True(t, app.loadingArticle)
	assert.Contains(t, app.View(), MsgLoadingArticle)

	drain(t, app, cmd)
	assert.False(t, app.loadingArticle)
	assert.Contains(t, app.View(), "tech story number 3")

	press(app, "esc")
	assert.Equal(t, ViewFeed, app.view)
	assert.Equal(t, 3, app.selected, "selection survives the reader")
}

func TestStaleRenderIsIgnored(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 10)})
	press(app, "enter")
	app.Update(articleRenderedMsg{key: "https://news.site/other", content: "other"})
	assert.True(t, app.loadingArticle)
}

func TestCopyAndOpenLink(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 10)})

	var copied string
	app.copyText = func(s string) error {
		copied = s
		return nil
	}
	drain(t, app, press(app, "y"))
	assert.Equal(t, "https://news.site/tech/0", copied)
	assert.Equal(t, MsgLinkCopied, app.status)

	app.copyText = func(string) error { return errors.New("no clipboard utility") }
	drain(t, app, press(app, "y"))
	require.Error(t, app.err)
	assert.Contains(t, app.View(), "copy link")
}

func TestQuit(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 1)})

	for _, k := range []string{"q", "ctrl+c"} {
		cmd := press(app, k)
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}

	press(app, "s")
	press(app, "q")
	assert.Equal(t, focusSearch, app.focus)
	assert.True(t, strings.HasSuffix(app.header.input.Value(), "q"), "q types while searching")
}

func TestHelpToggle(t *testing.T) {
	app, _ := loadedApp(t, map[string][]news.Article{"tech": makeArticles("tech", 1)})
	press(app, "?")
	assert.True(t, app.help.ShowAll)
	press(app, "?")
	assert.False(t, app.help.ShowAll)
}

package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/news"
	"github.com/pders01/brief/internal/search"
)

const (
	// header bar (bordered input), feed heading, status line, help line
	gridChrome = 6
	// reader title, link and footer
	readerChrome = 3

	filterLimit = 200
)

func (a *App) columns() int {
	cw := a.config.UI.CardWidth
	if cw <= 0 {
		cw = 44
	}
	cols := (a.width + 1) / (cw + 1)
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (a *App) cardWidth() int {
	cols := a.columns()
	w := (a.width - (cols - 1)) / cols
	if w < 12 {
		w = 12
	}
	return w
}

func (a *App) gridHeight() int {
	h := a.height - gridChrome
	if a.filterActive() {
		h -= 3
	}
	if h < cardHeight {
		h = cardHeight
	}
	return h
}

func (a *App) visibleRows() int {
	rows := a.gridHeight() / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (a *App) filterActive() bool {
	return a.focus == focusFilter || a.filterKeys != nil
}

// visibleArticles is the session's list, or the filter's ranked subset of it.
func (a *App) visibleArticles() []news.Article {
	all := a.feed.Articles()
	if a.filterKeys == nil {
		return all
	}
	byKey := make(map[string]news.Article, len(all))
	for _, art := range all {
		byKey[art.Key()] = art
	}
	out := make([]news.Article, 0, len(a.filterKeys))
	for _, k := range a.filterKeys {
		if art, ok := byKey[k]; ok {
			out = append(out, art)
		}
	}
	return out
}

func (a *App) selectedArticle() (news.Article, bool) {
	articles := a.visibleArticles()
	if a.selected < 0 || a.selected >= len(articles) {
		return news.Article{}, false
	}
	return articles[a.selected], true
}

// applyFilter narrows the grid to local matches for query. Queries shorter
// than the index minimum clear the filter.
func (a *App) applyFilter(query string) {
	query = strings.TrimSpace(query)
	a.filterQuery = query
	if len([]rune(query)) < search.MinQueryLength {
		a.filterKeys = nil
		a.ensureVisible()
		return
	}
	keys, err := a.searcher.Search(query, filterLimit)
	if err != nil {
		debuglog.Warnf("filter %q: %v", query, err)
		keys = nil
	}
	if keys == nil {
		keys = []string{}
	}
	a.filterKeys = keys
	a.selected = 0
	a.rowOffset = 0
}

func (a *App) clearFilter() {
	a.filter.Blur()
	a.filter.SetValue("")
	a.filterQuery = ""
	a.filterKeys = nil
	if a.focus == focusFilter {
		a.focus = focusNone
	}
}

// move shifts the selection by delta cards, clamped to the grid.
func (a *App) move(delta int) {
	n := len(a.visibleArticles())
	if n == 0 {
		return
	}
	next := a.selected + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	a.selected = next
	a.ensureVisible()
}

// ensureVisible clamps the selection and scrolls so its row is on screen.
func (a *App) ensureVisible() {
	n := len(a.visibleArticles())
	if a.selected >= n {
		a.selected = n - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}

	cols := a.columns()
	rows := a.visibleRows()
	row := a.selected / cols
	if row < a.rowOffset {
		a.rowOffset = row
	}
	if row >= a.rowOffset+rows {
		a.rowOffset = row - rows + 1
	}
	totalRows := (n + cols - 1) / cols
	if maxOffset := totalRows - rows; a.rowOffset > maxOffset {
		a.rowOffset = max(0, maxOffset)
	}
}

// lastCardVisible reports whether the final loaded card is within the
// rendered rows.
func (a *App) lastCardVisible() bool {
	n := len(a.feed.Articles())
	if n == 0 || a.width == 0 || a.height == 0 {
		return false
	}
	lastRow := (n - 1) / a.columns()
	return lastRow >= a.rowOffset && lastRow < a.rowOffset+a.visibleRows()
}

// checkProximity reports the last card to the controller when it is on
// screen. The controller decides whether that starts a fetch.
func (a *App) checkProximity() tea.Cmd {
	if a.view != ViewFeed || a.filterActive() || !a.lastCardVisible() {
		return nil
	}
	articles := a.feed.Articles()
	req, ok := a.feed.Visible(articles[len(articles)-1].Key())
	if !ok {
		return nil
	}
	return a.fetch(req)
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}
	if a.view == ViewReader {
		return a.readerView()
	}
	return a.feedView()
}

func (a *App) feedView() string {
	sections := []string{
		a.header.view(a.theme, a.width, a.feed.Term()),
		a.feedHeading(),
	}
	if a.filterActive() {
		sections = append(sections, renderInputFrame(a.theme, a.filter.View(), a.focus == focusFilter, a.width-6))
	}

	gh := a.gridHeight()
	sections = append(sections,
		lipgloss.NewStyle().Height(gh).MaxHeight(gh).Render(a.gridBody(gh)),
		a.statusLine(),
		a.helpLine(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) feedHeading() string {
	if a.feed.Session() == nil {
		return a.theme.Muted.Render("Press " + a.config.Keys.Bindings.Search + " to search")
	}
	heading := a.theme.Header.Render(truncateEnd(MsgResultsFor(a.feed.Term()), a.width-24))

	refresh := "[" + a.config.Keys.Bindings.Refresh + "] refresh"
	if a.feed.Loading() {
		refresh = a.theme.Muted.Faint(true).Render(refresh)
	} else {
		refresh = a.theme.Muted.Render(refresh)
	}

	count := a.theme.Muted.Render(MsgResultsCount(len(a.feed.Articles())))
	return lipgloss.JoinHorizontal(lipgloss.Top, heading, "  ", count, "  ", refresh)
}

func (a *App) gridBody(height int) string {
	switch {
	case a.feed.ShowSkeleton():
		return a.skeletonGrid()
	case a.feed.Error() != "" && len(a.feed.Articles()) == 0:
		return renderCentered(a.width, height, a.theme.Error.Render(a.feed.Error()))
	case a.feed.ShowEmpty():
		return renderCentered(a.width, height, a.theme.Muted.Render(MsgNoArticles))
	case a.feed.Session() == nil:
		return renderCentered(a.width, height, GetCompactBanner(a.theme, Tagline))
	}

	articles := a.visibleArticles()
	if len(articles) == 0 {
		return renderCentered(a.width, height, a.theme.Muted.Render(MsgNoResults))
	}

	cols := a.columns()
	cw := a.cardWidth()
	now := a.now()
	opts := cardOptions{maxTags: a.config.UI.MaxTags, summaryLength: a.config.UI.SummaryLength}

	var rows []string
	start := a.rowOffset * cols
	end := min(len(articles), start+a.visibleRows()*cols)
	for i := start; i < end; i += cols {
		var cards []string
		for j := i; j < min(i+cols, end); j++ {
			cards = append(cards, a.card(articles[j], cw, j == a.selected, now, opts))
		}
		rows = append(rows, gridRow(cards))
	}
	return strings.Join(rows, "\n")
}

// card renders through the LRU. The relative time is part of the key so an
// entry never outlives its timestamp text.
func (a *App) card(article news.Article, width int, selected bool, now time.Time, opts cardOptions) string {
	key := cardCacheKey(article, width, a.theme.Mode, selected, relativeTime(article.PublishedAt, now))
	if s, ok := a.renderCache.Get(key); ok {
		return s
	}
	s := renderCard(a.theme, article, width, selected, now, opts)
	a.renderCache.Add(key, s)
	return s
}

func (a *App) skeletonGrid() string {
	n := a.config.UI.SkeletonCards
	if n <= 0 {
		n = 5
	}
	cols := a.columns()
	cw := a.cardWidth()
	limit := min(n, a.visibleRows()*cols)

	var rows []string
	for i := 0; i < limit; i += cols {
		var cards []string
		for j := i; j < min(i+cols, limit); j++ {
			cards = append(cards, renderSkeleton(a.theme, cw))
		}
		rows = append(rows, gridRow(cards))
	}
	return strings.Join(rows, "\n")
}

// statusLine shows, in priority order: the inline loader, a failure that
// left earlier cards on screen, a transient message, the filter summary,
// and the end-of-results marker.
func (a *App) statusLine() string {
	var line string
	switch {
	case a.feed.ShowLoadingMore():
		line = a.spinner.View() + " " + a.theme.Muted.Render(MsgLoadingMore)
	case a.err != nil:
		line = a.theme.Error.Render(statusError(a.err, a.width))
	case a.feed.Error() != "" && len(a.feed.Articles()) > 0:
		line = a.theme.Error.Render(truncateEnd(a.feed.Error(), a.width-2))
	case a.status != "":
		line = a.statusKind.style(a.theme).Render(truncateEnd(a.status, a.width-2))
	case a.filterKeys != nil:
		line = a.theme.Muted.Render(MsgFilterSummary(a.filterQuery, len(a.filterKeys), len(a.feed.Articles())))
	case a.feed.ShowEnd():
		line = a.theme.Muted.Render(MsgEndOfResults)
	}
	return lipgloss.NewStyle().Width(a.width).Padding(0, 1).Render(line)
}

func (a *App) helpLine() string {
	return lipgloss.NewStyle().Padding(0, 1).Render(a.help.View(a.keys))
}

func (a *App) readerView() string {
	title, link := "› article", ""
	if a.reading != nil {
		title = "› " + collapseSpace(a.reading.Title)
		link = truncateMiddle(a.reading.URL, a.width-2)
	}
	heading := lipgloss.NewStyle().Height(2).Render(renderHeader(a.theme, title, link, a.width))

	var body string
	if a.loadingArticle {
		body = renderCentered(a.width, a.viewport.Height, a.theme.Muted.Render(MsgLoadingArticle))
	} else {
		body = a.viewport.View()
	}

	footer := a.theme.Muted.Render(a.help.View(readerKeys{a.keys}))
	if a.err != nil {
		footer = a.theme.Error.Render(statusError(a.err, a.width))
	} else if a.status != "" {
		footer = a.statusKind.style(a.theme).Render(a.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, body, lipgloss.NewStyle().Padding(0, 1).Render(footer))
}

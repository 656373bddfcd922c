package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/feed"
	"github.com/pders01/brief/internal/news"
)

const defaultFetchTimeout = 10 * time.Second

type fetchResultMsg struct {
	result feed.Result
}

type articleRenderedMsg struct {
	key     string
	content string
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}

// fetch performs req off the update loop and reports back tagged with the
// originating session.
func (a *App) fetch(req feed.Request) tea.Cmd {
	source := a.source
	timeout := a.config.API.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		articles, err := source.Fetch(ctx, req.Query)
		return fetchResultMsg{result: feed.Result{
			SessionID: req.SessionID,
			Full:      req.Full,
			Articles:  articles,
			Err:       err,
		}}
	}
}

// articleMarkdown lays an article out for the reader view.
func articleMarkdown(article news.Article, now time.Time) string {
	var b strings.Builder
	title := collapseSpace(article.Title)
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	var meta []string
	if article.Source != "" {
		meta = append(meta, article.Source)
	}
	if rel := relativeTime(article.PublishedAt, now); rel != "" {
		meta = append(meta, rel)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))
	}

	if len(article.Tags) > 0 {
		tags := make([]string, len(article.Tags))
		for i, t := range article.Tags {
			tags[i] = "`" + strings.TrimSpace(t) + "`"
		}
		b.WriteString(strings.Join(tags, " "))
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n")
	if summary := strings.TrimSpace(article.Summary); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
	if article.URL != "" {
		fmt.Fprintf(&b, "[Read online](%s)\n", article.URL)
	}
	return b.String()
}

// renderArticle renders article with r, which must be built on the update
// loop since it depends on the current width and theme.
func (a *App) renderArticle(article news.Article, r *glamour.TermRenderer) tea.Cmd {
	key := article.Key()
	now := a.now()
	return func() tea.Msg {
		md := articleMarkdown(article, now)
		if r == nil {
			return articleRenderedMsg{key: key, content: md}
		}
		rendered, err := r.Render(md)
		if err != nil {
			debuglog.Warnf("render article %s: %v", key, err)
			return articleRenderedMsg{key: key, content: md}
		}
		return articleRenderedMsg{key: key, content: rendered}
	}
}

func (a *App) openURL(url string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		if err := launcher.Open(url); err != nil {
			return errorMsg{err: wrapErr("open link", err)}
		}
		return statusMsg{text: MsgOpened, kind: StatusSuccess}
	}
}

func (a *App) copyURL(url string) tea.Cmd {
	write := a.copyText
	return func() tea.Msg {
		if err := write(url); err != nil {
			return errorMsg{err: wrapErr("copy link", err)}
		}
		return statusMsg{text: MsgLinkCopied, kind: StatusSuccess}
	}
}

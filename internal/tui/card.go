package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pders01/brief/internal/news"
	"github.com/pders01/brief/internal/validation"
)

const (
	// cardHeight is the rendered height of every card, border included, so
	// grid rows line up.
	cardHeight   = 9
	cardBodyRows = cardHeight - 2

	titleRows   = 2
	summaryRows = 3

	linkIcon = "↗"
)

var articleURLs = validation.NewArticleURLValidator()

// cardOptions carries presentation limits from config.
type cardOptions struct {
	maxTags       int
	summaryLength int
}

// relativeTime formats t as "3 hours ago" against now.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// visibleTags caps tags at limit, keeping response order.
func visibleTags(tags []string, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(tags) > limit {
		return tags[:limit]
	}
	return tags
}

// hyperlink wraps text in an OSC 8 link. Only absolute public http(s)
// targets are linked; anything else renders as plain text.
func hyperlink(target, text string) string {
	if strings.ContainsAny(target, "\x1b\x07") {
		return text
	}
	if _, err := articleURLs.ValidateAndNormalize(target); err != nil {
		return text
	}
	return "\x1b]8;;" + target + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// renderCard draws one article as a fixed-height card of the given total width.
func renderCard(theme Theme, a news.Article, width int, selected bool, now time.Time, opts cardOptions) string {
	inner := width - 4 // border and horizontal padding
	if inner < 8 {
		inner = 8
	}

	rows := make([]string, 0, cardBodyRows)

	titleLines := wrapText(collapseSpace(a.Title), inner-2, titleRows)
	if len(titleLines) == 0 {
		titleLines = []string{"(untitled)"}
	}
	for i, line := range titleLines {
		rendered := theme.CardTitle.Render(line)
		if i == 0 {
			rendered = hyperlink(a.URL, rendered) + " " + hyperlink(a.URL, theme.Link.Render(linkIcon))
		}
		rows = append(rows, rendered)
	}
	for len(rows) < titleRows {
		rows = append(rows, "")
	}

	summary := collapseSpace(a.Summary)
	if opts.summaryLength > 0 {
		summary = truncateEnd(summary, opts.summaryLength)
	}
	for _, line := range wrapText(summary, inner, summaryRows) {
		rows = append(rows, theme.CardSummary.Render(line))
	}
	for len(rows) < titleRows+summaryRows {
		rows = append(rows, "")
	}

	var tagParts []string
	for _, tag := range visibleTags(a.Tags, opts.maxTags) {
		tagParts = append(tagParts, "#"+strings.TrimSpace(tag))
	}
	rows = append(rows, theme.Tag.Render(truncateEnd(strings.Join(tagParts, " "), inner)))

	meta := a.Source
	if rel := relativeTime(a.PublishedAt, now); rel != "" {
		if meta != "" {
			meta += " · "
		}
		meta += rel
	}
	rows = append(rows, theme.Meta.Render(truncateEnd(meta, inner)))

	style := theme.Card
	if selected {
		style = theme.SelectedCard
	}
	return style.
		Width(width - 2).
		Height(cardBodyRows).
		MaxHeight(cardHeight).
		Render(strings.Join(rows, "\n"))
}

// renderSkeleton draws the static loading placeholder with the card's footprint.
func renderSkeleton(theme Theme, width int) string {
	inner := width - 4
	if inner < 8 {
		inner = 8
	}
	bar := func(frac float64) string {
		n := int(float64(inner) * frac)
		if n < 1 {
			n = 1
		}
		return theme.SkeletonBar.Render(strings.Repeat("▆", n))
	}

	rows := []string{
		bar(0.8),
		bar(0.5),
		"",
		bar(1.0),
		bar(0.9),
		bar(0.3),
		bar(0.4),
	}
	return theme.Skeleton.
		Width(width - 2).
		Height(cardBodyRows).
		MaxHeight(cardHeight).
		Render(strings.Join(rows, "\n"))
}

// cardCacheKey identifies a rendered card. The relative time is part of the
// key so cached cards do not go stale as the clock moves.
func cardCacheKey(a news.Article, width int, mode Mode, selected bool, rel string) string {
	return fmt.Sprintf("%s|%d|%s|%t|%s", a.Key(), width, mode, selected, rel)
}

// gridRow joins cards horizontally with a one-cell gutter.
func gridRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cards)*2-1)
	for i, c := range cards {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

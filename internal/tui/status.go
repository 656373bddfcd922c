package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingMore     = "Loading more articles..."
	MsgEndOfResults    = "You've reached the end."
	MsgNoArticles      = "No articles found."
	MsgLoadingArticle  = "Loading article…"
	MsgRefreshDisabled = "Refresh is unavailable while loading"
	MsgLinkCopied      = "Link copied"
	MsgOpened          = "Opened in browser"
	MsgNoResults       = "No results"
)

// MsgResultsFor is the feed heading for the active term.
func MsgResultsFor(term string) string {
	return fmt.Sprintf("Results for: %q", strings.TrimSpace(term))
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgFilterSummary describes a filtered grid.
func MsgFilterSummary(query string, matched, total int) string {
	return fmt.Sprintf("Filter %q • %d of %d", query, matched, total)
}

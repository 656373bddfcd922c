package search

import "github.com/pders01/brief/internal/news"

// Searcher narrows the articles of the current feed session. Results are
// article keys (news.Article.Key) ordered by relevance.
type Searcher interface {
	// Reset drops everything indexed, called when a new session starts.
	Reset() error
	Add(articles []news.Article) error
	Search(query string, limit int) ([]string, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}

// MinQueryLength is the shortest query that produces results.
const MinQueryLength = 2

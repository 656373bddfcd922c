package news

import (
	"context"
	"time"
)

// Article is one item returned by the news endpoint. It is never mutated after decoding.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Tags        []string  `json:"tags"`
}

// Key is the identity used for exclusion, render keys and the proximity
// trigger. The backend assigns id = url, so url is authoritative and id is
// only a fallback for entries without one.
func (a Article) Key() string {
	if a.URL != "" {
		return a.URL
	}
	return a.ID
}

// Query describes one GET /news request.
type Query struct {
	Tags        string
	ExcludeURLs []string
	// NoCache forces the request onto the network. It is never sent to the backend.
	NoCache bool
}

// Full reports whether the query asks for a first page with no exclusions.
func (q Query) Full() bool {
	return len(q.ExcludeURLs) == 0
}

// Source yields article pages for a query.
type Source interface {
	Fetch(ctx context.Context, q Query) ([]Article, error)
}

package storage

import (
	"time"

	"github.com/pders01/brief/internal/news"
)

// Page is one cached first-page response.
type Page struct {
	Key       string         `json:"key"`
	Tags      string         `json:"tags"`
	Articles  []news.Article `json:"articles"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Fresh reports whether the page is younger than ttl at now.
func (p *Page) Fresh(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(p.FetchedAt) < ttl
}

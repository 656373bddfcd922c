package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/news"
)

// CachedSource serves first pages from the store while they are younger than
// the TTL. Incremental and forced queries always reach the wrapped source.
type CachedSource struct {
	source news.Source
	store  *Store
	ttl    time.Duration
	now    func() time.Time
}

func NewCachedSource(source news.Source, store *Store, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
	}
}

// pageKey follows the backend's own "tags:exclude" cache key with an empty
// exclusion list.
func pageKey(q news.Query) string {
	return q.Tags + ":"
}

func (c *CachedSource) Fetch(ctx context.Context, q news.Query) ([]news.Article, error) {
	cacheable := q.Full()
	key := pageKey(q)
	logger := debuglog.WithFields(debuglog.Fields{"component": "cache", "key": key})

	if cacheable && !q.NoCache {
		page, err := c.store.GetPage(key)
		switch {
		case err == nil && page.Fresh(c.now(), c.ttl):
			logger.Debugf("hit, age %s", c.now().Sub(page.FetchedAt).Round(time.Second))
			return page.Articles, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			logger.Warnf("read failed: %v", err)
		}
	}

	articles, err := c.source.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	if cacheable {
		page := &Page{Key: key, Tags: q.Tags, Articles: articles, FetchedAt: c.now()}
		if saveErr := c.store.SavePage(page); saveErr != nil {
			logger.Warnf("write failed: %v", saveErr)
		}
	}
	return articles, nil
}

// Close purges expired pages and closes the store.
func (c *CachedSource) Close() error {
	if n, err := c.store.Purge(c.now().Add(-c.ttl)); err == nil && n > 0 {
		debuglog.Debugf("purged %d expired pages", n)
	}
	return c.store.Close()
}

package search

import (
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/brief/internal/news"
)

type bleveEngine struct {
	mu  sync.Mutex
	idx bleve.Index
}

// NewBleveEngine creates an in-memory index. Sessions are short lived so
// nothing is written to disk.
func NewBleveEngine() (Searcher, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &bleveEngine{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = false
	title.IncludeTermVectors = true

	summary := bleve.NewTextFieldMapping()
	summary.Analyzer = standard.Name
	summary.Store = false

	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = standard.Name
	tags.Store = false

	source := bleve.NewTextFieldMapping()
	source.Analyzer = keyword.Name
	source.Store = false

	url := bleve.NewTextFieldMapping()
	url.Analyzer = standard.Name
	url.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("summary", summary)
	dm.AddFieldMappingsAt("tags", tags)
	dm.AddFieldMappingsAt("source", source)
	dm.AddFieldMappingsAt("url", url)

	im.DefaultMapping = dm
	return im
}

func (b *bleveEngine) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return err
	}
	old := b.idx
	b.idx = idx
	return old.Close()
}

func (b *bleveEngine) Add(articles []news.Article) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.idx.NewBatch()
	for _, a := range articles {
		key := a.Key()
		if key == "" {
			continue
		}
		if err := batch.Index(key, map[string]any{
			"title":   a.Title,
			"summary": a.Summary,
			"tags":    strings.Join(a.Tags, " "),
			"source":  strings.ToLower(a.Source),
			"url":     a.URL,
		}); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Search(query string, limit int) ([]string, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return []string{}, nil
	}
	// OR of per-term matches across fields, weighted towards the title
	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qs = append(qs,
			fieldMatch(tok, "title", 4.0),
			fieldPrefix(tok, "title", 3.5),
			fieldMatch(tok, "tags", 2.5),
			fieldMatch(tok, "summary", 2.0),
			fieldPrefix(tok, "summary", 1.8),
			fieldPrefix(tok, "source", 1.0),
			fieldMatch(tok, "url", 0.5),
		)
	}
	if len(qs) == 0 {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	srch := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

func fieldMatch(tok, field string, boost float64) bleveQuery.Query {
	q := bleve.NewMatchQuery(tok)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

func fieldPrefix(tok, field string, boost float64) bleveQuery.Query {
	q := bleve.NewPrefixQuery(strings.ToLower(tok))
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

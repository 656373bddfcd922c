package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/brief/internal/news"
)

// Engine is a plain substring scorer used when no bleve index can be built.
type Engine struct {
	articles []news.Article
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Reset() error {
	e.articles = nil
	return nil
}

func (e *Engine) Add(articles []news.Article) error {
	e.articles = append(e.articles, articles...)
	return nil
}

func (e *Engine) DocCount() (int, error) {
	return len(e.articles), nil
}

type scored struct {
	key   string
	score float64
	order int
}

func (e *Engine) Search(query string, limit int) ([]string, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return []string{}, nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return []string{}, nil
	}

	var hits []scored
	for i, a := range e.articles {
		if s := scoreArticle(a, terms); s > 0 {
			hits = append(hits, scored{key: a.Key(), score: s, order: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.key
	}
	return out, nil
}

func scoreArticle(a news.Article, terms []string) float64 {
	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	tags := strings.ToLower(strings.Join(a.Tags, " "))
	source := strings.ToLower(a.Source)

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 4
		}
		if strings.Contains(tags, term) {
			score += 2.5
		}
		if strings.Contains(summary, term) {
			score += 2
		}
		if strings.Contains(source, term) {
			score++
		}
	}
	return score
}

// tokenize lowercases text and splits it on anything that is not a letter or
// digit, dropping single characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}

	return terms
}

// New returns the bleve engine, falling back to Engine if the index cannot be created.
func New() Searcher {
	if s, err := NewBleveEngine(); err == nil {
		return s
	}
	return NewEngine()
}

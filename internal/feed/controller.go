package feed

import (
	"github.com/google/uuid"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/news"
)

const (
	// PageSize is the backend's page length. A shorter page ends the session.
	PageSize = 10

	FailureMessage = "Failed to fetch news. Is the backend server running?"
)

type State int

const (
	StateIdle State = iota
	StateLoadingFull
	StateLoadingMore
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingFull:
		return "loading(full)"
	case StateLoadingMore:
		return "loading(incremental)"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is one search term's lifetime. It is replaced, never reset in place.
type Session struct {
	ID   uuid.UUID
	Term string

	articles    []news.Article
	loading     bool
	pendingFull bool
	hasMore     bool
	err         string
}

// Request is a fetch the caller must perform and report back through Complete.
type Request struct {
	SessionID uuid.UUID
	Full      bool
	Query     news.Query
}

// Result carries the outcome of a Request.
type Result struct {
	SessionID uuid.UUID
	Full      bool
	Articles  []news.Article
	Err       error
}

// Controller owns the current feed session and its proximity trigger. It does
// no I/O: operations return Requests and the caller feeds Results back in.
type Controller struct {
	session  *Session
	trigger  Trigger
	pageSize int
}

func NewController(pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Controller{pageSize: pageSize}
}

// Start replaces the current session with a fresh one for term and returns
// its full fetch.
func (c *Controller) Start(term string) Request {
	return c.begin(term, false)
}

// Refresh restarts the current term. The returned request bypasses any cache.
func (c *Controller) Refresh() (Request, bool) {
	if c.session == nil {
		return Request{}, false
	}
	return c.begin(c.session.Term, true), true
}

func (c *Controller) begin(term string, force bool) Request {
	if c.session != nil && c.session.loading {
		debuglog.WithFields(debuglog.Fields{
			"session": c.session.ID,
		}).Debugf("superseding session with fetch in flight")
	}

	c.session = &Session{
		ID:          uuid.New(),
		Term:        term,
		loading:     true,
		pendingFull: true,
		hasMore:     true,
	}
	c.rebind()

	debuglog.WithFields(debuglog.Fields{
		"session": c.session.ID,
		"term":    term,
		"refresh": force,
	}).Infof("feed session started")

	return Request{
		SessionID: c.session.ID,
		Full:      true,
		Query:     news.Query{Tags: term, NoCache: force},
	}
}

// Visible reports that the card with key scrolled into view. It returns an
// incremental fetch only when key is the bound trigger target and the session
// can load more; every other call is a no-op.
func (c *Controller) Visible(key string) (Request, bool) {
	s := c.session
	if s == nil || !c.trigger.Fires(key) {
		return Request{}, false
	}
	if s.loading || !s.hasMore || s.err != "" {
		return Request{}, false
	}

	exclude := make([]string, len(s.articles))
	for i, a := range s.articles {
		exclude[i] = a.Key()
	}

	s.loading = true
	s.pendingFull = false
	c.rebind()

	debuglog.WithFields(debuglog.Fields{
		"session": s.ID,
		"loaded":  len(s.articles),
	}).Debugf("loading next page")

	return Request{
		SessionID: s.ID,
		Full:      false,
		Query:     news.Query{Tags: s.Term, ExcludeURLs: exclude},
	}, true
}

// Complete applies a fetch outcome. Results for a superseded session, or that
// arrive when nothing is in flight, are dropped and Complete returns false.
func (c *Controller) Complete(res Result) bool {
	s := c.session
	if s == nil || res.SessionID != s.ID || !s.loading || res.Full != s.pendingFull {
		debuglog.WithFields(debuglog.Fields{
			"session": res.SessionID,
		}).Debugf("discarding stale fetch result")
		return false
	}

	s.loading = false
	logger := debuglog.WithFields(debuglog.Fields{
		"session": s.ID,
		"full":    res.Full,
	})

	if res.Err != nil {
		s.err = FailureMessage
		logger.Errorf("fetch failed: %v", res.Err)
		c.rebind()
		return true
	}

	if len(res.Articles) < c.pageSize {
		s.hasMore = false
	}
	if res.Full {
		s.articles = append([]news.Article(nil), res.Articles...)
	} else {
		s.articles = append(s.articles, res.Articles...)
	}

	logger.Infof("received %d articles, %d loaded, more=%t", len(res.Articles), len(s.articles), s.hasMore)
	c.rebind()
	return true
}

// rebind drops the trigger and binds it again to the last loaded card if the
// session can take another page.
func (c *Controller) rebind() {
	c.trigger.Release()

	s := c.session
	if s == nil || s.loading || !s.hasMore || s.err != "" || len(s.articles) == 0 {
		return
	}
	c.trigger.Bind(s.articles[len(s.articles)-1].Key())
}

func (c *Controller) State() State {
	s := c.session
	switch {
	case s == nil:
		return StateIdle
	case s.loading && s.pendingFull:
		return StateLoadingFull
	case s.loading:
		return StateLoadingMore
	case s.err != "":
		return StateError
	default:
		return StateLoaded
	}
}

// Session returns the current session, or nil before the first Start.
func (c *Controller) Session() *Session {
	return c.session
}

// Trigger exposes the proximity subscription for inspection.
func (c *Controller) Trigger() *Trigger {
	return &c.trigger
}

// Articles returns the loaded articles in load order. The slice is capped so
// appends by the caller cannot reach the session's backing array.
func (c *Controller) Articles() []news.Article {
	if c.session == nil {
		return nil
	}
	a := c.session.articles
	return a[:len(a):len(a)]
}

func (c *Controller) Term() string {
	if c.session == nil {
		return ""
	}
	return c.session.Term
}

func (c *Controller) Loading() bool {
	return c.session != nil && c.session.loading
}

func (c *Controller) HasMore() bool {
	return c.session != nil && c.session.hasMore
}

// Error returns the user-facing failure message, or "".
func (c *Controller) Error() string {
	if c.session == nil {
		return ""
	}
	return c.session.err
}

// ShowSkeleton: loading with nothing to show yet.
func (c *Controller) ShowSkeleton() bool {
	return c.Loading() && len(c.Articles()) == 0
}

// ShowLoadingMore: loading below already visible cards.
func (c *Controller) ShowLoadingMore() bool {
	return c.Loading() && len(c.Articles()) > 0
}

// ShowEnd: the backend has nothing further for this term.
func (c *Controller) ShowEnd() bool {
	return c.session != nil && !c.session.hasMore && len(c.session.articles) > 0
}

// ShowEmpty: a settled session with no results and no error.
func (c *Controller) ShowEmpty() bool {
	return c.session != nil && !c.session.loading && c.session.err == "" && len(c.session.articles) == 0
}

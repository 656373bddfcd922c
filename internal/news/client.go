package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/validation"
)

const (
	newsPath = "/news"
	// maxBodySize bounds how much of a response is decoded.
	maxBodySize = 8 << 20
)

// FetchError is the single failure kind of the news endpoint: transport
// errors, non-2xx statuses and undecodable bodies.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("news fetch failed: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("news fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	endpoint, err := validation.NewEndpointValidator().ValidateAndNormalize(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api.base_url: %w", err)
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	timeout := cfg.API.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:   base,
		userAgent: cfg.API.UserAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Endpoint returns the normalized base URL the client talks to.
func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

// requestURL builds GET /news?tags=..[&exclude_urls=..]. exclude_urls is
// omitted entirely when there is nothing to exclude.
func (c *Client) requestURL(q Query) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + newsPath

	params := url.Values{}
	params.Set("tags", q.Tags)
	if len(q.ExcludeURLs) > 0 {
		params.Set("exclude_urls", strings.Join(q.ExcludeURLs, ","))
	}
	u.RawQuery = params.Encode()
	return u.String()
}

func (c *Client) Fetch(ctx context.Context, q Query) ([]Article, error) {
	reqURL := c.requestURL(q)
	logger := debuglog.WithFields(debuglog.Fields{
		"tags":    q.Tags,
		"exclude": len(q.ExcludeURLs),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("creating request: %w", err)}
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Errorf("request failed: %v", err)
		return nil, &FetchError{Err: fmt.Errorf("fetching news: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		logger.Warnf("unexpected status %d", resp.StatusCode)
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var articles []Article
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&articles); err != nil {
		logger.Errorf("decoding response: %v", err)
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding articles: %w", err)}
	}

	logger.Debugf("fetched %d articles in %s", len(articles), time.Since(start))
	return articles, nil
}

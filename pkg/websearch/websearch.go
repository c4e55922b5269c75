// Package websearch turns a free-text query into a ranked list of results,
// trying paid providers first and an HTML scrape last. Results are cached
// on disk and paid calls are counted in a sliding window.
package websearch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/cache"
	"portfolio-be/pkg/metrics"
)

const (
	DefaultMaxResults = 5
	DefaultTimeout    = 10 * time.Second
)

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Params is serialized into the cache key, so field order matters.
type Params struct {
	Num     int    `json:"num"`
	Recency string `json:"recency,omitempty"` // "" or "week"
}

// Provider is one search backend.
type Provider interface {
	Name() string
	// Paid providers are subject to the local request window.
	Paid() bool
	Search(ctx context.Context, query string, p Params) ([]Result, error)
}

// SearchEngine is what the blogger researcher depends on.
type SearchEngine interface {
	Search(ctx context.Context, query string, maxResults int) []Result
	SearchWithParams(ctx context.Context, query string, p Params) []Result
}

type Client struct {
	providers []Provider
	cache     *DiskCache
	window    *cache.RateLimiter
	timeout   time.Duration
	logger    logger.ILogger
}

var _ SearchEngine = (*Client)(nil)

// NewClient wires providers in the order given. A nil cache disables caching.
func NewClient(providers []Provider, diskCache *DiskCache, maxPerMinute int, log logger.ILogger) *Client {
	var live []Provider
	for _, p := range providers {
		if p != nil {
			live = append(live, p)
		}
	}
	if maxPerMinute <= 0 {
		maxPerMinute = 10
	}
	return &Client{
		providers: live,
		cache:     diskCache,
		window:    cache.NewRateLimiter(maxPerMinute),
		timeout:   DefaultTimeout,
		logger:    log,
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) []Result {
	return c.SearchWithParams(ctx, query, Params{Num: maxResults})
}

// SearchWithParams never fails: on total failure it returns one placeholder result.
func (c *Client) SearchWithParams(ctx context.Context, query string, p Params) []Result {
	if p.Num <= 0 {
		p.Num = DefaultMaxResults
	}
	optimized := Optimize(query)

	if c.cache != nil {
		if hit, ok := c.cache.Get(optimized, p); ok {
			metrics.SearchRequests.WithLabelValues("cache", "hit").Inc()
			return hit
		}
	}

	paidAllowed := c.window.CheckLimit()
	if !paidAllowed {
		c.logger.Warn(logger.ModuleSearch, "Search window full, skipping paid providers", map[string]interface{}{
			"wait_seconds": c.window.WaitTime(),
		})
	}

	for _, provider := range c.providers {
		if provider.Paid() {
			if !paidAllowed {
				continue
			}
			c.window.RecordRequest()
		}

		results, err := c.try(ctx, provider, optimized, p)
		if err != nil {
			metrics.SearchRequests.WithLabelValues(provider.Name(), "error").Inc()
			c.logger.Warn(logger.ModuleSearch, "Search provider failed", map[string]interface{}{
				"provider": provider.Name(),
				"query":    optimized,
				"error":    err.Error(),
			})
			continue
		}
		if len(results) == 0 {
			metrics.SearchRequests.WithLabelValues(provider.Name(), "empty").Inc()
			continue
		}

		metrics.SearchRequests.WithLabelValues(provider.Name(), "ok").Inc()
		if len(results) > p.Num {
			results = results[:p.Num]
		}
		if c.cache != nil {
			if err := c.cache.Set(optimized, p, results); err != nil {
				c.logger.Warn(logger.ModuleSearch, "Failed to write search cache", map[string]interface{}{"error": err.Error()})
			}
		}
		c.logger.Info(logger.ModuleSearch, "Search succeeded", map[string]interface{}{
			"provider": provider.Name(),
			"query":    optimized,
			"results":  len(results),
		})
		return results
	}

	metrics.SearchRequests.WithLabelValues("placeholder", "fallback").Inc()
	return []Result{Placeholder(query)}
}

func (c *Client) try(ctx context.Context, p Provider, query string, params Params) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return p.Search(ctx, query, params)
}

// Placeholder is the synthetic result returned when every provider fails.
func Placeholder(query string) Result {
	return Result{
		Title:   fmt.Sprintf("Search results for %s", query),
		Link:    "https://duckduckgo.com/?q=" + url.QueryEscape(query),
		Snippet: "Live search is unavailable right now; this is a fallback link to a public search page.",
		Source:  "fallback",
	}
}

// IsPlaceholder reports whether results are only the synthetic fallback.
func IsPlaceholder(results []Result) bool {
	return len(results) == 1 && results[0].Source == "fallback"
}

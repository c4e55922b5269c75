package blogger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/websearch"
)

const (
	ResearchStatusOK       = "ok"
	ResearchStatusFallback = "fallback"

	researchResults  = 5
	maxHeadlines     = 8
	maxInsights      = 6
	enrichedSources  = 2
	maxPageBytes     = 2 << 20
	pageFetchTimeout = 10 * time.Second
)

// Research is the artifact handed to the writer.
type Research struct {
	Category     string   `json:"category"`
	Date         string   `json:"iso_date"`
	TrendQuery   string   `json:"trend_query"`
	NewsQuery    string   `json:"news_query"`
	TopHeadlines []string `json:"top_headlines"`
	KeyInsights  []string `json:"key_insights"`
	Sources      []string `json:"sources"`
	Status       string   `json:"status"`
}

type Researcher interface {
	Research(ctx context.Context, category, focus string) *Research
}

// PageExtractor returns the main text of a web page.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

type WebResearcher struct {
	search    websearch.SearchEngine
	extractor PageExtractor
	clock     Clock
	logger    logger.ILogger
}

// NewWebResearcher builds a researcher. extractor may be nil, in which case
// insights come from result snippets only.
func NewWebResearcher(search websearch.SearchEngine, extractor PageExtractor, clock Clock, log logger.ILogger) *WebResearcher {
	if clock == nil {
		clock = SystemClock{}
	}
	return &WebResearcher{search: search, extractor: extractor, clock: clock, logger: log}
}

func TrendQuery(subject string, year int) string {
	return fmt.Sprintf("latest %s trends %d technology breakthroughs", subject, year)
}

func NewsQuery(subject string, year int) string {
	return fmt.Sprintf("major %s failures or success stories %d", subject, year)
}

// Research never fails. When every search comes back empty it returns a
// fallback artifact with generic headlines.
func (r *WebResearcher) Research(ctx context.Context, category, focus string) *Research {
	now := r.clock.Now()
	subject := category
	if f := strings.TrimSpace(focus); f != "" {
		subject = f
	}

	res := &Research{
		Category:   category,
		Date:       now.UTC().Format(time.RFC3339),
		TrendQuery: TrendQuery(subject, now.Year()),
		NewsQuery:  NewsQuery(subject, now.Year()),
		Status:     ResearchStatusOK,
	}

	trends := r.search.SearchWithParams(ctx, res.TrendQuery, websearch.Params{Num: researchResults, Recency: "week"})
	news := r.search.SearchWithParams(ctx, res.NewsQuery, websearch.Params{Num: researchResults})

	if websearch.IsPlaceholder(trends) && websearch.IsPlaceholder(news) {
		r.logger.Warn(logger.ModuleBlogger, "All research searches failed, using fallback artifact", map[string]interface{}{
			"category": category,
		})
		return fallbackResearch(res, subject)
	}

	seen := make(map[string]bool)
	for _, group := range [][]websearch.Result{trends, news} {
		if websearch.IsPlaceholder(group) {
			continue
		}
		for _, item := range group {
			if item.Link == "" || seen[item.Link] {
				continue
			}
			seen[item.Link] = true
			if len(res.TopHeadlines) < maxHeadlines && item.Title != "" {
				res.TopHeadlines = append(res.TopHeadlines, item.Title)
			}
			if len(res.KeyInsights) < maxInsights && item.Snippet != "" {
				res.KeyInsights = append(res.KeyInsights, strings.TrimSpace(item.Snippet))
			}
			res.Sources = append(res.Sources, item.Link)
		}
	}

	r.enrich(ctx, res)

	r.logger.Info(logger.ModuleBlogger, "Research complete", map[string]interface{}{
		"category":  category,
		"headlines": len(res.TopHeadlines),
		"sources":   len(res.Sources),
	})
	return res
}

// enrich prepends lead sentences from the top sources' full text.
func (r *WebResearcher) enrich(ctx context.Context, res *Research) {
	if r.extractor == nil {
		return
	}
	var extra []string
	for i, src := range res.Sources {
		if i >= enrichedSources {
			break
		}
		text, err := r.extractor.Extract(ctx, src)
		if err != nil {
			r.logger.Debug(logger.ModuleBlogger, "Source extraction failed", map[string]interface{}{
				"url":   src,
				"error": err.Error(),
			})
			continue
		}
		if lead := leadSentences(text, 2); lead != "" {
			extra = append(extra, lead)
		}
	}
	res.KeyInsights = append(extra, res.KeyInsights...)
	if len(res.KeyInsights) > maxInsights {
		res.KeyInsights = res.KeyInsights[:maxInsights]
	}
}

func fallbackResearch(res *Research, subject string) *Research {
	res.Status = ResearchStatusFallback
	res.TopHeadlines = []string{
		fmt.Sprintf("How %s teams are adapting this year", subject),
		fmt.Sprintf("Common %s mistakes and how to avoid them", subject),
		fmt.Sprintf("Where %s is heading next", subject),
	}
	res.KeyInsights = []string{
		fmt.Sprintf("Practitioners report steady adoption of %s tooling across industries.", subject),
		"Automation and security remain the top priorities for engineering teams.",
	}
	res.Sources = []string{}
	return res
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

func leadSentences(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	idx := sentenceEnd.FindAllStringIndex(text, n)
	if len(idx) < n {
		return logger.Truncate(text, 400)
	}
	return strings.TrimSpace(text[:idx[n-1][1]])
}

// TrafilaturaExtractor fetches a page and keeps its main content.
type TrafilaturaExtractor struct {
	client *http.Client
}

func NewTrafilaturaExtractor() *TrafilaturaExtractor {
	return &TrafilaturaExtractor{client: &http.Client{Timeout: pageFetchTimeout}}
}

func (e *TrafilaturaExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PortfolioResearch/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{OriginalURL: parsedURL})
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	if result == nil || result.ContentText == "" {
		return "", fmt.Errorf("no content extracted from page")
	}
	return result.ContentText, nil
}

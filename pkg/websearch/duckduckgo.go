package websearch

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const duckDuckGoHTMLURL = "https://html.duckduckgo.com/html/"

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36",
}

// DuckDuckGoProvider scrapes the HTML frontend. It is free and therefore
// outside the paid request window, but keeps its own politeness limiter.
type DuckDuckGoProvider struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		endpoint: duckDuckGoHTMLURL,
		client:   &http.Client{},
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

func (d *DuckDuckGoProvider) WithEndpoint(endpoint string) *DuckDuckGoProvider {
	d.endpoint = endpoint
	return d
}

func (d *DuckDuckGoProvider) Name() string { return "duckduckgo" }
func (d *DuckDuckGoProvider) Paid() bool   { return false }

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

func (d *DuckDuckGoProvider) Search(ctx context.Context, query string, p Params) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)
	if p.Recency == "week" {
		form.Set("df", "w")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randomUserAgent())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo html: %w", err)
	}
	results := parseDuckDuckGo(doc)
	if len(results) > p.Num {
		results = results[:p.Num]
	}
	return results, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// resolveLink unwraps DuckDuckGo redirect links (/l/?uddg=<target>).
func resolveLink(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// parseDuckDuckGo collects result__a anchors and pairs each with the
// following result__snippet.
func parseDuckDuckGo(doc *html.Node) []Result {
	var out []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				out = append(out, Result{
					Title:  textOf(n),
					Link:   resolveLink(attr(n, "href")),
					Source: "duckduckgo",
				})
			case hasClass(n, "result__snippet") && len(out) > 0 && out[len(out)-1].Snippet == "":
				out[len(out)-1].Snippet = textOf(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

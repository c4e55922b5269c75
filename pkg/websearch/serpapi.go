package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const serpAPIURL = "https://serpapi.com/search.json"

// SerpAPIProvider is the legacy paid provider.
type SerpAPIProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewSerpAPIProvider(apiKey string) *SerpAPIProvider {
	return &SerpAPIProvider{apiKey: apiKey, endpoint: serpAPIURL, client: &http.Client{}}
}

func (s *SerpAPIProvider) WithEndpoint(endpoint string) *SerpAPIProvider {
	s.endpoint = endpoint
	return s
}

func (s *SerpAPIProvider) Name() string { return "serpapi" }
func (s *SerpAPIProvider) Paid() bool   { return true }

func (s *SerpAPIProvider) Search(ctx context.Context, query string, p Params) ([]Result, error) {
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("num", strconv.Itoa(p.Num))
	q.Set("api_key", s.apiKey)
	if p.Recency == "week" {
		q.Set("tbs", "qdr:w")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi status %d", resp.StatusCode)
	}

	var parsed struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", parsed.Error)
	}

	out := make([]Result, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		out = append(out, Result{Title: r.Title, Link: r.Link, Snippet: r.Snippet, Source: "serpapi"})
	}
	return out, nil
}

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const serperURL = "https://google.serper.dev/search"

// SerperProvider is the primary paid provider.
type SerperProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewSerperProvider(apiKey string) *SerperProvider {
	return &SerperProvider{apiKey: apiKey, endpoint: serperURL, client: &http.Client{}}
}

func (s *SerperProvider) WithEndpoint(endpoint string) *SerperProvider {
	s.endpoint = endpoint
	return s
}

func (s *SerperProvider) Name() string { return "serper" }
func (s *SerperProvider) Paid() bool   { return true }

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
	PeopleAlsoAsk []struct {
		Question string `json:"question"`
		Snippet  string `json:"snippet"`
		Title    string `json:"title"`
		Link     string `json:"link"`
	} `json:"peopleAlsoAsk"`
	KnowledgeGraph *struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DescriptionLink string `json:"descriptionLink"`
		Website         string `json:"website"`
	} `json:"knowledgeGraph"`
}

func (s *SerperProvider) Search(ctx context.Context, query string, p Params) ([]Result, error) {
	body := map[string]interface{}{"q": query, "num": p.Num}
	if p.Recency == "week" {
		body["tbs"] = "qdr:w"
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper status %d: %s", resp.StatusCode, string(data))
	}

	var parsed serperResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}
	return parsed.normalize(p.Num), nil
}

// normalize takes organic results first and fills up to max with
// "people also ask" entries and then the knowledge graph.
func (r serperResponse) normalize(max int) []Result {
	var out []Result
	for _, o := range r.Organic {
		if len(out) >= max {
			return out
		}
		out = append(out, Result{Title: o.Title, Link: o.Link, Snippet: o.Snippet, Source: "serper"})
	}
	for _, q := range r.PeopleAlsoAsk {
		if len(out) >= max {
			return out
		}
		title := q.Question
		if title == "" {
			title = q.Title
		}
		out = append(out, Result{Title: title, Link: q.Link, Snippet: q.Snippet, Source: "serper:people_also_ask"})
	}
	if kg := r.KnowledgeGraph; kg != nil && len(out) < max && kg.Title != "" {
		link := kg.DescriptionLink
		if link == "" {
			link = kg.Website
		}
		out = append(out, Result{Title: kg.Title, Link: link, Snippet: kg.Description, Source: "serper:knowledge_graph"})
	}
	return out
}

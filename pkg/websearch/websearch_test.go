package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	paid    bool
	results []Result
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Paid() bool   { return f.paid }
func (f *fakeProvider) Search(ctx context.Context, query string, p Params) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

func TestDiskCache_MaxAge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dc, err := NewDiskCache(t.TempDir(), 24*time.Hour)
	require.NoError(t, err)
	dc.WithClock(func() time.Time { return now })

	p := Params{Num: 3}
	require.NoError(t, dc.Set("go generics", p, []Result{{Title: "t", Link: "l"}}))

	got, ok := dc.Get("go generics", p)
	require.True(t, ok)
	assert.Equal(t, "t", got[0].Title)

	_, ok = dc.Get("go generics", Params{Num: 4})
	assert.False(t, ok, "params are part of the key")

	now = now.Add(25 * time.Hour)
	_, ok = dc.Get("go generics", p)
	assert.False(t, ok)
}

func TestClient_FallsThroughInOrder(t *testing.T) {
	a := &fakeProvider{name: "a", paid: true, err: errors.New("500")}
	b := &fakeProvider{name: "b", paid: true}
	c := &fakeProvider{name: "c", results: []Result{{Title: "1"}, {Title: "2"}, {Title: "3"}}}

	client := NewClient([]Provider{a, b, c}, nil, 10, logger.NewNopLogger())
	got := client.Search(context.Background(), "serverless", 2)

	require.Len(t, got, 2)
	assert.Equal(t, []int{1, 1, 1}, []int{a.calls, b.calls, c.calls})
}

func TestClient_PlaceholderOnTotalFailure(t *testing.T) {
	client := NewClient([]Provider{&fakeProvider{name: "a", err: errors.New("down")}}, nil, 10, logger.NewNopLogger())
	got := client.Search(context.Background(), "edge ai", 5)

	require.True(t, IsPlaceholder(got))
	assert.Equal(t, "Search results for edge ai", got[0].Title)
	assert.Contains(t, got[0].Link, "edge+ai")
}

func TestClient_WindowSkipsPaidProviders(t *testing.T) {
	paid := &fakeProvider{name: "paid", paid: true, results: []Result{{Title: "p"}}}
	free := &fakeProvider{name: "free", results: []Result{{Title: "f"}}}
	client := NewClient([]Provider{paid, free}, nil, 1, logger.NewNopLogger())

	assert.Equal(t, "p", client.Search(context.Background(), "q1", 1)[0].Title)
	assert.Equal(t, "f", client.Search(context.Background(), "q2", 1)[0].Title)
	assert.Equal(t, 1, paid.calls)
}

func TestClient_CacheHitSkipsProviders(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	p := &fakeProvider{name: "p", results: []Result{{Title: "cached"}}}
	client := NewClient([]Provider{p}, dc, 10, logger.NewNopLogger())

	client.Search(context.Background(), "rust async", 3)
	got := client.Search(context.Background(), "rust async", 3)

	assert.Equal(t, "cached", got[0].Title)
	assert.Equal(t, 1, p.calls)
}

func TestSerperNormalize_FillsFromPeopleAlsoAskAndKnowledgeGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("X-API-KEY"))
		_, _ = w.Write([]byte(`{
			"organic":[{"title":"o1","link":"https://o1","snippet":"s1"}],
			"peopleAlsoAsk":[{"question":"q1?","snippet":"a1","link":"https://q1"}],
			"knowledgeGraph":{"title":"kg","description":"d","website":"https://kg"}
		}`))
	}))
	defer srv.Close()

	got, err := NewSerperProvider("key").WithEndpoint(srv.URL).Search(context.Background(), "x", Params{Num: 5})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "o1", got[0].Title)
	assert.Equal(t, "q1?", got[1].Title)
	assert.Equal(t, "https://kg", got[2].Link)
}

func TestDuckDuckGo_ParsesResults(t *testing.T) {
	page := `<html><body>
		<div class="result"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa&rut=x">First <b>hit</b></a>
		<a class="result__snippet">Snippet one</a></div>
		<div class="result"><a class="result__a" href="https://example.org/b">Second</a>
		<div class="result__snippet">Snippet two</div></div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := NewDuckDuckGoProvider().WithEndpoint(srv.URL).Search(context.Background(), "x", Params{Num: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Result{Title: "First hit", Link: "https://example.com/a", Snippet: "Snippet one", Source: "duckduckgo"}, got[0])
	assert.Equal(t, "Snippet two", got[1].Snippet)
}

package blogger

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/internal/repository/implementation"
	"portfolio-be/pkg/embedding"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/rag"
	"portfolio-be/pkg/vectorstore"
	"portfolio-be/pkg/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

func longArticle(title string) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	b.WriteString("Kubernetes clusters failed loudly this week when a certificate rotation went wrong.\n\n")
	for b.Len() < 2*MinDraftChars {
		b.WriteString("## Section\n\nPlatform teams shipped smaller changes more often and measured the results.\n\n")
	}
	return b.String()
}

type fakeResearcher struct{ calls int }

func (r *fakeResearcher) Research(_ context.Context, category, _ string) *Research {
	r.calls++
	return &Research{
		Category:     category,
		TopHeadlines: []string{"Cluster outage at scale"},
		Sources:      []string{"https://news.example.com/outage"},
		Status:       ResearchStatusOK,
	}
}

type fakeWriter struct {
	writes  int
	revises int
	edits   [][]string
}

func (w *fakeWriter) Write(_ context.Context, res *Research) (*Draft, error) {
	w.writes++
	return &Draft{Title: "Draft 1", Content: longArticle("Draft 1"), Category: res.Category, Research: res, Status: StatusDraft}, nil
}

func (w *fakeWriter) Revise(_ context.Context, prev *Draft, edits []string) (*Draft, error) {
	w.revises++
	w.edits = append(w.edits, edits)
	d := *prev
	d.Title = "Revised"
	d.Status = StatusRevised
	return &d, nil
}

func (w *fakeWriter) calls() int { return w.writes + w.revises }

type scriptedCritic struct {
	scores []int
	calls  int
}

func (c *scriptedCritic) Evaluate(_ context.Context, _ *Draft) Critique {
	score := c.scores[len(c.scores)-1]
	if c.calls < len(c.scores) {
		score = c.scores[c.calls]
	}
	c.calls++
	return Critique{Score: score, Passed: Passes(score), RequiredEdits: []string{"add numbers"}}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e events.Event) {
	n.mu.Lock()
	n.events = append(n.events, e)
	n.mu.Unlock()
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		out = append(out, e.EventType())
	}
	return out
}

type harness struct {
	blogs      contract.BlogRepository
	collection *vectorstore.Collection
	clock      *fixedClock
	writer     *fakeWriter
	critic     *scriptedCritic
	notifier   *recordingNotifier
	service    *Service
}

func newHarness(t *testing.T, scores ...int) *harness {
	t.Helper()
	dir := t.TempDir()
	blogs, err := implementation.NewFileBlogRepository(filepath.Join(dir, "blogs"))
	require.NoError(t, err)

	log := logger.NewNopLogger()
	embedder := embedding.NewSafeEmbedder(embedding.NewHashProvider(64), embedding.TaskRetrievalDocument, log)
	collection := vectorstore.NewClient(vectorstore.NewMemoryStore()).GetOrCreate(vectorstore.CollectionBlogs, embedder)

	h := &harness{
		blogs:      blogs,
		collection: collection,
		clock:      &fixedClock{t: testNow},
		writer:     &fakeWriter{},
		critic:     &scriptedCritic{scores: scores},
		notifier:   &recordingNotifier{},
	}
	pipeline := NewPipeline(&fakeResearcher{}, h.writer, h.critic, h.notifier, log)
	publisher := NewPublisher(blogs, collection, "example.com", h.clock, log)
	cleaner := NewCleaner(blogs, collection, DefaultRetention, h.clock, log)
	rotation := NewRotation(filepath.Join(dir, "scheduler_state.json"), entity.DefaultBlogCategories, h.clock)
	h.service = NewService(pipeline, publisher, cleaner, rotation, nil, h.notifier, log)
	return h
}

func jsonFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	return matches
}

func TestPublishHappyPath(t *testing.T) {
	h := newHarness(t, 95)
	ctx := context.Background()

	draft, err := h.service.RunGenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cloud Computing", draft.Category)
	assert.Same(t, draft, h.service.Pending().Peek())

	blog, err := h.service.RunPublish(ctx)
	require.NoError(t, err)
	assert.Nil(t, h.service.Pending().Peek())

	files := jsonFiles(t, h.blogs.Dir())
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var stored entity.BlogArtifact
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.True(t, stored.Published)
	assert.Equal(t, draft.Title, stored.Title)
	assert.Equal(t, draft.Content, stored.Content)
	assert.Equal(t, draft.Category, stored.Category)

	stem := strings.TrimSuffix(filepath.Base(files[0]), ".json")
	assert.Equal(t, blog.Id, stem)
	assert.Equal(t, "Cloud-Computing_1773126000", stem)

	entries, err := h.collection.Get(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stem, entries[0].ID)
	assert.Equal(t, "https://example.com/blogs/"+stem, entries[0].Metadata["url"])

	assert.Equal(t, 1, h.writer.calls())
	assert.Equal(t, 1, h.critic.calls)
	assert.Contains(t, h.notifier.types(), events.TypeBlogPublished)
}

func TestPublishWithRevision(t *testing.T) {
	h := newHarness(t, 80, 95)

	blog, err := h.service.GenerateNow(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, h.writer.calls())
	assert.Equal(t, 1, h.writer.revises)
	assert.Equal(t, [][]string{{"add numbers"}}, h.writer.edits)
	assert.Equal(t, 2, h.critic.calls)
	assert.Equal(t, "Revised", blog.Title)
	assert.Len(t, jsonFiles(t, h.blogs.Dir()), 1)
}

func TestPipeline_RevisionLoopBounds(t *testing.T) {
	tests := []struct {
		name       string
		scores     []int
		wantErr    error
		wantCalls  int
		wantScore  int
		wantNotify bool
	}{
		{name: "passes first time", scores: []int{92}, wantCalls: 1, wantScore: 92},
		{name: "accepted at 90 after three", scores: []int{70, 85, 90}, wantCalls: 3, wantScore: 90},
		{name: "best draft kept", scores: []int{91, 60, 70}, wantCalls: 3, wantScore: 91},
		{name: "rejected below 90", scores: []int{70, 80, 89}, wantErr: ErrCriticRejected, wantCalls: 3, wantNotify: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			critic := &scriptedCritic{scores: tt.scores}
			notifier := &recordingNotifier{}
			p := NewPipeline(&fakeResearcher{}, writer, critic, notifier, logger.NewNopLogger())

			draft, err := p.Run(context.Background(), "DevOps", "")
			assert.Equal(t, tt.wantCalls, critic.calls)
			assert.LessOrEqual(t, critic.calls, MaxIterations)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, draft)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantScore, draft.Score)
				assert.Equal(t, StatusAccepted, draft.Status)
			}
			assert.Equal(t, tt.wantNotify, contains(notifier.types(), events.TypeBlogRejected))
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestRunPublish_EmptySlot(t *testing.T) {
	h := newHarness(t, 95)
	blog, err := h.service.RunPublish(context.Background())
	assert.ErrorIs(t, err, ErrNoPending)
	assert.Nil(t, blog)
	assert.Empty(t, jsonFiles(t, h.blogs.Dir()))
	assert.Contains(t, h.notifier.types(), events.TypePublishNoDraft)
}

func TestRunGenerate_FailureNotifies(t *testing.T) {
	h := newHarness(t, 10)
	_, err := h.service.RunGenerate(context.Background())
	assert.ErrorIs(t, err, ErrCriticRejected)
	assert.Nil(t, h.service.Pending().Peek())
	assert.Contains(t, h.notifier.types(), events.TypeBlogJobFailed)
}

func writeAgedBlog(t *testing.T, h *harness, id string, age time.Duration) {
	t.Helper()
	created := testNow.Add(-age)
	blog := &entity.BlogArtifact{
		Id:        id,
		Title:     id,
		Content:   "content " + id,
		Category:  "DevOps",
		CreatedAt: created.Format(time.RFC3339),
		Published: true,
	}
	require.NoError(t, h.blogs.Save(context.Background(), blog))
	require.NoError(t, os.Chtimes(filepath.Join(h.blogs.Dir(), id+".json"), created, created))
	require.NoError(t, h.collection.Upsert(context.Background(), []string{id}, []string{blog.Content}, nil, nil))
}

func TestCleanup_RetentionBoundary(t *testing.T) {
	h := newHarness(t, 95)
	ctx := context.Background()
	day := 24 * time.Hour

	writeAgedBlog(t, h, "DevOps_59", 59*day)
	writeAgedBlog(t, h, "DevOps_61", 61*day)

	deleted, err := h.service.RunCleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DevOps_61.json"}, deleted)

	files := jsonFiles(t, h.blogs.Dir())
	require.Len(t, files, 1)
	assert.Equal(t, "DevOps_59.json", filepath.Base(files[0]))

	entries, _ := h.collection.Get(ctx, nil, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "DevOps_59", entries[0].ID)

	again, err := h.service.RunCleanup(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestCleanup_RequiresBothAges(t *testing.T) {
	h := newHarness(t, 95)
	writeAgedBlog(t, h, "DevOps_touched", 90*24*time.Hour)
	// A touch refreshes the mtime but not created_at.
	require.NoError(t, os.Chtimes(filepath.Join(h.blogs.Dir(), "DevOps_touched.json"), testNow, testNow))

	deleted, err := h.service.RunCleanup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestRotation_RoundRobinPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "scheduler_state.json")
	cats := []string{"A", "B", "C"}
	clock := &fixedClock{t: testNow}

	r := NewRotation(path, cats, clock)
	peek, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, "A", peek)

	var got []string
	for i := 0; i < 4; i++ {
		c, err := r.Next()
		require.NoError(t, err)
		got = append(got, c)
	}
	assert.Equal(t, []string{"A", "B", "C", "A"}, got)

	reopened := NewRotation(path, cats, clock)
	next, err := reopened.Next()
	require.NoError(t, err)
	assert.Equal(t, "B", next)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st RotationState
	require.NoError(t, json.Unmarshal(data, &st))
	assert.Equal(t, 1, st.LastIndex)
	assert.Equal(t, testNow.Format(time.RFC3339), st.LastRun)
}

func TestResolveTopic(t *testing.T) {
	h := newHarness(t, 95)
	cat, focus := h.service.resolveTopic("devops")
	assert.Equal(t, "DevOps", cat)
	assert.Empty(t, focus)

	cat, focus = h.service.resolveTopic("WebAssembly at the edge")
	assert.Empty(t, cat)
	assert.Equal(t, "WebAssembly at the edge", focus)
}

func TestParseCritique(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantScore  int
		wantPassed bool
		wantErr    bool
	}{
		{name: "exactly 92 passes", reply: `{"score": 92, "passed": false}`, wantScore: 92, wantPassed: true},
		{name: "91 fails", reply: `{"score": 91, "passed": true}`, wantScore: 91},
		{name: "fenced with prose", reply: "Here you go:\n```json\n{\"score\": 95.4, \"feedback\": {\"hook\": 9}}\n```", wantScore: 95, wantPassed: true},
		{name: "clamped", reply: `{"score": 140}`, wantScore: 100, wantPassed: true},
		{name: "prose only", reply: "Looks great to me!", wantErr: true},
		{name: "broken json", reply: `{"score": }`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCritique(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 0, c.Score)
				assert.False(t, c.Passed)
				assert.NotEmpty(t, c.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, c.Score)
			assert.Equal(t, tt.wantPassed, c.Passed)
			assert.NotNil(t, c.RequiredEdits)
		})
	}
}

type fakeGateway struct {
	replies map[string]string
	errs    map[string]error
	models  []string
}

func (g *fakeGateway) Call(_ context.Context, req llm.Request) (string, error) {
	g.models = append(g.models, req.Model)
	if err := g.errs[req.Model]; err != nil {
		return "", err
	}
	return g.replies[req.Model], nil
}

func TestLLMWriter_TiersUntilLongEnough(t *testing.T) {
	gw := &fakeGateway{
		replies: map[string]string{
			"groq:short": "# Too short\n\nNope.",
			"groq:long":  "```markdown\n" + longArticle("Edge AI Gets Real") + "\n```",
		},
		errs: map[string]error{"openrouter:down": errors.New("503")},
	}
	w := NewLLMWriter(gw, []string{"openrouter:down", "groq:short", "groq:long", "gemini:unused"}, "", "", &fixedClock{t: testNow}, logger.NewNopLogger())

	draft, err := w.Write(context.Background(), &Research{Category: "AI and ML"})
	require.NoError(t, err)
	assert.Equal(t, []string{"openrouter:down", "groq:short", "groq:long"}, gw.models)
	assert.Equal(t, "groq:long", draft.ModelUsed)
	assert.Equal(t, "Edge AI Gets Real", draft.Title)
	assert.Equal(t, StatusDraft, draft.Status)
	assert.Equal(t, testNow, draft.GeneratedAt)
	assert.False(t, strings.HasPrefix(draft.Content, "```"))

	_, err = NewLLMWriter(gw, []string{"groq:short"}, "", "", nil, logger.NewNopLogger()).Write(context.Background(), &Research{})
	assert.ErrorIs(t, err, ErrNoWriterOutput)
}

func TestExtractTitleAndSummary(t *testing.T) {
	md := "Intro line\n\n# The **Real** Cost of `YAML`\n\nFirst paragraph with a [link](https://x.y) and\nmore text.\n\n## Next"
	assert.Equal(t, "The Real Cost of YAML", ExtractTitle(md))
	assert.Equal(t, "Intro line", Summarize(md))
	assert.Equal(t, "No heading here", ExtractTitle("\n\nNo heading here\n"))
}

func TestTagsAndID(t *testing.T) {
	assert.Equal(t, []string{"DevOps", "gitops", "pipelines", "scale"}, Tags("DevOps", "GitOps Pipelines at Scale"))
	assert.Equal(t, "Low-Code-No-Code_1", BlogID("Low-Code/No-Code", time.Unix(1, 0)))
}

type fakeSearch struct {
	queries []string
	params  []websearch.Params
	results func(q string) []websearch.Result
}

func (f *fakeSearch) Search(ctx context.Context, q string, n int) []websearch.Result {
	return f.SearchWithParams(ctx, q, websearch.Params{Num: n})
}

func (f *fakeSearch) SearchWithParams(_ context.Context, q string, p websearch.Params) []websearch.Result {
	f.queries = append(f.queries, q)
	f.params = append(f.params, p)
	return f.results(q)
}

func TestWebResearcher(t *testing.T) {
	search := &fakeSearch{results: func(q string) []websearch.Result {
		return []websearch.Result{
			{Title: "Headline for " + q, Link: "https://a.example/1", Snippet: "Snippet one."},
			{Title: "Duplicate", Link: "https://a.example/1"},
		}
	}}
	r := NewWebResearcher(search, nil, &fixedClock{t: testNow}, logger.NewNopLogger())

	res := r.Research(context.Background(), "Cybersecurity", "")
	require.Len(t, search.queries, 2)
	assert.Equal(t, "latest Cybersecurity trends 2026 technology breakthroughs", search.queries[0])
	assert.Equal(t, "week", search.params[0].Recency)
	assert.Equal(t, "major Cybersecurity failures or success stories 2026", search.queries[1])
	assert.Equal(t, ResearchStatusOK, res.Status)
	assert.Equal(t, []string{"https://a.example/1"}, res.Sources)
	assert.Len(t, res.TopHeadlines, 1)

	fallback := NewWebResearcher(&fakeSearch{results: func(q string) []websearch.Result {
		return []websearch.Result{websearch.Placeholder(q)}
	}}, nil, &fixedClock{t: testNow}, logger.NewNopLogger())
	res = fallback.Research(context.Background(), "DevOps", "")
	assert.Equal(t, ResearchStatusFallback, res.Status)
	assert.NotEmpty(t, res.TopHeadlines)
	assert.Empty(t, res.Sources)
}

type queryEmbedder struct{}

func (queryEmbedder) Embed(_ context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, 64)
		for j := range v {
			v[j] = 42
		}
		out[i] = v
	}
	return out
}

func (queryEmbedder) Dimension() int { return 64 }

func TestPublish_ChatRetrievalDoesNotChangeDocumentEmbedder(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()
	blogs, err := implementation.NewFileBlogRepository(t.TempDir())
	require.NoError(t, err)

	docEmbedder := embedding.NewSafeEmbedder(embedding.NewHashProvider(64), embedding.TaskRetrievalDocument, log)
	vectors := vectorstore.NewClient(vectorstore.NewMemoryStore())
	collection := vectors.GetOrCreate(vectorstore.CollectionBlogs, docEmbedder)

	rag.NewRetriever(vectors, queryEmbedder{}, nil, log).BuildContext(ctx, "Latest blog?")

	publisher := NewPublisher(blogs, collection, "example.com", &fixedClock{t: testNow}, log)
	draft := &Draft{Title: "Cluster outage", Content: longArticle("Cluster outage"), Category: "DevOps"}
	blog, _, err := publisher.Publish(ctx, draft)
	require.NoError(t, err)

	stored, err := collection.Get(ctx, []string{blog.Id}, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, docEmbedder.Embed(ctx, []string{blog.Content})[0], stored[0].Embedding)
}

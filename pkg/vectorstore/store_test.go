package vectorstore

import (
	"context"
	"testing"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient(NewMemoryStore())
}

func hashEmbedder() embedding.Embedder {
	return embedding.NewSafeEmbedder(embedding.NewHashProvider(64), "", logger.NewNopLogger())
}

func TestCollection_QueryOrdersByScoreThenInsertion(t *testing.T) {
	ctx := context.Background()
	col := newTestClient().GetOrCreate("Projects_data", hashEmbedder())
	assert.Equal(t, CollectionProjects, col.Name())

	err := col.Upsert(ctx,
		[]string{"b", "a", "c"},
		[]string{"x", "x", "y"},
		nil,
		[][]float32{{1, 0}, {1, 0}, {0, 1}},
	)
	require.NoError(t, err)

	res, err := col.Query(ctx, nil, [][]float32{{1, 0}}, 3, nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Len(t, res[0], 3)
	assert.Equal(t, "b", res[0][0].ID, "equal scores keep insertion order")
	assert.Equal(t, "a", res[0][1].ID)
	assert.Equal(t, "c", res[0][2].ID)

	// Overwriting keeps the original position.
	require.NoError(t, col.Upsert(ctx, []string{"b"}, []string{"x2"}, nil, [][]float32{{1, 0}}))
	res, _ = col.Query(ctx, nil, [][]float32{{1, 0}}, 2, nil)
	assert.Equal(t, "b", res[0][0].ID)
	assert.Equal(t, "x2", res[0][0].Document)

	count, _ := col.Count(ctx)
	assert.EqualValues(t, 3, count)
}

func TestCollection_UpsertEmbedsWhenNil(t *testing.T) {
	ctx := context.Background()
	col := newTestClient().GetOrCreate(CollectionBlogs, hashEmbedder())

	require.NoError(t, col.Upsert(ctx,
		[]string{"devops_1", "ai_2"},
		[]string{"kubernetes deployment pipelines", "neural network training"},
		[]map[string]interface{}{{"category": "DevOps"}, {"category": "AI and ML"}},
		nil,
	))

	res, err := col.Query(ctx, []string{"kubernetes pipelines"}, nil, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "devops_1", res[0][0].ID)

	filtered, err := col.Query(ctx, []string{"kubernetes pipelines"}, nil, 5, Where{"category": "AI and ML"})
	require.NoError(t, err)
	require.Len(t, filtered[0], 1)
	assert.Equal(t, "ai_2", filtered[0][0].ID)
}

func TestCollection_UpsertLengthMismatch(t *testing.T) {
	col := newTestClient().GetOrCreate(CollectionBlogs, hashEmbedder())
	err := col.Upsert(context.Background(), []string{"a"}, []string{"x", "y"}, nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestCollection_GetDeleteAndReset(t *testing.T) {
	ctx := context.Background()
	cl := newTestClient()
	col := cl.GetOrCreate(CollectionPortfolio, hashEmbedder())

	require.NoError(t, col.Upsert(ctx,
		[]string{"personal_info", "skill_cloud", "exp_0"},
		[]string{"a", "b", "c"},
		[]map[string]interface{}{{"type": "personal_info"}, {"type": "skill"}, {"type": "experience"}},
		nil,
	))

	got, err := col.Get(ctx, []string{"exp_0", "missing"}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)

	all, _ := col.Get(ctx, nil, nil)
	require.Len(t, all, 3)
	assert.Equal(t, "personal_info", all[0].ID)

	require.NoError(t, col.Delete(ctx, nil, Where{"type": "skill"}))
	count, _ := col.Count(ctx)
	assert.EqualValues(t, 2, count)

	require.NoError(t, col.Delete(ctx, []string{"exp_0"}, nil))
	count, _ = col.Count(ctx)
	assert.EqualValues(t, 1, count)

	require.NoError(t, cl.Reset(ctx, CollectionPortfolio))
	count, _ = col.Count(ctx)
	assert.Zero(t, count)
}

func TestWhere_MatchesNumbersByValue(t *testing.T) {
	assert.True(t, Where{"n": 3}.Matches(map[string]interface{}{"n": float64(3)}))
	assert.False(t, Where{"n": 3}.Matches(map[string]interface{}{}))
	assert.True(t, Where{}.Matches(nil))
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, CollectionBlogs, CanonicalName("Blogs_data"))
	assert.Equal(t, CollectionProjects, CanonicalName("projects"))
	assert.Equal(t, "other", CanonicalName("other"))
}

type constEmbedder struct{ v float32 }

func (e constEmbedder) Embed(_ context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{e.v, e.v}
	}
	return out
}

func (e constEmbedder) Dimension() int { return 2 }

func TestClient_GetOrCreateKeepsFirstEmbedder(t *testing.T) {
	ctx := context.Background()
	cl := newTestClient()
	docs := cl.GetOrCreate(CollectionBlogs, constEmbedder{v: 1})

	again := cl.GetOrCreate("Blogs_data", constEmbedder{v: 9})
	assert.Same(t, docs, again)
	assert.Same(t, docs, cl.Lookup(CollectionBlogs))

	require.NoError(t, again.Upsert(ctx, []string{"a"}, []string{"text"}, nil, nil))
	got, err := docs.Get(ctx, []string{"a"}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float32{1, 1}, got[0].Embedding)
}

func TestCollection_UpsertWithoutEmbedder(t *testing.T) {
	col := newTestClient().Lookup(CollectionPortfolio)
	err := col.Upsert(context.Background(), []string{"a"}, []string{"x"}, nil, nil)
	assert.ErrorIs(t, err, ErrNoEmbedder)

	require.NoError(t, col.Upsert(context.Background(), []string{"a"}, []string{"x"}, nil, [][]float32{{1, 0}}))
}

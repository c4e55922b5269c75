package implementation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"portfolio-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBlogRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileBlogRepository(t.TempDir())
	require.NoError(t, err)

	older := &entity.BlogArtifact{Id: "DevOps_100", Title: "Old", Category: "DevOps", CreatedAt: "2025-01-01T00:00:00Z", Published: true}
	newer := &entity.BlogArtifact{Id: "DevOps_200", Title: "New", Category: "DevOps", CreatedAt: "2025-02-01T00:00:00", Published: true}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "broken.json"), []byte("{"), 0o644))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2, "broken files are skipped")
	assert.Equal(t, "New", all[0].Title)

	got, err := repo.FindByID(ctx, "DevOps_100")
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Title)

	missing, err := repo.FindByID(ctx, "../etc/passwd")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	files, err := repo.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	deleted, err := repo.Delete(ctx, "DevOps_100")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, "DevOps_100")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBlogArtifact_CreatedTime(t *testing.T) {
	b := entity.BlogArtifact{CreatedAt: "2025-03-04T05:06:07.123456"}
	ts, ok := b.CreatedTime()
	require.True(t, ok)
	assert.Equal(t, 2025, ts.Year())

	_, ok = (&entity.BlogArtifact{CreatedAt: "yesterday"}).CreatedTime()
	assert.False(t, ok)
}

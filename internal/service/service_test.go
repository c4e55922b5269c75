package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/memory"
	"portfolio-be/pkg/embedding"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/ingest"
	"portfolio-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newProjectIndex() *vectorstore.Collection {
	embedder := embedding.NewSafeEmbedder(embedding.NewHashProvider(64), "", logger.NewNopLogger())
	return vectorstore.NewClient(vectorstore.NewMemoryStore()).GetOrCreate(vectorstore.CollectionProjects, embedder)
}

func strPtr(s string) *string { return &s }

func TestProjectService_CreateSanitizesAndIndexes(t *testing.T) {
	ctx := context.Background()
	index := newProjectIndex()
	svc := NewProjectService(memory.NewProjectRepository(), nil, index, logger.NewNopLogger())

	res, err := svc.Create(ctx, &dto.CreateProjectRequest{
		Name:         "<b>Cloud</b> Cost Tracker",
		Summary:      "Tracks spend<script>alert(1)</script>",
		Technologies: []string{"Go, AWS Lambda", " Terraform "},
	}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Id)
	assert.NotContains(t, res.Name, "<b>")
	assert.NotContains(t, res.Summary, "<script>")
	assert.Equal(t, res.Name, res.Title, "title defaults to name")
	assert.Equal(t, []string{"Go", "AWS Lambda", "Terraform"}, res.Technologies)
	assert.False(t, res.Timestamp.IsZero())

	entries, err := index.Get(ctx, []string{res.Id}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Document, "AWS Lambda")
}

func TestProjectService_UpdateReindexesAndDeleteDropsVector(t *testing.T) {
	ctx := context.Background()
	index := newProjectIndex()
	svc := NewProjectService(memory.NewProjectRepository(), nil, index, logger.NewNopLogger())

	created, err := svc.Create(ctx, &dto.CreateProjectRequest{Name: "Tracker", Summary: "Tracks spend"}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.Id, &dto.UpdateProjectRequest{Role: strPtr("Lead engineer")})
	require.NoError(t, err)
	assert.Equal(t, "Lead engineer", updated.Role)
	assert.Equal(t, "Tracker", updated.Name)

	entries, _ := index.Get(ctx, []string{created.Id}, nil)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Document, "Role: Lead engineer")

	require.NoError(t, svc.Delete(ctx, created.Id))
	count, _ := index.Count(ctx)
	assert.Zero(t, count)
}

func TestProjectService_UpdateCaseStudyFields(t *testing.T) {
	ctx := context.Background()
	index := newProjectIndex()
	svc := NewProjectService(memory.NewProjectRepository(), nil, index, logger.NewNopLogger())

	created, err := svc.Create(ctx, &dto.CreateProjectRequest{Name: "Tracker", Summary: "Tracks spend"}, nil)
	require.NoError(t, err)

	teamSize := 4
	updated, err := svc.Update(ctx, created.Id, &dto.UpdateProjectRequest{
		TeamSize:     &teamSize,
		Challenges:   &[]string{"Lambda cold starts<script>x</script>"},
		Solutions:    &[]string{"Provisioned concurrency"},
		Achievements: &[]string{"Cut p99 latency by 60%"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.TeamSize)
	assert.Equal(t, []string{"Provisioned concurrency"}, updated.Solutions)
	assert.Equal(t, []string{"Cut p99 latency by 60%"}, updated.Achievements)
	require.Len(t, updated.Challenges, 1)
	assert.NotContains(t, updated.Challenges[0], "<script>")
	assert.Equal(t, "Tracker", updated.Name)

	entries, err := index.Get(ctx, []string{created.Id}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Document, "Provisioned concurrency")
	assert.Contains(t, entries[0].Document, "Cut p99 latency by 60%")
}

func TestProjectService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(memory.NewProjectRepository(), nil, nil, logger.NewNopLogger())

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = svc.Update(ctx, "missing", &dto.UpdateProjectRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrProjectNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOwnerService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewOwnerService(string(hash), "secret", pubSub, logger.NewNopLogger())

	_, err = svc.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	token, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, "admin", token.Claims.(jwt.MapClaims)["role"])

	unconfigured := NewOwnerService("", "", pubSub, logger.NewNopLogger())
	_, err = unconfigured.Login(context.Background(), "hunter2")
	assert.ErrorIs(t, err, ErrAdminNotConfigured)
}

type fakeSyncer struct {
	mu      sync.Mutex
	targets []string
	err     error
}

func (f *fakeSyncer) record(target string) (*ingest.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	if f.err != nil {
		return nil, f.err
	}
	return &ingest.Report{Collection: target, Total: 3}, nil
}

func (f *fakeSyncer) SyncPortfolio(context.Context) (*ingest.Report, error) {
	return f.record(SyncTargetPortfolio)
}

func (f *fakeSyncer) SyncProjects(context.Context) (*ingest.Report, error) {
	return f.record(SyncTargetProjects)
}

func (f *fakeSyncer) SyncBlogs(context.Context) (*ingest.Report, error) {
	return f.record(SyncTargetBlogs)
}

func (f *fakeSyncer) SyncAll(ctx context.Context) ([]*ingest.Report, error) {
	r, err := f.record(SyncTargetAll)
	if err != nil {
		return nil, err
	}
	return []*ingest.Report{r}, nil
}

func TestTriggerSync_ConsumerRunsAndNotifies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	received := make(chan events.Event, 4)
	notifier := events.NotifierFunc(func(_ context.Context, e events.Event) { received <- e })

	syncer := &fakeSyncer{}
	require.NoError(t, NewSyncConsumerService(pubSub, syncer, notifier, logger.NewNopLogger()).Consume(ctx))

	owner := NewOwnerService("", "", pubSub, logger.NewNopLogger())
	_, err := owner.TriggerSync(ctx, "bogus")
	assert.ErrorIs(t, err, ErrUnknownSyncTarget)

	res, err := owner.TriggerSync(ctx, SyncTargetProjects)
	require.NoError(t, err)
	assert.NotEmpty(t, res.JobId)

	select {
	case e := <-received:
		assert.Equal(t, events.TypeSyncCompleted, e.EventType())
		assert.Equal(t, res.JobId, e.Payload()["job_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("sync was not consumed")
	}

	syncer.err = errors.New("embedder down")
	_, err = owner.TriggerSync(ctx, SyncTargetAll)
	require.NoError(t, err)
	select {
	case e := <-received:
		assert.Equal(t, events.TypeSyncFailed, e.EventType())
	case <-time.After(2 * time.Second):
		t.Fatal("failed sync was not reported")
	}
}

func TestRunSync_UnknownTarget(t *testing.T) {
	_, err := RunSync(context.Background(), &fakeSyncer{}, "everything")
	assert.ErrorIs(t, err, ErrUnknownSyncTarget)

	reports, err := RunSync(context.Background(), &fakeSyncer{}, SyncTargetBlogs)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, SyncTargetBlogs, reports[0].Collection)
}

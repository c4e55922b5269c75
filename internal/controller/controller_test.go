package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/mailer"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/repository/implementation"
	"portfolio-be/internal/service"
	"portfolio-be/pkg/assistant"
	"portfolio-be/pkg/blogger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeResponder struct {
	reply   assistant.Reply
	session string
}

func (f *fakeResponder) Respond(_ context.Context, sessionID, _ string) assistant.Reply {
	f.session = sessionID
	return f.reply
}

type fakeProjects struct {
	items map[string]*dto.ProjectResponse
}

func (f *fakeProjects) List(context.Context) ([]*dto.ProjectResponse, error) {
	out := []*dto.ProjectResponse{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*dto.ProjectResponse, error) {
	if p, ok := f.items[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", service.ErrProjectNotFound, id)
}

func (f *fakeProjects) Create(_ context.Context, req *dto.CreateProjectRequest, _ *multipart.FileHeader) (*dto.ProjectResponse, error) {
	p := &dto.ProjectResponse{Id: "new", Name: req.Name, Summary: req.Summary}
	f.items[p.Id] = p
	return p, nil
}

func (f *fakeProjects) Update(ctx context.Context, id string, _ *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	return f.Get(ctx, id)
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("%w: %s", service.ErrProjectNotFound, id)
	}
	delete(f.items, id)
	return nil
}

type fakeMailer struct {
	err  error
	sent []mailer.ContactMessage
}

func (f *fakeMailer) SendContact(msg mailer.ContactMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeGenerator struct {
	blog  *entity.BlogArtifact
	err   error
	topic string
}

func (f *fakeGenerator) GenerateNow(_ context.Context, topic string) (*entity.BlogArtifact, error) {
	f.topic = topic
	return f.blog, f.err
}

func (f *fakeGenerator) RunCleanup(context.Context) ([]string, error) {
	return []string{"DevOps_1.json"}, nil
}

func newTestApp() *fiber.App {
	serverutils.RegisterNotFound(service.ErrProjectNotFound)
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := serverutils.IssueAdminToken(testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestChat_AnswersAndAssignsSession(t *testing.T) {
	bot := &fakeResponder{reply: assistant.Reply{Text: "Hello there", Source: "router-primary"}}
	app := newTestApp()
	NewChatController(bot).RegisterRoutes(app.Group("/api"))

	resp, body := doJSON(t, app, http.MethodPost, "/api/ask-all-u-bot", `{"message":"  hi  "}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello there", body["reply"])
	assert.Equal(t, "router-primary", body["source"])
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, bot.session, body["session_id"])

	_, body = doJSON(t, app, http.MethodPost, "/api/ask-all-u-bot", `{"message":"hi","session_id":"abc"}`, "")
	assert.Equal(t, "abc", body["session_id"])
}

func TestChat_RateLimitedReturns429(t *testing.T) {
	bot := &fakeResponder{reply: assistant.Reply{Text: "Slow down", RateLimited: true, WaitTime: 42}}
	app := newTestApp()
	NewChatController(bot).RegisterRoutes(app.Group("/api"))

	resp, body := doJSON(t, app, http.MethodPost, "/api/ask-all-u-bot", `{"message":"hi"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Slow down", body["reply"])
	assert.EqualValues(t, 42, body["wait_time"])
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	app := newTestApp()
	NewChatController(&fakeResponder{}).RegisterRoutes(app.Group("/api"))

	resp, body := doJSON(t, app, http.MethodPost, "/api/ask-all-u-bot", `{"message":"   "}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestProjects_PublicReadsAndAdminWrites(t *testing.T) {
	projects := &fakeProjects{items: map[string]*dto.ProjectResponse{
		"p1": {Id: "p1", Name: "Cloud Cost Tracker"},
	}}
	app := newTestApp()
	NewProjectController(projects).RegisterRoutes(app.Group("/api"), serverutils.JwtMiddleware(testSecret))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"get existing", http.MethodGet, "/api/projects/p1", "", "", http.StatusOK},
		{"get missing", http.MethodGet, "/api/projects/nope", "", "", http.StatusNotFound},
		{"create without token", http.MethodPost, "/api/projects", `{"name":"x","summary":"y"}`, "", http.StatusUnauthorized},
		{"create with bad token", http.MethodPost, "/api/projects", `{"name":"x","summary":"y"}`, "garbage", http.StatusUnauthorized},
		{"create invalid", http.MethodPost, "/api/projects", `{"summary":"y"}`, adminToken(t), http.StatusBadRequest},
		{"create", http.MethodPost, "/api/projects", `{"name":"x","summary":"y"}`, adminToken(t), http.StatusCreated},
		{"delete missing", http.MethodDelete, "/api/projects/nope", "", adminToken(t), http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/projects/p1", "", adminToken(t), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestProjects_ListReturnsBareArray(t *testing.T) {
	projects := &fakeProjects{items: map[string]*dto.ProjectResponse{"p1": {Id: "p1"}}}
	app := newTestApp()
	NewProjectController(projects).RegisterRoutes(app.Group("/api"), serverutils.JwtMiddleware(testSecret))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/projects", nil), -1)
	require.NoError(t, err)
	var list []dto.ProjectResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].Id)
}

func TestContact(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"sent", `{"name":"Ana","email":"ana@example.com","message":"Hello"}`, nil, http.StatusOK},
		{"bad email", `{"name":"Ana","email":"nope","message":"Hello"}`, nil, http.StatusBadRequest},
		{"missing message", `{"name":"Ana","email":"ana@example.com"}`, nil, http.StatusBadRequest},
		{"not configured", `{"name":"Ana","email":"ana@example.com","message":"Hello"}`, mailer.ErrNotConfigured, http.StatusServiceUnavailable},
		{"smtp failure", `{"name":"Ana","email":"ana@example.com","message":"Hello"}`, fmt.Errorf("dial: refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMailer{err: tt.err}
			app := newTestApp()
			NewContactController(m).RegisterRoutes(app.Group("/api"))

			resp, _ := doJSON(t, app, http.MethodPost, "/api/contact", tt.body, "")
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestContact_SanitizesMarkup(t *testing.T) {
	m := &fakeMailer{}
	app := newTestApp()
	NewContactController(m).RegisterRoutes(app.Group("/api"))

	doJSON(t, app, http.MethodPost, "/api/contact", `{"name":"<b>Ana</b>","email":"ana@example.com","message":"<script>x</script>Hi"}`, "")
	require.Len(t, m.sent, 1)
	assert.NotContains(t, m.sent[0].Name, "<b>")
	assert.NotContains(t, m.sent[0].Message, "<script>")
}

func TestBlogs(t *testing.T) {
	repo, err := implementation.NewFileBlogRepository(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), &entity.BlogArtifact{
		Id: "DevOps_1773126000", Title: "Pipelines", Category: "DevOps", CreatedAt: "2026-03-10T07:00:00Z", Published: true,
	}))

	gen := &fakeGenerator{err: fmt.Errorf("%w: score 80", blogger.ErrCriticRejected)}
	app := newTestApp()
	NewBlogController(repo, gen).RegisterRoutes(app.Group("/api"), serverutils.JwtMiddleware(testSecret))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blogs", nil), -1)
	require.NoError(t, err)
	var blogs []entity.BlogArtifact
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&blogs))
	require.Len(t, blogs, 1)
	assert.Equal(t, "Pipelines", blogs[0].Title)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/blogs/DevOps_1773126000", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/blogs/missing_1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/generate-blog", `{"topic":"DevOps"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/generate-blog", `{"topic":"DevOps"}`, adminToken(t))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "DevOps", gen.topic)

	gen.err = blogger.ErrNoWriterOutput
	resp, _ = doJSON(t, app, http.MethodPost, "/api/generate-blog", "", adminToken(t))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Empty(t, gen.topic)

	gen.err = nil
	gen.blog = &entity.BlogArtifact{Id: "AI-and-ML_1773126000", Title: "Agents"}
	resp, body := doJSON(t, app, http.MethodPost, "/api/generate-blog", `{}`, adminToken(t))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Agents", body["title"])

	resp, body = doJSON(t, app, http.MethodDelete, "/api/admin/blogs/cleanup", "", adminToken(t))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestHealth_ReportsDegradedDependencies(t *testing.T) {
	app := newTestApp()
	NewHealthController(map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"mongo":    func(context.Context) error { return fmt.Errorf("timeout") },
	}).RegisterRoutes(app.Group("/api"))

	resp, body := doJSON(t, app, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "ok", deps["postgres"])
	assert.Equal(t, "timeout", deps["mongo"])
}

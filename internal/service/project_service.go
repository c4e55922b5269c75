package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/pkg/ingest"
	"portfolio-be/pkg/sanitize"
	"portfolio-be/pkg/vectorstore"

	"github.com/google/uuid"
)

var ErrProjectNotFound = errors.New("project not found")

type IProjectService interface {
	List(ctx context.Context) ([]*dto.ProjectResponse, error)
	Get(ctx context.Context, id string) (*dto.ProjectResponse, error)
	Create(ctx context.Context, req *dto.CreateProjectRequest, image *multipart.FileHeader) (*dto.ProjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	repo     contract.ProjectRepository
	uploader ImageUploader
	index    *vectorstore.Collection
	logger   logger.ILogger
	now      func() time.Time
}

// NewProjectService keeps the projects collection in step with writes when
// index is non-nil. uploader may be nil, in which case images are rejected.
func NewProjectService(repo contract.ProjectRepository, uploader ImageUploader, index *vectorstore.Collection, log logger.ILogger) IProjectService {
	return &projectService{repo: repo, uploader: uploader, index: index, logger: log, now: time.Now}
}

func (s *projectService) List(ctx context.Context) ([]*dto.ProjectResponse, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return toProjectResponse(p), nil
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest, image *multipart.FileHeader) (*dto.ProjectResponse, error) {
	p := &entity.Project{
		Id:           uuid.New().String(),
		Name:         sanitize.Text(req.Name),
		Title:        sanitize.Text(req.Title),
		Summary:      sanitize.Text(req.Summary),
		Description:  sanitize.HTML(req.Description),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Technologies: sanitize.TextList(splitList(req.Technologies)),
		Outcomes:     sanitize.Text(req.Outcomes),
		GithubURL:    strings.TrimSpace(req.GithubURL),
		LiveURL:      strings.TrimSpace(req.LiveURL),
		Category:     sanitize.Text(req.Category),
		Role:         sanitize.Text(req.Role),
		Duration:     sanitize.Text(req.Duration),
		TeamSize:     req.TeamSize,
		Challenges:   sanitize.TextList(req.Challenges),
		Solutions:    sanitize.TextList(req.Solutions),
		Achievements: sanitize.TextList(req.Achievements),
		Timestamp:    s.now().UTC(),
	}
	if p.Title == "" {
		p.Title = p.Name
	}
	if p.Description == "" {
		p.Description = p.Summary
	}

	if image != nil {
		if s.uploader == nil {
			return nil, ErrInvalidImage
		}
		url, err := s.uploader.Upload(ctx, image)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.reindex(ctx, p)

	s.logger.Info(logger.ModuleProjects, "Project created", map[string]interface{}{"id": p.Id, "name": p.Name})
	return toProjectResponse(p), nil
}

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	fields := map[string]interface{}{}
	setText := func(key string, v *string) {
		if v != nil {
			fields[key] = sanitize.Text(*v)
		}
	}
	setText("name", req.Name)
	setText("title", req.Title)
	setText("summary", req.Summary)
	setText("outcomes", req.Outcomes)
	setText("category", req.Category)
	setText("role", req.Role)
	setText("duration", req.Duration)
	if req.Description != nil {
		fields["description"] = sanitize.HTML(*req.Description)
	}
	if req.Technologies != nil {
		fields["technologies"] = sanitize.TextList(splitList(*req.Technologies))
	}
	if req.TeamSize != nil {
		fields["team_size"] = *req.TeamSize
	}
	setList := func(key string, v *[]string) {
		if v != nil {
			fields[key] = sanitize.TextList(*v)
		}
	}
	setList("challenges", req.Challenges)
	setList("solutions", req.Solutions)
	setList("achievements", req.Achievements)
	if req.GithubURL != nil {
		fields["github_url"] = strings.TrimSpace(*req.GithubURL)
	}
	if req.LiveURL != nil {
		fields["live_url"] = strings.TrimSpace(*req.LiveURL)
	}
	if req.ImageURL != nil {
		fields["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	fields["timestamp"] = s.now().UTC()

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	s.reindex(ctx, p)
	return toProjectResponse(p), nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}

	if s.index != nil && p != nil {
		if err := s.index.Delete(ctx, []string{p.Id}, nil); err != nil {
			s.logger.Warn(logger.ModuleProjects, "Failed to drop project vector", map[string]interface{}{
				"id":    p.Id,
				"error": err.Error(),
			})
		}
	}
	s.logger.Info(logger.ModuleProjects, "Project deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *projectService) reindex(ctx context.Context, p *entity.Project) {
	if s.index == nil {
		return
	}
	rec := ingest.ProjectRecord(p)
	err := s.index.Upsert(ctx, []string{rec.ID}, []string{rec.Document}, []map[string]interface{}{rec.Metadata}, nil)
	if err != nil {
		s.logger.Warn(logger.ModuleProjects, "Failed to index project", map[string]interface{}{
			"id":    p.Id,
			"error": err.Error(),
		})
	}
}

// splitList accepts repeated form values as well as one comma separated value.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	technologies := p.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return &dto.ProjectResponse{
		Id:           p.Id,
		Name:         p.Name,
		Title:        p.Title,
		Summary:      p.Summary,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Technologies: technologies,
		Outcomes:     p.Outcomes,
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		Category:     p.Category,
		Role:         p.Role,
		Duration:     p.Duration,
		TeamSize:     p.TeamSize,
		Challenges:   p.Challenges,
		Solutions:    p.Solutions,
		Achievements: p.Achievements,
		Timestamp:    p.Timestamp,
	}
}

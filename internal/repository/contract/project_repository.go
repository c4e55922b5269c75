package contract

import (
	"context"

	"portfolio-be/internal/entity"
)

// ProjectRepository is the authoritative project store. Finders return
// (nil, nil) when nothing matches.
type ProjectRepository interface {
	FindAll(ctx context.Context) ([]*entity.Project, error)
	FindByID(ctx context.Context, id string) (*entity.Project, error)
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

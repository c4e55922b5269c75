package contract

import (
	"context"

	"portfolio-be/internal/entity"
)

// BlogRepository stores blog artifacts as JSON files in one directory.
type BlogRepository interface {
	// FindAll skips unreadable files and orders newest first.
	FindAll(ctx context.Context) ([]*entity.BlogArtifact, error)
	FindByID(ctx context.Context, id string) (*entity.BlogArtifact, error)
	// Save overwrites any existing file for the same id.
	Save(ctx context.Context, blog *entity.BlogArtifact) error
	Delete(ctx context.Context, id string) (bool, error)
	ListFiles(ctx context.Context) ([]entity.BlogFile, error)
	Dir() string
}

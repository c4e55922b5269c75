package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/repository/contract"
)

type fileBlogRepository struct {
	dir string
}

func NewFileBlogRepository(dir string) (contract.BlogRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blogs dir: %w", err)
	}
	return &fileBlogRepository{dir: dir}, nil
}

func (r *fileBlogRepository) Dir() string { return r.dir }

func (r *fileBlogRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

// validID rejects ids that would escape the blogs directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func (r *fileBlogRepository) read(path string) (*entity.BlogArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var blog entity.BlogArtifact
	if err := json.Unmarshal(data, &blog); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if blog.Id == "" {
		blog.Id = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &blog, nil
}

func (r *fileBlogRepository) FindAll(ctx context.Context) ([]*entity.BlogArtifact, error) {
	files, err := r.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.BlogArtifact, 0, len(files))
	for _, f := range files {
		blog, err := r.read(filepath.Join(r.dir, f.Name))
		if err != nil {
			continue
		}
		out = append(out, blog)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].CreatedTime()
		tj, _ := out[j].CreatedTime()
		return ti.After(tj)
	})
	return out, nil
}

func (r *fileBlogRepository) FindByID(ctx context.Context, id string) (*entity.BlogArtifact, error) {
	if !validID(id) {
		return nil, nil
	}
	blog, err := r.read(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return blog, nil
}

func (r *fileBlogRepository) Save(ctx context.Context, blog *entity.BlogArtifact) error {
	if !validID(blog.Id) {
		return fmt.Errorf("invalid blog id %q", blog.Id)
	}
	data, err := json.MarshalIndent(blog, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path(blog.Id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path(blog.Id))
}

func (r *fileBlogRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	err := os.Remove(r.path(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *fileBlogRepository) ListFiles(ctx context.Context) ([]entity.BlogFile, error) {
	dirEntries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.BlogFile{}, nil
		}
		return nil, err
	}
	out := make([]entity.BlogFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, entity.BlogFile{
			Name:    de.Name(),
			Id:      strings.TrimSuffix(de.Name(), ".json"),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

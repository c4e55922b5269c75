package memory

import (
	"context"
	"sort"
	"sync"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/repository/contract"

	"go.mongodb.org/mongo-driver/bson"
)

// ProjectRepository is the record store used when MONGO_URI is unset and in tests.
// Documents go through the same bson mapper as the Mongo implementation.
type ProjectRepository struct {
	mu     sync.RWMutex
	docs   []bson.M
	mapper *mapper.ProjectMapper
}

var _ contract.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(seed ...bson.M) *ProjectRepository {
	return &ProjectRepository{docs: seed, mapper: mapper.NewProjectMapper()}
}

func (r *ProjectRepository) indexOf(id string) int {
	for i, doc := range r.docs {
		if r.mapper.ToEntity(doc).Id == id {
			return i
		}
	}
	return -1
}

func (r *ProjectRepository) FindAll(_ context.Context) ([]*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Project, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, r.mapper.ToEntity(doc))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id string) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.mapper.ToEntity(r.docs[i]), nil
	}
	return nil, nil
}

func (r *ProjectRepository) Create(_ context.Context, project *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, r.mapper.ToDocument(project))
	return nil
}

func (r *ProjectRepository) Update(_ context.Context, id string, fields map[string]interface{}) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	for k, v := range fields {
		r.docs[i][k] = v
	}
	return r.mapper.ToEntity(r.docs[i]), nil
}

func (r *ProjectRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
	return true, nil
}

func (r *ProjectRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

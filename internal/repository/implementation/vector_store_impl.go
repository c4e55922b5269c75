package implementation

import (
	"context"
	"fmt"

	"portfolio-be/internal/mapper"
	"portfolio-be/internal/model"
	"portfolio-be/internal/repository/specification"
	"portfolio-be/pkg/vectorstore"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PgVectorStore keeps every collection in one pgvector table.
type PgVectorStore struct {
	db     *gorm.DB
	mapper *mapper.VectorEntryMapper
}

var _ vectorstore.Store = (*PgVectorStore)(nil)

func NewPgVectorStore(db *gorm.DB) *PgVectorStore {
	return &PgVectorStore{
		db:     db,
		mapper: mapper.NewVectorEntryMapper(),
	}
}

func (r *PgVectorStore) Upsert(ctx context.Context, collection string, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]*model.VectorEntry, 0, len(entries))
	for _, e := range entries {
		m, err := r.mapper.ToModel(collection, e)
		if err != nil {
			return fmt.Errorf("map entry %s: %w", e.ID, err)
		}
		models = append(models, m)
	}

	// Seq is left untouched on conflict so overwritten rows keep their position.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "entry_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "metadata", "embedding", "updated_at"}),
	}).Create(&models).Error
}

func (r *PgVectorStore) Query(ctx context.Context, collection string, embedding []float32, n int, where vectorstore.Where) ([]vectorstore.Match, error) {
	if n <= 0 {
		n = 5
	}

	type result struct {
		model.VectorEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)
	query := r.db.WithContext(ctx).
		Table("vector_entries").
		Select("vector_entries.*, 1 - (embedding <=> ?) as similarity", queryVector)
	query = specification.Apply(query,
		specification.ByCollection{Name: collection},
		specification.MetadataEquals{Filters: where},
	)

	err := query.
		Order("similarity DESC").
		Order("seq ASC").
		Limit(n).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, len(results))
	for i := range results {
		matches[i] = vectorstore.Match{
			Entry: r.mapper.ToEntry(&results[i].VectorEntry),
			Score: results[i].Similarity,
		}
	}
	return matches, nil
}

func (r *PgVectorStore) Get(ctx context.Context, collection string, ids []string, where vectorstore.Where) ([]vectorstore.Entry, error) {
	var models []model.VectorEntry
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.VectorEntry{}),
		specification.ByCollection{Name: collection},
		specification.ByEntryIDs{IDs: ids},
		specification.MetadataEquals{Filters: where},
		specification.OrderBy{Field: "seq"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]vectorstore.Entry, len(models))
	for i := range models {
		entries[i] = r.mapper.ToEntry(&models[i])
	}
	return entries, nil
}

func (r *PgVectorStore) Delete(ctx context.Context, collection string, ids []string, where vectorstore.Where) error {
	if len(ids) == 0 && len(where) == 0 {
		return nil
	}
	query := specification.Apply(r.db.WithContext(ctx),
		specification.ByCollection{Name: collection},
		specification.ByEntryIDs{IDs: ids},
		specification.MetadataEquals{Filters: where},
	)
	return query.Delete(&model.VectorEntry{}).Error
}

func (r *PgVectorStore) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.VectorEntry{}),
		specification.ByCollection{Name: collection},
	)
	err := query.Count(&count).Error
	return count, err
}

func (r *PgVectorStore) DeleteCollection(ctx context.Context, collection string) error {
	return r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Delete(&model.VectorEntry{}).Error
}

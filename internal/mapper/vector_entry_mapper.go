package mapper

import (
	"encoding/json"

	"portfolio-be/internal/model"
	"portfolio-be/pkg/vectorstore"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type VectorEntryMapper struct{}

func NewVectorEntryMapper() *VectorEntryMapper {
	return &VectorEntryMapper{}
}

func (m *VectorEntryMapper) ToEntry(v *model.VectorEntry) vectorstore.Entry {
	if v == nil {
		return vectorstore.Entry{}
	}

	metadata := map[string]interface{}{}
	if len(v.Metadata) > 0 {
		_ = json.Unmarshal(v.Metadata, &metadata)
	}

	return vectorstore.Entry{
		ID:        v.EntryId,
		Document:  v.Document,
		Metadata:  metadata,
		Embedding: v.Embedding.Slice(),
		Seq:       v.Seq,
	}
}

func (m *VectorEntryMapper) ToModel(collection string, e vectorstore.Entry) (*model.VectorEntry, error) {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	return &model.VectorEntry{
		Collection: collection,
		EntryId:    e.ID,
		Document:   e.Document,
		Metadata:   datatypes.JSON(raw),
		Embedding:  pgvector.NewVector(e.Embedding),
	}, nil
}

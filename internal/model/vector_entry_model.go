package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// VectorEntry is one row of a retrieval collection. Seq is a bigserial that
// survives overwrites and orders equal-similarity results.
type VectorEntry struct {
	Seq        int64           `gorm:"primaryKey;autoIncrement"`
	Collection string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_vector_entries_collection_entry"`
	EntryId    string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_vector_entries_collection_entry"`
	Document   string          `gorm:"type:text"`
	Metadata   datatypes.JSON  `gorm:"type:jsonb"`
	Embedding  pgvector.Vector `gorm:"type:vector"` // dimension varies per embedder
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (VectorEntry) TableName() string {
	return "vector_entries"
}

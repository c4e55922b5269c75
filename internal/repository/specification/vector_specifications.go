package specification

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ByCollection scopes vector rows to one collection.
type ByCollection struct {
	Name string
}

func (s ByCollection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection = ?", s.Name)
}

// ByEntryIDs filters by logical entry ids. An empty list is a no-op.
type ByEntryIDs struct {
	IDs []string
}

func (s ByEntryIDs) Apply(db *gorm.DB) *gorm.DB {
	if len(s.IDs) == 0 {
		return db
	}
	return db.Where("entry_id IN ?", s.IDs)
}

// MetadataEquals matches jsonb metadata keys by their text value.
type MetadataEquals struct {
	Filters map[string]interface{}
}

func (s MetadataEquals) Apply(db *gorm.DB) *gorm.DB {
	for key, value := range s.Filters {
		db = db.Where(datatypes.JSONQuery("metadata").Equals(fmt.Sprint(value), key))
	}
	return db
}

package entity

import (
	"strings"
	"time"
)

// DefaultBlogCategories is the fixed, ordered category list. The scheduler
// round-robins over it and ingestion rejects anything outside it.
var DefaultBlogCategories = []string{
	"Cloud Computing",
	"DevOps",
	"AI and ML",
	"Low-Code/No-Code",
	"Software Development",
	"Cybersecurity",
}

// BlogArtifact is the on-disk blog format, one JSON file per id.
type BlogArtifact struct {
	Id        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Summary   string   `json:"summary"`
	CreatedAt string   `json:"created_at"`
	Sources   []string `json:"sources"`
	Published bool     `json:"published"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CreatedTime parses CreatedAt. Timestamps without a zone are read as UTC.
func (b *BlogArtifact) CreatedTime() (time.Time, bool) {
	raw := strings.TrimSpace(b.CreatedAt)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsAllowedCategory reports whether category is in allowed (exact match).
func IsAllowedCategory(category string, allowed []string) bool {
	for _, c := range allowed {
		if c == category {
			return true
		}
	}
	return false
}

// BlogFile is a directory listing entry for the blogs directory.
type BlogFile struct {
	Name    string
	Id      string
	ModTime time.Time
}

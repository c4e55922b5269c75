package mapper

import (
	"fmt"
	"strings"
	"time"

	"portfolio-be/internal/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectMapper converts loosely shaped Mongo documents into projects.
// Older documents used different field names, so every read goes through
// the alias rules below.
type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(doc bson.M) *entity.Project {
	if doc == nil {
		return nil
	}

	p := &entity.Project{
		Id:           firstString(doc, "id", "slug"),
		Name:         firstString(doc, "name", "title"),
		Title:        firstString(doc, "title", "name"),
		Summary:      firstString(doc, "summary", "description", "short_description"),
		Description:  firstString(doc, "description", "summary", "details"),
		ImageURL:     firstString(doc, "image_url", "image", "imageUrl"),
		Technologies: stringList(doc, "technologies", "tech_stack", "tags"),
		Outcomes:     firstString(doc, "outcomes", "outcome"),
		GithubURL:    firstString(doc, "github_url", "github"),
		LiveURL:      firstString(doc, "live_url", "live", "demo_url"),
		Category:     firstString(doc, "category"),
		Role:         firstString(doc, "role"),
		Duration:     firstString(doc, "duration"),
		TeamSize:     intValue(doc["team_size"]),
		Challenges:   stringList(doc, "challenges"),
		Solutions:    stringList(doc, "solutions"),
		Achievements: stringList(doc, "achievements"),
		Timestamp:    timeValue(doc, "timestamp", "created_at"),
	}

	if p.Id == "" {
		if oid, ok := doc["_id"].(primitive.ObjectID); ok {
			p.Id = oid.Hex()
		}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p
}

func (m *ProjectMapper) ToDocument(p *entity.Project) bson.M {
	return bson.M{
		"id":           p.Id,
		"name":         p.Name,
		"title":        p.Title,
		"summary":      p.Summary,
		"description":  p.Description,
		"image_url":    p.ImageURL,
		"technologies": p.Technologies,
		"outcomes":     p.Outcomes,
		"github_url":   p.GithubURL,
		"live_url":     p.LiveURL,
		"category":     p.Category,
		"role":         p.Role,
		"duration":     p.Duration,
		"team_size":    p.TeamSize,
		"challenges":   p.Challenges,
		"solutions":    p.Solutions,
		"achievements": p.Achievements,
		"timestamp":    p.Timestamp,
	}
}

func firstString(doc bson.M, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			s := strings.TrimSpace(fmt.Sprint(v))
			if s != "" {
				return s
			}
		}
	}
	return ""
}

func stringList(doc bson.M, keys ...string) []string {
	for _, k := range keys {
		v, ok := doc[k]
		if !ok || v == nil {
			continue
		}
		var out []string
		switch t := v.(type) {
		case []string:
			out = t
		case bson.A:
			out = toStrings(t)
		case []interface{}:
			out = toStrings(t)
		case string:
			for _, part := range strings.Split(t, ",") {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func toStrings(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intValue(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func timeValue(doc bson.M, keys ...string) time.Time {
	for _, k := range keys {
		switch t := doc[k].(type) {
		case time.Time:
			return t.UTC()
		case primitive.DateTime:
			return t.Time().UTC()
		case string:
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				return parsed.UTC()
			}
		}
	}
	return time.Time{}
}

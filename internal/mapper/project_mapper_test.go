package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProjectMapper_AliasNormalization(t *testing.T) {
	m := NewProjectMapper()
	oid := primitive.NewObjectID()

	tests := []struct {
		name string
		doc  bson.M
		want func(t *testing.T, id, name, title, summary, description string)
	}{
		{
			name: "name only fills title",
			doc:  bson.M{"_id": oid, "name": "Infra Bot", "description": "<p>Long</p>"},
			want: func(t *testing.T, id, name, title, summary, description string) {
				assert.Equal(t, oid.Hex(), id)
				assert.Equal(t, "Infra Bot", name)
				assert.Equal(t, "Infra Bot", title)
				assert.Equal(t, "<p>Long</p>", summary)
				assert.Equal(t, "<p>Long</p>", description)
			},
		},
		{
			name: "title and summary only",
			doc:  bson.M{"id": "infra-bot", "title": "Infra Bot", "summary": "Short"},
			want: func(t *testing.T, id, name, title, summary, description string) {
				assert.Equal(t, "infra-bot", id)
				assert.Equal(t, "Infra Bot", name)
				assert.Equal(t, "Short", description)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := m.ToEntity(tt.doc)
			tt.want(t, p.Id, p.Name, p.Title, p.Summary, p.Description)
		})
	}
}

func TestProjectMapper_ListsAndTimes(t *testing.T) {
	m := NewProjectMapper()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	p := m.ToEntity(bson.M{
		"id":         "x",
		"tech_stack": "Go, Terraform ,",
		"challenges": bson.A{"scale", nil, ""},
		"team_size":  int32(4),
		"created_at": ts.Format(time.RFC3339),
	})
	assert.Equal(t, []string{"Go", "Terraform"}, p.Technologies)
	assert.Equal(t, []string{"scale"}, p.Challenges)
	assert.Equal(t, 4, p.TeamSize)
	assert.True(t, ts.Equal(p.Timestamp))

	empty := m.ToEntity(bson.M{"id": "y"})
	assert.NotNil(t, empty.Technologies)
	assert.Nil(t, m.ToEntity(nil))
}

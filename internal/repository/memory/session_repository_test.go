package memory

import (
	"fmt"
	"testing"

	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_AppendTrims(t *testing.T) {
	repo := NewSessionRepository()

	_, found := repo.Get("s1")
	assert.False(t, found)

	for i := 0; i < 3; i++ {
		repo.Append("s1", store.MaxSessionMessages,
			llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("q%d", i)},
			llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}

	s, found := repo.Get("s1")
	require.True(t, found)
	require.Len(t, s.Messages, 4)
	assert.Equal(t, "q1", s.Messages[0].Content)
	assert.Equal(t, "a2", s.Messages[3].Content)
}

func TestSessionRepository_Isolation(t *testing.T) {
	repo := NewSessionRepository()
	repo.Append("a", 4, llm.Message{Role: llm.RoleUser, Content: "hi"})
	repo.Append("b", 4, llm.Message{Role: llm.RoleUser, Content: "yo"})

	a, _ := repo.Get("a")
	a.Messages[0].Content = "mutated"

	again, _ := repo.Get("a")
	assert.Equal(t, "hi", again.Messages[0].Content)
	assert.Equal(t, 2, repo.Count())

	repo.Delete("a")
	_, found := repo.Get("a")
	assert.False(t, found)
}

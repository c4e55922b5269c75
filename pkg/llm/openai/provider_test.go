package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Althaf works with Go."}}]}`))
	}))
	defer srv.Close()

	p := NewGroq("key").WithBaseURL(srv.URL)
	text, err := p.Chat(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "skills?"}},
		llm.WithModel("llama-3.1-8b-instant"), llm.WithMaxTokens(150), llm.WithTemperature(0.6))

	require.NoError(t, err)
	assert.Equal(t, "Althaf works with Go.", text)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.Equal(t, 150, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.6, *got.Temperature, 1e-9)
}

func TestProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		tooLarge  bool
		wantError bool
	}{
		{name: "413", status: http.StatusRequestEntityTooLarge, body: "too big", tooLarge: true, wantError: true},
		{name: "400 overflow", status: http.StatusBadRequest, body: `{"error":{"message":"maximum context length exceeded"}}`, tooLarge: true, wantError: true},
		{name: "500", status: http.StatusInternalServerError, body: "boom", wantError: true},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenRouter("key", "https://example.com").WithBaseURL(srv.URL)
			_, err := p.Generate(context.Background(), "hi", llm.WithModel("m"))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.tooLarge, errors.Is(err, llm.ErrPromptTooLarge))
		})
	}
}

func TestProvider_RequiresModel(t *testing.T) {
	_, err := NewHuggingFace("key").Generate(context.Background(), "hi")
	assert.Error(t, err)
}

package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJinaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "retrieval.query", req.Task)

		// Out of order on purpose.
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	p := NewJinaProvider("key", 2).WithBaseURL(srv.URL)
	out, err := p.Generate(context.Background(), []string{"a", "b"}, "RETRIEVAL_QUERY")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, out[0])
	assert.Equal(t, []float32{0, 1}, out[1])
}

func TestJinaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewJinaProvider("key", 2).WithBaseURL(srv.URL).Generate(context.Background(), []string{"a"}, "")
	assert.Error(t, err)
}

package voyage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patter-ai/patter/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReranker_MissingKey(t *testing.T) {
	r := NewReranker("", "rerank-2")

	_, err := r.Rerank(context.Background(), "q", []string{"a", "b"}, 2)
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
}

func TestReranker_EmptyDocuments(t *testing.T) {
	r := NewReranker("vk-test", "rerank-2")

	results, err := r.Rerank(context.Background(), "q", nil, 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReranker_ScoresDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer vk-test", req.Header.Get("Authorization"))

		var body rerankRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "rerank-2", body.Model)
		assert.Len(t, body.Documents, 3)

		json.NewEncoder(w).Encode(rerankResponse{Data: []ai.RerankResult{
			{Index: 2, Score: 0.95},
			{Index: 0, Score: 0.40},
		}})
	}))
	defer server.Close()

	r := NewReranker("vk-test", "rerank-2", WithEndpoint(server.URL))

	results, err := r.Rerank(context.Background(), "best pizza", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Index)
	assert.InDelta(t, 0.95, results[0].Score, 1e-9)
}

func TestReranker_ServerErrorIsProviderUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	r := NewReranker("vk-test", "rerank-2", WithEndpoint(server.URL))

	_, err := r.Rerank(context.Background(), "q", []string{"a"}, 1)
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
}

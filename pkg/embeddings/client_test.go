package embeddings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/microflowhq/microflow/pkg/cache"
	"github.com/microflowhq/microflow/pkg/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))

	t.Cleanup(server.Close)

	return server
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	server := newEmbeddingServer(t, &calls)
	client := embeddings.NewClient(server.URL, "test-key", "text-embedding-3-small")

	vector, err := client.Generate(t.Context(), "Sends a formatted notification to Slack")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vector)
}

func TestClient_Generate_EmptyInput(t *testing.T) {
	t.Parallel()

	client := embeddings.NewClient("http://localhost:0", "", "text-embedding-3-small")

	_, err := client.Generate(t.Context(), "")
	assert.ErrorIs(t, err, embeddings.ErrEmptyInput)
}

func TestClient_Generate_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := embeddings.NewClient(server.URL, "", "text-embedding-3-small")

	_, err := client.Generate(t.Context(), "some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCachedGenerator_HitsCacheOnSecondCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	server := newEmbeddingServer(t, &calls)
	client := embeddings.NewClient(server.URL, "test-key", "text-embedding-3-small")
	cached := embeddings.NewCachedGenerator(client, cache.NewMemoryCache(), time.Minute)

	first, err := cached.Generate(t.Context(), "Sends a formatted notification to Slack")
	require.NoError(t, err)

	second, err := cached.Generate(t.Context(), "Sends a formatted notification to Slack")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())

	_, err = cached.Generate(t.Context(), "A different description")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCachedGenerator_EmptyInput(t *testing.T) {
	t.Parallel()

	cached := embeddings.NewCachedGenerator(failingGenerator{}, cache.NewMemoryCache(), time.Minute)

	_, err := cached.Generate(t.Context(), "")
	assert.ErrorIs(t, err, embeddings.ErrEmptyInput)
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) ([]float64, error) {
	return nil, assert.AnError
}

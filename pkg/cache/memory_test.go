package cache_test

import (
	"testing"
	"time"

	"github.com/microflowhq/microflow/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache()

	require.NoError(t, c.Set(t.Context(), "doc:post__slack__team_notification", []byte("payload"), 0))

	value, found, err := c.Get(t.Context(), "doc:post__slack__team_notification")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), value)

	_, found, err = c.Get(t.Context(), "doc:missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache()

	require.NoError(t, c.Set(t.Context(), "embedding", []byte("vector"), time.Nanosecond))

	time.Sleep(5 * time.Millisecond)

	_, found, err := c.Get(t.Context(), "embedding")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache()

	require.NoError(t, c.Set(t.Context(), "key", []byte("value"), time.Minute))
	require.NoError(t, c.Delete(t.Context(), "key"))

	_, found, err := c.Get(t.Context(), "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_Close(t *testing.T) {
	t.Parallel()

	c := cache.NewMemoryCache()

	require.NoError(t, c.Set(t.Context(), "key", []byte("value"), time.Minute))
	require.NoError(t, c.Close())

	_, found, err := c.Get(t.Context(), "key")
	require.NoError(t, err)
	assert.False(t, found)
}

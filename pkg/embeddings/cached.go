package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/microflowhq/microflow/pkg/cache"
)

// CachedGenerator wraps a Generator with a TTL cache keyed on the SHA-256 of
// the input text.
type CachedGenerator struct {
	generator Generator
	cache     cache.Cache
	ttl       time.Duration
}

func NewCachedGenerator(generator Generator, c cache.Cache, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		generator: generator,
		cache:     c,
		ttl:       ttl,
	}
}

// CacheKey is the cache key used for one input text.
func CacheKey(text string) string {
	digest := sha256.Sum256([]byte(text))

	return "embedding:" + hex.EncodeToString(digest[:])
}

func (g *CachedGenerator) Generate(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	key := CacheKey(text)

	cached, found, err := g.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	if found {
		var vector []float64
		if err := json.Unmarshal(cached, &vector); err == nil {
			return vector, nil
		}
		// Corrupt entry, fall through and regenerate.
	}

	vector, err := g.generator.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding for cache: %w", err)
	}

	if err := g.cache.Set(ctx, key, encoded, g.ttl); err != nil {
		return nil, fmt.Errorf("failed to write embedding cache: %w", err)
	}

	return vector, nil
}

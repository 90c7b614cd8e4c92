package embed

import (
	"context"
	"encoding/json"

	"github.com/flowmetric/flowmetric/pkg/cache"
	"github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/observability"
)

// Cached decorates an Encoder with per-text vector memoization.
//
// On Encode, each text is looked up individually; only the misses are sent
// to the inner encoder, in one batch, and written back afterwards. The
// backing store is scoped per model, so a shared backend can serve several
// models without mixing their vectors.
//
// Cache failures are treated as misses on read and ignored on write - a
// broken cache degrades to pass-through, it never fails an evaluation.
type Cached struct {
	inner Encoder
	store cache.Cache
}

// NewCached wraps inner with a cache. model identifies the embedding model;
// it namespaces the store and must be stable across runs.
func NewCached(inner Encoder, store cache.Cache, model string) *Cached {
	if store == nil {
		store = cache.NewNullCache()
	}
	store = cache.NewScopedCache(store, "model:"+model+":")
	return &Cached{inner: inner, store: store}
}

// Encode returns cached vectors where available and encodes the rest.
func (c *Cached) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		data, hit, err := c.store.Get(ctx, cache.EmbeddingKey(text))
		if err == nil && hit {
			var vec []float64
			if json.Unmarshal(data, &vec) == nil {
				observability.Cache().OnCacheHit(ctx, "embedding")
				vectors[i] = vec
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "embedding")
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := c.inner.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, errors.New(errors.ErrCodeEmbedding,
			"encoder returned %d vectors for %d texts", len(fresh), len(missTexts))
	}

	for k, i := range missIdx {
		vectors[i] = fresh[k]
		if data, err := json.Marshal(fresh[k]); err == nil {
			key := cache.EmbeddingKey(texts[i])
			if c.store.Set(ctx, key, data, cache.TTLEmbedding) == nil {
				observability.Cache().OnCacheSet(ctx, "embedding", len(data))
			}
		}
	}
	return vectors, nil
}

// Ensure Cached implements Encoder.
var _ Encoder = (*Cached)(nil)

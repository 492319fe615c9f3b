// Package rediscache decorates a capability.Embedder with a Redis-backed
// cache, keyed by the SHA-256 hash of the text being embedded, so repeated
// identical paragraphs across different documents skip the network round
// trip to the embedding service. This is distinct from docsync's chunk-hash
// dedup, which only avoids re-embedding within the same document's own
// sync history.
package rediscache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/hashutil"
)

// EmbeddingCacheTTL is how long a cached embedding stays valid.
const EmbeddingCacheTTL = 24 * time.Hour

// Client wraps a rueidis connection with JSON get/set helpers, in the
// shape of the teacher's pkg/redis/client.go.
type Client struct {
	conn rueidis.Client
}

// NewClient dials a single-node Redis instance at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// SetJSON marshals value with sonic and stores it under key with ttl.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	cmd := c.conn.B().Set().Key(key).Value(string(data)).Ex(ttl).Build()
	return c.conn.Do(ctx, cmd).Error()
}

// GetJSON loads key and unmarshals it into dest with sonic. It returns
// rueidis.Nil (wrapped) when the key doesn't exist.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) error {
	cmd := c.conn.B().Get().Key(key).Build()
	raw, err := c.conn.Do(ctx, cmd).ToString()
	if err != nil {
		return err
	}
	return sonic.Unmarshal([]byte(raw), dest)
}

// Close releases the underlying connection pool.
func (c *Client) Close() {
	c.conn.Close()
}

// CachingEmbedder is a capability.Embedder that checks a Client for each
// text before delegating to the wrapped embedder, and writes back whatever
// it had to compute.
type CachingEmbedder struct {
	cache *Client
	next  capability.Embedder
}

// NewCachingEmbedder wraps next with a Redis-backed cache.
func NewCachingEmbedder(cache *Client, next capability.Embedder) *CachingEmbedder {
	return &CachingEmbedder{cache: cache, next: next}
}

func (e *CachingEmbedder) cacheKey(text string) string {
	return "embedding:" + hashutil.HashHex(text)
}

// Embed implements capability.Embedder.
func (e *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var cached []float32
	if err := e.cache.GetJSON(ctx, e.cacheKey(text), &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.SetJSON(ctx, e.cacheKey(text), vec, EmbeddingCacheTTL); err != nil {
		return vec, nil // cache-write failure shouldn't fail the call
	}
	return vec, nil
}

// EmbedBatch implements capability.Embedder, checking the cache for each
// text individually and only sending the misses to the wrapped embedder.
func (e *CachingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, t := range texts {
		var cached []float32
		if err := e.cache.GetJSON(ctx, e.cacheKey(t), &cached); err == nil && len(cached) > 0 {
			result[i] = cached
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) == 0 {
		return result, nil
	}

	fetched, err := e.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, &apperr.EmbedderError{Op: "CachingEmbedder.EmbedBatch", Err: err}
	}
	for j, idx := range missIdx {
		result[idx] = fetched[j]
		_ = e.cache.SetJSON(ctx, e.cacheKey(missTexts[j]), fetched[j], EmbeddingCacheTTL)
	}
	return result, nil
}

// Dimensions implements capability.Embedder.
func (e *CachingEmbedder) Dimensions() int {
	return e.next.Dimensions()
}

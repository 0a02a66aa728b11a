package threat

import (
	"fmt"
	"sync/atomic"

	"alertscope/core"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct signatures kept by a
// CachedClassifier when no size is given
const DefaultCacheSize = 4096

// CachedClassifier memoizes classifications per signature in a bounded LRU.
// Alert feeds repeat a small set of signatures, so most lookups are hits.
// It is safe for concurrent use.
type CachedClassifier struct {
	taxonomy *Taxonomy
	cache    *lru.Cache[string, core.Classification]
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewCachedClassifier wraps a taxonomy with an LRU of the given size.
// A size <= 0 selects DefaultCacheSize.
func NewCachedClassifier(t *Taxonomy, size int) (*CachedClassifier, error) {
	if t == nil {
		return nil, fmt.Errorf("taxonomy cannot be nil")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, core.Classification](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification cache: %w", err)
	}
	return &CachedClassifier{taxonomy: t, cache: cache}, nil
}

// Classify returns the cached classification or computes and stores it
func (c *CachedClassifier) Classify(signature string) core.Classification {
	if cls, ok := c.cache.Get(signature); ok {
		c.hits.Add(1)
		return cls
	}
	c.misses.Add(1)
	cls := c.taxonomy.Classify(signature)
	c.cache.Add(signature, cls)
	return cls
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Stats returns hit/miss counters and the current number of entries
func (c *CachedClassifier) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.cache.Len(),
	}
}

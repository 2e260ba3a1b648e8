// Package scoring provides caching for model scores.
package scoring

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// CacheKey represents a unique key for caching scores
type CacheKey struct {
	MatchID      string
	ModelType    string
	ModelVersion string
}

// String returns the string representation of a cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.MatchID, k.ModelType, k.ModelVersion)
}

// ScoreCache provides in-memory caching for model scores. Scores for a
// fixture only change when the model version changes, so entries stay
// valid for the whole prediction run.
type ScoreCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewScoreCache creates a new score cache
func NewScoreCache(ttl time.Duration) *ScoreCache {
	return &ScoreCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached score
func (sc *ScoreCache) Get(key CacheKey) (float64, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if v, found := sc.cache.Get(key.String()); found {
		if score, ok := v.(float64); ok {
			sc.hitCount++
			sc.updateRatio()
			return score, true
		}
	}

	sc.missCount++
	sc.updateRatio()
	return 0, false
}

// Set stores a score in the cache
func (sc *ScoreCache) Set(key CacheKey, score float64) {
	sc.cache.Set(key.String(), score, sc.ttl)
}

// Flush clears all cached scores
func (sc *ScoreCache) Flush() {
	sc.cache.Flush()
}

// Stats returns the hit and miss counts
func (sc *ScoreCache) Stats() (hits, misses uint64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.hitCount, sc.missCount
}

func (sc *ScoreCache) updateRatio() {
	total := sc.hitCount + sc.missCount
	if total > 0 {
		ScoreCacheHitRatio.Set(float64(sc.hitCount) / float64(total))
	}
}

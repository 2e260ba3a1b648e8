// Package scoring provides a cached scoring client.
package scoring

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
)

// CachedScorer wraps a Scorer with per-fixture score caching
type CachedScorer struct {
	scorer Scorer
	cache  *ScoreCache
	logger *logrus.Logger
}

// NewCachedScorer creates a cached scorer backed by the HTTP client
func NewCachedScorer(cfg *config.ModelServiceConfig, logger *logrus.Logger) *CachedScorer {
	return &CachedScorer{
		scorer: NewHTTPScorer(cfg, logger),
		cache:  NewScoreCache(time.Duration(cfg.CacheTTLSeconds) * time.Second),
		logger: logger,
	}
}

// NewCachedScorerWith wraps an existing scorer, used in tests
func NewCachedScorerWith(scorer Scorer, cache *ScoreCache, logger *logrus.Logger) *CachedScorer {
	return &CachedScorer{scorer: scorer, cache: cache, logger: logger}
}

// ScoreMatch scores a fixture's feature vector with caching keyed on the
// fixture and model version
func (c *CachedScorer) ScoreMatch(ctx context.Context, matchID, modelType, modelVersion string, features []float64) (float64, error) {
	key := CacheKey{MatchID: matchID, ModelType: modelType, ModelVersion: modelVersion}

	if score, found := c.cache.Get(key); found {
		c.logger.WithField("cache_key", key.String()).Debug("Cache hit for score")
		ScoreRequestsTotal.WithLabelValues(modelType, "true").Inc()
		return score, nil
	}

	score, err := c.scorer.Score(ctx, modelType, modelVersion, features)
	if err != nil {
		return 0, err
	}

	c.cache.Set(key, score)
	ScoreRequestsTotal.WithLabelValues(modelType, "false").Inc()
	return score, nil
}

// Flush clears cached scores, used when a new model version activates
func (c *CachedScorer) Flush() {
	c.cache.Flush()
}

package scoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/config"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestScorer(t *testing.T, handler http.HandlerFunc) (*HTTPScorer, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.ModelServiceConfig{
		URL:                   server.URL,
		RequestTimeoutSeconds: 5,
		CacheTTLSeconds:       60,
	}
	return NewHTTPScorer(cfg, testLogger()), server
}

func TestHTTPScorerScore(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/score", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var req ScoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "spread", req.ModelType)
		assert.Equal(t, "v12", req.ModelVersion)
		assert.Len(t, req.Features, 3)

		json.NewEncoder(w).Encode(ScoreResponse{
			Prediction:   4.5,
			ModelType:    req.ModelType,
			ModelVersion: req.ModelVersion,
		})
	})

	score, err := scorer.Score(context.Background(), "spread", "v12", []float64{1.0, 2.0, 3.0})
	require.NoError(t, err)
	assert.Equal(t, 4.5, score)
}

func TestHTTPScorerServerError(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := scorer.Score(context.Background(), "spread", "v12", []float64{1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPScorerUnreachable(t *testing.T) {
	cfg := &config.ModelServiceConfig{
		URL:                   "http://127.0.0.1:1",
		RequestTimeoutSeconds: 1,
	}
	scorer := NewHTTPScorer(cfg, testLogger())

	_, err := scorer.Score(context.Background(), "total", "v12", []float64{1.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

type countingScorer struct {
	calls int
	value float64
}

func (c *countingScorer) Score(_ context.Context, _, _ string, _ []float64) (float64, error) {
	c.calls++
	return c.value, nil
}

func TestCachedScorerCachesByMatchAndVersion(t *testing.T) {
	inner := &countingScorer{value: 7.0}
	cached := NewCachedScorerWith(inner, NewScoreCache(time.Minute), testLogger())

	ctx := context.Background()
	features := []float64{1.0, 2.0}

	score, err := cached.ScoreMatch(ctx, "401585183", "spread", "v12", features)
	require.NoError(t, err)
	assert.Equal(t, 7.0, score)
	assert.Equal(t, 1, inner.calls)

	// Same fixture and version hits the cache
	score, err = cached.ScoreMatch(ctx, "401585183", "spread", "v12", features)
	require.NoError(t, err)
	assert.Equal(t, 7.0, score)
	assert.Equal(t, 1, inner.calls)

	// New model version bypasses the stale entry
	_, err = cached.ScoreMatch(ctx, "401585183", "spread", "v13", features)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	// Different fixture misses
	_, err = cached.ScoreMatch(ctx, "401585184", "spread", "v12", features)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestScoreCacheStats(t *testing.T) {
	c := NewScoreCache(time.Minute)
	key := CacheKey{MatchID: "m1", ModelType: "spread", ModelVersion: "v1"}

	_, found := c.Get(key)
	assert.False(t, found)

	c.Set(key, 3.5)
	score, found := c.Get(key)
	assert.True(t, found)
	assert.Equal(t, 3.5, score)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

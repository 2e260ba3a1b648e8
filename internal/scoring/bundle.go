// Package scoring provides the active model bundle used by the pick engine.
package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// Model type names as stored in the registry
const (
	ModelTypeWin    = "win"
	ModelTypeSpread = "spread"
	ModelTypeTotal  = "total"
)

// ModelBundle holds the active models and their feature schemas. Feature
// vectors must be composed in exactly the schema order recorded at
// training time.
type ModelBundle struct {
	SpreadModel *models.Model
	TotalModel  *models.Model
	WinModel    *models.Model

	SpreadFeatures []string
	TotalFeatures  []string
	WinFeatures    []string

	scorer *CachedScorer
	logger *logrus.Logger
}

// LoadActiveBundle loads the active spread and total models from the
// registry. The win model is optional; its absence only disables win
// probability in the analysis text.
func LoadActiveBundle(ctx context.Context, repo repository.ModelRepository, scorer *CachedScorer, logger *logrus.Logger) (*ModelBundle, error) {
	bundle := &ModelBundle{scorer: scorer, logger: logger}

	spread, err := repo.GetActiveByType(ctx, ModelTypeSpread)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoActiveModel, ModelTypeSpread)
		}
		return nil, fmt.Errorf("failed to load spread model: %w", err)
	}
	bundle.SpreadModel = spread
	if bundle.SpreadFeatures, err = spread.FeatureNames(); err != nil {
		return nil, fmt.Errorf("invalid spread feature schema: %w", err)
	}

	total, err := repo.GetActiveByType(ctx, ModelTypeTotal)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoActiveModel, ModelTypeTotal)
		}
		return nil, fmt.Errorf("failed to load total model: %w", err)
	}
	bundle.TotalModel = total
	if bundle.TotalFeatures, err = total.FeatureNames(); err != nil {
		return nil, fmt.Errorf("invalid total feature schema: %w", err)
	}

	win, err := repo.GetActiveByType(ctx, ModelTypeWin)
	if err == nil {
		bundle.WinModel = win
		if bundle.WinFeatures, err = win.FeatureNames(); err != nil {
			return nil, fmt.Errorf("invalid win feature schema: %w", err)
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to load win model: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"spread_version": spread.Version,
		"total_version":  total.Version,
		"has_win_model":  bundle.WinModel != nil,
	}).Info("Active model bundle loaded")

	return bundle, nil
}

// Version returns the bundle version recorded on persisted picks
func (b *ModelBundle) Version() string {
	return b.SpreadModel.Version
}

// ScoreSpread returns the projected home margin for a fixture
func (b *ModelBundle) ScoreSpread(ctx context.Context, matchID string, features []float64) (float64, error) {
	if len(features) != len(b.SpreadFeatures) {
		return 0, fmt.Errorf("%w: got %d features, schema has %d", ErrSchemaMismatch, len(features), len(b.SpreadFeatures))
	}
	return b.scorer.ScoreMatch(ctx, matchID, ModelTypeSpread, b.SpreadModel.Version, features)
}

// ScoreTotal returns the projected combined score for a fixture
func (b *ModelBundle) ScoreTotal(ctx context.Context, matchID string, features []float64) (float64, error) {
	if len(features) != len(b.TotalFeatures) {
		return 0, fmt.Errorf("%w: got %d features, schema has %d", ErrSchemaMismatch, len(features), len(b.TotalFeatures))
	}
	return b.scorer.ScoreMatch(ctx, matchID, ModelTypeTotal, b.TotalModel.Version, features)
}

// ScoreWin returns the home win probability, or false when no win model
// is registered
func (b *ModelBundle) ScoreWin(ctx context.Context, matchID string, features []float64) (float64, bool, error) {
	if b.WinModel == nil {
		return 0, false, nil
	}
	if len(features) != len(b.WinFeatures) {
		return 0, false, fmt.Errorf("%w: got %d features, schema has %d", ErrSchemaMismatch, len(features), len(b.WinFeatures))
	}
	p, err := b.scorer.ScoreMatch(ctx, matchID, ModelTypeWin, b.WinModel.Version, features)
	if err != nil {
		return 0, false, err
	}
	return p, true, nil
}

package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/courtside/internal/models"
)

// Source errors
var (
	ErrFeedUnavailable = errors.New("stats feed unavailable")
	ErrGameNotFound    = errors.New("game not found in feed")
)

// Source provides fixtures, market lines, and per-team box-score
// statistics for one league. Implementations own their retry and
// rate-limit policy; callers treat every method as one logical fetch.
type Source interface {
	// Name identifies the source in logs and reports
	Name() string

	// FetchDay returns every fixture on a calendar day, with market
	// lines when posted, plus the teams seen on the slate.
	FetchDay(ctx context.Context, day time.Time) ([]*models.Fixture, []*models.Team, error)

	// FetchTeamStats returns box-score statistics for a completed game,
	// keyed by team ID then by feed stat name.
	FetchTeamStats(ctx context.Context, gameID string) (map[string]map[string]float64, error)

	// Close releases client resources
	Close() error
}

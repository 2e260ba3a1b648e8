package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/courtside/internal/models"
)

// StatRowRepository defines the interface for box-score history access.
// The store is append-only: rows are never updated once written.
type StatRowRepository interface {
	InsertBatch(ctx context.Context, rows []models.StatRow) (inserted int, err error)
	Exists(ctx context.Context, gameID, teamID string) (bool, error)
	GetAll(ctx context.Context) ([]models.StatRow, error)
	GetSince(ctx context.Context, cutoff time.Time) ([]models.StatRow, error)
	Count(ctx context.Context) (int, error)
}

// FixtureRepository defines the interface for fixture data access
type FixtureRepository interface {
	Upsert(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, matchID string) (*models.Fixture, error)
	GetByStatus(ctx context.Context, status models.FixtureStatus) ([]*models.Fixture, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error)
}

// PickRepository defines the interface for pick persistence. Outcome
// updates are write-once: setting an already-set outcome is a no-op
// reported as models.ErrOutcomeAlreadySet.
type PickRepository interface {
	Create(ctx context.Context, pick *models.Pick) error
	GetByMatchID(ctx context.Context, matchID string) (*models.Pick, error)
	GetByMatchIDs(ctx context.Context, matchIDs []string) (map[string]*models.Pick, error)
	GetUnsettled(ctx context.Context) ([]*models.Pick, error)
	SetSpreadOutcome(ctx context.Context, id uuid.UUID, outcome models.Outcome) error
	SetTotalOutcome(ctx context.Context, id uuid.UUID, outcome models.Outcome) error
	GetOutcomeTallies(ctx context.Context) (*OutcomeTallies, error)
}

// TeamRepository defines the interface for the team catalog
type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetAll(ctx context.Context) ([]*models.Team, error)
	GetByCode(ctx context.Context, code string) (*models.Team, error)
}

// ModelRepository defines the interface for scoring model registry access
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetActiveByType(ctx context.Context, modelType string) (*models.Model, error)
	GetByVersion(ctx context.Context, name, version string) (*models.Model, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}

// OutcomeTallies holds historical win/loss/push counts per bet type
type OutcomeTallies struct {
	SpreadWins   int
	SpreadLosses int
	SpreadPushes int
	TotalWins    int
	TotalLosses  int
	TotalPushes  int
}

// SpreadWinRate returns the graded spread win rate, pushes excluded
func (t *OutcomeTallies) SpreadWinRate() float64 {
	graded := t.SpreadWins + t.SpreadLosses
	if graded == 0 {
		return 0
	}
	return float64(t.SpreadWins) / float64(graded)
}

// TotalWinRate returns the graded total win rate, pushes excluded
func (t *OutcomeTallies) TotalWinRate() float64 {
	graded := t.TotalWins + t.TotalLosses
	if graded == 0 {
		return 0
	}
	return float64(t.TotalWins) / float64(graded)
}

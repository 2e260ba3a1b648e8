package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

const errScanFixture = "failed to scan fixture: %w"

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// Upsert inserts or refreshes a fixture from the feed. Status, scores and
// market lines move as the feed updates; identity fields never change.
func (r *PostgresFixtureRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO fixtures (match_id, season, start_time, home_team_id, away_team_id,
		                      status, home_score, away_score, market_spread, market_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			market_spread = COALESCE(EXCLUDED.market_spread, fixtures.market_spread),
			market_total = COALESCE(EXCLUDED.market_total, fixtures.market_total),
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		fixture.MatchID, fixture.Season, fixture.StartTime,
		fixture.HomeTeamID, fixture.AwayTeamID, fixture.Status,
		fixture.HomeScore, fixture.AwayScore, fixture.MarketSpread, fixture.MarketTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}

	return nil
}

// GetByID retrieves a fixture by match ID
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, matchID string) (*models.Fixture, error) {
	query := `
		SELECT match_id, season, start_time, home_team_id, away_team_id,
		       status, home_score, away_score, market_spread, market_total,
		       created_at, updated_at
		FROM fixtures WHERE match_id = $1
	`

	fixture := &models.Fixture{}
	err := r.db.GetPool().QueryRow(ctx, query, matchID).Scan(
		&fixture.MatchID, &fixture.Season, &fixture.StartTime,
		&fixture.HomeTeamID, &fixture.AwayTeamID, &fixture.Status,
		&fixture.HomeScore, &fixture.AwayScore, &fixture.MarketSpread, &fixture.MarketTotal,
		&fixture.CreatedAt, &fixture.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	return fixture, nil
}

// GetByStatus retrieves fixtures in a given feed state ordered by start time
func (r *PostgresFixtureRepository) GetByStatus(ctx context.Context, status models.FixtureStatus) ([]*models.Fixture, error) {
	query := `
		SELECT match_id, season, start_time, home_team_id, away_team_id,
		       status, home_score, away_score, market_spread, market_total,
		       created_at, updated_at
		FROM fixtures
		WHERE status = $1
		ORDER BY start_time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures by status: %w", err)
	}
	defer rows.Close()

	return scanFixtures(rows)
}

// GetByDateRange retrieves fixtures starting within a window
func (r *PostgresFixtureRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error) {
	query := `
		SELECT match_id, season, start_time, home_team_id, away_team_id,
		       status, home_score, away_score, market_spread, market_total,
		       created_at, updated_at
		FROM fixtures
		WHERE start_time >= $1 AND start_time <= $2
		ORDER BY start_time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures by date range: %w", err)
	}
	defer rows.Close()

	return scanFixtures(rows)
}

func scanFixtures(rows pgx.Rows) ([]*models.Fixture, error) {
	var fixtures []*models.Fixture
	for rows.Next() {
		fixture := &models.Fixture{}
		err := rows.Scan(
			&fixture.MatchID, &fixture.Season, &fixture.StartTime,
			&fixture.HomeTeamID, &fixture.AwayTeamID, &fixture.Status,
			&fixture.HomeScore, &fixture.AwayScore, &fixture.MarketSpread, &fixture.MarketTotal,
			&fixture.CreatedAt, &fixture.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanFixture, err)
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, rows.Err()
}

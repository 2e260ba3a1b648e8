package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

const errScanPick = "failed to scan pick: %w"

const pickColumns = `
	id, match_id, recommended_team_id, confidence_score, market_line,
	spread_rationale, ou_pick, ou_line, ou_confidence, analysis_text,
	spread_outcome, total_outcome, model_version, created_at, settled_at`

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

// Create inserts a new pick. A unique index on match_id backs the
// first-pick-wins policy; a conflict surfaces as ErrPickAlreadyExists.
func (r *PostgresPickRepository) Create(ctx context.Context, pick *models.Pick) error {
	query := `
		INSERT INTO picks (id, match_id, recommended_team_id, confidence_score, market_line,
		                   spread_rationale, ou_pick, ou_line, ou_confidence, analysis_text,
		                   model_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		pick.ID, pick.MatchID, pick.RecommendedTeamID, pick.ConfidenceScore, pick.MarketLine,
		pick.SpreadRationale, pick.OverUnderPick, pick.OverUnderLine, pick.OverUnderConfidence,
		pick.AnalysisText, pick.ModelVersion,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrPickAlreadyExists
		}
		return fmt.Errorf("failed to create pick: %w", err)
	}

	return nil
}

// GetByMatchID retrieves the pick for a fixture, if any
func (r *PostgresPickRepository) GetByMatchID(ctx context.Context, matchID string) (*models.Pick, error) {
	query := fmt.Sprintf("SELECT %s FROM picks WHERE match_id = $1", pickColumns)

	pick := &models.Pick{}
	err := r.db.GetPool().QueryRow(ctx, query, matchID).Scan(
		&pick.ID, &pick.MatchID, &pick.RecommendedTeamID, &pick.ConfidenceScore, &pick.MarketLine,
		&pick.SpreadRationale, &pick.OverUnderPick, &pick.OverUnderLine, &pick.OverUnderConfidence,
		&pick.AnalysisText, &pick.SpreadOutcome, &pick.TotalOutcome, &pick.ModelVersion,
		&pick.CreatedAt, &pick.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}

	return pick, nil
}

// GetByMatchIDs retrieves existing picks keyed by match ID
func (r *PostgresPickRepository) GetByMatchIDs(ctx context.Context, matchIDs []string) (map[string]*models.Pick, error) {
	picks := make(map[string]*models.Pick, len(matchIDs))
	if len(matchIDs) == 0 {
		return picks, nil
	}

	query := fmt.Sprintf("SELECT %s FROM picks WHERE match_id = ANY($1)", pickColumns)

	rows, err := r.db.GetPool().Query(ctx, query, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks by match ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, err
		}
		picks[pick.MatchID] = pick
	}

	return picks, rows.Err()
}

// GetUnsettled retrieves picks with at least one carried bet type still
// ungraded. Picks written without a total bet only wait on the spread.
func (r *PostgresPickRepository) GetUnsettled(ctx context.Context) ([]*models.Pick, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM picks
		WHERE spread_outcome IS NULL OR (total_outcome IS NULL AND ou_pick <> '')
		ORDER BY created_at ASC
	`, pickColumns)

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, err
		}
		picks = append(picks, pick)
	}

	return picks, rows.Err()
}

// SetSpreadOutcome records the spread grade exactly once. The guard in the
// WHERE clause is the write-once enforcement, not application logic.
func (r *PostgresPickRepository) SetSpreadOutcome(ctx context.Context, id uuid.UUID, outcome models.Outcome) error {
	query := `
		UPDATE picks SET
			spread_outcome = $2,
			settled_at = NOW()
		WHERE id = $1 AND spread_outcome IS NULL
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, outcome)
	if err != nil {
		return fmt.Errorf("failed to set spread outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOutcomeAlreadySet
	}

	return nil
}

// SetTotalOutcome records the total grade exactly once
func (r *PostgresPickRepository) SetTotalOutcome(ctx context.Context, id uuid.UUID, outcome models.Outcome) error {
	query := `
		UPDATE picks SET
			total_outcome = $2,
			settled_at = NOW()
		WHERE id = $1 AND total_outcome IS NULL
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, outcome)
	if err != nil {
		return fmt.Errorf("failed to set total outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOutcomeAlreadySet
	}

	return nil
}

// GetOutcomeTallies aggregates historical grades per bet type
func (r *PostgresPickRepository) GetOutcomeTallies(ctx context.Context) (*OutcomeTallies, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE spread_outcome = 'WIN'),
			COUNT(*) FILTER (WHERE spread_outcome = 'LOSS'),
			COUNT(*) FILTER (WHERE spread_outcome = 'PUSH'),
			COUNT(*) FILTER (WHERE total_outcome = 'WIN'),
			COUNT(*) FILTER (WHERE total_outcome = 'LOSS'),
			COUNT(*) FILTER (WHERE total_outcome = 'PUSH')
		FROM picks
	`

	tallies := &OutcomeTallies{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&tallies.SpreadWins, &tallies.SpreadLosses, &tallies.SpreadPushes,
		&tallies.TotalWins, &tallies.TotalLosses, &tallies.TotalPushes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outcome tallies: %w", err)
	}

	return tallies, nil
}

func scanPick(rows pgx.Rows) (*models.Pick, error) {
	pick := &models.Pick{}
	err := rows.Scan(
		&pick.ID, &pick.MatchID, &pick.RecommendedTeamID, &pick.ConfidenceScore, &pick.MarketLine,
		&pick.SpreadRationale, &pick.OverUnderPick, &pick.OverUnderLine, &pick.OverUnderConfidence,
		&pick.AnalysisText, &pick.SpreadOutcome, &pick.TotalOutcome, &pick.ModelVersion,
		&pick.CreatedAt, &pick.SettledAt,
	)
	if err != nil {
		return nil, fmt.Errorf(errScanPick, err)
	}
	return pick, nil
}

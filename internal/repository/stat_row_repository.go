package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

const errScanStatRow = "failed to scan stat row: %w"

const statRowColumns = `
	game_id, team_id, game_time, is_home, won, points_scored, points_allowed,
	field_goals_pct, three_pointers_pct, free_throws_pct, rebounds, assists,
	steals, blocks, turnovers, plus_minus, points_in_paint,
	field_goals_att, three_pointers_made, free_throws_att,
	effective_fg_pct, true_shooting_pct, rest_days, created_at`

// PostgresStatRowRepository implements StatRowRepository for PostgreSQL
type PostgresStatRowRepository struct {
	db *database.DB
}

// NewPostgresStatRowRepository creates a new stat row repository
func NewPostgresStatRowRepository(db *database.DB) StatRowRepository {
	return &PostgresStatRowRepository{db: db}
}

// InsertBatch appends new stat rows, silently skipping (game_id, team_id)
// pairs that already exist. The store is append-only; corrections require
// a fresh ingestion pass, never an update.
func (r *PostgresStatRowRepository) InsertBatch(ctx context.Context, rows []models.StatRow) (int, error) {
	query := `
		INSERT INTO team_game_stats (
			game_id, team_id, game_time, is_home, won, points_scored, points_allowed,
			field_goals_pct, three_pointers_pct, free_throws_pct, rebounds, assists,
			steals, blocks, turnovers, plus_minus, points_in_paint,
			field_goals_att, three_pointers_made, free_throws_att,
			effective_fg_pct, true_shooting_pct, rest_days
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (game_id, team_id) DO NOTHING
	`

	inserted := 0
	for i := range rows {
		row := &rows[i]
		tag, err := r.db.GetPool().Exec(ctx, query,
			row.GameID, row.TeamID, row.GameTime, row.IsHome, row.Won,
			row.PointsScored, row.PointsAllowed,
			row.FieldGoalsPct, row.ThreePointersPct, row.FreeThrowsPct,
			row.Rebounds, row.Assists, row.Steals, row.Blocks, row.Turnovers,
			row.PlusMinus, row.PointsInPaint,
			row.FieldGoalsAtt, row.ThreePointersMade, row.FreeThrowsAtt,
			row.EffectiveFGPct, row.TrueShootingPct, row.RestDays,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert stat row %s/%s: %w", row.GameID, row.TeamID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// Exists checks whether a stat row is already recorded for a team in a game
func (r *PostgresStatRowRepository) Exists(ctx context.Context, gameID, teamID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM team_game_stats WHERE game_id = $1 AND team_id = $2)"
	if err := r.db.GetPool().QueryRow(ctx, query, gameID, teamID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check stat row existence: %w", err)
	}
	return exists, nil
}

// GetAll retrieves the full history ordered by team and game time
func (r *PostgresStatRowRepository) GetAll(ctx context.Context) ([]models.StatRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM team_game_stats
		ORDER BY team_id, game_time ASC
	`, statRowColumns)

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat rows: %w", err)
	}
	defer rows.Close()

	return scanStatRows(rows)
}

// GetSince retrieves history from a cutoff onwards, ordered by team and
// game time. Used to drop stale seasons before training.
func (r *PostgresStatRowRepository) GetSince(ctx context.Context, cutoff time.Time) ([]models.StatRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM team_game_stats
		WHERE game_time >= $1
		ORDER BY team_id, game_time ASC
	`, statRowColumns)

	rows, err := r.db.GetPool().Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat rows since cutoff: %w", err)
	}
	defer rows.Close()

	return scanStatRows(rows)
}

// Count returns the number of stored stat rows
func (r *PostgresStatRowRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM team_game_stats").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count stat rows: %w", err)
	}
	return count, nil
}

func scanStatRows(rows pgx.Rows) ([]models.StatRow, error) {
	var out []models.StatRow
	for rows.Next() {
		var row models.StatRow
		err := rows.Scan(
			&row.GameID, &row.TeamID, &row.GameTime, &row.IsHome, &row.Won,
			&row.PointsScored, &row.PointsAllowed,
			&row.FieldGoalsPct, &row.ThreePointersPct, &row.FreeThrowsPct,
			&row.Rebounds, &row.Assists, &row.Steals, &row.Blocks, &row.Turnovers,
			&row.PlusMinus, &row.PointsInPaint,
			&row.FieldGoalsAtt, &row.ThreePointersMade, &row.FreeThrowsAtt,
			&row.EffectiveFGPct, &row.TrueShootingPct, &row.RestDays, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanStatRow, err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

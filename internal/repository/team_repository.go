package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts or refreshes a team catalog entry
func (r *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, code, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name
	`

	_, err := r.db.GetPool().Exec(ctx, query, team.ID, team.Code, team.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetAll retrieves the full team catalog ordered by code
func (r *PostgresTeamRepository) GetAll(ctx context.Context) ([]*models.Team, error) {
	rows, err := r.db.GetPool().Query(ctx, "SELECT id, code, name FROM teams ORDER BY code ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		if err := rows.Scan(&team.ID, &team.Code, &team.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByCode retrieves a team by its short code (e.g. BOS)
func (r *PostgresTeamRepository) GetByCode(ctx context.Context, code string) (*models.Team, error) {
	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT id, code, name FROM teams WHERE code = $1", code,
	).Scan(&team.ID, &team.Code, &team.Name)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by code: %w", err)
	}

	return team, nil
}

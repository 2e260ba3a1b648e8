package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

const modelColumns = `
	id, name, version, model_type, feature_schema, metrics,
	trained_at, active, created_at, updated_at`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model registry repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create registers a new trained model version
func (r *PostgresModelRepository) Create(ctx context.Context, model *models.Model) error {
	query := `
		INSERT INTO models (id, name, version, model_type, feature_schema, metrics, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		model.ID, model.Name, model.Version, model.ModelType,
		model.FeatureSchema, model.Metrics, model.TrainedAt, model.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

// GetActiveByType retrieves the active model for a bet type
func (r *PostgresModelRepository) GetActiveByType(ctx context.Context, modelType string) (*models.Model, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM models
		WHERE model_type = $1 AND active = true
		ORDER BY trained_at DESC
		LIMIT 1
	`, modelColumns)

	return r.getOne(ctx, query, modelType)
}

// GetByVersion retrieves a specific registered model version
func (r *PostgresModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.Model, error) {
	query := fmt.Sprintf("SELECT %s FROM models WHERE name = $1 AND version = $2", modelColumns)
	return r.getOne(ctx, query, name, version)
}

// SetActive activates a model version and deactivates its siblings of the
// same type. Runs in a transaction so scoring never sees two active models.
func (r *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var modelType string
		err := tx.QueryRow(ctx, "SELECT model_type FROM models WHERE id = $1", id).Scan(&modelType)
		if err == pgx.ErrNoRows {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up model: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE models SET active = false, updated_at = NOW() WHERE model_type = $1 AND active = true",
			modelType,
		); err != nil {
			return fmt.Errorf("failed to deactivate models: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE models SET active = true, updated_at = NOW() WHERE id = $1",
			id,
		); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}

		return nil
	})
}

func (r *PostgresModelRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Model, error) {
	model := &models.Model{}
	err := r.db.GetPool().QueryRow(ctx, query, args...).Scan(
		&model.ID, &model.Name, &model.Version, &model.ModelType,
		&model.FeatureSchema, &model.Metrics, &model.TrainedAt, &model.Active,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return model, nil
}

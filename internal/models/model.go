package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Model represents a registered scoring model artifact. The feature schema
// recorded at training time travels with the version; scoring must compose
// vectors in exactly this order.
type Model struct {
	ID            uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Name          string          `db:"name" json:"name" validate:"required"`
	Version       string          `db:"version" json:"version" validate:"required"`
	ModelType     string          `db:"model_type" json:"model_type" validate:"required,oneof=win spread total"`
	FeatureSchema json.RawMessage `db:"feature_schema" json:"feature_schema" validate:"required"`
	Metrics       json.RawMessage `db:"metrics" json:"metrics"`
	TrainedAt     time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active        bool            `db:"active" json:"active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive checks if the model is currently active
func (m *Model) IsActive() bool {
	return m.Active
}

// FeatureNames decodes the ordered feature-name list recorded at training time
func (m *Model) FeatureNames() ([]string, error) {
	var names []string
	if err := json.Unmarshal(m.FeatureSchema, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// GetMetric retrieves a metric value from the Metrics JSON
func (m *Model) GetMetric(name string) (interface{}, error) {
	if m.Metrics == nil {
		return nil, nil
	}

	var metrics map[string]interface{}
	if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
		return nil, err
	}

	return metrics[name], nil
}

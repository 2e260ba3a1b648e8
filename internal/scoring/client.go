// Package scoring provides an HTTP client for the model scoring service.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
)

// Scorer produces a single regression output for a feature vector.
type Scorer interface {
	Score(ctx context.Context, modelType, modelVersion string, features []float64) (float64, error)
}

// HTTPScorer calls the scoring service over HTTP/JSON
type HTTPScorer struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewHTTPScorer creates a new HTTP scoring client
func NewHTTPScorer(cfg *config.ModelServiceConfig, logger *logrus.Logger) *HTTPScorer {
	return &HTTPScorer{
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: cfg.URL,
		logger:  logger,
	}
}

// ScoreRequest represents a scoring request payload
type ScoreRequest struct {
	ModelType    string    `json:"model_type"`
	ModelVersion string    `json:"model_version"`
	Features     []float64 `json:"features"`
}

// ScoreResponse represents a scoring response
type ScoreResponse struct {
	Prediction   float64 `json:"prediction"`
	ModelType    string  `json:"model_type"`
	ModelVersion string  `json:"model_version"`
}

// Score sends a feature vector to the scoring service and returns the
// model output (projected margin or total, depending on model type).
func (c *HTTPScorer) Score(ctx context.Context, modelType, modelVersion string, features []float64) (float64, error) {
	start := time.Now()

	reqBody := ScoreRequest{
		ModelType:    modelType,
		ModelVersion: modelVersion,
		Features:     features,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/score", bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		ScoreErrorsTotal.WithLabelValues(modelType, "network").Inc()
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		ScoreErrorsTotal.WithLabelValues(modelType, "http_error").Inc()
		return 0, fmt.Errorf("scoring request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var scoreResp ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scoreResp); err != nil {
		ScoreErrorsTotal.WithLabelValues(modelType, "decode").Inc()
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	c.logger.WithFields(logrus.Fields{
		"model_type":    modelType,
		"model_version": modelVersion,
		"feature_count": len(features),
		"duration":      time.Since(start),
	}).Debug("Scoring request completed")

	ScoreLatency.WithLabelValues(modelType).Observe(time.Since(start).Seconds())

	return scoreResp.Prediction, nil
}

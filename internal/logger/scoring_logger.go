// Package logger provides scoring-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for model scoring calls.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogScoreRequest logs a completed model scoring request.
func (sl *ScoringLogger) LogScoreRequest(modelType, modelVersion string, featureCount int, cacheHit bool, latencyMs float64) {
	sl.WithFields(logrus.Fields{
		"model_type":    modelType,
		"model_version": modelVersion,
		"feature_count": featureCount,
		"cache_hit":     cacheHit,
		"latency_ms":    latencyMs,
	}).Info("Model scoring request completed")
}

// LogSchemaDefaulting logs features filled with zeros to satisfy a model schema.
func (sl *ScoringLogger) LogSchemaDefaulting(matchID string, defaulted []string) {
	sl.WithFields(logrus.Fields{
		"match_id":  matchID,
		"defaulted": defaulted,
	}).Warn("Feature vector padded with schema defaults")
}

// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for pick and settlement events.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogPickCreated logs a persisted recommendation.
func (pl *PipelineLogger) LogPickCreated(matchID, recommendedTeam string, confidence int, marketLine string, ouPick string, ouConfidence int, modelVersion string) {
	pl.WithFields(logrus.Fields{
		"match_id":         matchID,
		"recommended_team": recommendedTeam,
		"confidence":       confidence,
		"market_line":      marketLine,
		"ou_pick":          ouPick,
		"ou_confidence":    ouConfidence,
		"model_version":    modelVersion,
	}).Info("Pick created")
}

// LogPickSkipped logs a fixture passed over without a new pick.
func (pl *PipelineLogger) LogPickSkipped(matchID, reason string) {
	pl.WithFields(logrus.Fields{
		"match_id": matchID,
		"reason":   reason,
	}).Debug("Pick skipped")
}

// LogSettlement logs a graded pick.
func (pl *PipelineLogger) LogSettlement(matchID string, spreadOutcome, totalOutcome string, finalMargin, finalTotal float64) {
	pl.WithFields(logrus.Fields{
		"match_id":       matchID,
		"spread_outcome": spreadOutcome,
		"total_outcome":  totalOutcome,
		"final_margin":   finalMargin,
		"final_total":    finalTotal,
	}).Info("Pick settled")
}

// LogIngestionBatch logs a completed stats ingestion pass.
func (pl *PipelineLogger) LogIngestionBatch(source string, fetched, inserted, skipped int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"source":      source,
		"fetched":     fetched,
		"inserted":    inserted,
		"skipped":     skipped,
		"duration_ms": durationMs,
	}).Info("Stats ingestion batch completed")
}

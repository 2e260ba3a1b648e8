package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestPipelineLoggerPickCreated(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogPickCreated("401585183", "17", 66, "Line: -3.0", "OVER", 72, "v12")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pipeline", logEntry["component"])
	assert.Equal(t, "401585183", logEntry["match_id"])
	assert.Equal(t, "17", logEntry["recommended_team"])
	assert.Equal(t, float64(66), logEntry["confidence"])
}

func TestPipelineLoggerSettlement(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log)

	pipelineLogger.LogSettlement("401585183", "WIN", "LOSS", 7, 214)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "WIN", logEntry["spread_outcome"])
	assert.Equal(t, "LOSS", logEntry["total_outcome"])
}

func TestScoringLoggerScoreRequest(t *testing.T) {
	log, buf := setupTestLogger()
	scoringLogger := NewScoringLogger(log)

	scoringLogger.LogScoreRequest("spread", "v12", 80, true, 2.4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scoring", logEntry["component"])
	assert.Equal(t, true, logEntry["cache_hit"])
	assert.Equal(t, "v12", logEntry["model_version"])
}

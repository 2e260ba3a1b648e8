// Package config provides configuration management for the Courtside application.
package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "courtside", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []int{5, 10, 30}, cfg.Pipeline.Windows)
	assert.Equal(t, 225.0, cfg.Pipeline.DefaultTotal)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent_config.yaml")
	require.Error(t, err)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/nonexistent_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "courtside", cfg.App.Name)
	assert.Equal(t, []int{5, 10, 30}, cfg.Pipeline.Windows)
	assert.Equal(t, 50, cfg.Pipeline.MinHistoryRows)
	assert.Equal(t, 225.0, cfg.Pipeline.DefaultTotal)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
}

func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	assert.NoError(t, Validate(cfg))
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "invalid"
	assert.Error(t, Validate(cfg))
}

func TestValidateWindows(t *testing.T) {
	tests := []struct {
		name    string
		windows []int
		wantErr bool
	}{
		{"increasing", []int{5, 10, 30}, false},
		{"single", []int{10}, false},
		{"empty", []int{}, true},
		{"unordered", []int{10, 5, 30}, true},
		{"duplicate", []int{5, 5, 30}, true},
		{"non-positive", []int{0, 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			require.NoError(t, err)

			cfg.Pipeline.Windows = tt.windows
			err = Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMinHistoryBelowLargestWindow(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Pipeline.MinHistoryRows = 20
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_history_rows")
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	assert.Error(t, Validate(cfg))

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://"))
	assert.Contains(t, dsn, "localhost:5432")
}

func TestEnvironmentChecks(t *testing.T) {
	dev := &Config{App: AppConfig{Environment: "development"}}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}

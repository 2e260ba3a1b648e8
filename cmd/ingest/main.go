// Package main provides the entry point for the stats ingestion job.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	applogger "github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
)

var (
	configFile   string
	backfillDays int

	cfg    *config.Config
	appLog *logrus.Logger
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVarP(&backfillDays, "backfill-days", "b", 0, "Override the configured backfill window")
}

var rootCmd = &cobra.Command{
	Use:   "courtside-ingest",
	Short: "Refresh fixtures, market lines, and box-score history",
	Long:  `Pull the schedule, posted lines, and finished box scores from the stats feed into the local store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestion(cmd.Context())
	},
}

func main() {
	defer cleanup()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = applogger.NewLogger(cfg.App.LogLevel)

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func cleanup() {
	if db != nil {
		db.Close()
	}
}

func runIngestion(ctx context.Context) error {
	if backfillDays > 0 {
		cfg.Ingestion.BackfillDays = backfillDays
	}

	source := datasource.NewESPNSource(&cfg.Ingestion, appLog)
	defer source.Close()

	ingestion := service.NewStatsIngestionService(source, repos, &cfg.Ingestion, appLog)

	report, err := ingestion.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d days: %d fixtures, %d teams, %d stat rows inserted (%d already present, %d errors)\n",
		report.Days, report.FixturesUpserts, report.TeamsUpserts,
		report.RowsInserted, report.RowsSkipped, report.Errors)

	return nil
}

// Package main provides the entry point for the pick generation job.
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
	applogger "github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scoring"
	"github.com/yourusername/courtside/internal/service"
)

var (
	configFile string
	force      bool

	cfg    *config.Config
	appLog *logrus.Logger
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&force, "force", false, "Generate picks for fixtures past the scheduled state")
}

var rootCmd = &cobra.Command{
	Use:   "courtside-predict",
	Short: "Generate picks for upcoming fixtures",
	Long:  `Score every upcoming fixture with the active models and persist one recommendation per game.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrediction(cmd.Context())
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

func runPrediction(ctx context.Context) error {
	scorer := scoring.NewCachedScorer(&cfg.ModelService, appLog)

	bundle, err := scoring.LoadActiveBundle(ctx, repos.Model, scorer, appLog)
	if err != nil {
		return fmt.Errorf("failed to load active models: %w", err)
	}

	engine := service.NewPickEngine(repos, bundle, cfg, appLog, force || cfg.Features.ForceRepickEnabled)

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(report.String())
	return nil
}

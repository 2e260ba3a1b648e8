// Package main provides the entry point for the settlement job.
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
	"github.com/yourusername/courtside/internal/service"
)

var (
	configFile string

	cfg    *config.Config
	appLog *logrus.Logger
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "courtside-grade",
	Short: "Settle picks against final scores",
	Long:  `Grade every unsettled pick whose game has gone final and record spread and total outcomes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettlement(cmd.Context())
	},
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Print the historical win/loss record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAccuracy(cmd.Context())
	},
}

func main() {
	defer cleanup()

	rootCmd.AddCommand(accuracyCmd)

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

func runSettlement(ctx context.Context) error {
	engine := service.NewSettlementEngine(repos, appLog)

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(report.String())

	return printAccuracy(ctx)
}

func printAccuracy(ctx context.Context) error {
	accuracy := service.NewAccuracyService(repos, appLog)

	summary, err := accuracy.Summarize(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Record: %s\n", summary.String())
	return nil
}

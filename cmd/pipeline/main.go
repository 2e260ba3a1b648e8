// Package main provides the entry point for the pipeline daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/health"
	applogger "github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scheduler"
	"github.com/yourusername/courtside/internal/scoring"
	"github.com/yourusername/courtside/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

// Fallback schedules, UTC. Grading runs after the overnight slate goes
// final; the pick pipeline runs once fresh lines are posted.
const (
	defaultPipelineSpec = "0 16 * * *"
	defaultGradeSpec    = "0 12 * * *"
)

var (
	configFile string
	healthPort string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&healthPort, "health-port", "", "Port for the health check server")
}

var rootCmd = &cobra.Command{
	Use:   "courtside-pipeline",
	Short: "Run the full pick pipeline on a schedule",
	Long:  `Daemon that ingests the feed, generates picks, and settles finished games on cron schedules, with health and metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadWithDefaults(configFile)
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

	appLog := applogger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Courtside pipeline starting")

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	source := datasource.NewESPNSource(&cfg.Ingestion, appLog)
	defer source.Close()

	scorer := scoring.NewCachedScorer(&cfg.ModelService, appLog)
	bundle, err := scoring.LoadActiveBundle(ctx, repos.Model, scorer, appLog)
	if err != nil {
		return fmt.Errorf("failed to load active models: %w", err)
	}

	ingestion := service.NewStatsIngestionService(source, repos, &cfg.Ingestion, appLog)
	pickEngine := service.NewPickEngine(repos, bundle, cfg, appLog, cfg.Features.ForceRepickEnabled)
	settlement := service.NewSettlementEngine(repos, appLog)

	pipelineSpec := cfg.Ingestion.ScheduleSpec
	if pipelineSpec == "" {
		pipelineSpec = defaultPipelineSpec
	}
	gradeSpec := cfg.Ingestion.GradeScheduleSpec
	if gradeSpec == "" {
		gradeSpec = defaultGradeSpec
	}

	sched := scheduler.NewScheduler(appLog)
	if err := sched.SchedulePipeline(pipelineSpec, ingestion, pickEngine); err != nil {
		return err
	}
	if err := sched.ScheduleGrading(gradeSpec, settlement); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        healthPort,
		Logger:      appLog,
	})
	healthServer.RegisterCheck("database", db.Ping)
	healthServer.RegisterCheck("scoring_service", scoringServiceCheck(cfg.ModelService.URL))
	if err := healthServer.Start(runCtx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"pipeline_schedule": pipelineSpec,
		"grade_schedule":    gradeSpec,
		"next_run":          sched.NextRun().Format(time.RFC3339),
	}).Info("Pipeline scheduler running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthServer.SetReady(false)
	sched.Stop()
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown error")
		}
	}

	appLog.Info("Courtside pipeline shut down")
	return nil
}

// scoringServiceCheck probes the model server's health endpoint
func scoringServiceCheck(baseURL string) health.CheckFunc {
	client := &http.Client{Timeout: 3 * time.Second}

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("scoring service returned status %d", resp.StatusCode)
		}
		return nil
	}
}

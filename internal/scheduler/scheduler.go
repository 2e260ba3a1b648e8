// Package scheduler runs the pipeline stages on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/service"
)

// PickRunner builds picks for upcoming fixtures
type PickRunner interface {
	Run(ctx context.Context) (*service.BatchReport, error)
}

// IngestRunner refreshes fixtures, lines, and stat history
type IngestRunner interface {
	Run(ctx context.Context) (*service.IngestionReport, error)
}

// Scheduler manages the recurring ingest, predict, and grade jobs
type Scheduler struct {
	cron      *cron.Cron
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler running in UTC
func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
		jobIDs: make([]cron.EntryID, 0),
	}
}

// ScheduleIngestion schedules the feed ingestion job
func (s *Scheduler) ScheduleIngestion(cronExpression string, ingest IngestRunner) error {
	return s.schedule("ingest", cronExpression, func(ctx context.Context) error {
		report, err := ingest.Run(ctx)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"days":     report.Days,
			"inserted": report.RowsInserted,
			"errors":   report.Errors,
		}).Info("Scheduled ingestion completed")
		return nil
	})
}

// SchedulePrediction schedules the pick generation job
func (s *Scheduler) SchedulePrediction(cronExpression string, engine PickRunner) error {
	return s.schedule("predict", cronExpression, func(ctx context.Context) error {
		report, err := engine.Run(ctx)
		if err != nil {
			return err
		}
		s.logger.WithField("report", report.String()).Info("Scheduled prediction completed")
		return nil
	})
}

// SchedulePipeline schedules the combined ingest-then-predict job so
// picks are always generated against fresh lines and history.
func (s *Scheduler) SchedulePipeline(cronExpression string, ingest IngestRunner, engine PickRunner) error {
	return s.schedule("pipeline", cronExpression, func(ctx context.Context) error {
		ingestReport, err := ingest.Run(ctx)
		if err != nil {
			return fmt.Errorf("ingest stage: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"inserted": ingestReport.RowsInserted,
			"errors":   ingestReport.Errors,
		}).Info("Pipeline ingest stage completed")

		pickReport, err := engine.Run(ctx)
		if err != nil {
			return fmt.Errorf("predict stage: %w", err)
		}
		s.logger.WithField("report", pickReport.String()).Info("Pipeline predict stage completed")
		return nil
	})
}

// ScheduleGrading schedules the settlement job
func (s *Scheduler) ScheduleGrading(cronExpression string, engine PickRunner) error {
	return s.schedule("grade", cronExpression, func(ctx context.Context) error {
		report, err := engine.Run(ctx)
		if err != nil {
			return err
		}
		s.logger.WithField("report", report.String()).Info("Scheduled settlement completed")
		return nil
	})
}

func (s *Scheduler) schedule(name, cronExpression string, job func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		s.logger.WithField("job", name).Info("Scheduled job starting")
		if err := job(ctx); err != nil {
			s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Job scheduled")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job time
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

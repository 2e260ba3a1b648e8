package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/repository"
)

// AccuracySummary reports historical pick performance per bet type
type AccuracySummary struct {
	SpreadWins    int
	SpreadLosses  int
	SpreadPushes  int
	SpreadWinRate float64
	TotalWins     int
	TotalLosses   int
	TotalPushes   int
	TotalWinRate  float64
}

func (s *AccuracySummary) String() string {
	return fmt.Sprintf("spread %d-%d-%d (%.1f%%), totals %d-%d-%d (%.1f%%)",
		s.SpreadWins, s.SpreadLosses, s.SpreadPushes, s.SpreadWinRate*100,
		s.TotalWins, s.TotalLosses, s.TotalPushes, s.TotalWinRate*100)
}

// AccuracyService aggregates settled outcomes into a performance summary
type AccuracyService struct {
	repos *repository.Repositories
	log   *logrus.Logger
}

// NewAccuracyService creates an accuracy service
func NewAccuracyService(repos *repository.Repositories, log *logrus.Logger) *AccuracyService {
	return &AccuracyService{repos: repos, log: log}
}

// Summarize computes win/loss/push tallies across all settled picks.
// Pushes count toward neither side of the win rate.
func (s *AccuracyService) Summarize(ctx context.Context) (*AccuracySummary, error) {
	tallies, err := s.repos.Pick.GetOutcomeTallies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outcomes: %w", err)
	}

	summary := &AccuracySummary{
		SpreadWins:    tallies.SpreadWins,
		SpreadLosses:  tallies.SpreadLosses,
		SpreadPushes:  tallies.SpreadPushes,
		SpreadWinRate: tallies.SpreadWinRate(),
		TotalWins:     tallies.TotalWins,
		TotalLosses:   tallies.TotalLosses,
		TotalPushes:   tallies.TotalPushes,
		TotalWinRate:  tallies.TotalWinRate(),
	}

	s.log.WithFields(logrus.Fields{
		"spread_record": fmt.Sprintf("%d-%d-%d", summary.SpreadWins, summary.SpreadLosses, summary.SpreadPushes),
		"total_record":  fmt.Sprintf("%d-%d-%d", summary.TotalWins, summary.TotalLosses, summary.TotalPushes),
	}).Info("Accuracy summary computed")

	return summary, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// Settlement skip reasons
const (
	SkipFixtureNotFinal = "fixture_not_final"
	SkipAlreadySettled  = "already_settled"
)

// SettlementEngine grades picks against final scores. Each outcome field
// is written exactly once; a settled field is never recomputed.
type SettlementEngine struct {
	repos *repository.Repositories
	log   *logrus.Logger
	plog  *logger.PipelineLogger
}

// NewSettlementEngine creates a settlement engine
func NewSettlementEngine(repos *repository.Repositories, log *logrus.Logger) *SettlementEngine {
	return &SettlementEngine{
		repos: repos,
		log:   log,
		plog:  logger.NewPipelineLogger(log),
	}
}

// Run grades every unsettled pick whose fixture has gone final.
// Per-pick errors (malformed lines, missing fixtures) are reported and
// skipped, never fatal to the batch.
func (e *SettlementEngine) Run(ctx context.Context) (*BatchReport, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineRunDuration.WithLabelValues("grade").Observe(time.Since(start).Seconds())
	}()

	picks, err := e.repos.Pick.GetUnsettled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load unsettled picks: %w", err)
	}
	metrics.UnsettledPicks.Set(float64(len(picks)))

	report := &BatchReport{}
	for _, pick := range picks {
		result := e.settlePick(ctx, pick)
		report.Add(result)

		if result.Status == ItemFailed {
			metrics.SettlementErrorsTotal.WithLabelValues("grading").Inc()
			e.log.WithError(result.Err).WithField("match_id", result.MatchID).Warn("Pick settlement failed")
		}
	}

	e.updateAccuracyGauges(ctx)

	e.log.WithFields(logrus.Fields{
		"total":   report.Total(),
		"settled": report.Settled,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("Settlement run completed")

	return report, nil
}

// settlePick grades one pick's outstanding bet types
func (e *SettlementEngine) settlePick(ctx context.Context, pick *models.Pick) ItemResult {
	fixture, err := e.repos.Fixture.GetByID(ctx, pick.MatchID)
	if err != nil {
		return ItemResult{MatchID: pick.MatchID, Status: ItemFailed, Err: fmt.Errorf("fixture lookup: %w", err)}
	}

	if !fixture.IsFinal() {
		return ItemResult{MatchID: pick.MatchID, Status: ItemSkipped, Reason: SkipFixtureNotFinal}
	}

	homeScore := *fixture.HomeScore
	awayScore := *fixture.AwayScore
	settled := false

	var spreadOutcome, totalOutcome models.Outcome

	if pick.NeedsSpreadSettlement() {
		line, err := ParseLineValue(pick.MarketLine)
		if err != nil {
			metrics.SettlementErrorsTotal.WithLabelValues("malformed_line").Inc()
			return ItemResult{MatchID: pick.MatchID, Status: ItemFailed, Err: err}
		}

		marginForRecommended := float64(homeScore - awayScore)
		if pick.RecommendedTeamID != fixture.HomeTeamID {
			marginForRecommended = float64(awayScore - homeScore)
		}

		spreadOutcome = GradeSpread(marginForRecommended, line)
		if err := e.repos.Pick.SetSpreadOutcome(ctx, pick.ID, spreadOutcome); err != nil {
			if !errors.Is(err, models.ErrOutcomeAlreadySet) {
				return ItemResult{MatchID: pick.MatchID, Status: ItemFailed, Err: err}
			}
		} else {
			metrics.SettlementsTotal.WithLabelValues("spread", string(spreadOutcome)).Inc()
			settled = true
		}
	}

	if pick.NeedsTotalSettlement() {
		total := float64(homeScore + awayScore)
		totalOutcome = GradeTotal(total, pick.OverUnderLine, pick.OverUnderPick)
		if err := e.repos.Pick.SetTotalOutcome(ctx, pick.ID, totalOutcome); err != nil {
			if !errors.Is(err, models.ErrOutcomeAlreadySet) {
				return ItemResult{MatchID: pick.MatchID, Status: ItemFailed, Err: err}
			}
		} else {
			metrics.SettlementsTotal.WithLabelValues("total", string(totalOutcome)).Inc()
			settled = true
		}
	}

	if !settled {
		return ItemResult{MatchID: pick.MatchID, Status: ItemSkipped, Reason: SkipAlreadySettled}
	}

	e.plog.LogSettlement(pick.MatchID, string(spreadOutcome), string(totalOutcome),
		float64(homeScore-awayScore), float64(homeScore+awayScore))

	return ItemResult{MatchID: pick.MatchID, Status: ItemSettled}
}

func (e *SettlementEngine) updateAccuracyGauges(ctx context.Context) {
	tallies, err := e.repos.Pick.GetOutcomeTallies(ctx)
	if err != nil {
		e.log.WithError(err).Warn("Failed to refresh accuracy gauges")
		return
	}
	metrics.SpreadWinRate.Set(tallies.SpreadWinRate())
	metrics.TotalWinRate.Set(tallies.TotalWinRate())
}

// ParseLineValue extracts the numeric line from a stored market line
// string. Historic rows carry "Line: " or "Spread: " prefixes and "PK"
// for a pick-em; all three forms must keep parsing.
func ParseLineValue(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "Line: ", "")
	s = strings.ReplaceAll(s, "Spread: ", "")
	s = strings.ReplaceAll(s, "PK", "0")

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrMalformedMarketLine, raw)
	}
	return value, nil
}

// GradeSpread grades a spread bet from the recommended team's margin and
// its line. Exact decimal arithmetic keeps the push boundary honest;
// float addition of .5 lines would miss exact zero.
func GradeSpread(marginForRecommended, line float64) models.Outcome {
	result := decimal.NewFromFloat(marginForRecommended).Add(decimal.NewFromFloat(line))
	switch result.Sign() {
	case 1:
		return models.OutcomeWin
	case -1:
		return models.OutcomeLoss
	default:
		return models.OutcomePush
	}
}

// GradeTotal grades an over/under bet against the final combined score
func GradeTotal(total, line float64, side models.OverUnderSide) models.Outcome {
	t := decimal.NewFromFloat(total)
	l := decimal.NewFromFloat(line)

	cmp := t.Cmp(l)
	if cmp == 0 {
		return models.OutcomePush
	}

	if (side == models.OverUnderOver && cmp > 0) || (side == models.OverUnderUnder && cmp < 0) {
		return models.OutcomeWin
	}
	return models.OutcomeLoss
}

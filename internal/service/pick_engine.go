package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scoring"
)

// Skip reasons reported in the batch summary
const (
	SkipAlreadyPicked = "already_picked"
	SkipNotUpcoming   = "not_upcoming"
	SkipOutsideWindow = "outside_window"
)

// PickEngine turns scheduled fixtures into persisted recommendations.
// One pick per fixture, first pick wins; re-running over the same
// fixtures is a no-op.
type PickEngine struct {
	repos  *repository.Repositories
	bundle *scoring.ModelBundle
	cfg    *config.Config
	log    *logrus.Logger
	plog   *logger.PipelineLogger
	slog   *logger.ScoringLogger
	force  bool
}

// NewPickEngine creates a pick engine. force allows picking fixtures that
// are no longer in the scheduled state; it never overwrites existing picks.
func NewPickEngine(repos *repository.Repositories, bundle *scoring.ModelBundle, cfg *config.Config, log *logrus.Logger, force bool) *PickEngine {
	return &PickEngine{
		repos:  repos,
		bundle: bundle,
		cfg:    cfg,
		log:    log,
		plog:   logger.NewPipelineLogger(log),
		slog:   logger.NewScoringLogger(log),
		force:  force,
	}
}

// Run executes one full prediction pass: load history, build profiles,
// score upcoming fixtures, and persist picks. Per-fixture failures are
// collected into the report, never fatal to the batch.
func (e *PickEngine) Run(ctx context.Context) (*BatchReport, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineRunDuration.WithLabelValues("predict").Observe(time.Since(start).Seconds())
	}()

	builder, err := e.loadBuilder(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fixtures, err := e.repos.Fixture.GetByDateRange(ctx, now.Add(-12*time.Hour), now.Add(e.cfg.Lookahead()))
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	teams, err := e.teamIndex(ctx)
	if err != nil {
		return nil, err
	}

	matchIDs := make([]string, 0, len(fixtures))
	for _, f := range fixtures {
		matchIDs = append(matchIDs, f.MatchID)
	}
	existing, err := e.repos.Pick.GetByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing picks: %w", err)
	}

	report := &BatchReport{}
	for _, fixture := range fixtures {
		result := e.processFixture(ctx, builder, fixture, teams, existing)
		report.Add(result)

		switch result.Status {
		case ItemCreated:
			metrics.PicksCreatedTotal.Inc()
		case ItemSkipped:
			metrics.PicksSkippedTotal.WithLabelValues(result.Reason).Inc()
		case ItemFailed:
			metrics.PicksFailedTotal.Inc()
			e.log.WithError(result.Err).WithField("match_id", result.MatchID).Warn("Fixture failed pick generation")
		}
	}

	e.log.WithFields(logrus.Fields{
		"total":   report.Total(),
		"created": report.Created,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("Prediction run completed")

	return report, nil
}

// loadBuilder loads cleaned stat history into a fresh feature builder
func (e *PickEngine) loadBuilder(ctx context.Context) (*features.Builder, error) {
	var rows []models.StatRow
	var err error

	if days := e.cfg.Pipeline.HistoryCutoffDays; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		rows, err = e.repos.StatRow.GetSince(ctx, cutoff)
	} else {
		rows, err = e.repos.StatRow.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stat history: %w", err)
	}

	builder := features.NewBuilder(features.SchemaFromWindows(e.cfg.Pipeline.Windows), e.cfg.Pipeline.MinHistoryRows, e.log)
	report, err := builder.Load(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load feature history: %w", err)
	}
	metrics.StatRowsDroppedTotal.WithLabelValues("bad_time").Add(float64(report.DroppedBadTime))
	metrics.StatRowsDroppedTotal.WithLabelValues("no_outcome").Add(float64(report.DroppedNoOutcome))

	return builder, nil
}

type teamInfo struct {
	code string
	name string
}

func (e *PickEngine) teamIndex(ctx context.Context) (map[string]teamInfo, error) {
	teams, err := e.repos.Team.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	index := make(map[string]teamInfo, len(teams))
	for _, t := range teams {
		index[t.ID] = teamInfo{code: t.Code, name: t.Name}
	}
	return index, nil
}

// processFixture handles one fixture end to end. Any error produces a
// failed item; nothing partial is ever persisted.
func (e *PickEngine) processFixture(ctx context.Context, builder *features.Builder, fixture *models.Fixture, teams map[string]teamInfo, existing map[string]*models.Pick) ItemResult {
	if _, picked := existing[fixture.MatchID]; picked {
		e.plog.LogPickSkipped(fixture.MatchID, SkipAlreadyPicked)
		return ItemResult{MatchID: fixture.MatchID, Status: ItemSkipped, Reason: SkipAlreadyPicked}
	}

	if !fixture.IsUpcoming() && !e.force {
		e.plog.LogPickSkipped(fixture.MatchID, SkipNotUpcoming)
		return ItemResult{MatchID: fixture.MatchID, Status: ItemSkipped, Reason: SkipNotUpcoming}
	}

	homeProfile, err := builder.ProfileBefore(fixture.HomeTeamID, fixture.StartTime)
	if err != nil {
		return ItemResult{MatchID: fixture.MatchID, Status: ItemFailed, Err: err}
	}
	awayProfile, err := builder.ProfileBefore(fixture.AwayTeamID, fixture.StartTime)
	if err != nil {
		return ItemResult{MatchID: fixture.MatchID, Status: ItemFailed, Err: err}
	}

	feats := features.ComposeMatchup(homeProfile, awayProfile)
	totalsEnabled := e.cfg.Features.TotalsEnabled

	spreadVec := features.BuildVector(fixture.MatchID, feats, e.bundle.SpreadFeatures)
	if len(spreadVec.Defaulted) > 0 {
		e.slog.LogSchemaDefaulting(fixture.MatchID, spreadVec.Defaulted)
		metrics.SchemaDefaultsTotal.Add(float64(len(spreadVec.Defaulted)))
	}

	projectedMargin, err := e.bundle.ScoreSpread(ctx, fixture.MatchID, spreadVec.Values)
	if err != nil {
		return ItemResult{MatchID: fixture.MatchID, Status: ItemFailed, Err: fmt.Errorf("spread scoring: %w", err)}
	}

	var projectedTotal float64
	if totalsEnabled {
		totalVec := features.BuildVector(fixture.MatchID, feats, e.bundle.TotalFeatures)
		if len(totalVec.Defaulted) > 0 {
			e.slog.LogSchemaDefaulting(fixture.MatchID, totalVec.Defaulted)
			metrics.SchemaDefaultsTotal.Add(float64(len(totalVec.Defaulted)))
		}

		projectedTotal, err = e.bundle.ScoreTotal(ctx, fixture.MatchID, totalVec.Values)
		if err != nil {
			return ItemResult{MatchID: fixture.MatchID, Status: ItemFailed, Err: fmt.Errorf("total scoring: %w", err)}
		}
	}

	home := teams[fixture.HomeTeamID]
	away := teams[fixture.AwayTeamID]

	marketSpread, spreadDefaulted := ParseMarketSpread(fixture.MarketSpread, home.code, away.code, e.cfg.Pipeline.DefaultSpread)
	if spreadDefaulted && fixture.MarketSpread != nil {
		e.log.WithFields(logrus.Fields{
			"match_id": fixture.MatchID,
			"spread":   *fixture.MarketSpread,
		}).Warn("Unparseable market spread, using default line")
	}
	marketTotal, totalDefaulted := MarketTotalOrDefault(fixture.MarketTotal, e.cfg.Pipeline.DefaultTotal)
	if totalsEnabled && totalDefaulted {
		e.log.WithFields(logrus.Fields{
			"match_id": fixture.MatchID,
			"total":    marketTotal,
		}).Warn("No posted total line, using default")
	}

	decision := Decide(projectedMargin, projectedTotal, marketSpread, marketTotal)

	recommendedID := fixture.HomeTeamID
	recommendedName := home.name
	if !decision.RecommendHome {
		recommendedID = fixture.AwayTeamID
		recommendedName = away.name
	}
	if recommendedName == "" {
		recommendedName = recommendedID
	}

	pick := &models.Pick{
		ID:                uuid.New(),
		MatchID:           fixture.MatchID,
		RecommendedTeamID: recommendedID,
		ConfidenceScore:   decision.Confidence,
		MarketLine:        FormatMarketLine(decision.LineForRecommended),
		SpreadRationale:   BuildRationale(recommendedName, decision.RecommendedMargin, decision.LineForRecommended),
		ModelVersion:      e.bundle.Version(),
	}
	if totalsEnabled {
		pick.OverUnderPick = decision.OverUnderPick
		pick.OverUnderLine = marketTotal
		pick.OverUnderConfidence = decision.OverUnderConfidence
	}

	if text := e.analysisText(ctx, fixture, feats, recommendedName, projectedMargin, projectedTotal); text != "" {
		pick.AnalysisText = &text
	}

	if err := e.repos.Pick.Create(ctx, pick); err != nil {
		if errors.Is(err, models.ErrPickAlreadyExists) {
			// Lost the race to another run; expected steady state, not an error.
			e.plog.LogPickSkipped(fixture.MatchID, SkipAlreadyPicked)
			return ItemResult{MatchID: fixture.MatchID, Status: ItemSkipped, Reason: SkipAlreadyPicked}
		}
		return ItemResult{MatchID: fixture.MatchID, Status: ItemFailed, Err: err}
	}

	e.plog.LogPickCreated(pick.MatchID, pick.RecommendedTeamID, pick.ConfidenceScore,
		pick.MarketLine, string(pick.OverUnderPick), pick.OverUnderConfidence, pick.ModelVersion)

	return ItemResult{MatchID: fixture.MatchID, Status: ItemCreated}
}

// analysisText builds the optional narrative, including win probability
// when a win model is registered. Failures here never block the pick.
func (e *PickEngine) analysisText(ctx context.Context, fixture *models.Fixture, feats map[string]float64, recommendedName string, projectedMargin, projectedTotal float64) string {
	text := fmt.Sprintf("Model projects a home margin of %.1f and a combined score of %.1f. Recommended side: %s.",
		projectedMargin, projectedTotal, recommendedName)

	if e.bundle.WinModel != nil {
		winVec := features.BuildVector(fixture.MatchID, feats, e.bundle.WinFeatures)
		if p, ok, err := e.bundle.ScoreWin(ctx, fixture.MatchID, winVec.Values); err == nil && ok {
			text += fmt.Sprintf(" Home win probability: %.0f%%.", p*100)
		} else if err != nil {
			e.log.WithError(err).WithField("match_id", fixture.MatchID).Debug("Win model scoring failed, omitting probability")
		}
	}

	return text
}

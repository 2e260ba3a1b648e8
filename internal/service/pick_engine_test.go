package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scoring"
)

// fixedScorer returns canned projections per model type
type fixedScorer struct {
	outputs map[string]float64
	calls   int
}

func (s *fixedScorer) Score(_ context.Context, modelType, _ string, _ []float64) (float64, error) {
	s.calls++
	return s.outputs[modelType], nil
}

func engineConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			Windows:        []int{5},
			MinHistoryRows: 4,
			DefaultTotal:   225.0,
			DefaultSpread:  0.0,
			LookaheadHours: 24,
		},
		Features: config.FeaturesConfig{TotalsEnabled: true},
	}
}

func registeredModel(modelType string, featureNames []string) *models.Model {
	schema, _ := json.Marshal(featureNames)
	return &models.Model{
		ID:            uuid.New(),
		Name:          "nba-" + modelType,
		Version:       "v1",
		ModelType:     modelType,
		FeatureSchema: schema,
		TrainedAt:     time.Now(),
		Active:        true,
	}
}

// seedHistory gives both teams enough finished games before now
func seedHistory(teamIDs ...string) *fakeStatRowRepo {
	repo := &fakeStatRowRepo{}
	for _, teamID := range teamIDs {
		for i := 0; i < 5; i++ {
			won := i%2 == 0
			repo.rows = append(repo.rows, models.StatRow{
				GameID:        fmt.Sprintf("hist-%s-%d", teamID, i),
				TeamID:        teamID,
				GameTime:      time.Now().AddDate(0, 0, -(10 - i*2)),
				Won:           &won,
				PointsScored:  110,
				PointsAllowed: 105,
			})
		}
	}
	return repo
}

func testBundle(t *testing.T, scorer *fixedScorer) *scoring.ModelBundle {
	t.Helper()

	schema := features.SchemaFromWindows([]int{5})
	modelRepo := &fakeModelRepo{byType: map[string]*models.Model{
		scoring.ModelTypeSpread: registeredModel(scoring.ModelTypeSpread, schema.SpreadFeatureNames()),
		scoring.ModelTypeTotal:  registeredModel(scoring.ModelTypeTotal, schema.TotalFeatureNames()),
	}}

	cached := scoring.NewCachedScorerWith(scorer, scoring.NewScoreCache(time.Minute), testLogger())
	bundle, err := scoring.LoadActiveBundle(context.Background(), modelRepo, cached, testLogger())
	require.NoError(t, err)
	return bundle
}

func upcomingFixture(marketSpread string, marketTotal float64) *models.Fixture {
	return &models.Fixture{
		MatchID:      "game-1",
		StartTime:    time.Now().Add(6 * time.Hour),
		HomeTeamID:   "1",
		AwayTeamID:   "2",
		Status:       models.FixtureStatusScheduled,
		MarketSpread: &marketSpread,
		MarketTotal:  &marketTotal,
	}
}

func engineRepos(fixture *models.Fixture, picks *fakePickRepo) *repository.Repositories {
	return &repository.Repositories{
		StatRow: seedHistory("1", "2"),
		Fixture: newFakeFixtureRepo(fixture),
		Pick:    picks,
		Team: newFakeTeamRepo(
			&models.Team{ID: "1", Code: "LAL", Name: "Lakers"},
			&models.Team{ID: "2", Code: "BOS", Name: "Celtics"},
		),
	}
}

func TestPickEngineCreatesPick(t *testing.T) {
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 7.0,
		scoring.ModelTypeTotal:  230.0,
	}}
	picks := newFakePickRepo()

	engine := NewPickEngine(engineRepos(upcomingFixture("LAL -3.0", 225.5), picks),
		testBundle(t, scorer), engineConfig(), testLogger(), false)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	pick := picks.byMatch["game-1"]
	require.NotNil(t, pick)
	assert.Equal(t, "1", pick.RecommendedTeamID)
	assert.Equal(t, 66, pick.ConfidenceScore)
	assert.Equal(t, "Line: -3.0", pick.MarketLine)
	assert.Equal(t, "Lakers projects to win by 7.0 pts against the spread (line -3.0)", pick.SpreadRationale)
	assert.Equal(t, models.OverUnderOver, pick.OverUnderPick)
	assert.InDelta(t, 225.5, pick.OverUnderLine, 1e-9)
	assert.Equal(t, 63, pick.OverUnderConfidence)
	assert.Equal(t, "v1", pick.ModelVersion)
	require.NotNil(t, pick.AnalysisText)
	assert.Contains(t, *pick.AnalysisText, "Recommended side: Lakers")
	assert.Nil(t, pick.SpreadOutcome)
	assert.Nil(t, pick.TotalOutcome)
}

func TestPickEnginePicksAwaySide(t *testing.T) {
	// Home favored by 5 but projected to win by only 2.
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 2.0,
		scoring.ModelTypeTotal:  218.0,
	}}
	picks := newFakePickRepo()

	engine := NewPickEngine(engineRepos(upcomingFixture("LAL -5.0", 225.5), picks),
		testBundle(t, scorer), engineConfig(), testLogger(), false)

	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	pick := picks.byMatch["game-1"]
	require.NotNil(t, pick)
	assert.Equal(t, "2", pick.RecommendedTeamID)
	assert.Equal(t, "Line: 5.0", pick.MarketLine)
	assert.Equal(t, "Celtics projects to lose by 2.0 pts against the spread (line 5.0)", pick.SpreadRationale)
	assert.Equal(t, models.OverUnderUnder, pick.OverUnderPick)
}

func TestPickEngineIsIdempotent(t *testing.T) {
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 7.0,
		scoring.ModelTypeTotal:  230.0,
	}}
	picks := newFakePickRepo()

	engine := NewPickEngine(engineRepos(upcomingFixture("LAL -3.0", 225.5), picks),
		testBundle(t, scorer), engineConfig(), testLogger(), false)

	_, err := engine.Run(context.Background())
	require.NoError(t, err)
	firstID := picks.byMatch["game-1"].ID

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, firstID, picks.byMatch["game-1"].ID)
}

func TestPickEngineSkipsStartedFixturesUnlessForced(t *testing.T) {
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 7.0,
		scoring.ModelTypeTotal:  230.0,
	}}

	fixture := upcomingFixture("LAL -3.0", 225.5)
	fixture.StartTime = time.Now().Add(-2 * time.Hour)
	fixture.Status = models.FixtureStatusInProgress

	picks := newFakePickRepo()
	engine := NewPickEngine(engineRepos(fixture, picks),
		testBundle(t, scorer), engineConfig(), testLogger(), false)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, picks.byMatch)

	forced := NewPickEngine(engineRepos(fixture, picks),
		testBundle(t, scorer), engineConfig(), testLogger(), true)

	report, err = forced.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
}

func TestPickEngineDefaultsMissingMarketLines(t *testing.T) {
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 7.0,
		scoring.ModelTypeTotal:  230.0,
	}}

	fixture := upcomingFixture("", 0)
	fixture.MarketSpread = nil
	fixture.MarketTotal = nil

	cfg := engineConfig()
	cfg.Pipeline.DefaultTotal = 220.0

	picks := newFakePickRepo()
	engine := NewPickEngine(engineRepos(fixture, picks),
		testBundle(t, scorer), cfg, testLogger(), false)

	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	pick := picks.byMatch["game-1"]
	require.NotNil(t, pick)
	// Zero spread: projected winner straight up, edge equals the margin.
	assert.Equal(t, "1", pick.RecommendedTeamID)
	assert.Equal(t, "Line: 0.0", pick.MarketLine)
	assert.Equal(t, 78, pick.ConfidenceScore)
	// The configured default total is the line, not a hardcoded one.
	assert.InDelta(t, 220.0, pick.OverUnderLine, 1e-9)
	assert.Equal(t, models.OverUnderOver, pick.OverUnderPick)
}

func TestPickEngineTotalsDisabled(t *testing.T) {
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 7.0,
		scoring.ModelTypeTotal:  230.0,
	}}

	cfg := engineConfig()
	cfg.Features.TotalsEnabled = false

	picks := newFakePickRepo()
	engine := NewPickEngine(engineRepos(upcomingFixture("LAL -3.0", 225.5), picks),
		testBundle(t, scorer), cfg, testLogger(), false)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	pick := picks.byMatch["game-1"]
	require.NotNil(t, pick)
	assert.Equal(t, "1", pick.RecommendedTeamID)
	assert.Equal(t, 66, pick.ConfidenceScore)

	// No total bet on the pick, and the total model was never scored.
	assert.False(t, pick.HasTotalBet())
	assert.Empty(t, pick.OverUnderPick)
	assert.Zero(t, pick.OverUnderLine)
	assert.Zero(t, pick.OverUnderConfidence)
	assert.Equal(t, 1, scorer.calls)
}

func TestPickEngineFailsFixtureWithoutHistory(t *testing.T) {
	scorer := &fixedScorer{outputs: map[string]float64{
		scoring.ModelTypeSpread: 7.0,
		scoring.ModelTypeTotal:  230.0,
	}}

	fixture := upcomingFixture("LAL -3.0", 225.5)
	fixture.AwayTeamID = "99" // no games on record

	picks := newFakePickRepo()
	engine := NewPickEngine(engineRepos(fixture, picks),
		testBundle(t, scorer), engineConfig(), testLogger(), false)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, picks.byMatch)
}

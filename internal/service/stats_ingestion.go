package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// StatsIngestionService refreshes the team catalog, fixture schedule,
// market lines, and box-score history from the feed. The stat store is
// append-only; existing rows are never touched.
type StatsIngestionService struct {
	source datasource.Source
	repos  *repository.Repositories
	cfg    *config.IngestionConfig
	log    *logrus.Logger
	plog   *logger.PipelineLogger
}

// NewStatsIngestionService creates a stats ingestion service
func NewStatsIngestionService(source datasource.Source, repos *repository.Repositories, cfg *config.IngestionConfig, log *logrus.Logger) *StatsIngestionService {
	return &StatsIngestionService{
		source: source,
		repos:  repos,
		cfg:    cfg,
		log:    log,
		plog:   logger.NewPipelineLogger(log),
	}
}

// IngestionReport summarizes one ingestion pass
type IngestionReport struct {
	Days            int
	FixturesUpserts int
	TeamsUpserts    int
	RowsFetched     int
	RowsInserted    int
	RowsSkipped     int
	Errors          int
}

// Run ingests a window from backfill_days ago through lookahead_days
// ahead: schedule and lines for upcoming days, box scores for finished
// games.
// Feed failures are day-scoped; one bad day never aborts the pass.
func (s *StatsIngestionService) Run(ctx context.Context) (*IngestionReport, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineRunDuration.WithLabelValues("ingest").Observe(time.Since(start).Seconds())
	}()

	backfill := s.cfg.BackfillDays
	if backfill <= 0 {
		backfill = 1
	}
	lookahead := s.cfg.LookaheadDays
	if lookahead <= 0 {
		lookahead = 2
	}

	report := &IngestionReport{}
	var statRows []models.StatRow
	seen := make(map[string]bool)

	for offset := -backfill; offset <= lookahead; offset++ {
		day := time.Now().AddDate(0, 0, offset)
		report.Days++

		fixtures, teams, err := s.source.FetchDay(ctx, day)
		if err != nil {
			report.Errors++
			s.log.WithError(err).WithField("date", day.Format("2006-01-02")).Warn("Failed to fetch slate, skipping day")
			continue
		}

		for _, team := range teams {
			if err := s.repos.Team.Upsert(ctx, team); err != nil {
				report.Errors++
				s.log.WithError(err).WithField("team_id", team.ID).Warn("Failed to upsert team")
				continue
			}
			report.TeamsUpserts++
		}

		for _, fixture := range fixtures {
			if err := s.repos.Fixture.Upsert(ctx, fixture); err != nil {
				report.Errors++
				s.log.WithError(err).WithField("match_id", fixture.MatchID).Warn("Failed to upsert fixture")
				continue
			}
			report.FixturesUpserts++

			if !fixture.IsFinal() {
				continue
			}

			rows, err := s.collectGameStats(ctx, fixture, seen)
			if err != nil {
				report.Errors++
				s.log.WithError(err).WithField("match_id", fixture.MatchID).Warn("Failed to collect box score")
				continue
			}
			report.RowsFetched += len(rows)
			statRows = append(statRows, rows...)
		}
	}

	inserted, err := s.repos.StatRow.InsertBatch(ctx, statRows)
	if err != nil {
		return report, fmt.Errorf("failed to insert stat rows: %w", err)
	}
	report.RowsInserted = inserted
	report.RowsSkipped = len(statRows) - inserted

	metrics.StatRowsIngestedTotal.Add(float64(inserted))
	s.plog.LogIngestionBatch(s.source.Name(), report.RowsFetched, report.RowsInserted, report.RowsSkipped,
		float64(time.Since(start).Milliseconds()))

	return report, nil
}

// collectGameStats builds the two per-team rows for one finished game.
// Games whose rows are already stored are skipped without a summary call.
func (s *StatsIngestionService) collectGameStats(ctx context.Context, fixture *models.Fixture, seen map[string]bool) ([]models.StatRow, error) {
	key := fixture.MatchID + "/" + fixture.HomeTeamID
	if seen[key] {
		return nil, nil
	}
	seen[key] = true

	exists, err := s.repos.StatRow.Exists(ctx, fixture.MatchID, fixture.HomeTeamID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	stats, err := s.source.FetchTeamStats(ctx, fixture.MatchID)
	if err != nil {
		return nil, err
	}

	homeScore := float64(*fixture.HomeScore)
	awayScore := float64(*fixture.AwayScore)

	rows := make([]models.StatRow, 0, 2)
	for _, side := range []struct {
		teamID  string
		isHome  bool
		scored  float64
		allowed float64
	}{
		{fixture.HomeTeamID, true, homeScore, awayScore},
		{fixture.AwayTeamID, false, awayScore, homeScore},
	} {
		teamStats, ok := stats[side.teamID]
		if !ok {
			s.log.WithFields(logrus.Fields{
				"match_id": fixture.MatchID,
				"team_id":  side.teamID,
			}).Warn("Box score missing team, skipping row")
			continue
		}

		won := side.scored > side.allowed
		row := models.StatRow{
			GameID:        fixture.MatchID,
			TeamID:        side.teamID,
			GameTime:      fixture.StartTime,
			IsHome:        side.isHome,
			Won:           &won,
			PointsScored:  side.scored,
			PointsAllowed: side.allowed,
			// Full-game team plus-minus is exactly the final margin.
			PlusMinus: side.scored - side.allowed,
		}
		applyFeedStats(&row, teamStats)
		row.ComputeDerived()
		rows = append(rows, row)
	}

	return rows, nil
}

// applyFeedStats maps feed stat names onto a row; absent stats stay zero
func applyFeedStats(row *models.StatRow, stats map[string]float64) {
	row.FieldGoalsPct = stats[datasource.FeedFieldGoalsPct]
	row.ThreePointersPct = stats[datasource.FeedThreePointersPct]
	row.FreeThrowsPct = stats[datasource.FeedFreeThrowsPct]
	row.Rebounds = stats[datasource.FeedRebounds]
	row.Assists = stats[datasource.FeedAssists]
	row.Steals = stats[datasource.FeedSteals]
	row.Blocks = stats[datasource.FeedBlocks]
	row.Turnovers = stats[datasource.FeedTurnovers]
	row.PointsInPaint = stats[datasource.FeedPointsInPaint]
	row.FieldGoalsAtt = stats[datasource.FeedFieldGoalsAtt]
	row.ThreePointersMade = stats[datasource.FeedThreePointersMade]
	row.FreeThrowsAtt = stats[datasource.FeedFreeThrowsAtt]
}

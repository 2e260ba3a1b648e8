package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/models"
)

// Feed stat names consumed from the box score. The three-point
// percentage name differs from the one our schema uses internally.
const (
	FeedFieldGoalsPct     = "fieldGoalsPercentage"
	FeedThreePointersPct  = "threePointFieldGoalsPercentage"
	FeedFreeThrowsPct     = "freeThrowsPercentage"
	FeedRebounds          = "totalRebounds"
	FeedAssists           = "assists"
	FeedSteals            = "steals"
	FeedBlocks            = "blocks"
	FeedTurnovers         = "turnovers"
	FeedPointsInPaint     = "pointsInPaint"
	FeedFieldGoalsAtt     = "fieldGoalsAttempted"
	FeedThreePointersMade = "threePointFieldGoalsMade"
	FeedFreeThrowsAtt     = "freeThrowsAttempted"
)

// ESPNSource reads NBA fixtures, odds, and box scores from the public
// ESPN site API.
type ESPNSource struct {
	client  *RateLimitedHTTPClient
	baseURL string
	logger  *logrus.Logger
}

// NewESPNSource creates an ESPN feed client from ingestion configuration
func NewESPNSource(cfg *config.IngestionConfig, logger *logrus.Logger) *ESPNSource {
	clientCfg := DefaultHTTPClientConfig()
	if cfg.RequestsPerSecond > 0 {
		clientCfg.RateLimit = float64(cfg.RequestsPerSecond)
	}
	if cfg.RetryAttempts > 0 {
		clientCfg.MaxRetries = cfg.RetryAttempts
	}
	if cfg.CircuitBreakerThreshold > 0 {
		clientCfg.CircuitBreakerMax = cfg.CircuitBreakerThreshold
	}
	clientCfg.APIKey = cfg.APIKey

	return &ESPNSource{
		client:  NewRateLimitedHTTPClient(clientCfg, log.New(io.Discard, "", 0)),
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// Name identifies the source
func (s *ESPNSource) Name() string {
	return "espn"
}

// Close releases client resources
func (s *ESPNSource) Close() error {
	return s.client.Close()
}

// Scoreboard response shapes, trimmed to the fields we read

type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
	Status       eventStatus   `json:"status"`
}

type competition struct {
	Date        string       `json:"date"`
	Season      seasonInfo   `json:"season"`
	Competitors []competitor `json:"competitors"`
	Odds        []oddsEntry  `json:"odds"`
}

type seasonInfo struct {
	Year int `json:"year"`
}

type competitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Winner   bool     `json:"winner"`
	Team     teamInfo `json:"team"`
}

type teamInfo struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type oddsEntry struct {
	Details   string   `json:"details"`
	OverUnder *float64 `json:"overUnder"`
}

type eventStatus struct {
	Type statusType `json:"type"`
}

type statusType struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Summary response shapes

type summaryResponse struct {
	Boxscore boxscore `json:"boxscore"`
}

type boxscore struct {
	Teams []boxscoreTeam `json:"teams"`
}

type boxscoreTeam struct {
	Team       teamInfo       `json:"team"`
	Statistics []boxscoreStat `json:"statistics"`
}

type boxscoreStat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FetchDay returns the slate for one calendar day. Fixtures carry
// whatever market lines the feed has posted; teams come from the slate's
// competitors so the catalog stays current without a separate endpoint.
func (s *ESPNSource) FetchDay(ctx context.Context, day time.Time) ([]*models.Fixture, []*models.Team, error) {
	url := fmt.Sprintf("%s/scoreboard?dates=%s&limit=100", s.baseURL, day.Format("20060102"))

	var sb scoreboardResponse
	if err := s.getJSON(ctx, url, &sb); err != nil {
		return nil, nil, fmt.Errorf("%w: scoreboard: %v", ErrFeedUnavailable, err)
	}

	var fixtures []*models.Fixture
	teamsSeen := make(map[string]*models.Team)

	for _, event := range sb.Events {
		fixture, teams, err := parseEvent(&event)
		if err != nil {
			s.logger.WithError(err).WithField("event_id", event.ID).Warn("Skipping unparseable event")
			continue
		}
		fixtures = append(fixtures, fixture)
		for _, t := range teams {
			teamsSeen[t.ID] = t
		}
	}

	teams := make([]*models.Team, 0, len(teamsSeen))
	for _, t := range teamsSeen {
		teams = append(teams, t)
	}

	s.logger.WithFields(logrus.Fields{
		"date":     day.Format("2006-01-02"),
		"fixtures": len(fixtures),
	}).Debug("Scoreboard fetched")

	return fixtures, teams, nil
}

// parseEvent converts one scoreboard event into a fixture and its teams
func parseEvent(event *scoreboardEvent) (*models.Fixture, []*models.Team, error) {
	if len(event.Competitions) == 0 {
		return nil, nil, fmt.Errorf("event %s has no competitions", event.ID)
	}
	comp := event.Competitions[0]

	var home, away *competitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return nil, nil, fmt.Errorf("event %s missing home or away competitor", event.ID)
	}

	startTime, err := time.Parse(time.RFC3339, event.Date)
	if err != nil {
		// Some feeds drop the seconds; fall back to the short form.
		startTime, err = time.Parse("2006-01-02T15:04Z", event.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("event %s has unparseable date %q", event.ID, event.Date)
		}
	}

	fixture := &models.Fixture{
		MatchID:    event.ID,
		Season:     comp.Season.Year,
		StartTime:  startTime,
		HomeTeamID: home.Team.ID,
		AwayTeamID: away.Team.ID,
		Status:     models.FixtureStatus(event.Status.Type.Name),
	}

	if event.Status.Type.Completed {
		if hs, err := strconv.Atoi(home.Score); err == nil {
			fixture.HomeScore = &hs
		}
		if as, err := strconv.Atoi(away.Score); err == nil {
			fixture.AwayScore = &as
		}
	}

	if len(comp.Odds) > 0 {
		if details := comp.Odds[0].Details; details != "" {
			fixture.MarketSpread = &details
		}
		fixture.MarketTotal = comp.Odds[0].OverUnder
	}

	teams := []*models.Team{
		{ID: home.Team.ID, Code: home.Team.Abbreviation, Name: home.Team.DisplayName},
		{ID: away.Team.ID, Code: away.Team.Abbreviation, Name: away.Team.DisplayName},
	}

	return fixture, teams, nil
}

// FetchTeamStats returns box-score statistics for a completed game keyed
// by team ID. Stat values the feed renders as non-numeric are dropped.
func (s *ESPNSource) FetchTeamStats(ctx context.Context, gameID string) (map[string]map[string]float64, error) {
	url := fmt.Sprintf("%s/summary?event=%s", s.baseURL, gameID)

	var summary summaryResponse
	if err := s.getJSON(ctx, url, &summary); err != nil {
		return nil, fmt.Errorf("%w: summary for game %s: %v", ErrFeedUnavailable, gameID, err)
	}

	if len(summary.Boxscore.Teams) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	stats := make(map[string]map[string]float64, len(summary.Boxscore.Teams))
	for _, team := range summary.Boxscore.Teams {
		values := make(map[string]float64, len(team.Statistics))
		for _, stat := range team.Statistics {
			if v, err := strconv.ParseFloat(stat.Value, 64); err == nil {
				values[stat.Name] = v
			}
		}
		stats[team.Team.ID] = values
	}

	return stats, nil
}

func (s *ESPNSource) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

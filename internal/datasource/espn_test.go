package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const scoreboardFixture = `{
  "events": [
    {
      "id": "401585601",
      "date": "2026-01-15T00:30Z",
      "status": {"type": {"name": "STATUS_SCHEDULED", "completed": false}},
      "competitions": [
        {
          "season": {"year": 2026},
          "competitors": [
            {
              "homeAway": "home",
              "score": "",
              "team": {"id": "5", "abbreviation": "CLE", "displayName": "Cleveland Cavaliers"}
            },
            {
              "homeAway": "away",
              "score": "",
              "team": {"id": "2", "abbreviation": "BOS", "displayName": "Boston Celtics"}
            }
          ],
          "odds": [{"details": "CLE -5.5", "overUnder": 224.5}]
        }
      ]
    },
    {
      "id": "401585602",
      "date": "2026-01-14T02:00Z",
      "status": {"type": {"name": "STATUS_FINAL", "completed": true}},
      "competitions": [
        {
          "season": {"year": 2026},
          "competitors": [
            {
              "homeAway": "home",
              "score": "118",
              "winner": true,
              "team": {"id": "13", "abbreviation": "LAL", "displayName": "Los Angeles Lakers"}
            },
            {
              "homeAway": "away",
              "score": "104",
              "team": {"id": "24", "abbreviation": "PHX", "displayName": "Phoenix Suns"}
            }
          ],
          "odds": []
        }
      ]
    },
    {
      "id": "broken",
      "date": "not a date",
      "status": {"type": {"name": "STATUS_SCHEDULED", "completed": false}},
      "competitions": [
        {
          "competitors": [
            {"homeAway": "home", "team": {"id": "1", "abbreviation": "ATL", "displayName": "Atlanta Hawks"}},
            {"homeAway": "away", "team": {"id": "30", "abbreviation": "UTA", "displayName": "Utah Jazz"}}
          ]
        }
      ]
    }
  ]
}`

const summaryFixture = `{
  "boxscore": {
    "teams": [
      {
        "team": {"id": "13", "abbreviation": "LAL"},
        "statistics": [
          {"name": "fieldGoalsPercentage", "value": "48.9"},
          {"name": "threePointFieldGoalsPercentage", "value": "37.5"},
          {"name": "totalRebounds", "value": "44"},
          {"name": "pointsInPaint", "value": "52"},
          {"name": "largestLead", "value": "-"}
        ]
      },
      {
        "team": {"id": "24", "abbreviation": "PHX"},
        "statistics": [
          {"name": "fieldGoalsPercentage", "value": "44.1"},
          {"name": "totalRebounds", "value": "39"}
        ]
      }
    ]
  }
}`

func testSource(t *testing.T, handler http.HandlerFunc) *ESPNSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source := NewESPNSource(&config.IngestionConfig{
		BaseURL:           server.URL,
		RequestsPerSecond: 100,
	}, testLogger())
	t.Cleanup(func() { source.Close() })

	return source
}

func TestFetchDay(t *testing.T) {
	var gotPath, gotQuery string
	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, scoreboardFixture)
	})

	day := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	fixtures, teams, err := source.FetchDay(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, "/scoreboard", gotPath)
	assert.Equal(t, "dates=20260114&limit=100", gotQuery)

	// The unparseable event is dropped, not fatal.
	require.Len(t, fixtures, 2)

	scheduled := fixtures[0]
	assert.Equal(t, "401585601", scheduled.MatchID)
	assert.Equal(t, 2026, scheduled.Season)
	assert.Equal(t, models.FixtureStatusScheduled, scheduled.Status)
	assert.Equal(t, "5", scheduled.HomeTeamID)
	assert.Equal(t, "2", scheduled.AwayTeamID)
	assert.True(t, scheduled.StartTime.Equal(time.Date(2026, 1, 15, 0, 30, 0, 0, time.UTC)))
	require.NotNil(t, scheduled.MarketSpread)
	assert.Equal(t, "CLE -5.5", *scheduled.MarketSpread)
	require.NotNil(t, scheduled.MarketTotal)
	assert.InDelta(t, 224.5, *scheduled.MarketTotal, 1e-9)
	assert.Nil(t, scheduled.HomeScore)

	final := fixtures[1]
	assert.Equal(t, models.FixtureStatusFinal, final.Status)
	require.NotNil(t, final.HomeScore)
	require.NotNil(t, final.AwayScore)
	assert.Equal(t, 118, *final.HomeScore)
	assert.Equal(t, 104, *final.AwayScore)
	assert.Nil(t, final.MarketSpread)

	assert.Len(t, teams, 4)
	byID := make(map[string]*models.Team)
	for _, team := range teams {
		byID[team.ID] = team
	}
	assert.Equal(t, "CLE", byID["5"].Code)
	assert.Equal(t, "Boston Celtics", byID["2"].Name)
}

func TestFetchDaySendsConfiguredAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		fmt.Fprint(w, scoreboardFixture)
	}))
	t.Cleanup(server.Close)

	source := NewESPNSource(&config.IngestionConfig{
		BaseURL:           server.URL,
		APIKey:            "feed-secret",
		RequestsPerSecond: 100,
	}, testLogger())
	t.Cleanup(func() { source.Close() })

	_, _, err := source.FetchDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "feed-secret", gotKey)
}

func TestFetchDayFeedDown(t *testing.T) {
	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, _, err := source.FetchDay(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestFetchTeamStats(t *testing.T) {
	var gotQuery string
	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, summaryFixture)
	})

	stats, err := source.FetchTeamStats(context.Background(), "401585602")
	require.NoError(t, err)
	assert.Equal(t, "event=401585602", gotQuery)

	require.Contains(t, stats, "13")
	require.Contains(t, stats, "24")
	assert.InDelta(t, 48.9, stats["13"][FeedFieldGoalsPct], 1e-9)
	assert.InDelta(t, 37.5, stats["13"][FeedThreePointersPct], 1e-9)
	assert.InDelta(t, 44.0, stats["13"][FeedRebounds], 1e-9)
	assert.InDelta(t, 52.0, stats["13"][FeedPointsInPaint], 1e-9)
	// Non-numeric stat values are dropped.
	assert.NotContains(t, stats["13"], "largestLead")
	assert.InDelta(t, 39.0, stats["24"][FeedRebounds], 1e-9)
}

func TestFetchTeamStatsGameMissing(t *testing.T) {
	source := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"boxscore": {"teams": []}}`)
	})

	_, err := source.FetchTeamStats(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

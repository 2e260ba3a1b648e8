package features

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSchema() Schema {
	return Schema{
		Windows: []int{5},
		Stats:   []string{StatTeamScore},
	}
}

var baseTime = time.Date(2026, 1, 1, 19, 0, 0, 0, time.UTC)

// gameRow builds a played game on the given day offset
func gameRow(teamID string, day int, scored, allowed float64) models.StatRow {
	won := scored > allowed
	return models.StatRow{
		GameID:        fmt.Sprintf("%s-%d", teamID, day),
		TeamID:        teamID,
		GameTime:      baseTime.AddDate(0, 0, day),
		Won:           &won,
		PointsScored:  scored,
		PointsAllowed: allowed,
	}
}

func loadedBuilder(t *testing.T, rows []models.StatRow) *Builder {
	t.Helper()
	b := NewBuilder(testSchema(), 1, testLogger())
	_, err := b.Load(rows)
	require.NoError(t, err)
	return b
}

func TestLoadDropsUnusableRows(t *testing.T) {
	rows := []models.StatRow{
		gameRow("LAL", 0, 110, 100),
		gameRow("LAL", 2, 105, 108),
	}

	noTime := gameRow("LAL", 4, 100, 90)
	noTime.GameTime = time.Time{}
	rows = append(rows, noTime)

	noOutcome := gameRow("LAL", 6, 100, 90)
	noOutcome.Won = nil
	rows = append(rows, noOutcome)

	b := NewBuilder(testSchema(), 1, testLogger())
	report, err := b.Load(rows)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 1, report.DroppedBadTime)
	assert.Equal(t, 1, report.DroppedNoOutcome)
	assert.Equal(t, 1, report.Teams)
}

func TestLoadFailsOnThinHistory(t *testing.T) {
	b := NewBuilder(testSchema(), 50, testLogger())
	_, err := b.Load([]models.StatRow{
		gameRow("LAL", 0, 110, 100),
		gameRow("LAL", 2, 105, 108),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestProfileBeforeExcludesGamesAtOrAfterCutoff(t *testing.T) {
	b := loadedBuilder(t, []models.StatRow{
		gameRow("LAL", 0, 100, 90),
		gameRow("LAL", 2, 120, 90),
	})

	// Profile entering the day-2 game must only see the day-0 game, even
	// though the day-2 row shares the exact cutoff timestamp.
	profile, err := b.ProfileBefore("LAL", baseTime.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, 1, profile.GamesPlayed)
	assert.InDelta(t, 100.0, profile.Values[RollingName(5, StatTeamScore)], 1e-9)
	assert.InDelta(t, 1.0, profile.Values[RollingName(5, "win_rate")], 1e-9)
}

func TestProfileBeforeNoHistory(t *testing.T) {
	b := loadedBuilder(t, []models.StatRow{
		gameRow("LAL", 5, 100, 90),
	})

	_, err := b.ProfileBefore("LAL", baseTime)
	assert.ErrorIs(t, err, ErrNoHistory)

	_, err = b.ProfileBefore("BOS", baseTime.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestProfileUsesExpandingWindowEarlySeason(t *testing.T) {
	b := loadedBuilder(t, []models.StatRow{
		gameRow("LAL", 0, 100, 90),
		gameRow("LAL", 2, 110, 90),
		gameRow("LAL", 4, 90, 100),
	})

	// Three games against a window of five: average over what exists.
	profile, err := b.ProfileBefore("LAL", baseTime.AddDate(0, 0, 6))
	require.NoError(t, err)

	assert.Equal(t, 3, profile.GamesPlayed)
	assert.InDelta(t, 100.0, profile.Values[RollingName(5, StatTeamScore)], 1e-9)
	assert.InDelta(t, 2.0/3.0, profile.Values[RollingName(5, "win_rate")], 1e-9)
}

func TestProfileWindowUsesMostRecentGames(t *testing.T) {
	rows := make([]models.StatRow, 0, 7)
	for i := 0; i < 7; i++ {
		rows = append(rows, gameRow("LAL", i*2, 100+float64(i), 90))
	}
	b := loadedBuilder(t, rows)

	profile, err := b.ProfileBefore("LAL", baseTime.AddDate(0, 0, 14))
	require.NoError(t, err)

	// Last five scores are 102..106.
	assert.InDelta(t, 104.0, profile.Values[RollingName(5, StatTeamScore)], 1e-9)
}

func TestRestDays(t *testing.T) {
	b := loadedBuilder(t, []models.StatRow{
		gameRow("LAL", 0, 100, 90),
		gameRow("LAL", 2, 110, 90),
	})

	profile, err := b.ProfileBefore("LAL", baseTime.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, profile.Values[FeatureRestDays], 1e-9)

	// Long layoffs are capped.
	profile, err = b.ProfileBefore("LAL", baseTime.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.InDelta(t, MaxRestDays, profile.Values[FeatureRestDays], 1e-9)
}

func TestTrainingRowsExcludeFirstGame(t *testing.T) {
	b := loadedBuilder(t, []models.StatRow{
		gameRow("LAL", 0, 100, 90),
		gameRow("LAL", 2, 110, 90),
		gameRow("LAL", 4, 90, 100),
		gameRow("BOS", 0, 95, 99),
	})

	trainingRows := b.TrainingRows()

	// BOS only has a first game, which never produces a row.
	require.Len(t, trainingRows, 2)
	for _, tr := range trainingRows {
		assert.Equal(t, "LAL", tr.Row.TeamID)
		assert.True(t, tr.Profile.GamesPlayed >= 1)
		assert.True(t, tr.Profile.AsOf.Equal(tr.Row.GameTime))
	}
}

func TestTrainingRowRestMatchesGameEntered(t *testing.T) {
	b := loadedBuilder(t, []models.StatRow{
		gameRow("LAL", 0, 100, 90),
		gameRow("LAL", 3, 110, 90),
	})

	trainingRows := b.TrainingRows()
	require.Len(t, trainingRows, 1)
	assert.InDelta(t, 3.0, trainingRows[0].Profile.Values[FeatureRestDays], 1e-9)
}

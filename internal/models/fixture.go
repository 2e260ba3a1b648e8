package models

import (
	"time"
)

// FixtureStatus represents the lifecycle state of a fixture as reported by the feed
type FixtureStatus string

const (
	FixtureStatusScheduled  FixtureStatus = "STATUS_SCHEDULED"
	FixtureStatusInProgress FixtureStatus = "STATUS_IN_PROGRESS"
	FixtureStatusFinal      FixtureStatus = "STATUS_FINAL"
)

// Fixture represents one scheduled or completed game
type Fixture struct {
	MatchID      string        `db:"match_id" json:"match_id" validate:"required"`
	Season       int           `db:"season" json:"season"`
	StartTime    time.Time     `db:"start_time" json:"start_time" validate:"required"`
	HomeTeamID   string        `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID   string        `db:"away_team_id" json:"away_team_id" validate:"required"`
	Status       FixtureStatus `db:"status" json:"status" validate:"required"`
	HomeScore    *int          `db:"home_score" json:"home_score"`
	AwayScore    *int          `db:"away_score" json:"away_score"`
	MarketSpread *string       `db:"market_spread" json:"market_spread"` // e.g. "CLE -5.5", nil when no line posted
	MarketTotal  *float64      `db:"market_total" json:"market_total"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// IsUpcoming checks if the fixture hasn't started yet
func (f *Fixture) IsUpcoming() bool {
	return f.Status == FixtureStatusScheduled
}

// IsFinal checks if the fixture has completed with a known score
func (f *Fixture) IsFinal() bool {
	return f.Status == FixtureStatusFinal && f.HomeScore != nil && f.AwayScore != nil
}

// TimeToTipoff returns the duration until the scheduled start
func (f *Fixture) TimeToTipoff() time.Duration {
	return time.Until(f.StartTime)
}

// Team represents one team in the catalog
type Team struct {
	ID        string    `db:"id" json:"id" validate:"required"`
	Code      string    `db:"code" json:"code" validate:"required"`
	Name      string    `db:"name" json:"name" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

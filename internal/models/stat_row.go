package models

import (
	"time"
)

// StatRow represents one team's box-score performance in one game.
// Rows are keyed by (GameID, TeamID) and immutable once ingested.
type StatRow struct {
	GameID            string    `db:"game_id" json:"game_id" validate:"required"`
	TeamID            string    `db:"team_id" json:"team_id" validate:"required"`
	GameTime          time.Time `db:"game_time" json:"game_time" validate:"required"`
	IsHome            bool      `db:"is_home" json:"is_home"`
	Won               *bool     `db:"won" json:"won"` // nil for unplayed/unknown games
	PointsScored      float64   `db:"points_scored" json:"points_scored" validate:"gte=0"`
	PointsAllowed     float64   `db:"points_allowed" json:"points_allowed" validate:"gte=0"`
	FieldGoalsPct     float64   `db:"field_goals_pct" json:"field_goals_pct"`
	ThreePointersPct  float64   `db:"three_pointers_pct" json:"three_pointers_pct"`
	FreeThrowsPct     float64   `db:"free_throws_pct" json:"free_throws_pct"`
	Rebounds          float64   `db:"rebounds" json:"rebounds"`
	Assists           float64   `db:"assists" json:"assists"`
	Steals            float64   `db:"steals" json:"steals"`
	Blocks            float64   `db:"blocks" json:"blocks"`
	Turnovers         float64   `db:"turnovers" json:"turnovers"`
	PlusMinus         float64   `db:"plus_minus" json:"plus_minus"`
	PointsInPaint     float64   `db:"points_in_paint" json:"points_in_paint"`
	FieldGoalsAtt     float64   `db:"field_goals_att" json:"field_goals_att"`
	ThreePointersMade float64   `db:"three_pointers_made" json:"three_pointers_made"`
	FreeThrowsAtt     float64   `db:"free_throws_att" json:"free_throws_att"`
	EffectiveFGPct    float64   `db:"effective_fg_pct" json:"effective_fg_pct"`
	TrueShootingPct   float64   `db:"true_shooting_pct" json:"true_shooting_pct"`
	RestDays          float64   `db:"rest_days" json:"rest_days"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// HasOutcome reports whether the game result is known.
func (s *StatRow) HasOutcome() bool {
	return s.Won != nil
}

// DidWin returns the game outcome, false when unknown.
func (s *StatRow) DidWin() bool {
	return s.Won != nil && *s.Won
}

// Margin returns the scoring margin from this team's perspective.
func (s *StatRow) Margin() float64 {
	return s.PointsScored - s.PointsAllowed
}

// TotalPoints returns the combined score of both teams.
func (s *StatRow) TotalPoints() float64 {
	return s.PointsScored + s.PointsAllowed
}

// ComputeDerived fills the advanced shooting metrics from the raw box score.
// Zero-attempt games leave the derived metrics at zero.
func (s *StatRow) ComputeDerived() {
	if s.FieldGoalsAtt > 0 {
		made := s.FieldGoalsAtt * s.FieldGoalsPct / 100.0
		s.EffectiveFGPct = (made + 0.5*s.ThreePointersMade) / s.FieldGoalsAtt * 100.0
	}
	tsa := s.FieldGoalsAtt + 0.44*s.FreeThrowsAtt
	if tsa > 0 {
		s.TrueShootingPct = s.PointsScored / (2.0 * tsa) * 100.0
	}
}

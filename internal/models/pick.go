package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents the settled result of one bet type
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomePush Outcome = "PUSH"
)

// OverUnderSide represents the direction of a total bet
type OverUnderSide string

const (
	OverUnderOver  OverUnderSide = "OVER"
	OverUnderUnder OverUnderSide = "UNDER"
)

// Pick represents a published recommendation for one fixture.
// At most one pick exists per fixture; the first pick written wins and
// later runs must skip the fixture entirely. Outcome fields start nil and
// are written exactly once by settlement.
type Pick struct {
	ID                  uuid.UUID     `db:"id" json:"id" validate:"required,uuid4"`
	MatchID             string        `db:"match_id" json:"match_id" validate:"required"`
	RecommendedTeamID   string        `db:"recommended_team_id" json:"recommended_team_id" validate:"required"`
	ConfidenceScore     int           `db:"confidence_score" json:"confidence_score" validate:"gte=0,lte=100"`
	MarketLine          string        `db:"market_line" json:"market_line"`
	SpreadRationale     string        `db:"spread_rationale" json:"spread_rationale"`
	OverUnderPick       OverUnderSide `db:"ou_pick" json:"ou_pick" validate:"omitempty,oneof=OVER UNDER"`
	OverUnderLine       float64       `db:"ou_line" json:"ou_line"`
	OverUnderConfidence int           `db:"ou_confidence" json:"ou_confidence" validate:"gte=0,lte=100"`
	AnalysisText        *string       `db:"analysis_text" json:"analysis_text"`
	SpreadOutcome       *Outcome      `db:"spread_outcome" json:"spread_outcome"`
	TotalOutcome        *Outcome      `db:"total_outcome" json:"total_outcome"`
	ModelVersion        string        `db:"model_version" json:"model_version"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	SettledAt           *time.Time    `db:"settled_at" json:"settled_at"`
}

// HasTotalBet reports whether the pick carries an over/under side.
// Picks written with totals disabled have no total bet to grade.
func (p *Pick) HasTotalBet() bool {
	return p.OverUnderPick != ""
}

// IsSettled checks whether every carried bet type has been graded
func (p *Pick) IsSettled() bool {
	return !p.NeedsSpreadSettlement() && !p.NeedsTotalSettlement()
}

// NeedsSpreadSettlement reports whether the spread side still awaits grading
func (p *Pick) NeedsSpreadSettlement() bool {
	return p.SpreadOutcome == nil
}

// NeedsTotalSettlement reports whether the total side still awaits grading
func (p *Pick) NeedsTotalSettlement() bool {
	return p.HasTotalBet() && p.TotalOutcome == nil
}

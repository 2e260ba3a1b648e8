// Package features derives point-in-time rolling features from box-score
// history and composes the matchup vectors the scoring models consume.
package features

import (
	"fmt"

	"github.com/yourusername/courtside/internal/models"
)

// Tracked stat names. These are data, not code: the same list drives the
// training export and the serving path, so the two can never drift apart.
const (
	StatFieldGoalsPct    = "fieldGoalsPercentage"
	StatThreePointersPct = "threePointersPercentage"
	StatFreeThrowsPct    = "freeThrowsPercentage"
	StatRebounds         = "reboundsTotal"
	StatAssists          = "assists"
	StatSteals           = "steals"
	StatBlocks           = "blocks"
	StatTurnovers        = "turnovers"
	StatPlusMinus        = "plusMinusPoints"
	StatPointsInPaint    = "pointsInThePaint"
	StatTeamScore        = "teamScore"
	StatEffectiveFGPct   = "effectiveFieldGoalPercentage"
	StatTrueShootingPct  = "trueShootingPercentage"

	statWinRate = "win_rate"

	// Non-windowed features.
	FeatureRestDays = "restDays"
	FeatureIsHome   = "is_home"
)

// Schema defines which stats are rolled over which trailing-game windows.
type Schema struct {
	Windows []int    `mapstructure:"windows" validate:"required,min=1,dive,gt=0"`
	Stats   []string `mapstructure:"stats" validate:"required,min=1"`
}

// DefaultSchema returns the window configuration the production models are
// trained with.
func DefaultSchema() Schema {
	return Schema{
		Windows: []int{5, 10, 30},
		Stats: []string{
			StatFieldGoalsPct,
			StatThreePointersPct,
			StatFreeThrowsPct,
			StatRebounds,
			StatAssists,
			StatSteals,
			StatBlocks,
			StatTurnovers,
			StatPlusMinus,
			StatPointsInPaint,
			StatTeamScore,
			StatEffectiveFGPct,
			StatTrueShootingPct,
		},
	}
}

// SchemaFromWindows returns the default stat list rolled over custom
// window sizes. Empty input falls back to the default windows.
func SchemaFromWindows(windows []int) Schema {
	s := DefaultSchema()
	if len(windows) > 0 {
		s.Windows = windows
	}
	return s
}

// RollingName returns the profile key for one stat at one window size.
func RollingName(window int, stat string) string {
	return fmt.Sprintf("rolling_%d_%s", window, stat)
}

// DiffName returns the matchup key for the home-minus-away form of a
// rolling feature.
func DiffName(rolling string) string {
	return "diff_" + rolling
}

// SumName returns the matchup key for the home-plus-away form of a
// rolling feature.
func SumName(rolling string) string {
	return "sum_" + rolling
}

// rollingNames lists every windowed profile key in canonical order:
// stats per window, then the window's win rate.
func (s Schema) rollingNames() []string {
	names := make([]string, 0, len(s.Windows)*(len(s.Stats)+1))
	for _, w := range s.Windows {
		for _, stat := range s.Stats {
			names = append(names, RollingName(w, stat))
		}
		names = append(names, RollingName(w, statWinRate))
	}
	return names
}

// SpreadFeatureNames returns the canonical ordered feature list for the
// win and spread models: diff of every rolling feature, diff of rest days,
// then the home-court indicator.
func (s Schema) SpreadFeatureNames() []string {
	rolling := s.rollingNames()
	names := make([]string, 0, len(rolling)+2)
	for _, r := range rolling {
		names = append(names, DiffName(r))
	}
	names = append(names, DiffName(FeatureRestDays), FeatureIsHome)
	return names
}

// TotalFeatureNames returns the canonical ordered feature list for the
// total model: sum analogues of the spread features.
func (s Schema) TotalFeatureNames() []string {
	rolling := s.rollingNames()
	names := make([]string, 0, len(rolling)+2)
	for _, r := range rolling {
		names = append(names, SumName(r))
	}
	names = append(names, SumName(FeatureRestDays), FeatureIsHome)
	return names
}

// statValue extracts a tracked stat from a row by schema name.
func statValue(row *models.StatRow, stat string) float64 {
	switch stat {
	case StatFieldGoalsPct:
		return row.FieldGoalsPct
	case StatThreePointersPct:
		return row.ThreePointersPct
	case StatFreeThrowsPct:
		return row.FreeThrowsPct
	case StatRebounds:
		return row.Rebounds
	case StatAssists:
		return row.Assists
	case StatSteals:
		return row.Steals
	case StatBlocks:
		return row.Blocks
	case StatTurnovers:
		return row.Turnovers
	case StatPlusMinus:
		return row.PlusMinus
	case StatPointsInPaint:
		return row.PointsInPaint
	case StatTeamScore:
		return row.PointsScored
	case StatEffectiveFGPct:
		return row.EffectiveFGPct
	case StatTrueShootingPct:
		return row.TrueShootingPct
	default:
		return 0
	}
}

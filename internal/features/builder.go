package features

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/models"
)

const (
	// DefaultRestDays is assumed for a team's first observed game.
	DefaultRestDays = 3.0
	// MaxRestDays caps the rest-day feature; longer layoffs carry no
	// additional signal and all-star breaks would otherwise dominate.
	MaxRestDays = 7.0
)

// Builder errors
var (
	ErrInsufficientHistory = errors.New("insufficient stat history after cleaning")
	ErrNoHistory           = errors.New("no prior games for team")
)

// CleanReport summarizes what the builder dropped while loading history.
type CleanReport struct {
	Total            int
	DroppedBadTime   int
	DroppedNoOutcome int
	Kept             int
	Teams            int
}

func (r *CleanReport) String() string {
	return fmt.Sprintf("CleanReport{Total=%d, Kept=%d, DroppedBadTime=%d, DroppedNoOutcome=%d, Teams=%d}",
		r.Total, r.Kept, r.DroppedBadTime, r.DroppedNoOutcome, r.Teams)
}

// RollingProfile is a team's derived form entering a given point in time.
// Values holds one entry per windowed feature plus the rest-day feature.
type RollingProfile struct {
	TeamID      string
	AsOf        time.Time
	GamesPlayed int
	Values      map[string]float64
}

// Builder derives leak-free rolling profiles from StatRow history.
// Load once, then query ProfileBefore per fixture; the builder never
// mutates loaded history.
type Builder struct {
	schema    Schema
	minRows   int
	logger    *logrus.Logger
	histories map[string][]models.StatRow
}

// NewBuilder creates a feature builder for one schema. minRows is the
// fail-fast floor on cleaned history size; values <= 0 default to 50.
func NewBuilder(schema Schema, minRows int, logger *logrus.Logger) *Builder {
	if minRows <= 0 {
		minRows = 50
	}
	return &Builder{
		schema:    schema,
		minRows:   minRows,
		logger:    logger,
		histories: make(map[string][]models.StatRow),
	}
}

// Load cleans, sorts, and indexes the full stat history. Rows without a
// parseable timestamp or a known outcome are dropped and counted. Rest
// days are recomputed here so they only ever depend on the previous game.
func (b *Builder) Load(rows []models.StatRow) (*CleanReport, error) {
	report := &CleanReport{Total: len(rows)}

	cleaned := make([]models.StatRow, 0, len(rows))
	for _, row := range rows {
		if row.GameTime.IsZero() {
			report.DroppedBadTime++
			continue
		}
		if !row.HasOutcome() {
			report.DroppedNoOutcome++
			continue
		}
		cleaned = append(cleaned, row)
	}
	report.Kept = len(cleaned)

	if len(cleaned) < b.minRows {
		return report, fmt.Errorf("%w: %d rows after cleaning, need %d", ErrInsufficientHistory, len(cleaned), b.minRows)
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		if cleaned[i].TeamID != cleaned[j].TeamID {
			return cleaned[i].TeamID < cleaned[j].TeamID
		}
		return cleaned[i].GameTime.Before(cleaned[j].GameTime)
	})

	b.histories = make(map[string][]models.StatRow)
	for _, row := range cleaned {
		b.histories[row.TeamID] = append(b.histories[row.TeamID], row)
	}
	report.Teams = len(b.histories)

	for teamID, hist := range b.histories {
		for i := range hist {
			if i == 0 {
				hist[i].RestDays = DefaultRestDays
			} else {
				hist[i].RestDays = restBetween(hist[i-1].GameTime, hist[i].GameTime)
			}
		}
		b.histories[teamID] = hist
	}

	b.logger.WithFields(logrus.Fields{
		"total":              report.Total,
		"kept":               report.Kept,
		"dropped_bad_time":   report.DroppedBadTime,
		"dropped_no_outcome": report.DroppedNoOutcome,
		"teams":              report.Teams,
	}).Info("Stat history loaded")

	return report, nil
}

// ProfileBefore computes a team's rolling profile over games strictly
// before t. A team with no completed games before t returns ErrNoHistory;
// the first-game policy is to produce no profile rather than defaults.
func (b *Builder) ProfileBefore(teamID string, t time.Time) (*RollingProfile, error) {
	hist := b.histories[teamID]

	// First index at or after t; everything before it is usable history.
	n := sort.Search(len(hist), func(i int) bool {
		return !hist[i].GameTime.Before(t)
	})
	if n == 0 {
		return nil, fmt.Errorf("%w: team %s before %s", ErrNoHistory, teamID, t.Format("2006-01-02"))
	}

	profile := b.profileFromPrefix(teamID, hist[:n], t)
	return profile, nil
}

// TrainingRow is one featurized historical observation: a team's pre-game
// profile plus the realized outcomes of that game.
type TrainingRow struct {
	Row     models.StatRow
	Profile *RollingProfile
}

// TrainingRows emits one row per historical game that has prior history.
// Each team's first observed game is excluded, matching serving behavior.
func (b *Builder) TrainingRows() []TrainingRow {
	var out []TrainingRow
	for teamID, hist := range b.histories {
		for i := 1; i < len(hist); i++ {
			profile := b.profileFromPrefix(teamID, hist[:i], hist[i].GameTime)
			// Rest entering this specific game is known pre-game.
			profile.Values[FeatureRestDays] = hist[i].RestDays
			out = append(out, TrainingRow{Row: hist[i], Profile: profile})
		}
	}
	return out
}

// profileFromPrefix rolls the trailing windows over prefix, which must
// contain only games strictly before the target time. The prefix never
// includes the target game itself; that shift is the whole point.
func (b *Builder) profileFromPrefix(teamID string, prefix []models.StatRow, asOf time.Time) *RollingProfile {
	values := make(map[string]float64, len(b.schema.Windows)*(len(b.schema.Stats)+1)+1)

	for _, w := range b.schema.Windows {
		n := w
		if n > len(prefix) {
			n = len(prefix)
		}
		window := prefix[len(prefix)-n:]

		for _, stat := range b.schema.Stats {
			var sum float64
			for i := range window {
				sum += statValue(&window[i], stat)
			}
			values[RollingName(w, stat)] = sum / float64(n)
		}

		wins := 0
		for i := range window {
			if window[i].DidWin() {
				wins++
			}
		}
		values[RollingName(w, statWinRate)] = float64(wins) / float64(n)
	}

	values[FeatureRestDays] = restBetween(prefix[len(prefix)-1].GameTime, asOf)

	return &RollingProfile{
		TeamID:      teamID,
		AsOf:        asOf,
		GamesPlayed: len(prefix),
		Values:      values,
	}
}

// restBetween returns whole days between two game times, capped.
func restBetween(prev, next time.Time) float64 {
	days := next.Sub(prev).Hours() / 24.0
	if days < 0 {
		days = 0
	}
	days = float64(int(days))
	if days > MaxRestDays {
		return MaxRestDays
	}
	return days
}

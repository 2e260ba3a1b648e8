package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/courtside/internal/models"
)

// Decision engine constants. Confidence is floored at the coin-flip
// baseline and capped below certainty; the caps differ per bet type.
const (
	confidenceBase  = 50
	spreadConfSlope = 4.0
	spreadConfCap   = 95
	totalConfSlope  = 3.0
	totalConfCap    = 90
)

// Decision is the outcome of the decision engine for one fixture
type Decision struct {
	RecommendHome       bool
	Edge                float64
	Confidence          int
	RecommendedMargin   float64 // projected margin from the recommended side's view
	LineForRecommended  float64 // spread line from the recommended side's view
	OverUnderPick       models.OverUnderSide
	OverUnderConfidence int
}

// Decide converts model projections and market lines into a recommendation.
// projectedMargin is home-relative (positive = home favored); marketSpread
// uses the book convention (negative = home favored by that many points).
func Decide(projectedMargin, projectedTotal, marketSpread, marketTotal float64) Decision {
	cutoff := -marketSpread

	d := Decision{
		RecommendHome: projectedMargin > cutoff,
		Edge:          math.Abs(projectedMargin - cutoff),
	}
	d.Confidence = boundedConfidence(d.Edge, spreadConfSlope, spreadConfCap)

	if d.RecommendHome {
		d.RecommendedMargin = projectedMargin
		d.LineForRecommended = marketSpread
	} else {
		d.RecommendedMargin = -projectedMargin
		d.LineForRecommended = -marketSpread
	}

	if projectedTotal > marketTotal {
		d.OverUnderPick = models.OverUnderOver
	} else {
		d.OverUnderPick = models.OverUnderUnder
	}
	d.OverUnderConfidence = boundedConfidence(math.Abs(projectedTotal-marketTotal), totalConfSlope, totalConfCap)

	return d
}

func boundedConfidence(edge, slope float64, ceiling int) int {
	conf := confidenceBase + int(math.Floor(edge*slope))
	if conf > ceiling {
		return ceiling
	}
	return conf
}

// BuildRationale phrases the recommendation from the recommended team's
// own point of view. The margin passed in must already be sign-corrected
// for the recommended side.
func BuildRationale(teamName string, recommendedMargin, lineForRecommended float64) string {
	verb := "win"
	if recommendedMargin < 0 {
		verb = "lose"
	}
	return fmt.Sprintf("%s projects to %s by %.1f pts against the spread (line %.1f)",
		teamName, verb, math.Abs(recommendedMargin), lineForRecommended)
}

// FormatMarketLine renders the stored line string for a pick
func FormatMarketLine(lineForRecommended float64) string {
	return fmt.Sprintf("Line: %.1f", lineForRecommended)
}

// ParseMarketSpread resolves a feed spread string such as "CLE -5.5" into
// the book-convention home-relative value. "EVEN" and "PK" mean a zero
// line. A missing or unresolvable string falls back to the configured
// default spread with usedDefault set, so a fixture without a posted
// line still gets a pick.
func ParseMarketSpread(raw *string, homeCode, awayCode string, fallback float64) (spread float64, usedDefault bool) {
	if raw == nil {
		return fallback, true
	}

	s := strings.TrimSpace(*raw)
	if s == "" {
		return fallback, true
	}
	if s == "EVEN" || s == "PK" {
		return 0, false
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return fallback, true
	}

	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fallback, true
	}

	switch fields[0] {
	case homeCode:
		return value, false
	case awayCode:
		return -value, false
	default:
		return fallback, true
	}
}

// MarketTotalOrDefault returns the posted total line or the configured
// league default
func MarketTotalOrDefault(total *float64, fallback float64) (float64, bool) {
	if total == nil {
		return fallback, true
	}
	return *total, false
}

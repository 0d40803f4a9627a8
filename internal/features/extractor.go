// Package features derives time-decayed performance features from a
// competitor's merged match history. Every operation is pure and total:
// sparse or empty histories resolve to documented neutral defaults, never an
// error.
package features

import (
	"time"

	"github.com/hmp229/psa-predict/internal/models"
)

// Config holds the extraction constants. The defaults are uncalibrated
// heuristics; change them only together with recalibration.
type Config struct {
	BaseRating     float64
	RatingFloor    float64
	RatingCeiling  float64
	KFactor        float64
	HalfLifeDays   float64
	FormWindow     int
	MomentumWindow int
	TrendWeeks     int
	H2HWindowDays  int
	H2HHalfLife    float64
}

// DefaultConfig returns the default extraction constants
func DefaultConfig() Config {
	return Config{
		BaseRating:     1500,
		RatingFloor:    1000,
		RatingCeiling:  2500,
		KFactor:        32,
		HalfLifeDays:   180,
		FormWindow:     20,
		MomentumWindow: 5,
		TrendWeeks:     12,
		H2HWindowDays:  730,
		H2HHalfLife:    365,
	}
}

// Extractor computes feature bundles from merged histories
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor with the given constants
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract computes the full feature bundle for one competitor relative to
// the reference date
func (e *Extractor) Extract(hist models.CompetitorHistory, ref time.Time) models.FeatureBundle {
	elo, quality := e.rating(hist, ref)
	return models.FeatureBundle{
		Elo:        elo,
		EloQuality: quality,
		Form:       e.form(hist),
		Fatigue:    e.fatigue(hist, ref),
		Trend:      e.trend(hist, ref),
	}
}

// fatigue counts matches inside the 14- and 30-day windows before ref
func (e *Extractor) fatigue(hist models.CompetitorHistory, ref time.Time) models.FatigueStats {
	var stats models.FatigueStats
	cutoff14 := ref.AddDate(0, 0, -14)
	cutoff30 := ref.AddDate(0, 0, -30)
	for _, m := range hist {
		if !m.Date.Before(cutoff14) {
			stats.MatchesLast14d++
		}
		if !m.Date.Before(cutoff30) {
			stats.MatchesLast30d++
		}
	}
	return stats
}

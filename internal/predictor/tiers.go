// Package predictor combines a ranking-based prior with evidence derived
// from match history into a calibrated win probability, with guardrails that
// keep the output from contradicting a large ranking gap on thin evidence.
package predictor

import (
	"github.com/hmp229/psa-predict/internal/models"
)

// tierBreaks are the upper bounds of the six ranking tiers:
// [1-5, 6-20, 21-50, 51-100, 101-200, 201+].
var tierBreaks = [...]int{5, 20, 50, 100, 200}

// Tier returns the tier index (0-5) for a published rank
func Tier(rank int) int {
	for i, high := range tierBreaks {
		if rank <= high {
			return i
		}
	}
	return 5
}

// underdogCap returns the ceiling on the underdog's probability for a given
// tier gap
func underdogCap(tierGap int) float64 {
	caps := map[int]float64{
		0: 0.45,
		1: 0.40,
		2: 0.35,
		3: 0.25,
		4: 0.15,
	}
	if cap, ok := caps[tierGap]; ok {
		return cap
	}
	return 0.10
}

// RankingPrior maps two published ranks into a baseline probability pair.
// Equal ranks return (0.52, 0.48) rather than an exact coin flip; unequal
// ranks never produce (0.5, 0.5).
func RankingPrior(rankA, rankB int) models.ProbabilityPair {
	if rankA == rankB {
		return models.ProbabilityPair{A: 0.52, B: 0.48}
	}

	tierA := Tier(rankA)
	tierB := Tier(rankB)

	var favoriteTier, underdogTier int
	aIsFavorite := rankA < rankB
	if aIsFavorite {
		favoriteTier, underdogTier = tierA, tierB
	} else {
		favoriteTier, underdogTier = tierB, tierA
	}

	cap := underdogCap(underdogTier - favoriteTier)
	if aIsFavorite {
		return models.ProbabilityPair{A: 1 - cap, B: cap}
	}
	return models.ProbabilityPair{A: cap, B: 1 - cap}
}

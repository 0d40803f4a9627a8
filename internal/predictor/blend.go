package predictor

import (
	"math"

	"github.com/hmp229/psa-predict/internal/models"
)

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// blendLogOdds combines evidence and prior in log-odds space, weighted by
// the evidence weight
func blendLogOdds(pEvidence, pPrior, w float64) float64 {
	return w*logit(pEvidence) + (1-w)*logit(pPrior)
}

// h2hAdjustment returns the log-odds nudge from the head-to-head record.
// Magnitude is a step function of the effective sample size, signed by how
// far A's win share sits from even. Zero when the competitors never met.
func h2hAdjustment(h2h models.H2HSummary) float64 {
	if h2h.NMatches == 0 {
		return 0
	}

	var strength float64
	switch {
	case h2h.NEffective < 2:
		strength = 0.05
	case h2h.NEffective < 3:
		strength = 0.10
	case h2h.NEffective < 5:
		strength = 0.20
	default:
		strength = 0.30
	}

	direction := (h2h.AWinRate - 0.5) * 2
	return direction * strength
}

// overrideAllowed checks the evidentiary exceptions that permit exceeding
// the guardrail cap. At least two of three conditions must hold:
//
//  1. the underdog leads the favorite's Elo by at least 180 points;
//  2. a quality-of-opposition check that is intentionally never satisfied
//     (pending product clarification);
//  3. the competitors have met at least 5 times and the underdog took at
//     least 70% of those meetings.
func overrideAllowed(a, b models.FeatureBundle, h2h models.H2HSummary, rankA, rankB int) bool {
	aIsUnderdog := rankA > rankB
	eloDiff := a.Elo - b.Elo

	met := 0
	if aIsUnderdog && eloDiff >= 180 {
		met++
	} else if !aIsUnderdog && eloDiff <= -180 {
		met++
	}

	if h2h.NMatches >= 5 {
		if aIsUnderdog && h2h.AWinRate >= 0.70 {
			met++
		} else if !aIsUnderdog && h2h.AWinRate <= 0.30 {
			met++
		}
	}

	return met >= 2
}

// applyGuardrails caps the underdog when the tier gap is large and the
// head-to-head evidence is thin, then floors the better-ranked side so the
// output never contradicts the ranking with a near-even probability.
func applyGuardrails(pA float64, a, b models.FeatureBundle, h2h models.H2HSummary, rankA, rankB int) (float64, models.GuardrailOutcome) {
	outcome := models.GuardrailNone

	tierGap := Tier(rankA) - Tier(rankB)
	if tierGap < 0 {
		tierGap = -tierGap
	}

	if tierGap >= 3 && h2h.NMatches < 3 {
		if overrideAllowed(a, b, h2h, rankA, rankB) {
			outcome = models.GuardrailOverridden
		} else {
			outcome = models.GuardrailCapped
			cap := underdogCap(tierGap)
			if rankA > rankB {
				pA = math.Min(pA, cap)
			} else {
				pA = math.Max(pA, 1-cap)
			}
		}
	}

	// Monotonicity: the strictly better rank keeps at least a 0.52 edge.
	if rankA < rankB {
		pA = math.Max(pA, 0.52)
	} else if rankB < rankA {
		pA = math.Min(pA, 0.48)
	}

	return pA, outcome
}

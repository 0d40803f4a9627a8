package predictor

import (
	"math"

	"github.com/hmp229/psa-predict/internal/models"
)

// Evidence adjustment weights
const (
	formWeight     = 0.15
	momentumWeight = 0.10
	trendWeight    = 0.10
)

// EvidenceProbability estimates A's win probability from features alone,
// ignoring rank: a logistic transform of the Elo difference plus linear
// adjustments for quality-adjusted form, momentum, and trend. The result is
// clamped to [0.01, 0.99].
func EvidenceProbability(a, b models.FeatureBundle) float64 {
	eloDiff := a.Elo - b.Elo
	pElo := 1 / (1 + math.Pow(10, -eloDiff/400))

	p := pElo
	p += (a.Form.QualityAdjustedWinRate - b.Form.QualityAdjustedWinRate) * formWeight
	p += (a.Form.RecentMomentum - b.Form.RecentMomentum) * momentumWeight
	p += (a.Trend.Slope - b.Trend.Slope) * trendWeight

	return clamp(p, 0.01, 0.99)
}

// EvidenceWeight is the trust placed in observed match data over the ranking
// prior, in [0.2, 1.0]. More observed matches raise the weight with the
// square root of the average sample size.
func EvidenceWeight(a, b models.FeatureBundle) float64 {
	avg := float64(a.Form.MatchesPlayed+b.Form.MatchesPlayed) / 2
	return clamp(math.Sqrt(avg)/10, 0.2, 1.0)
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

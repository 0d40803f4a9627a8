package predictor

import (
	"math"
	"math/rand"
	"sort"

	"github.com/hmp229/psa-predict/internal/models"
)

// BootstrapSamples is the number of resampling draws behind the 95% interval
const BootstrapSamples = 500

// BootstrapCI approximates a 95% interval around the point probability by
// drawing from Beta(max(1, p*50), max(1, (1-p)*50)) and reporting the
// 2.5th/97.5th percentiles. B's interval mirrors A's samples. The interval
// models sampling noise around the point estimate and is deterministic for a
// given seed.
func BootstrapCI(pA float64, seed int64) models.ConfidenceInterval {
	rng := rand.New(rand.NewSource(seed))

	alpha := math.Max(1, pA*50)
	beta := math.Max(1, (1-pA)*50)

	samples := make([]float64, BootstrapSamples)
	for i := range samples {
		samples[i] = sampleBeta(rng, alpha, beta)
	}
	sort.Float64s(samples)

	low := round3(percentile(samples, 0.025))
	high := round3(percentile(samples, 0.975))

	return models.ConfidenceInterval{
		A: models.Interval{Low: low, High: high},
		B: models.Interval{Low: round3(1 - high), High: round3(1 - low)},
	}
}

// sampleBeta draws from Beta(a, b) as Ga/(Ga+Gb). Both shape parameters are
// at least 1 by construction.
func sampleBeta(rng *rand.Rand, a, b float64) float64 {
	ga := sampleGamma(rng, a)
	gb := sampleGamma(rng, b)
	if ga+gb == 0 {
		return 0.5
	}
	return ga / (ga + gb)
}

// sampleGamma draws from Gamma(shape, 1) using the Marsaglia-Tsang squeeze
// method, valid for shape >= 1.
func sampleGamma(rng *rand.Rand, shape float64) float64 {
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// percentile assumes values are sorted ascending
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(values)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package features

import (
	"time"

	"github.com/hmp229/psa-predict/internal/models"
)

// trend partitions the last TrendWeeks of history into two-week buckets and
// fits a degree-1 line through the per-bucket win rates. The slope is the
// trend; consistency is one minus the variance of the bucket win rates,
// clamped to [0,1]. Fewer than three matches in the window, or fewer than two
// non-empty buckets, yields the neutral default.
func (e *Extractor) trend(hist models.CompetitorHistory, ref time.Time) models.TrendStats {
	if len(hist) == 0 {
		return models.NeutralTrend()
	}

	cutoff := ref.AddDate(0, 0, -7*e.cfg.TrendWeeks)
	window := hist.Since(cutoff)
	if len(window) < 3 {
		return models.NeutralTrend()
	}

	rates := make([]float64, 0, e.cfg.TrendWeeks/2)
	for i := 0; i < e.cfg.TrendWeeks/2; i++ {
		start := cutoff.AddDate(0, 0, 14*i)
		end := start.AddDate(0, 0, 14)

		wins, total := 0, 0
		for _, m := range window {
			if m.Date.Before(start) || !m.Date.Before(end) {
				continue
			}
			total++
			if m.Won() {
				wins++
			}
		}
		if total > 0 {
			rates = append(rates, float64(wins)/float64(total))
		}
	}

	if len(rates) < 2 {
		return models.NeutralTrend()
	}

	slope := linearSlope(rates)
	consistency := 1 - variance(rates)
	if consistency < 0 {
		consistency = 0
	} else if consistency > 1 {
		consistency = 1
	}
	return models.TrendStats{Slope: slope, Consistency: consistency}
}

// linearSlope fits y = a + b*x over x = 0..n-1 by least squares and returns b
func linearSlope(y []float64) float64 {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return variance / float64(len(values))
}

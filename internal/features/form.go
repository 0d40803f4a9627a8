package features

import (
	"github.com/hmp229/psa-predict/internal/models"
)

// form summarizes the most recent FormWindow matches: raw win rate, average
// game differential, a quality-adjusted win rate where wins against stronger
// opponents count for more, and short-term momentum over the last
// MomentumWindow matches.
func (e *Extractor) form(hist models.CompetitorHistory) models.FormStats {
	if len(hist) == 0 {
		return models.NeutralForm()
	}

	recent := hist.Recent(e.cfg.FormWindow)
	total := len(recent)

	wins := 0
	gameDiffSum := 0
	qualitySum := 0.0
	for i := range recent {
		m := recent[i]
		gameDiffSum += m.GameDiff()
		if m.Won() {
			wins++
			qualitySum += 1 + opponentStrength(&m)
		}
	}

	// Quality scores range [0, 2] per win; dividing by 1.5 recenters the
	// average near the raw win rate.
	qualityWinRate := qualitySum / float64(total) / 1.5

	momentumN := min(e.cfg.MomentumWindow, total)
	momentumWins := 0
	for _, m := range recent.Recent(momentumN) {
		if m.Won() {
			momentumWins++
		}
	}

	return models.FormStats{
		WinRate:                float64(wins) / float64(total),
		AvgGameDiff:            float64(gameDiffSum) / float64(total),
		QualityAdjustedWinRate: qualityWinRate,
		RecentMomentum:         float64(momentumWins)/float64(momentumN) - 0.5,
		MatchesPlayed:          total,
	}
}

package features

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hmp229/psa-predict/internal/models"
)

// rating walks the history oldest to newest and accumulates an Elo-like
// rating from the base value. Each update is weighted by exponential
// half-life decay relative to ref and scaled by the estimated opponent
// strength; losses move the rating at half the magnitude of wins. The final
// value is clamped to [RatingFloor, RatingCeiling]. The second return value
// is the decay-weighted average opponent strength, reported for diagnostics.
func (e *Extractor) rating(hist models.CompetitorHistory, ref time.Time) (float64, float64) {
	if len(hist) == 0 {
		return e.cfg.BaseRating, 0
	}

	elo := e.cfg.BaseRating
	qualitySum := 0.0
	for i := len(hist) - 1; i >= 0; i-- {
		m := hist[i]
		weight := e.decay(m.Date, ref)
		strength := opponentStrength(&m)
		qualitySum += strength * weight

		// Stronger opponents move the rating more.
		step := e.cfg.KFactor * (1 + 0.5*strength) * weight
		if m.Won() {
			elo += step
		} else {
			elo -= step * 0.5
		}
	}

	elo = math.Max(e.cfg.RatingFloor, math.Min(e.cfg.RatingCeiling, elo))
	return elo, qualitySum / float64(len(hist))
}

// decay returns the half-life recency weight for a match date
func (e *Extractor) decay(date, ref time.Time) float64 {
	daysAgo := ref.Sub(date).Hours() / 24
	return math.Pow(0.5, daysAgo/e.cfg.HalfLifeDays)
}

// opponentStrength estimates the opponent's quality in [0,1] from the game
// score ratio and how competitive the individual games were. Close matches
// are better indicators of a strong opponent than blowouts.
func opponentStrength(m *models.MatchRecord) float64 {
	total := m.GamesWon + m.GamesLost
	if total == 0 {
		return 0.5
	}

	scoreRatio := float64(m.GamesWon) / float64(total)
	strength := scoreRatio*0.7 + scoreQuality(m.Score)*0.3
	return math.Min(1, math.Max(0, strength))
}

// scoreQuality returns the share of close games (point margin <= 3) in a
// score string like "11-8, 11-9, 5-11, 11-7". Unparseable scores count as
// neutral.
func scoreQuality(score string) float64 {
	if score == "" {
		return 0.5
	}

	games := strings.Split(score, ",")
	close := 0
	total := 0
	for _, game := range games {
		parts := strings.SplitN(strings.TrimSpace(game), "-", 2)
		if len(parts) != 2 {
			continue
		}
		p1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		p2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			continue
		}
		total++
		if abs(p1-p2) <= 3 {
			close++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(close) / float64(total)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

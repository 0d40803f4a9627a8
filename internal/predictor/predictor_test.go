package predictor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmp229/psa-predict/internal/features"
	"github.com/hmp229/psa-predict/internal/models"
)

var ref = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func newPredictor() *Predictor {
	return New(features.NewExtractor(features.DefaultConfig()))
}

func streak(n int, result models.MatchResult) models.CompetitorHistory {
	hist := make(models.CompetitorHistory, 0, n)
	for i := 0; i < n; i++ {
		gw, gl := 3, 0
		if result == models.ResultLoss {
			gw, gl = 0, 3
		}
		hist = append(hist, models.MatchRecord{
			Date:      ref.AddDate(0, 0, -(i*7 + 1)),
			Opponent:  "Opponent",
			Result:    result,
			GamesWon:  gw,
			GamesLost: gl,
		})
	}
	return hist
}

func TestTierStepFunction(t *testing.T) {
	tests := []struct {
		rank int
		tier int
	}{
		{1, 0}, {5, 0},
		{6, 1}, {10, 1}, {20, 1},
		{21, 2}, {25, 2}, {50, 2},
		{51, 3}, {75, 3}, {100, 3},
		{101, 4}, {150, 4}, {200, 4},
		{201, 5}, {250, 5}, {999, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, Tier(tt.rank), "rank %d", tt.rank)
	}
}

func TestRankingPriorNeverFiftyFifty(t *testing.T) {
	pairs := [][2]int{{1, 2}, {3, 180}, {10, 11}, {50, 51}, {200, 300}, {1, 500}}
	for _, pair := range pairs {
		prior := RankingPrior(pair[0], pair[1])
		assert.NotEqual(t, 0.5, prior.A, "ranks %v", pair)
		assert.InDelta(t, 1.0, prior.A+prior.B, 1e-12)
		// The numerically better rank is always the favorite.
		if pair[0] < pair[1] {
			assert.Greater(t, prior.A, 0.5)
		} else {
			assert.Greater(t, prior.B, 0.5)
		}
	}
}

func TestRankingPriorEqualRanks(t *testing.T) {
	prior := RankingPrior(7, 7)
	assert.Equal(t, models.ProbabilityPair{A: 0.52, B: 0.48}, prior)
}

func TestRankingPriorLargeGap(t *testing.T) {
	prior := RankingPrior(2, 180)
	assert.GreaterOrEqual(t, prior.A, 0.85)
	assert.LessOrEqual(t, prior.B, 0.15)
}

func TestEvidenceProbabilityClamped(t *testing.T) {
	strong := models.FeatureBundle{Elo: 2500, Form: models.FormStats{QualityAdjustedWinRate: 1, RecentMomentum: 0.5, MatchesPlayed: 20}}
	weak := models.FeatureBundle{Elo: 1000, Form: models.FormStats{QualityAdjustedWinRate: 0, RecentMomentum: -0.5, MatchesPlayed: 20}}

	p := EvidenceProbability(strong, weak)
	assert.LessOrEqual(t, p, 0.99)
	assert.GreaterOrEqual(t, EvidenceProbability(weak, strong), 0.01)
}

func TestEvidenceWeightBounds(t *testing.T) {
	none := models.FeatureBundle{}
	assert.Equal(t, 0.2, EvidenceWeight(none, none))

	many := models.FeatureBundle{Form: models.FormStats{MatchesPlayed: 200}}
	assert.Equal(t, 1.0, EvidenceWeight(many, many))

	twenty := models.FeatureBundle{Form: models.FormStats{MatchesPlayed: 20}}
	w := EvidenceWeight(twenty, twenty)
	assert.Greater(t, w, 0.2)
	assert.Less(t, w, 1.0)
}

func TestH2HAdjustmentSteps(t *testing.T) {
	tests := []struct {
		name     string
		h2h      models.H2HSummary
		expected float64
	}{
		{"no matches", models.NeutralH2H(), 0},
		{"weak sample", models.H2HSummary{NMatches: 2, NEffective: 1.5, AWinRate: 1.0}, 0.05},
		{"small sample", models.H2HSummary{NMatches: 3, NEffective: 2.5, AWinRate: 1.0}, 0.10},
		{"medium sample", models.H2HSummary{NMatches: 5, NEffective: 4.0, AWinRate: 1.0}, 0.20},
		{"large sample", models.H2HSummary{NMatches: 8, NEffective: 6.0, AWinRate: 1.0}, 0.30},
		{"favoring B", models.H2HSummary{NMatches: 8, NEffective: 6.0, AWinRate: 0.0}, -0.30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, h2hAdjustment(tt.h2h), 1e-9)
		})
	}
}

func TestLargeGapUnderdogCapped(t *testing.T) {
	p := newPredictor()

	// Rank 180 vs rank 2 with no head-to-head: tier gap 4 caps the underdog
	// at 0.15 regardless of evidence.
	result := p.Predict(Input{
		HistoryA:      streak(5, models.ResultWin),
		HistoryB:      streak(15, models.ResultWin),
		RankA:         180,
		RankB:         2,
		ReferenceDate: ref,
	})

	assert.LessOrEqual(t, result.Proba.A, 0.15)
	assert.GreaterOrEqual(t, result.Proba.B, 0.85)
	assert.Equal(t, models.SideB, result.Winner)
	assert.Equal(t, models.GuardrailCapped, result.Guardrail)
}

func TestProbabilitiesSumToOne(t *testing.T) {
	p := newPredictor()
	inputs := []Input{
		{RankA: 1, RankB: 500, ReferenceDate: ref},
		{RankA: 180, RankB: 2, ReferenceDate: ref, HistoryA: streak(20, models.ResultWin)},
		{RankA: 10, RankB: 12, ReferenceDate: ref, HistoryB: streak(8, models.ResultLoss)},
		{},
	}
	for _, in := range inputs {
		result := p.Predict(in)
		assert.Equal(t, 1.0, result.Proba.A+result.Proba.B)
	}
}

func TestMonotonicityFloor(t *testing.T) {
	p := newPredictor()

	// B holds the better rank but A holds all the evidence; B must still end
	// up at 0.52 or better.
	result := p.Predict(Input{
		HistoryA:      streak(20, models.ResultWin),
		HistoryB:      streak(20, models.ResultLoss),
		RankA:         12,
		RankB:         10,
		ReferenceDate: ref,
	})

	assert.LessOrEqual(t, result.Proba.A, 0.48)
	assert.GreaterOrEqual(t, result.Proba.B, 0.52)
}

func TestOverrideConditions(t *testing.T) {
	underdog := models.FeatureBundle{Elo: 1900}
	favorite := models.FeatureBundle{Elo: 1600}

	// Elo lead alone is one condition: not enough.
	assert.False(t, overrideAllowed(underdog, favorite, models.NeutralH2H(), 180, 2))

	// Elo lead plus a dominant head-to-head clears the bar.
	strongH2H := models.H2HSummary{NMatches: 6, NEffective: 5, AWinRate: 0.83}
	assert.True(t, overrideAllowed(underdog, favorite, strongH2H, 180, 2))

	// Mirrored for B as the underdog.
	assert.True(t, overrideAllowed(favorite, underdog, models.H2HSummary{NMatches: 6, NEffective: 5, AWinRate: 0.17}, 2, 180))
}

func TestStrongH2HLiftsUnderdogAboveCap(t *testing.T) {
	p := newPredictor()

	h2h := make(models.HeadToHeadHistory, 0, 6)
	for i := 0; i < 6; i++ {
		winner := models.SideA
		result := models.ResultWin
		gw, gl := 3, 1
		if i == 5 {
			winner = models.SideB
			result = models.ResultLoss
			gw, gl = 1, 3
		}
		h2h = append(h2h, models.HeadToHeadRecord{
			MatchRecord: models.MatchRecord{
				Date:      ref.AddDate(0, 0, -(i*30 + 10)),
				Opponent:  "Rival",
				Result:    result,
				GamesWon:  gw,
				GamesLost: gl,
			},
			Winner: winner,
		})
	}

	result := p.Predict(Input{
		HistoryA:      streak(20, models.ResultWin),
		HistoryB:      streak(20, models.ResultLoss),
		HeadToHead:    h2h,
		RankA:         180,
		RankB:         2,
		ReferenceDate: ref,
	})

	// The underdog clears the 0.15 tier cap on the strength of the
	// head-to-head record; the monotonicity floor still binds at 0.48.
	assert.Greater(t, result.Proba.A, 0.15)
	assert.LessOrEqual(t, result.Proba.A, 0.48)
}

func TestBootstrapInterval(t *testing.T) {
	ci := BootstrapCI(0.7, DefaultSeed)

	assert.Less(t, ci.A.Low, ci.A.High)
	assert.Less(t, ci.B.Low, ci.B.High)
	assert.Greater(t, ci.A.Low, 0.5)
	assert.Less(t, ci.A.High, 0.9)

	// Centered near the point estimate.
	assert.InDelta(t, 0.7, (ci.A.Low+ci.A.High)/2, 0.1)

	// B mirrors A.
	assert.InDelta(t, 1-ci.A.High, ci.B.Low, 1e-9)
	assert.InDelta(t, 1-ci.A.Low, ci.B.High, 1e-9)
}

func TestBootstrapDeterministicForSeed(t *testing.T) {
	first := BootstrapCI(0.65, 1234)
	second := BootstrapCI(0.65, 1234)
	assert.Equal(t, first, second)

	other := BootstrapCI(0.65, 99)
	assert.NotEqual(t, first, other)
}

func TestExplainDrivers(t *testing.T) {
	p := newPredictor()
	result := p.Predict(Input{RankA: 3, RankB: 150, ReferenceDate: ref})

	require.GreaterOrEqual(t, len(result.Drivers), 3)
	for _, d := range result.Drivers {
		assert.NotEmpty(t, d.Feature)
		assert.NotEmpty(t, d.Impact)
		assert.NotEmpty(t, d.Note)
	}
}

func TestPredictDefaults(t *testing.T) {
	p := newPredictor()

	// Zero input: both sides unranked and historyless. Equal ranks give the
	// 0.52/0.48 prior and the pipeline still produces a full result.
	result := p.Predict(Input{})
	assert.Equal(t, models.SideA, result.Winner)
	assert.InDelta(t, 0.52, result.Proba.A, 0.05)
	assert.NotZero(t, result.ID)
	assert.False(t, result.FairOdds.A.IsZero())
}

func TestPredictReproducible(t *testing.T) {
	p := newPredictor()
	in := Input{
		HistoryA:      streak(10, models.ResultWin),
		HistoryB:      streak(10, models.ResultLoss),
		RankA:         8,
		RankB:         30,
		ReferenceDate: ref,
	}

	first := p.Predict(in)
	second := p.Predict(in)
	assert.Equal(t, first.Proba, second.Proba)
	assert.Equal(t, first.CI95, second.CI95)
	assert.Equal(t, first.Winner, second.Winner)
}

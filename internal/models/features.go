package models

// FormStats summarizes a competitor's recent results over a fixed window of
// matches. Fields carry neutral defaults when no history exists.
type FormStats struct {
	WinRate                float64 `json:"win_rate"`
	AvgGameDiff            float64 `json:"avg_game_diff"`
	QualityAdjustedWinRate float64 `json:"quality_adjusted_win_rate"`
	RecentMomentum         float64 `json:"recent_momentum"`
	MatchesPlayed          int     `json:"matches_played"`
}

// NeutralForm returns the form stats reported for an empty history
func NeutralForm() FormStats {
	return FormStats{WinRate: 0.5, QualityAdjustedWinRate: 0.5}
}

// FatigueStats counts recent match density relative to the reference date
type FatigueStats struct {
	MatchesLast14d int `json:"matches_last_14d"`
	MatchesLast30d int `json:"matches_last_30d"`
}

// TrendStats describes the short-term direction of a competitor's results:
// the slope of a degree-1 fit over bucketed win rates and a consistency score
// in [0,1].
type TrendStats struct {
	Slope       float64 `json:"trend"`
	Consistency float64 `json:"consistency"`
}

// NeutralTrend is reported when the window holds too few matches to fit a line
func NeutralTrend() TrendStats {
	return TrendStats{Slope: 0, Consistency: 0.5}
}

// H2HSummary summarizes the shared history between the two competitors.
// NEffective is a time-decayed sample size weighted toward recent meetings.
type H2HSummary struct {
	NMatches     int     `json:"n_matches"`
	NEffective   float64 `json:"n_effective"`
	AWinRate     float64 `json:"a_win_rate"`
	AvgGameDiffA float64 `json:"avg_game_diff_a"`
	DaysSince    int     `json:"days_since_last"`
}

// NeutralH2H returns the summary reported when the competitors never met
func NeutralH2H() H2HSummary {
	return H2HSummary{AWinRate: 0.5, DaysSince: 9999}
}

// FeatureBundle is the fixed set of features derived from one competitor's
// merged history. It is recomputed per prediction call and never persisted.
type FeatureBundle struct {
	Elo        float64      `json:"elo"`
	EloQuality float64      `json:"elo_quality"`
	Form       FormStats    `json:"form"`
	Fatigue    FatigueStats `json:"fatigue"`
	Trend      TrendStats   `json:"trend"`
}

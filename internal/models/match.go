package models

import (
	"time"
)

// MatchResult is the outcome of a match from the competitor's perspective.
type MatchResult string

// Match outcomes
const (
	ResultWin  MatchResult = "W"
	ResultLoss MatchResult = "L"
)

// MatchRecord represents a single historical result for a competitor.
// Records are immutable once produced by a data source; dates must be
// normalized to UTC before they enter the aggregator.
type MatchRecord struct {
	Date       time.Time   `json:"date" validate:"required"`
	Opponent   string      `json:"opponent" validate:"required"`
	OpponentID string      `json:"opponent_id,omitempty"`
	Result     MatchResult `json:"result" validate:"required,oneof=W L"`
	GamesWon   int         `json:"games_won" validate:"gte=0"`
	GamesLost  int         `json:"games_lost" validate:"gte=0"`
	Score      string      `json:"score,omitempty"`
	Event      string      `json:"event,omitempty"`
	Round      string      `json:"round,omitempty"`
	Source     string      `json:"source"`
}

// Won reports whether the competitor won the match
func (m *MatchRecord) Won() bool {
	return m.Result == ResultWin
}

// GameDiff returns games won minus games lost
func (m *MatchRecord) GameDiff() int {
	return m.GamesWon - m.GamesLost
}

// CompetitorHistory is an ordered series of match records for one competitor,
// sorted descending by date after aggregation.
type CompetitorHistory []MatchRecord

// Recent returns the most recent n records (the history is stored newest first)
func (h CompetitorHistory) Recent(n int) CompetitorHistory {
	if n >= len(h) {
		return h
	}
	return h[:n]
}

// Since returns the records dated on or after cutoff
func (h CompetitorHistory) Since(cutoff time.Time) CompetitorHistory {
	out := make(CompetitorHistory, 0, len(h))
	for _, m := range h {
		if !m.Date.Before(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// Side identifies one of the two competitors in a prediction request.
type Side string

// Competitor sides
const (
	SideA Side = "A"
	SideB Side = "B"
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// HeadToHeadRecord is a shared match between the two competitors, tagged with
// the winning side. The embedded record is from competitor A's perspective.
type HeadToHeadRecord struct {
	MatchRecord
	Winner Side `json:"winner" validate:"required,oneof=A B"`
}

// HeadToHeadHistory is the subset of competitor A's history restricted to
// matches against competitor B.
type HeadToHeadHistory []HeadToHeadRecord

// Package service orchestrates the prediction pipeline: concurrent source
// fetches, normalization, aggregation, ranking lookup, and the core
// predictor.
package service

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/models"
)

// Normalizer converts raw source records to the canonical form the
// aggregator expects: UTC dates truncated to day precision and cleaned
// opponent names, so the same match reported by two sources collapses to
// one (date, opponent) key.
type Normalizer struct {
	logger *logrus.Logger
}

// NewNormalizer creates a new record normalizer
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeRecords cleans a fragment in place, dropping records that cannot
// be repaired
func (n *Normalizer) NormalizeRecords(records []models.MatchRecord) []models.MatchRecord {
	out := make([]models.MatchRecord, 0, len(records))
	for _, rec := range records {
		normalized, ok := n.normalize(rec)
		if !ok {
			n.logger.WithFields(logrus.Fields{
				"source":   rec.Source,
				"opponent": rec.Opponent,
			}).Debug("Dropping unusable match record")
			continue
		}
		out = append(out, normalized)
	}
	return out
}

func (n *Normalizer) normalize(rec models.MatchRecord) (models.MatchRecord, bool) {
	if rec.Date.IsZero() {
		return rec, false
	}
	rec.Opponent = CanonicalName(rec.Opponent)
	if rec.Opponent == "" {
		return rec, false
	}
	if rec.Result != models.ResultWin && rec.Result != models.ResultLoss {
		return rec, false
	}
	if rec.GamesWon < 0 || rec.GamesLost < 0 {
		return rec, false
	}

	// Sources report calendar dates in assorted zones; day precision in UTC
	// is what the (date, opponent) merge key needs.
	utc := rec.Date.UTC()
	rec.Date = time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return rec, true
}

// CanonicalName trims and collapses whitespace so name comparisons are
// stable across sources
func CanonicalName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SameCompetitor reports whether two records refer to the same opponent,
// preferring stable IDs over display names
func SameCompetitor(rec *models.MatchRecord, id, name string) bool {
	if id != "" && rec.OpponentID != "" {
		return rec.OpponentID == id
	}
	return strings.EqualFold(rec.Opponent, CanonicalName(name))
}

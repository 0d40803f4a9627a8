// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/models"
)

// AuditLogger records every prediction and guardrail decision for review.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPrediction logs a completed prediction with its inputs and outputs.
func (al *AuditLogger) LogPrediction(requestID string, competitorA, competitorB string, rankA, rankB int, result *models.PredictionResult, seed int64) {
	al.WithFields(logrus.Fields{
		"request_id":   requestID,
		"prediction":   result.ID.String(),
		"competitor_a": competitorA,
		"competitor_b": competitorB,
		"rank_a":       rankA,
		"rank_b":       rankB,
		"winner":       result.Winner,
		"proba_a":      result.Proba.A,
		"proba_b":      result.Proba.B,
		"guardrail":    string(result.Guardrail),
		"seed":         seed,
	}).Info("Prediction recorded")
}

// LogSourceFailure logs a source that failed during history fetching. A
// failed source degrades the merge rather than failing the prediction.
func (al *AuditLogger) LogSourceFailure(requestID, source, competitor string, err error) {
	al.WithFields(logrus.Fields{
		"request_id": requestID,
		"source":     source,
		"competitor": competitor,
	}).Warnf("Source fetch failed: %v", err)
}

// LogStaleRanking logs a ranking snapshot rejected for staleness.
func (al *AuditLogger) LogStaleRanking(requestID, competitor string, ageDays int) {
	al.WithFields(logrus.Fields{
		"request_id": requestID,
		"competitor": competitor,
		"age_days":   ageDays,
	}).Warn("Stale ranking snapshot rejected")
}

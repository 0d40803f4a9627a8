// Package datasource fetches raw match-history fragments from external
// providers. Each source tags its records with its own name so the history
// aggregator can apply the configured priority order.
package datasource

import (
	"context"
	"fmt"

	"github.com/hmp229/psa-predict/internal/models"
)

// Source defines the interface for fetching match history from an external
// provider
type Source interface {
	// FetchMatchHistory retrieves a competitor's results covering roughly
	// the last monthsBack months. Records are tagged with the source name
	// and dates are normalized downstream before aggregation.
	FetchMatchHistory(ctx context.Context, competitorID string, monthsBack int) ([]models.MatchRecord, error)

	// Name returns the source name used for record tagging and priority
	Name() string

	// IsEnabled returns whether this source is currently enabled
	IsEnabled() bool
}

// SourceError represents errors from data source operations
type SourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Error codes for source failures
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeDisabled          = "disabled"
)

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{Source: source, Code: code, Message: message, Err: err}
}

package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/models"
)

// PSAAPISourceName is the tag applied to records from the PSA results API
const PSAAPISourceName = "psa_api"

// PSAAPIClient implements Source against the PSA results API
type PSAAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// psaMatchEntry is the wire format for one match from the PSA API
type psaMatchEntry struct {
	Date       string `json:"date"`
	Opponent   string `json:"opponent"`
	OpponentID string `json:"opponent_id"`
	Result     string `json:"result"`
	GamesWon   int    `json:"games_won"`
	GamesLost  int    `json:"games_lost"`
	Score      string `json:"score"`
	Event      string `json:"event"`
	Round      string `json:"round"`
}

// NewPSAAPIClient creates a new PSA API client
func NewPSAAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *PSAAPIClient {
	return &PSAAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the source name
func (c *PSAAPIClient) Name() string { return PSAAPISourceName }

// IsEnabled returns whether the source is enabled
func (c *PSAAPIClient) IsEnabled() bool { return c.enabled }

// FetchMatchHistory retrieves a competitor's results from the PSA API
func (c *PSAAPIClient) FetchMatchHistory(ctx context.Context, competitorID string, monthsBack int) ([]models.MatchRecord, error) {
	if !c.enabled {
		return nil, NewSourceError(c.Name(), ErrCodeDisabled, "source is disabled", nil)
	}

	url := fmt.Sprintf("%s/players/%s/matches?months=%d", c.baseURL, competitorID, monthsBack)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch matches", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(c.Name(), ErrCodeNotFound, "competitor not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewSourceError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var entries []psaMatchEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	records := make([]models.MatchRecord, 0, len(entries))
	for _, entry := range entries {
		rec, err := c.toRecord(entry)
		if err != nil {
			c.logger.WithField("source", c.Name()).Warnf("Skipping malformed match entry: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *PSAAPIClient) toRecord(entry psaMatchEntry) (models.MatchRecord, error) {
	date, err := time.Parse("2006-01-02", entry.Date)
	if err != nil {
		return models.MatchRecord{}, fmt.Errorf("bad date %q: %w", entry.Date, err)
	}
	result := models.MatchResult(entry.Result)
	if result != models.ResultWin && result != models.ResultLoss {
		return models.MatchRecord{}, fmt.Errorf("bad result %q", entry.Result)
	}
	return models.MatchRecord{
		Date:       date.UTC(),
		Opponent:   entry.Opponent,
		OpponentID: entry.OpponentID,
		Result:     result,
		GamesWon:   entry.GamesWon,
		GamesLost:  entry.GamesLost,
		Score:      entry.Score,
		Event:      entry.Event,
		Round:      entry.Round,
		Source:     c.Name(),
	}, nil
}

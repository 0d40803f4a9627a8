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

// SquashLevelsSourceName is the tag applied to records from SquashLevels
const SquashLevelsSourceName = "squashlevels"

// SquashLevelsClient implements Source against the SquashLevels JSON API.
// It is a secondary source: its records fill gaps in the primary feed and
// lose conflicts to it during aggregation.
type SquashLevelsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	logger     *logrus.Logger
}

type squashLevelsResponse struct {
	Matches []squashLevelsMatch `json:"matches"`
}

type squashLevelsMatch struct {
	PlayedOn     string `json:"played_on"`
	OpponentName string `json:"opponent_name"`
	OpponentRef  string `json:"opponent_ref"`
	Won          bool   `json:"won"`
	GamesFor     int    `json:"games_for"`
	GamesAgainst int    `json:"games_against"`
	ScoreLine    string `json:"score_line"`
	Tournament   string `json:"tournament"`
}

// NewSquashLevelsClient creates a new SquashLevels client
func NewSquashLevelsClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, logger *logrus.Logger) *SquashLevelsClient {
	return &SquashLevelsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the source name
func (c *SquashLevelsClient) Name() string { return SquashLevelsSourceName }

// IsEnabled returns whether the source is enabled
func (c *SquashLevelsClient) IsEnabled() bool { return c.enabled }

// FetchMatchHistory retrieves a competitor's results from SquashLevels
func (c *SquashLevelsClient) FetchMatchHistory(ctx context.Context, competitorID string, monthsBack int) ([]models.MatchRecord, error) {
	if !c.enabled {
		return nil, NewSourceError(c.Name(), ErrCodeDisabled, "source is disabled", nil)
	}

	since := time.Now().UTC().AddDate(0, -monthsBack, 0).Format("2006-01-02")
	url := fmt.Sprintf("%s/matches?player=%s&since=%s", c.baseURL, competitorID, since)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch matches", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewSourceError(c.Name(), ErrCodeNotFound, "competitor not found", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewSourceError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload squashLevelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	records := make([]models.MatchRecord, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		date, err := time.Parse("2006-01-02", m.PlayedOn)
		if err != nil {
			c.logger.WithField("source", c.Name()).Warnf("Skipping match with bad date %q", m.PlayedOn)
			continue
		}
		result := models.ResultLoss
		if m.Won {
			result = models.ResultWin
		}
		records = append(records, models.MatchRecord{
			Date:       date.UTC(),
			Opponent:   m.OpponentName,
			OpponentID: m.OpponentRef,
			Result:     result,
			GamesWon:   m.GamesFor,
			GamesLost:  m.GamesAgainst,
			Score:      m.ScoreLine,
			Event:      m.Tournament,
			Source:     c.Name(),
		})
	}
	return records, nil
}

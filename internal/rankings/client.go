// Package rankings looks up published ranking snapshots and resolves
// competitor names against the upstream directory. Lookups are cached
// in-process; snapshots older than 90 days are rejected here so stale data
// never reaches the prediction core.
package rankings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/datasource"
	"github.com/hmp229/psa-predict/internal/metrics"
	"github.com/hmp229/psa-predict/internal/models"
)

// Client fetches ranking snapshots from the rankings API
type Client struct {
	httpClient *datasource.RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates a rankings client with an in-memory snapshot cache
func NewClient(httpClient *datasource.RateLimitedHTTPClient, baseURL string, ttl time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cache:      cache.New(ttl, ttl*2),
		logger:     logger,
	}
}

type rankingPayload struct {
	Rank   int    `json:"rank"`
	Points int    `json:"points"`
	AsOf   string `json:"as_of"`
}

type searchPayload struct {
	Players []struct {
		Name       string `json:"name"`
		ID         string `json:"id"`
		ProfileURL string `json:"profile_url"`
	} `json:"players"`
}

// Resolve maps a competitor name to a canonical identity. The outcome is an
// explicit variant: Found, NotFound with near-match suggestions, or
// UpstreamInvalid when the response cannot be interpreted. Only transport
// failures surface as errors.
func (c *Client) Resolve(ctx context.Context, name string) (*models.Resolution, error) {
	endpoint := fmt.Sprintf("%s/players/search?q=%s", c.baseURL, url.QueryEscape(name))
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("player search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("Player search returned unexpected status")
		return &models.Resolution{Status: models.ResolutionUpstreamInvalid}, nil
	}

	var payload searchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return &models.Resolution{Status: models.ResolutionUpstreamInvalid}, nil
	}

	switch len(payload.Players) {
	case 0:
		return &models.Resolution{Status: models.ResolutionNotFound}, nil
	case 1:
		p := payload.Players[0]
		return &models.Resolution{
			Status:       models.ResolutionFound,
			Canonical:    p.Name,
			CompetitorID: p.ID,
			ProfileURL:   p.ProfileURL,
		}, nil
	default:
		suggestions := make([]models.Suggestion, 0, len(payload.Players))
		for _, p := range payload.Players {
			suggestions = append(suggestions, models.Suggestion{Name: p.Name, CompetitorID: p.ID})
		}
		return &models.Resolution{
			Status:      models.ResolutionNotFound,
			Suggestions: suggestions,
		}, nil
	}
}

// Snapshot returns the current ranking snapshot for a competitor, from
// cache when fresh. Snapshots older than models.MaxSnapshotAge are rejected
// with models.ErrStaleSnapshot.
func (c *Client) Snapshot(ctx context.Context, competitorID string) (*models.RankingSnapshot, error) {
	if cached, found := c.cache.Get(competitorID); found {
		metrics.RankingLookupsTotal.WithLabelValues("hit").Inc()
		snapshot := cached.(models.RankingSnapshot)
		return &snapshot, nil
	}
	metrics.RankingLookupsTotal.WithLabelValues("miss").Inc()

	endpoint := fmt.Sprintf("%s/players/%s/ranking", c.baseURL, url.PathEscape(competitorID))
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("ranking lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", models.ErrCompetitorNotFound, competitorID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ranking endpoint returned %d", models.ErrUpstreamInvalid, resp.StatusCode)
	}

	var payload rankingPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamInvalid, err)
	}

	asOf, err := time.Parse("2006-01-02", payload.AsOf)
	if err != nil {
		return nil, fmt.Errorf("%w: bad as_of date %q", models.ErrUpstreamInvalid, payload.AsOf)
	}
	if payload.Rank < 1 {
		return nil, fmt.Errorf("%w: rank %d", models.ErrInvalidRank, payload.Rank)
	}

	snapshot := models.RankingSnapshot{
		Rank:    payload.Rank,
		Points:  payload.Points,
		AsOf:    asOf.UTC(),
		Sources: []string{"rankings_api"},
	}
	if err := snapshot.CheckFreshness(time.Now().UTC()); err != nil {
		metrics.StaleRankingsTotal.Inc()
		return nil, err
	}

	c.cache.SetDefault(competitorID, snapshot)
	return &snapshot, nil
}

// Refresh drops all cached snapshots so the next lookups hit upstream. The
// scheduler calls this on the configured cron schedule.
func (c *Client) Refresh() {
	c.cache.Flush()
	c.logger.Debug("Rankings cache flushed")
}

// Ping checks that the upstream directory is reachable. Any HTTP response
// counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/players/search?q=ping")
	if err != nil {
		return fmt.Errorf("rankings upstream unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

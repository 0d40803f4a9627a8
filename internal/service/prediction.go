package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hmp229/psa-predict/internal/datasource"
	"github.com/hmp229/psa-predict/internal/history"
	"github.com/hmp229/psa-predict/internal/logger"
	"github.com/hmp229/psa-predict/internal/metrics"
	"github.com/hmp229/psa-predict/internal/models"
	"github.com/hmp229/psa-predict/internal/predictor"
	"github.com/hmp229/psa-predict/internal/rankings"
)

// NotFoundError is returned when a competitor name does not resolve to a
// single upstream identity. Suggestions carry near matches for the caller.
type NotFoundError struct {
	Name        string
	Suggestions []models.Suggestion
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("competitor %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return models.ErrCompetitorNotFound
}

// UpstreamError is returned when the upstream directory cannot be
// interpreted
type UpstreamError struct {
	Name string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned invalid data resolving %q", e.Name)
}

func (e *UpstreamError) Unwrap() error {
	return models.ErrUpstreamInvalid
}

// PredictionRequest is one head-to-head prediction request
type PredictionRequest struct {
	CompetitorA   string
	CompetitorB   string
	ReferenceDate time.Time
	Seed          int64
}

// PredictionResponse is the full service response: the core prediction plus
// the resolved identities, ranking snapshots, and any degradation warnings.
type PredictionResponse struct {
	RequestID   uuid.UUID                         `json:"request_id"`
	CompetitorA string                            `json:"competitor_a"`
	CompetitorB string                            `json:"competitor_b"`
	Resolved    map[models.Side]models.Resolution `json:"resolved"`
	Ranking     map[models.Side]int               `json:"ranking"`
	Summary     *models.PredictionResult          `json:"summary"`
	Sources     []string                          `json:"sources"`
	Warnings    []string                          `json:"warnings"`
}

// PredictionService wires the boundary collaborators to the pure core
type PredictionService struct {
	sources    []datasource.Source
	aggregator *history.Aggregator
	rankings   *rankings.Client
	predictor  *predictor.Predictor
	normalizer *Normalizer
	audit      *logger.AuditLogger
	logger     *logrus.Logger
	monthsBack int
}

// NewPredictionService creates the orchestrating service
func NewPredictionService(
	sources []datasource.Source,
	rankingsClient *rankings.Client,
	core *predictor.Predictor,
	monthsBack int,
	baseLogger *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		sources:    sources,
		aggregator: history.NewAggregator(datasource.SourceOrder(sources)),
		rankings:   rankingsClient,
		predictor:  core,
		normalizer: NewNormalizer(baseLogger),
		audit:      logger.NewAuditLogger(baseLogger),
		logger:     baseLogger,
		monthsBack: monthsBack,
	}
}

// Predict resolves both competitors, gathers and merges their histories,
// and runs the core pipeline. Source failures and missing rankings degrade
// with warnings; only unresolvable names and total upstream failure surface
// as errors.
func (s *PredictionService) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	started := time.Now()
	defer func() {
		metrics.PredictionDuration.Observe(time.Since(started).Seconds())
	}()

	requestID := uuid.New()
	warnings := make([]string, 0, 4)

	resolvedA, err := s.resolve(ctx, req.CompetitorA)
	if err != nil {
		return nil, err
	}
	resolvedB, err := s.resolve(ctx, req.CompetitorB)
	if err != nil {
		return nil, err
	}

	histA := s.fetchMergedHistory(ctx, requestID.String(), resolvedA, &warnings)
	histB := s.fetchMergedHistory(ctx, requestID.String(), resolvedB, &warnings)
	metrics.MergedHistorySize.Set(float64(len(histA)))

	h2h := headToHead(histA, resolvedB)

	rankA := s.lookupRank(ctx, requestID.String(), resolvedA, &warnings)
	rankB := s.lookupRank(ctx, requestID.String(), resolvedB, &warnings)

	result := s.predictor.Predict(predictor.Input{
		HistoryA:      histA,
		HistoryB:      histB,
		HeadToHead:    h2h,
		RankA:         rankA,
		RankB:         rankB,
		ReferenceDate: req.ReferenceDate,
		Seed:          req.Seed,
	})

	metrics.PredictionsTotal.Inc()
	switch result.Guardrail {
	case models.GuardrailCapped:
		metrics.GuardrailCapsTotal.Inc()
	case models.GuardrailOverridden:
		metrics.GuardrailOverridesTotal.Inc()
	}
	s.audit.LogPrediction(requestID.String(), resolvedA.Canonical, resolvedB.Canonical, rankA, rankB, result, req.Seed)

	return &PredictionResponse{
		RequestID:   requestID,
		CompetitorA: resolvedA.Canonical,
		CompetitorB: resolvedB.Canonical,
		Resolved: map[models.Side]models.Resolution{
			models.SideA: *resolvedA,
			models.SideB: *resolvedB,
		},
		Ranking: map[models.Side]int{
			models.SideA: rankA,
			models.SideB: rankB,
		},
		Summary:  result,
		Sources:  datasource.SourceOrder(s.sources),
		Warnings: warnings,
	}, nil
}

func (s *PredictionService) resolve(ctx context.Context, name string) (*models.Resolution, error) {
	res, err := s.rankings.Resolve(ctx, CanonicalName(name))
	if err != nil {
		return nil, err
	}
	switch res.Status {
	case models.ResolutionFound:
		return res, nil
	case models.ResolutionNotFound:
		return nil, &NotFoundError{Name: name, Suggestions: res.Suggestions}
	default:
		return nil, &UpstreamError{Name: name}
	}
}

// fetchMergedHistory queries every enabled source concurrently and merges
// the fragments under the configured priority order. A failed source is a
// warning, not an error: the merge proceeds with whatever arrived.
func (s *PredictionService) fetchMergedHistory(ctx context.Context, requestID string, who *models.Resolution, warnings *[]string) models.CompetitorHistory {
	fragments := make([]history.Fragment, len(s.sources))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, src := range s.sources {
		if !src.IsEnabled() {
			continue
		}
		wg.Add(1)
		go func(i int, src datasource.Source) {
			defer wg.Done()

			fetchStart := time.Now()
			records, err := src.FetchMatchHistory(ctx, who.CompetitorID, s.monthsBack)
			metrics.SourceFetchDuration.WithLabelValues(src.Name()).Observe(time.Since(fetchStart).Seconds())
			if err != nil {
				metrics.SourceFetchErrorsTotal.WithLabelValues(src.Name()).Inc()
				s.audit.LogSourceFailure(requestID, src.Name(), who.Canonical, err)
				mu.Lock()
				*warnings = append(*warnings, fmt.Sprintf("source %s unavailable for %s", src.Name(), who.Canonical))
				mu.Unlock()
				return
			}

			fragments[i] = history.Fragment{
				Source:  src.Name(),
				Records: s.normalizer.NormalizeRecords(records),
			}
		}(i, src)
	}
	wg.Wait()

	return s.aggregator.Merge(fragments)
}

// lookupRank returns the published rank or the unranked default with a
// warning when the snapshot is missing or stale
func (s *PredictionService) lookupRank(ctx context.Context, requestID string, who *models.Resolution, warnings *[]string) int {
	snapshot, err := s.rankings.Snapshot(ctx, who.CompetitorID)
	if err != nil {
		s.logger.WithField("competitor", who.Canonical).Warnf("Ranking lookup failed: %v", err)
		*warnings = append(*warnings, fmt.Sprintf("no usable ranking for %s, treating as unranked", who.Canonical))
		return models.UnrankedRank
	}
	return snapshot.Rank
}

// headToHead restricts A's merged history to meetings with B, tagging each
// record with the winning side
func headToHead(histA models.CompetitorHistory, b *models.Resolution) models.HeadToHeadHistory {
	h2h := make(models.HeadToHeadHistory, 0, 8)
	for _, rec := range histA {
		if !SameCompetitor(&rec, b.CompetitorID, b.Canonical) {
			continue
		}
		winner := models.SideB
		if rec.Won() {
			winner = models.SideA
		}
		h2h = append(h2h, models.HeadToHeadRecord{MatchRecord: rec, Winner: winner})
	}
	return h2h
}

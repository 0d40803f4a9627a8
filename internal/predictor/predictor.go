package predictor

import (
	"time"

	"github.com/google/uuid"

	"github.com/hmp229/psa-predict/internal/features"
	"github.com/hmp229/psa-predict/internal/models"
)

// DefaultSeed keeps repeated predictions over identical inputs reproducible
// when the caller does not supply a seed
const DefaultSeed int64 = 42

// Input carries everything one prediction needs. Histories may be empty;
// unknown ranks default to models.UnrankedRank, a zero reference date means
// now, and a zero seed means DefaultSeed.
type Input struct {
	HistoryA      models.CompetitorHistory
	HistoryB      models.CompetitorHistory
	HeadToHead    models.HeadToHeadHistory
	RankA         int
	RankB         int
	ReferenceDate time.Time
	Seed          int64
}

// Predictor runs the full prior/evidence pipeline. It holds no mutable
// state and is safe for concurrent use.
type Predictor struct {
	extractor *features.Extractor
}

// New creates a predictor backed by the given feature extractor
func New(extractor *features.Extractor) *Predictor {
	return &Predictor{extractor: extractor}
}

// Predict produces a calibrated probability pair with a bounded 95% interval
// and an ordered driver list. The pipeline is a pure function of its input:
// sparse data degrades to neutral defaults, so Predict never fails.
func (p *Predictor) Predict(in Input) *models.PredictionResult {
	if in.RankA <= 0 {
		in.RankA = models.UnrankedRank
	}
	if in.RankB <= 0 {
		in.RankB = models.UnrankedRank
	}
	if in.ReferenceDate.IsZero() {
		in.ReferenceDate = time.Now().UTC()
	}
	if in.Seed == 0 {
		in.Seed = DefaultSeed
	}

	bundleA := p.extractor.Extract(in.HistoryA, in.ReferenceDate)
	bundleB := p.extractor.Extract(in.HistoryB, in.ReferenceDate)
	h2h := p.extractor.HeadToHead(in.HeadToHead, in.ReferenceDate)

	prior := RankingPrior(in.RankA, in.RankB)
	pEvidence := EvidenceProbability(bundleA, bundleB)
	w := EvidenceWeight(bundleA, bundleB)

	logOdds := blendLogOdds(pEvidence, prior.A, w)
	logOdds += h2hAdjustment(h2h)

	pA := sigmoid(logOdds)
	pA, guardrail := applyGuardrails(pA, bundleA, bundleB, h2h, in.RankA, in.RankB)

	pA = round3(pA)
	proba := models.ProbabilityPair{A: pA, B: 1 - pA}

	winner := models.SideA
	if proba.B > proba.A {
		winner = models.SideB
	}

	return &models.PredictionResult{
		ID:          uuid.New(),
		Winner:      winner,
		Proba:       proba,
		CI95:        BootstrapCI(pA, in.Seed),
		Drivers:     Explain(bundleA, bundleB, h2h, in.RankA, in.RankB),
		FairOdds:    models.FairOddsFromProba(proba),
		Guardrail:   guardrail,
		PredictedAt: time.Now().UTC(),
	}
}

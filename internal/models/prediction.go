package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProbabilityPair holds the win probability for each side. The pair always
// sums to exactly 1.
type ProbabilityPair struct {
	A float64 `json:"A" validate:"gte=0,lte=1"`
	B float64 `json:"B" validate:"gte=0,lte=1"`
}

// For returns the probability for the given side
func (p ProbabilityPair) For(s Side) float64 {
	if s == SideA {
		return p.A
	}
	return p.B
}

// Interval is a [low, high] bound around a probability
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ConfidenceInterval holds the 95% interval for each side
type ConfidenceInterval struct {
	A Interval `json:"A"`
	B Interval `json:"B"`
}

// Driver is a single human-readable explanation entry. Drivers are
// diagnostic only and never feed back into the numeric result.
type Driver struct {
	Feature string `json:"feature"`
	Impact  string `json:"impact"`
	Note    string `json:"note"`
}

// OddsPair expresses the final probabilities as fair decimal odds
type OddsPair struct {
	A decimal.Decimal `json:"A"`
	B decimal.Decimal `json:"B"`
}

// GuardrailOutcome records what the tier-gap guardrail did to a prediction
type GuardrailOutcome string

const (
	// GuardrailNone means the guardrail did not engage
	GuardrailNone GuardrailOutcome = ""
	// GuardrailCapped means the underdog probability was capped
	GuardrailCapped GuardrailOutcome = "capped"
	// GuardrailOverridden means override conditions lifted the cap
	GuardrailOverridden GuardrailOutcome = "overridden"
)

// PredictionResult is the output of one prediction call
type PredictionResult struct {
	ID          uuid.UUID          `json:"id"`
	Winner      Side               `json:"winner"`
	Proba       ProbabilityPair    `json:"proba"`
	CI95        ConfidenceInterval `json:"ci95"`
	Drivers     []Driver           `json:"drivers"`
	FairOdds    OddsPair           `json:"fair_odds"`
	Guardrail   GuardrailOutcome   `json:"guardrail,omitempty"`
	PredictedAt time.Time          `json:"predicted_at"`
}

// FairOddsFromProba converts a probability pair into fair decimal odds,
// rounded to two places. Probabilities at the [0.01, 0.99] clamp bounds give
// odds between 1.01 and 100.
func FairOddsFromProba(p ProbabilityPair) OddsPair {
	return OddsPair{
		A: fairOdds(p.A),
		B: fairOdds(p.B),
	}
}

func fairOdds(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(1 / p).Round(2)
}

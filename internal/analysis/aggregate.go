package analysis

import (
	"math"

	"github.com/okulov/sigil/internal/model"
)

// Risk level thresholds. Everything below medium is a LOW catch-all.
const (
	highThreshold   = 75
	mediumThreshold = 50
)

// Aggregator reduces per-provider results into one confidence-weighted verdict.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate combines provider results. Errored entries carry no weight but
// were already retained in the record for audit; only valid entries score.
//
//   - no results at all: UNKNOWN, score 0
//   - every result errored: ERROR, score 0
//   - otherwise: score = round(Σ riskScore·w / Σ w) with w = confidence
//     (floored at 1 for a result that states none), confidence = rounded mean
//     over valid results.
func (a *Aggregator) Aggregate(results []model.ProviderResult) model.AggregateRisk {
	if len(results) == 0 {
		return model.AggregateRisk{Level: model.RiskUnknown}
	}

	valid := make([]model.ProviderResult, 0, len(results))
	for _, r := range results {
		if r.Error == "" {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return model.AggregateRisk{Level: model.RiskError}
	}

	var weightedSum, weightTotal, confidenceTotal float64
	for _, r := range valid {
		weight := float64(r.Confidence)
		if weight < 1 {
			weight = 1
		}
		weightedSum += float64(r.RiskScore) * weight
		weightTotal += weight
		confidenceTotal += float64(r.Confidence)
	}

	score := int(math.Round(weightedSum / weightTotal))
	confidence := int(math.Round(confidenceTotal / float64(len(valid))))

	return model.AggregateRisk{
		Score:         score,
		Level:         levelFor(score),
		Confidence:    confidence,
		ProviderCount: len(valid),
	}
}

func levelFor(score int) model.RiskLevel {
	switch {
	case score >= highThreshold:
		return model.RiskHigh
	case score >= mediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

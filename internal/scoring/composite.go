package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Risk tiers, ordered from least to most severe. Boundary scores belong to
// the higher tier.
const (
	TierLow      = "low"
	TierModerate = "moderate"
	TierHigh     = "high"
	TierCritical = "critical"
)

// Uncertainty labels driven by how many raw inputs were fallback-substituted.
const (
	UncertaintyLow      = "low"
	UncertaintyModerate = "moderate"
	UncertaintyHigh     = "high"
)

// weightEpsilon is the tolerance for the weight-sum invariant.
const weightEpsilon = 1e-9

// ErrWeightConfiguration indicates the factor weights do not sum to 1.0.
// This is a deployment bug: the scorer fails fast rather than silently
// renormalizing, which would let the effective weighting drift from the
// documented score card.
var ErrWeightConfiguration = errors.New("factor weights misconfigured")

// Composite is the result of applying the fixed weights to the factor set.
type Composite struct {
	RiskTier         string `json:"risk_tier"`
	UncertaintyLevel string `json:"uncertainty_level"`
	OverallScore     int    `json:"overall_score"`
}

// ValidateWeights checks the package weight table. Called at startup so a
// broken deployment never serves a single request.
func ValidateWeights() error {
	var sum float64
	for _, w := range factorWeights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrWeightConfiguration, sum)
	}
	return nil
}

// Compose applies the factor weights to the normalized scores and derives
// the overall score, tier, and uncertainty label. substitutedCount is the
// number of distinct factors whose raw inputs were fallback-substituted.
func Compose(factors []FactorScore, substitutedCount int) (Composite, error) {
	var sum, weightSum float64
	for _, f := range factors {
		sum += f.Score * f.Weight
		weightSum += f.Weight
	}
	if math.Abs(weightSum-1.0) > weightEpsilon {
		return Composite{}, fmt.Errorf("%w: weights sum to %v, want 1.0", ErrWeightConfiguration, weightSum)
	}

	overall := int(math.Round(math.Min(100, math.Max(0, sum))))

	return Composite{
		OverallScore:     overall,
		RiskTier:         TierFor(overall),
		UncertaintyLevel: uncertaintyFor(substitutedCount),
	}, nil
}

// TierFor maps a 0-100 composite score to its discrete risk tier.
func TierFor(score int) string {
	switch {
	case score >= 75:
		return TierCritical
	case score >= 50:
		return TierHigh
	case score >= 25:
		return TierModerate
	default:
		return TierLow
	}
}

// uncertaintyFor surfaces how much of the assessment rests on substituted
// data. Three or more substituted factors means the hazard picture is
// mostly synthetic, which downstream consumers flag as demo/estimated.
func uncertaintyFor(substitutedCount int) string {
	switch {
	case substitutedCount >= 3:
		return UncertaintyHigh
	case substitutedCount >= 1:
		return UncertaintyModerate
	default:
		return UncertaintyLow
	}
}

// Package assessment assembles the outputs of the scoring and financial
// stages into the single response shape consumed by the map, dashboard,
// chat, and report collaborators. Field names and the 0-100 score range are
// a stable contract; external consumers key off them by name.
package assessment

import (
	"fmt"
	"math"

	"github.com/titleguard/api/internal/financial"
	"github.com/titleguard/api/internal/scoring"
)

// Expansion risk buckets derived from lot coverage relative to the zoning
// maximum.
const (
	ExpansionLow    = "LOW"
	ExpansionMedium = "MEDIUM"
	ExpansionHigh   = "HIGH"
)

// Thresholds for flag derivation. The flag strings are used verbatim by the
// external narrative collaborator.
const (
	ownershipFlagScore   = 50.0
	encroachmentFlagPct  = 0.05
	coverageFlagScore    = 80.0
	floodFlagScore       = 60.0
	climatePremiumFactor = 200.0
)

// RiskAssessment is the composite scoring output: overall score, tier,
// uncertainty, and the ordered per-factor breakdown.
type RiskAssessment struct {
	RiskTier         string                `json:"risk_tier"`
	UncertaintyLevel string                `json:"uncertainty_level"`
	Factors          []scoring.FactorScore `json:"factors"`
	OverallScore     int                   `json:"overall_score"`
}

// DerivedFactors are the legal/structural metrics computed directly from
// parcel and building geometry, never supplied by the caller.
type DerivedFactors struct {
	ExpansionRisk           string  `json:"expansion_risk"`
	EasementEncroachmentPct float64 `json:"easement_encroachment_pct"`
	LotCoveragePct          float64 `json:"lot_coverage_pct"`
	PropertyAge             int     `json:"property_age"`
}

// Result is the complete engine output for one analysis request. It is
// immutable after assembly and discarded once the response is returned.
type Result struct {
	Assessment          RiskAssessment       `json:"assessment"`
	DerivedFactors      DerivedFactors       `json:"derived_factors"`
	FinancialProjection financial.Projection `json:"financial_projection"`
	Flags               []string             `json:"flags"`
	SubstitutedFactors  []string             `json:"substituted_factors"`
}

// ExpansionRiskFor buckets lot coverage pressure against the zoning
// maximum: within 10% of the limit is HIGH, beyond roughly half of it is
// MEDIUM.
func ExpansionRiskFor(coveragePct, zoningMax float64) string {
	if zoningMax <= 0 {
		return ExpansionLow
	}
	ratio := coveragePct / zoningMax
	switch {
	case ratio >= 0.9:
		return ExpansionHigh
	case ratio >= 0.55:
		return ExpansionMedium
	default:
		return ExpansionLow
	}
}

// Assemble combines the upstream outputs into the final result. It is the
// only place permitted to read from more than one pipeline stage, and it
// never recomputes anything: the sole arithmetic here is the documented
// climate adjustment of the base insurance premium, applied to factor
// scores already produced by the normalizer.
func Assemble(
	composite scoring.Composite,
	factors []scoring.FactorScore,
	derived DerivedFactors,
	projection financial.Projection,
	substituted []string,
) Result {
	byKey := make(map[string]scoring.FactorScore, len(factors))
	for _, f := range factors {
		byKey[f.Key] = f
	}

	// Climate severity inflates the insurance estimate.
	climate := (byKey[scoring.KeyFlood].Score +
		byKey[scoring.KeyWildfire].Score +
		byKey[scoring.KeyEarthquake].Score) / 3
	projection.AnnualInsurancePremium = math.Round(
		projection.AnnualInsurancePremium * (1 + climate/climatePremiumFactor))

	var flags []string
	if byKey[scoring.KeyOwnership].Score > ownershipFlagScore {
		flags = append(flags, "High ownership volatility")
	}
	if derived.EasementEncroachmentPct > encroachmentFlagPct {
		flags = append(flags, fmt.Sprintf("Easement encroachment (%.1f%%)",
			derived.EasementEncroachmentPct*100))
	}
	if byKey[scoring.KeyCoverage].Score > coverageFlagScore {
		flags = append(flags, "Lot coverage near zoning maximum")
	}
	if byKey[scoring.KeyFlood].Score > floodFlagScore {
		flags = append(flags, "Elevated flood exposure")
	}

	if substituted == nil {
		substituted = []string{}
	}

	return Result{
		Assessment: RiskAssessment{
			OverallScore:     composite.OverallScore,
			RiskTier:         composite.RiskTier,
			UncertaintyLevel: composite.UncertaintyLevel,
			Factors:          factors,
		},
		DerivedFactors:      derived,
		FinancialProjection: projection,
		Flags:               flags,
		SubstitutedFactors:  substituted,
	}
}

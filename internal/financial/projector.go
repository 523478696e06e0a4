// Package financial projects dollar consequences from the composite risk
// score. Every seeded value derives from the same address hash, so repeated
// calls for one address are stable while different addresses diverge
// predictably.
package financial

import (
	"math"

	"github.com/titleguard/api/internal/fallback"
)

// Stream offsets reserved by the projector (the substitution stage starts
// at 3).
const (
	offPricePerSqft = 0
	offInsurance    = 1
	offResale       = 2
)

// Pricing constants. The neutral point is deal health 80 (risk score 20):
// below it the property is penalized, above it slightly rewarded.
const (
	basePricePerSqft     = 400.0
	pricePerSqftSpread   = 300.0
	DefaultBuildingSqft  = 2400.0
	neutralDealHealth    = 80.0
	adjustmentPctPerUnit = 0.2
	baseInsurancePremium = 1000.0
	insuranceSpread      = 3000.0
	baseResaleDays       = 20.0
	resaleDaysSpread     = 20.0
	resaleDaysPerRisk    = 0.5
)

// Projection is the financial estimate set derived from one assessment.
// The insurance premium here is the base figure; the assembler adjusts it
// upward by climate-factor severity.
type Projection struct {
	EstimatedValue         float64 `json:"estimated_value"`
	PriceAdjustmentDollars float64 `json:"price_adjustment_dollars"`
	PriceAdjustmentPct     float64 `json:"price_adjustment_pct"`
	AnnualInsurancePremium float64 `json:"annual_insurance_premium"`
	ResaleDaysOnMarket     int     `json:"resale_days_on_market"`
}

// Project derives the financial estimates from the overall risk score and
// the building size. buildingSqft comes from coverage data when available;
// callers pass DefaultBuildingSqft otherwise.
func Project(stream *fallback.Stream, overallScore int, buildingSqft float64) Projection {
	if buildingSqft <= 0 {
		buildingSqft = DefaultBuildingSqft
	}

	dealHealth := 100.0 - float64(overallScore)

	pricePerSqft := basePricePerSqft + stream.At(offPricePerSqft)*pricePerSqftSpread
	baseValue := buildingSqft * pricePerSqft

	adjustmentPct := (dealHealth - neutralDealHealth) * adjustmentPctPerUnit
	estimated := baseValue * (1 + adjustmentPct/100)

	premium := baseInsurancePremium + stream.At(offInsurance)*insuranceSpread

	resaleDays := baseResaleDays +
		stream.At(offResale)*resaleDaysSpread +
		(100-dealHealth)*resaleDaysPerRisk

	return Projection{
		EstimatedValue:         math.Round(estimated),
		PriceAdjustmentDollars: math.Round(estimated - baseValue),
		PriceAdjustmentPct:     adjustmentPct,
		AnnualInsurancePremium: math.Round(premium),
		ResaleDaysOnMarket:     int(math.Round(resaleDays)),
	}
}

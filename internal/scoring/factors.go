// Package scoring normalizes raw per-hazard and per-record inputs into
// comparable 0-100 factor scores and combines them into the weighted
// composite risk score.
package scoring

import (
	"math"
)

// Fixed factor keys. The key set, its order, and the weights are a stable
// contract with downstream consumers (dashboard score cards, narrative
// summaries); changing them is a breaking change.
const (
	KeyFlood      = "flood"
	KeyWildfire   = "wildfire"
	KeyEarthquake = "earthquake"
	KeyEasement   = "easement"
	KeyCoverage   = "coverage"
	KeyOwnership  = "ownership"
	KeySurvey     = "survey"
	KeyAge        = "age"
)

// factorOrder fixes the presentation order of the factor breakdown.
var factorOrder = []string{
	KeyFlood, KeyWildfire, KeyEarthquake, KeyEasement,
	KeyCoverage, KeyOwnership, KeySurvey, KeyAge,
}

// factorWeights must sum to exactly 1.0; ValidateWeights enforces this at
// startup and Compose enforces it per request.
var factorWeights = map[string]float64{
	KeyFlood:      0.20,
	KeyWildfire:   0.15,
	KeyEarthquake: 0.15,
	KeyEasement:   0.15,
	KeyCoverage:   0.15,
	KeyOwnership:  0.10,
	KeySurvey:     0.05,
	KeyAge:        0.05,
}

var factorLabels = map[string]string{
	KeyFlood:      "Flood Zone Exposure",
	KeyWildfire:   "Wildfire Proximity",
	KeyEarthquake: "Seismic Activity",
	KeyEasement:   "Easement Encroachment",
	KeyCoverage:   "Lot Coverage Risk",
	KeyOwnership:  "Ownership Irregularity",
	KeySurvey:     "Survey Discrepancy",
	KeyAge:        "Property Age Risk",
}

// FactorScore is one normalized sub-score of the risk breakdown.
type FactorScore struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
}

// Derived carries the geometry-derived metrics the normalizers consume.
// These are computed by the caller from parcel and building polygons, never
// supplied by upstream providers.
type Derived struct {
	EncroachmentPct   float64
	LotCoveragePct    float64
	ZoningMaxCoverage float64
	BuildingAreaSqft  float64
	PropertyAge       int
}

// floodZoneBase maps FEMA flood zone classes to base scores. Coastal
// high-velocity zones score highest; zone X is minimal-hazard.
var floodZoneBase = map[string]float64{
	"VE": 90,
	"V":  85,
	"AE": 75,
	"A":  60,
	"AO": 50,
	"AH": 50,
	"X":  15,
}

const unknownZoneBase = 35

// Normalize converts complete raw inputs (after fallback substitution) and
// derived geometry metrics into the fixed set of eight factor scores, each
// clamped to [0, 100]. Inputs must already be substituted; Normalize never
// branches on absence.
func Normalize(in CompleteInputs, d Derived) []FactorScore {
	scores := map[string]float64{
		KeyFlood:      floodScore(in.FloodZone, in.FloodClaims),
		KeyWildfire:   wildfireScore(in.WildfireDistanceKm, in.WildfireSeverity),
		KeyEarthquake: earthquakeScore(in.EarthquakeMagnitude, in.EarthquakeDistanceKm),
		KeyEasement:   easementScore(d.EncroachmentPct),
		KeyCoverage:   coverageScore(d.LotCoveragePct, d.ZoningMaxCoverage),
		KeyOwnership:  ownershipScore(in.TransferCount, in.AvgHoldingYears),
		KeySurvey:     surveyScore(in.RecordedAreaSqft, d.BuildingAreaSqft),
		KeyAge:        ageScore(d.PropertyAge),
	}

	out := make([]FactorScore, 0, len(factorOrder))
	for _, key := range factorOrder {
		out = append(out, FactorScore{
			Key:         key,
			Label:       factorLabels[key],
			Description: factorDescriptions[key],
			Score:       clampScore(scores[key]),
			Weight:      factorWeights[key],
		})
	}
	return out
}

var factorDescriptions = map[string]string{
	KeyFlood:      "FEMA flood zone class and historical claim density",
	KeyWildfire:   "Distance to recorded wildfire perimeters and their severity",
	KeyEarthquake: "Magnitude and proximity of historical seismic events",
	KeyEasement:   "Share of the parcel encumbered by recorded easements",
	KeyCoverage:   "Building footprint relative to the zoning coverage maximum",
	KeyOwnership:  "Transfer frequency relative to holding period",
	KeySurvey:     "Discrepancy between recorded and geometry-derived building area",
	KeyAge:        "Age-correlated likelihood of title defects",
}

// floodScore rises with zone severity class and claim density.
func floodScore(zone string, claims int) float64 {
	base, ok := floodZoneBase[zone]
	if !ok {
		base = unknownZoneBase
	}
	bonus := math.Min(float64(claims)*5, 20)
	return base + bonus
}

// wildfireScore rises with proximity to fire perimeters within a fixed
// 40 km radius, weighted by perimeter severity.
func wildfireScore(distanceKm, severity float64) float64 {
	proximity := clamp01(1 - distanceKm/40)
	return proximity * (30 + 40*clamp01(severity))
}

// earthquakeScore rises with event magnitude (scaled from M2.5 to M6.5)
// and proximity within a fixed 50 km radius.
func earthquakeScore(magnitude, distanceKm float64) float64 {
	magScale := clamp01((magnitude - 2.5) / 4)
	proximity := clamp01(1 - distanceKm/50)
	return 100 * magScale * (0.4 + 0.6*proximity)
}

// easementScore treats light encroachment (under 5% of the parcel) as
// negligible; beyond that the score climbs steeply.
func easementScore(encroachmentPct float64) float64 {
	if encroachmentPct < 0.05 {
		return encroachmentPct * 20
	}
	return 5 + (encroachmentPct-0.05)*130
}

// coverageScore rises sharply as lot coverage approaches or exceeds the
// zoning maximum.
func coverageScore(coveragePct, zoningMax float64) float64 {
	if zoningMax <= 0 {
		return 0
	}
	ratio := coveragePct / zoningMax
	switch {
	case ratio >= 1.0:
		return 100
	case ratio >= 0.9:
		return 80 + (ratio-0.9)*200
	case ratio >= 0.7:
		return 40 + (ratio-0.7)*200
	default:
		return ratio * 57
	}
}

// ownershipScore rises with the transfer rate: more transfers over shorter
// holding periods signal flipping or shell-company churn.
func ownershipScore(transfers int, holdingYears float64) float64 {
	if holdingYears < 1 {
		holdingYears = 1
	}
	return (float64(transfers) / holdingYears) * 50
}

// surveyScore reflects the relative discrepancy between the recorded
// building area and the geometry-derived one.
func surveyScore(recordedSqft, derivedSqft float64) float64 {
	if derivedSqft <= 0 || recordedSqft <= 0 {
		return 0
	}
	discrepancy := math.Abs(recordedSqft-derivedSqft) / derivedSqft
	return discrepancy * 250
}

// ageScore is a bounded step function: older properties carry modestly more
// title risk, capped well below the hazard factors.
func ageScore(age int) float64 {
	switch {
	case age >= 100:
		return 90
	case age >= 50:
		return 60
	case age >= 25:
		return 35
	case age >= 10:
		return 15
	default:
		return 5
	}
}

func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

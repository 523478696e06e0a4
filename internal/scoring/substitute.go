package scoring

import (
	"github.com/titleguard/api/internal/fallback"
	"github.com/titleguard/api/internal/models"
)

// Stream offsets reserved by the substitution stage. Offsets 0-2 belong to
// the financial projector; these start at 3 so the two consumers never
// collide on the same seed.
const (
	offFloodZone    = 3
	offFloodClaims  = 4
	offWildfireDist = 5
	offWildfireSev  = 6
	offQuakeMag     = 7
	offQuakeDist    = 8
	offTransfers    = 9
	offHolding      = 10
	offRecordedArea = 11
	offAge          = 12
)

// CompleteInputs is RawFactorInputs after fallback substitution: every
// field holds a value, so the pipeline downstream of this stage never
// branches on absence.
type CompleteInputs struct {
	FloodZone            string
	FloodClaims          int
	WildfireDistanceKm   float64
	WildfireSeverity     float64
	EarthquakeMagnitude  float64
	EarthquakeDistanceKm float64
	TransferCount        int
	AvgHoldingYears      float64
	YearBuilt            int
	RecordedAreaSqft     float64
}

// Substitute fills every missing raw input with a deterministic value from
// the address-keyed stream and reports which factor keys were substituted.
// Substituted values are drawn from ranges typical of low-hazard parcels,
// so a fully synthetic assessment reads as an ordinary property rather than
// an alarming one. derivedAreaSqft anchors the synthetic recorded area;
// currentYear anchors the synthetic year built.
func Substitute(in models.RawFactorInputs, stream *fallback.Stream, currentYear int, derivedAreaSqft float64) (CompleteInputs, []string) {
	var out CompleteInputs
	var substituted []string

	mark := func(key string) {
		for _, s := range substituted {
			if s == key {
				return
			}
		}
		substituted = append(substituted, key)
	}

	// Flood: zone class skews heavily toward minimal-hazard X.
	if in.FloodZone != nil {
		out.FloodZone = *in.FloodZone
	} else {
		r := stream.At(offFloodZone)
		switch {
		case r > 0.95:
			out.FloodZone = "AE"
		case r > 0.85:
			out.FloodZone = "A"
		default:
			out.FloodZone = "X"
		}
		mark(KeyFlood)
	}
	if in.FloodClaims != nil {
		out.FloodClaims = *in.FloodClaims
	} else {
		out.FloodClaims = int(stream.At(offFloodClaims) * 3)
		mark(KeyFlood)
	}

	// Wildfire: perimeters at least 15 km out.
	if in.WildfireDistanceKm != nil {
		out.WildfireDistanceKm = *in.WildfireDistanceKm
	} else {
		out.WildfireDistanceKm = 15 + stream.At(offWildfireDist)*30
		mark(KeyWildfire)
	}
	if in.WildfireSeverity != nil {
		out.WildfireSeverity = *in.WildfireSeverity
	} else {
		out.WildfireSeverity = stream.At(offWildfireSev)
		mark(KeyWildfire)
	}

	// Earthquake: moderate magnitudes at regional distances.
	if in.EarthquakeMagnitude != nil {
		out.EarthquakeMagnitude = *in.EarthquakeMagnitude
	} else {
		out.EarthquakeMagnitude = 2.5 + stream.At(offQuakeMag)*2
		mark(KeyEarthquake)
	}
	if in.EarthquakeDistanceKm != nil {
		out.EarthquakeDistanceKm = *in.EarthquakeDistanceKm
	} else {
		out.EarthquakeDistanceKm = 20 + stream.At(offQuakeDist)*30
		mark(KeyEarthquake)
	}

	// Ownership: few transfers, multi-year holds.
	if in.TransferCount != nil {
		out.TransferCount = *in.TransferCount
	} else {
		out.TransferCount = int(stream.At(offTransfers) * 4)
		mark(KeyOwnership)
	}
	if in.AvgHoldingYears != nil {
		out.AvgHoldingYears = *in.AvgHoldingYears
	} else {
		out.AvgHoldingYears = 3 + stream.At(offHolding)*12
		mark(KeyOwnership)
	}

	// Survey: synthetic recorded area within 10% of the derived footprint.
	if in.RecordedAreaSqft != nil {
		out.RecordedAreaSqft = *in.RecordedAreaSqft
	} else {
		out.RecordedAreaSqft = derivedAreaSqft * (0.9 + stream.At(offRecordedArea)*0.2)
		mark(KeySurvey)
	}

	// Age: 15-74 years, matching typical housing stock.
	if in.YearBuilt != nil {
		out.YearBuilt = *in.YearBuilt
	} else {
		out.YearBuilt = currentYear - (15 + int(stream.At(offAge)*60))
		mark(KeyAge)
	}

	return out, substituted
}

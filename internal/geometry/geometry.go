// Package geometry provides pure, side-effect-free spatial arithmetic on
// simple polygons in a planar approximation of latitude/longitude. The
// approximation is adequate at parcel scale; it is not suitable for global
// distance work.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/titleguard/api/internal/models"
)

// FeetPerDegree is the planar approximation used to convert degree-based
// areas to square feet at mid-latitudes (~34°N).
const FeetPerDegree = 364000.0

// Geometry-level errors. These abort the single analysis request; they are
// never retried.
var (
	ErrDegeneratePolygon = errors.New("degenerate polygon")
	ErrOpenRing          = errors.New("polygon ring is not closed")
	ErrTooFewVertices    = errors.New("polygon ring has fewer than 4 vertices")
)

// Validate checks the structural invariants of a polygon boundary: a closed
// ring with at least 4 vertices and non-zero area. Self-intersecting rings
// are accepted best-effort; no repair is attempted.
func Validate(p *models.Polygon) error {
	ring := p.OuterRing()
	if len(ring) == 0 {
		return fmt.Errorf("%w: no coordinates", ErrDegeneratePolygon)
	}
	if len(ring) < 4 {
		return fmt.Errorf("%w: got %d", ErrTooFewVertices, len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		return fmt.Errorf("%w: first vertex (%f, %f) != last vertex (%f, %f)",
			ErrOpenRing, first[0], first[1], last[0], last[1])
	}
	if math.Abs(ringArea(ring)) == 0 {
		return fmt.Errorf("%w: zero area", ErrDegeneratePolygon)
	}
	return nil
}

// Area returns the signed shoelace-formula area of the polygon boundary in
// square degrees. Callers that need magnitude should take the absolute
// value; the sign encodes ring orientation.
func Area(p *models.Polygon) float64 {
	return ringArea(p.OuterRing())
}

// AreaSqft converts the absolute polygon area from square degrees to square
// feet using the parcel-scale planar approximation.
func AreaSqft(p *models.Polygon) float64 {
	return math.Abs(Area(p)) * FeetPerDegree * FeetPerDegree
}

// IntersectionArea returns the area of the geometric intersection of two
// polygons, in square degrees. Disjoint polygons yield 0; when one polygon
// fully contains the other the smaller area is returned. The clip polygon
// (second argument) is treated as convex; concave clip polygons are handled
// best-effort, consistent with parcel- and easement-scale inputs.
func IntersectionArea(subject, clip *models.Polygon) float64 {
	s := openRing(subject.OuterRing())
	c := openRing(clip.OuterRing())
	if len(s) < 3 || len(c) < 3 {
		return 0
	}

	// Ensure the clip ring winds counter-clockwise so the half-plane test
	// below is consistent.
	if ringArea(clip.OuterRing()) < 0 {
		c = reverseRing(c)
	}

	// Sutherland-Hodgman: clip the subject against each clip edge in turn.
	out := s
	for i := 0; i < len(c); i++ {
		if len(out) == 0 {
			return 0
		}
		a := c[i]
		b := c[(i+1)%len(c)]
		out = clipAgainstEdge(out, a, b)
	}
	if len(out) < 3 {
		return 0
	}

	closed := append(out, out[0])
	return math.Abs(ringArea(closed))
}

// CoveragePct returns the share of the parcel covered by the building
// footprint, clamped to [0, 1]. Only the part of the building inside the
// parcel counts, so a footprint that spills past the boundary (a survey or
// coverage discrepancy, valid input) does not inflate the ratio and a
// disjoint footprint yields 0. Fails when the parcel is degenerate
// (area <= 0).
func CoveragePct(building, parcel *models.Polygon) (float64, error) {
	parcelArea := math.Abs(Area(parcel))
	if parcelArea <= 0 {
		return 0, fmt.Errorf("%w: parcel area must be positive", ErrDegeneratePolygon)
	}
	if building == nil || building.IsEmpty() {
		return 0, nil
	}
	return clamp01(IntersectionArea(building, parcel) / parcelArea), nil
}

// EncroachmentPct returns the fraction of the target polygon covered by the
// union of intersections with the given easements, clamped to [0, 1].
// Overlapping easements are summed then clamped, so the result never
// exceeds 1 regardless of how the easements overlap each other.
func EncroachmentPct(easements []models.Polygon, target *models.Polygon) (float64, error) {
	targetArea := math.Abs(Area(target))
	if targetArea <= 0 {
		return 0, fmt.Errorf("%w: target area must be positive", ErrDegeneratePolygon)
	}

	var overlap float64
	for i := range easements {
		overlap += IntersectionArea(&easements[i], target)
	}
	return clamp01(overlap / targetArea), nil
}

// ringArea computes the signed shoelace area of a (closed or open) ring.
func ringArea(ring [][2]float64) float64 {
	pts := openRing(ring)
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < len(pts); i++ {
		j := (i + 1) % len(pts)
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return sum / 2
}

// openRing strips the duplicated closing vertex, if present.
func openRing(ring [][2]float64) [][2]float64 {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

func reverseRing(ring [][2]float64) [][2]float64 {
	out := make([][2]float64, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// clipAgainstEdge keeps the part of the subject ring on the inside
// (left side) of the directed edge a->b.
func clipAgainstEdge(subject [][2]float64, a, b [2]float64) [][2]float64 {
	out := make([][2]float64, 0, len(subject)+1)
	for i := 0; i < len(subject); i++ {
		cur := subject[i]
		prev := subject[(i+len(subject)-1)%len(subject)]

		curIn := isLeft(a, b, cur) >= 0
		prevIn := isLeft(a, b, prev) >= 0

		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, lineIntersection(prev, cur, a, b), cur)
		case !curIn && prevIn:
			out = append(out, lineIntersection(prev, cur, a, b))
		}
	}
	return out
}

// isLeft returns a positive value when p lies left of the directed line
// a->b, zero when collinear, negative when right.
func isLeft(a, b, p [2]float64) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// lineIntersection returns the intersection point of segment p1->p2 with
// the infinite line through a->b. Callers only invoke it when the segment
// straddles the line, so the denominator is non-zero in practice.
func lineIntersection(p1, p2, a, b [2]float64) [2]float64 {
	x1, y1 := p1[0], p1[1]
	x2, y2 := p2[0], p2[1]
	x3, y3 := a[0], a[1]
	x4, y4 := b[0], b[1]

	den := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if den == 0 {
		return p2
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / den
	return [2]float64{x1 + t*(x2-x1), y1 + t*(y2-y1)}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

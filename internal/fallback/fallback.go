// Package fallback produces deterministic substitute values for raw inputs
// the upstream providers could not supply. The same address string and the
// same offset always yield the same number, across processes and over time,
// so repeated analyses never flicker between runs.
package fallback

import "math"

// Hash accumulates charCode + (hash << 5) - hash per character with 32-bit
// wraparound and returns the absolute value. This is the well-known simple
// string hash, intentionally not cryptographic; it only needs to be stable.
func Hash(identifier string) int64 {
	var h int32
	for _, c := range identifier {
		h = int32(c) + (h << 5) - h
	}
	if h < 0 {
		return -int64(h)
	}
	return int64(h)
}

// SeededRandom maps an integer seed to a float in [0, 1) via
// frac(sin(seed) * 10000). Not statistically uniform, but deterministic and
// reproducible bit-for-bit on IEEE-754 sin implementations of comparable
// precision. The exact formula is load-bearing: prior demo data was
// generated with it.
func SeededRandom(seed int64) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// Stream is an unlimited deterministic value stream derived from one
// address hash. Successive values come from small integer offsets added to
// the base seed, so consumers can reserve fixed offsets per purpose.
type Stream struct {
	seed int64
}

// NewStream creates a stream keyed by the stable hash of the identifier.
func NewStream(identifier string) *Stream {
	return &Stream{seed: Hash(identifier)}
}

// Seed returns the base seed of the stream.
func (s *Stream) Seed() int64 {
	return s.seed
}

// At returns the deterministic value at the given offset from the base
// seed. The same (identifier, offset) pair always yields the same value.
func (s *Stream) At(offset int64) float64 {
	return SeededRandom(s.seed + offset)
}

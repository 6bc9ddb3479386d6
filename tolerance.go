package conformance

import (
	"math"

	"github.com/gogpu/conformance/interval"
)

// Tolerance describes the error budget an implementation is allowed when
// producing a float32 result.
type Tolerance struct {
	// ULPs is the allowed error in float32 units in the last place.
	ULPs uint32

	// AbsBound is an absolute error floor applied in addition to the ULP
	// budget. Near zero a ULP is vanishingly small; the floor keeps checks
	// there from being stricter than any specification demands.
	AbsBound float64
}

// HighpTolerance returns the budget for highp (full float32) results.
func HighpTolerance() Tolerance {
	return Tolerance{ULPs: 4, AbsBound: 0}
}

// MediumpTolerance returns the budget for mediump results. A mediump value
// carries roughly a 10-bit mantissa, which is about 2^13 float32 ULPs.
func MediumpTolerance() Tolerance {
	return Tolerance{ULPs: 1 << 13, AbsBound: 1e-5}
}

// RelaxedTolerance returns a loose budget for operations with accumulated
// error, such as long chains of transcendentals.
func RelaxedTolerance() Tolerance {
	return Tolerance{ULPs: 1 << 16, AbsBound: 1e-3}
}

// Widen expands an enclosure outward by the tolerance. Bounds step through
// float32 space, since checked outputs are float32. Empty enclosures and
// the NaN flag pass through unchanged; infinite bounds stay infinite.
func (t Tolerance) Widen(iv interval.Interval) interval.Interval {
	if iv.IsEmpty() {
		return iv
	}
	lo, hi := iv.Lo(), iv.Hi()
	if !math.IsInf(lo, 0) {
		lo = float64(fromULPOrder32(ulpOrder32(f32Below(lo))-int64(t.ULPs))) - t.AbsBound
	}
	if !math.IsInf(hi, 0) {
		hi = float64(fromULPOrder32(ulpOrder32(f32Above(hi))+int64(t.ULPs))) + t.AbsBound
	}
	return interval.Make(iv.HasNaN(), lo, hi)
}

// WidenULP32 expands iv outward by n float32 ULPs on each side.
func WidenULP32(iv interval.Interval, n uint32) interval.Interval {
	return Tolerance{ULPs: n}.Widen(iv)
}

// ULPDiff32 returns the distance between two float32 values in units in
// the last place, counted across the full ordered float32 scale (so values
// of opposite sign have a finite, meaningful distance through zero). NaN
// operands report the maximum distance.
func ULPDiff32(a, b float32) uint64 {
	if a != a || b != b {
		return math.MaxUint64
	}
	d := ulpOrder32(a) - ulpOrder32(b)
	if d < 0 {
		d = -d
	}
	return uint64(d)
}

// ulpOrder32 maps a float32 onto a monotone integer scale where adjacent
// representable values differ by exactly one. +0 and -0 both map to zero.
func ulpOrder32(v float32) int64 {
	bits := int64(math.Float32bits(v))
	if bits&0x80000000 != 0 {
		return -(bits & 0x7fffffff)
	}
	return bits
}

// fromULPOrder32 inverts ulpOrder32, saturating to the infinities outside
// the representable range.
func fromULPOrder32(o int64) float32 {
	const infOrder = 0x7f800000
	if o > infOrder {
		o = infOrder
	}
	if o < -infOrder {
		o = -infOrder
	}
	if o < 0 {
		return math.Float32frombits(uint32(-o) | 0x80000000)
	}
	return math.Float32frombits(uint32(o))
}

// f32Below returns the largest float32 not greater than v.
func f32Below(v float64) float32 {
	c := float32(v)
	if float64(c) > v {
		return fromULPOrder32(ulpOrder32(c) - 1)
	}
	return c
}

// f32Above returns the smallest float32 not less than v.
func f32Above(v float64) float32 {
	c := float32(v)
	if float64(c) < v {
		return fromULPOrder32(ulpOrder32(c) + 1)
	}
	return c
}

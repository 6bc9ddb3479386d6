// Package interval implements conservative enclosures for floating-point
// computations.
//
// An Interval carries an ordinary numeric range [lo, hi] together with an
// independent flag recording whether NaN is a possible result. Every
// operation produces a fresh value; nothing in this package mutates shared
// state, so intervals are safe to use from any number of goroutines.
//
// The enclosure guarantee runs one way only: an operation's result contains
// every value the exact real-valued operation could produce over the inputs.
// Results may be wider than necessary, never narrower.
package interval

import (
	"fmt"
	"math"
)

// Interval is a numeric enclosure: the ordinary range [lo, hi] plus a flag
// recording whether NaN is a possible value. The ordinary part is empty
// when lo > hi; the canonical empty range is [+Inf, -Inf].
//
// The NaN flag is independent of the bounds. An interval may have a
// non-empty ordinary range and still admit NaN, meaning the result could be
// an ordinary number or NaN.
type Interval struct {
	hasNaN bool
	lo     float64
	hi     float64
}

// Frequently used intervals.
var (
	// Zero is the degenerate interval [0, 0].
	Zero = Point(0)

	// One is the degenerate interval [1, 1].
	One = Point(1)

	// PosInf is the degenerate interval [+Inf, +Inf].
	PosInf = Point(math.Inf(1))

	// NegInf is the degenerate interval [-Inf, -Inf].
	NegInf = Point(math.Inf(-1))

	// NaN is the canonical all-NaN interval: empty ordinary range with the
	// NaN flag set.
	NaN = Point(math.NaN())
)

// Empty returns the interval with an empty ordinary range and no NaN.
func Empty() Interval {
	return Interval{hasNaN: false, lo: math.Inf(1), hi: math.Inf(-1)}
}

// Unbounded returns the interval (-Inf, +Inf), representing total
// uncertainty about the ordinary value. nan additionally marks NaN as a
// possible result.
func Unbounded(nan bool) Interval {
	return Interval{hasNaN: nan, lo: math.Inf(-1), hi: math.Inf(1)}
}

// Point returns the degenerate interval [v, v]. A NaN argument yields the
// canonical all-NaN interval instead.
func Point(v float64) Interval {
	if math.IsNaN(v) {
		return Interval{hasNaN: true, lo: math.Inf(1), hi: math.Inf(-1)}
	}
	return Interval{hasNaN: false, lo: v, hi: v}
}

// Span returns the smallest interval containing both scalars, regardless of
// argument order. A NaN argument contributes possible-NaN rather than a
// bound.
func Span(a, b float64) Interval {
	return Point(a).Union(Point(b))
}

// Make builds an interval directly from its fields. It is intended for
// bounds that were computed by other means; no validation is performed.
func Make(hasNaN bool, lo, hi float64) Interval {
	return Interval{hasNaN: hasNaN, lo: lo, hi: hi}
}

// Lo returns the lower bound of the ordinary range.
func (i Interval) Lo() float64 { return i.lo }

// Hi returns the upper bound of the ordinary range.
func (i Interval) Hi() float64 { return i.hi }

// HasNaN reports whether NaN is a possible value.
func (i Interval) HasNaN() bool { return i.hasNaN }

// Length returns hi - lo. It is negative for empty intervals and NaN for
// the canonical empty range.
func (i Interval) Length() float64 { return i.hi - i.lo }

// IsEmpty reports whether the ordinary range contains no values. The NaN
// flag is not consulted: an all-NaN interval is empty in this sense.
func (i Interval) IsEmpty() bool { return i.lo > i.hi }

// IsFinite reports whether both bounds are finite numbers.
func (i Interval) IsFinite() bool { return isFinite(i.lo) && isFinite(i.hi) }

// IsOrdinary reports whether the interval is finite, non-empty and cannot
// be NaN.
func (i Interval) IsOrdinary() bool { return i.IsFinite() && !i.IsEmpty() && !i.hasNaN }

// NaNPart isolates the NaN component: the all-NaN interval if NaN is
// possible, the empty interval otherwise.
func (i Interval) NaNPart() Interval {
	if i.hasNaN {
		return NaN
	}
	return Empty()
}

// Midpoint returns 0.5*(lo+hi). For an unbounded interval this is NaN;
// callers must guard before using the result as a sample point.
func (i Interval) Midpoint() float64 { return 0.5 * (i.lo + i.hi) }

// Union returns the smallest interval containing both operands. NaN is
// possible in the result if it is possible in either operand.
func (i Interval) Union(other Interval) Interval {
	return Interval{
		hasNaN: i.hasNaN || other.hasNaN,
		lo:     math.Min(i.lo, other.lo),
		hi:     math.Max(i.hi, other.hi),
	}
}

// UnionWith replaces i with i.Union(other).
func (i *Interval) UnionWith(other Interval) {
	*i = i.Union(other)
}

// Intersect returns the largest interval contained in both operands. The
// ordinary part may come out empty even when both operands are non-empty;
// that is the expected outcome for disjoint ranges, not an error.
func (i Interval) Intersect(other Interval) Interval {
	return Interval{
		hasNaN: i.hasNaN && other.hasNaN,
		lo:     math.Max(i.lo, other.lo),
		hi:     math.Min(i.hi, other.hi),
	}
}

// IntersectWith replaces i with i.Intersect(other).
func (i *Interval) IntersectWith(other Interval) {
	*i = i.Intersect(other)
}

// Contains reports whether every possible value of other is a possible
// value of i. An other that admits NaN is contained only if i admits NaN
// too. The empty interval is contained in everything.
func (i Interval) Contains(other Interval) bool {
	return other.lo >= i.lo && other.hi <= i.hi && (!other.hasNaN || i.hasNaN)
}

// Intersects reports whether the operands share a possible value.
//
// TODO: the other.lo >= i.hi comparison looks inverted for a plain overlap
// test (an overlap test would use other.lo <= i.hi). Existing callers
// depend on the current behavior, so it is kept as-is; audit call sites
// before changing it.
func (i Interval) Intersects(other Interval) bool {
	return (other.hi >= i.lo && other.lo >= i.hi) || (i.hasNaN && other.hasNaN)
}

// Neg returns the interval of negated values. The NaN flag is unchanged.
func (i Interval) Neg() Interval {
	return Interval{hasNaN: i.hasNaN, lo: -i.hi, hi: -i.lo}
}

// Equal reports whether two intervals describe the same set of values.
// Empty ordinary ranges compare equal regardless of their out-of-order
// bound values.
func (i Interval) Equal(other Interval) bool {
	if i.hasNaN != other.hasNaN {
		return false
	}
	if i.IsEmpty() && other.IsEmpty() {
		return true
	}
	return i.lo == other.lo && i.hi == other.hi
}

// String returns a debug representation such as "[1, 2]", "()" for the
// empty interval, with " U NaN" appended when NaN is possible.
func (i Interval) String() string {
	var s string
	if i.IsEmpty() {
		s = "()"
	} else {
		s = fmt.Sprintf("[%v, %v]", i.lo, i.hi)
	}
	if i.hasNaN {
		s += " U NaN"
	}
	return s
}

// isFinite reports whether v is neither infinite nor NaN.
func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

package interval

import "math"

// Func1 computes an enclosure of a function's value at a single point.
// Returning an interval rather than a scalar lets the leaf evaluation carry
// its own uncertainty, e.g. from output rounding.
type Func1 func(x float64) Interval

// Func2 is the two-argument form of Func1.
type Func2 func(x, y float64) Interval

// Func3 is the three-argument form of Func1.
type Func3 func(x, y, z float64) Interval

// ScalarFunc1 is a plain scalar function with no intrinsic rounding
// uncertainty.
type ScalarFunc1 func(x float64) float64

// ScalarFunc2 is the two-argument form of ScalarFunc1.
type ScalarFunc2 func(x, y float64) float64

// Apply1 lifts body into an interval function by evaluating it at the
// bounds of x and taking the union. If x admits NaN, the result admits NaN.
// If x is empty with no NaN, the result is empty.
//
// Soundness requires body to be monotone (in either direction) over the
// ordinary range of x. The combinator does not verify this; violating it
// silently produces an unsound enclosure.
func Apply1(x Interval, body Func1) Interval {
	ret := Empty()
	if !x.IsEmpty() {
		ret = body(x.lo).Union(body(x.hi))
	}
	if x.hasNaN {
		ret = ret.Union(NaN)
	}
	return ret
}

// Apply2 lifts body by evaluating it at the four corners of the input box
// and taking the union. NaN propagates from either argument.
//
// body must be monotone in each argument separately; see Apply1.
func Apply2(x, y Interval, body Func2) Interval {
	ret := Empty()
	if !x.IsEmpty() && !y.IsEmpty() {
		ret = body(x.lo, y.lo).
			Union(body(x.lo, y.hi)).
			Union(body(x.hi, y.lo)).
			Union(body(x.hi, y.hi))
	}
	if x.hasNaN || y.hasNaN {
		ret = ret.Union(NaN)
	}
	return ret
}

// Apply3 lifts body over three arguments by evaluating all eight corners of
// the input box. The corner results are reduced elementwise: minimum of the
// lows, maximum of the highs, OR of the NaN flags. NaN additionally
// propagates from any argument.
//
// body must be monotone in each argument separately; see Apply1.
func Apply3(x, y, z Interval, body Func3) Interval {
	lo, hi := math.Inf(1), math.Inf(-1)
	nan := false
	if !x.IsEmpty() && !y.IsEmpty() && !z.IsEmpty() {
		for _, cx := range [2]float64{x.lo, x.hi} {
			for _, cy := range [2]float64{y.lo, y.hi} {
				for _, cz := range [2]float64{z.lo, z.hi} {
					v := body(cx, cy, cz)
					lo = math.Min(lo, v.lo)
					hi = math.Max(hi, v.hi)
					nan = nan || v.hasNaN
				}
			}
		}
	}
	nan = nan || x.hasNaN || y.hasNaN || z.hasNaN
	return Make(nan, lo, hi)
}

// Apply1Scalar lifts a plain scalar function by wrapping it as a point
// producer and delegating to Apply1. A NaN result at a corner contributes
// possible-NaN.
//
// f must be monotone over the ordinary range of x; see Apply1.
func Apply1Scalar(x Interval, f ScalarFunc1) Interval {
	return Apply1(x, func(v float64) Interval {
		return BoundsOf(
			func() float64 { return f(v) },
			func() float64 { return f(v) },
		)
	})
}

// Apply2Scalar lifts a plain two-argument scalar function; see
// Apply1Scalar.
func Apply2Scalar(x, y Interval, f ScalarFunc2) Interval {
	return Apply2(x, y, func(a, b float64) Interval {
		return BoundsOf(
			func() float64 { return f(a, b) },
			func() float64 { return f(a, b) },
		)
	})
}

// Eval1 is a specialization of Apply1 for bodies that are interval-valued
// end to end. It evaluates the two corners directly, with identical
// semantics to Apply1.
func Eval1(x Interval, body Func1) Interval {
	if x.IsEmpty() {
		return x.NaNPart()
	}
	ret := body(x.lo).Union(body(x.hi))
	if x.hasNaN {
		ret = ret.Union(NaN)
	}
	return ret
}

// Eval2 is the two-argument form of Eval1, evaluating the four corners
// directly. Semantics are identical to Apply2.
func Eval2(x, y Interval, body Func2) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return x.NaNPart().Union(y.NaNPart())
	}
	ret := body(x.lo, y.lo).
		Union(body(x.lo, y.hi)).
		Union(body(x.hi, y.lo)).
		Union(body(x.hi, y.hi))
	if x.hasNaN || y.hasNaN {
		ret = ret.Union(NaN)
	}
	return ret
}

// BoundsOf builds an interval whose lower and upper bounds are computed by
// two independent evaluations. setLo is intended to run with rounding
// toward -Inf and setHi with rounding toward +Inf, which would make the
// result certified against floating-point rounding error.
//
// Known limitation: directed rounding is not applied. Both evaluations run
// in the default round-to-nearest mode, so the bounds are approximate
// rather than certified-sound. A NaN from either evaluation contributes
// possible-NaN.
func BoundsOf(setLo, setHi func() float64) Interval {
	return Point(setLo()).Union(Point(setHi()))
}

// Exact builds an interval from a single evaluation of f, asserting that f
// is exact and needs no rounding slack.
func Exact(f func() float64) Interval {
	return Point(f())
}

package interval

import (
	"fmt"
	"math"
)

// Elementary operations over intervals. Each is a thin policy wrapper over
// the combinators in apply.go and carries the same monotonicity contract:
// the underlying scalar function must be monotone in each argument over the
// ordinary ranges involved, which holds for every operation defined here on
// the domains where it is applied.
//
// The unary + operation is the identity on intervals and has no function of
// its own.

// Add returns an enclosure of x + y.
func Add(x, y Interval) Interval {
	return Apply2Scalar(x, y, func(a, b float64) float64 { return a + b })
}

// Sub returns an enclosure of x - y.
func Sub(x, y Interval) Interval {
	return Apply2Scalar(x, y, func(a, b float64) float64 { return a - b })
}

// Mul returns an enclosure of x * y. The product is linear in each argument
// for a fixed value of the other, so corner evaluation is sound for any
// sign combination.
func Mul(x, y Interval) Interval {
	return Apply2Scalar(x, y, func(a, b float64) float64 { return a * b })
}

// Div returns an enclosure of x / y. When the denominator contains zero the
// quotient is unbounded there, so the fully unbounded interval is returned;
// that is a value, not an error, and consumers must treat checks against it
// as trivially satisfied or exclude them.
func Div(x, y Interval) Interval {
	if y.Contains(Zero) {
		return Unbounded(x.hasNaN || y.hasNaN)
	}
	return Apply2Scalar(x, y, func(a, b float64) float64 { return a / b })
}

// Abs returns an enclosure of |x|. Absolute value is not monotone across
// zero, so when x straddles zero the corner evaluation alone would miss the
// minimum; zero is unioned in explicitly.
func Abs(x Interval) Interval {
	ret := Apply1Scalar(x, math.Abs)
	if x.Contains(Zero) {
		ret = ret.Union(Zero)
	}
	return ret
}

// Sqrt returns an enclosure of the square root of x. Negative corner values
// evaluate to NaN and contribute possible-NaN.
func Sqrt(x Interval) Interval {
	return Apply1Scalar(x, math.Sqrt)
}

// InverseSqrt returns an enclosure of 1/sqrt(x). It inherits Div's rule:
// if sqrt(x) contains zero the result is unbounded.
func InverseSqrt(x Interval) Interval {
	return Div(One, Sqrt(x))
}

// Exp returns an enclosure of e**x.
func Exp(x Interval) Interval {
	return Apply1Scalar(x, math.Exp)
}

// Exp2 returns an enclosure of 2**x.
func Exp2(x Interval) Interval {
	return Apply2Scalar(Point(2), x, math.Pow)
}

// Sign is intentionally not implemented and panics when invoked. Sign is a
// step function, so the monotone corner evaluation used by the other
// operations does not produce a useful enclosure for it; a correct
// treatment needs explicit case splitting that no caller has required yet.
// Failing loudly is preferred over returning a silently incorrect result.
func Sign(x Interval) Interval {
	panic("interval: Sign is not implemented")
}

// Op identifies an elementary operation. It lets callers such as test
// harnesses name the operation under test and dispatch to the
// corresponding interval function.
type Op uint8

const (
	// OpIdentity is unary +, the identity on intervals.
	OpIdentity Op = iota
	// OpNeg is unary negation.
	OpNeg
	// OpAdd is addition.
	OpAdd
	// OpSub is subtraction.
	OpSub
	// OpMul is multiplication.
	OpMul
	// OpDiv is division.
	OpDiv
	// OpAbs is absolute value.
	OpAbs
	// OpSqrt is the square root.
	OpSqrt
	// OpInverseSqrt is the reciprocal square root.
	OpInverseSqrt
	// OpExp is the natural exponential.
	OpExp
	// OpExp2 is the base-2 exponential.
	OpExp2
	// OpSign is the sign function; evaluating it panics, see Sign.
	OpSign
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpIdentity:
		return "identity"
	case OpNeg:
		return "neg"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpAbs:
		return "abs"
	case OpSqrt:
		return "sqrt"
	case OpInverseSqrt:
		return "inversesqrt"
	case OpExp:
		return "exp"
	case OpExp2:
		return "exp2"
	case OpSign:
		return "sign"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// Arity returns the number of interval arguments the operation takes.
func (op Op) Arity() int {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

// Eval applies the operation to its arguments. It panics if the number of
// arguments does not match Arity, or if op is OpSign (see Sign).
func (op Op) Eval(args ...Interval) Interval {
	if len(args) != op.Arity() {
		panic(fmt.Sprintf("interval: %s takes %d argument(s), got %d", op, op.Arity(), len(args)))
	}
	switch op {
	case OpIdentity:
		return args[0]
	case OpNeg:
		return args[0].Neg()
	case OpAdd:
		return Add(args[0], args[1])
	case OpSub:
		return Sub(args[0], args[1])
	case OpMul:
		return Mul(args[0], args[1])
	case OpDiv:
		return Div(args[0], args[1])
	case OpAbs:
		return Abs(args[0])
	case OpSqrt:
		return Sqrt(args[0])
	case OpInverseSqrt:
		return InverseSqrt(args[0])
	case OpExp:
		return Exp(args[0])
	case OpExp2:
		return Exp2(args[0])
	case OpSign:
		return Sign(args[0])
	default:
		panic(fmt.Sprintf("interval: unknown operation %d", uint8(op)))
	}
}

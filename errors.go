package conformance

import "errors"

// Package errors for the conformance harness.
var (
	// ErrNoInputs is returned when a case has no input intervals.
	ErrNoInputs = errors.New("conformance: case has no inputs")

	// ErrArityMismatch is returned when the number of input intervals does
	// not match the operation's arity.
	ErrArityMismatch = errors.New("conformance: input count does not match operation arity")

	// ErrOutputCount is returned when an evaluator returns a different
	// number of outputs than input tuples.
	ErrOutputCount = errors.New("conformance: evaluator output count mismatch")

	// ErrUnsampleable is returned when an input interval has no ordinary
	// values to sample from.
	ErrUnsampleable = errors.New("conformance: input interval has no ordinary values")

	// ErrUnsupportedOp is returned by evaluators for operations they
	// cannot execute.
	ErrUnsupportedOp = errors.New("conformance: unsupported operation")
)

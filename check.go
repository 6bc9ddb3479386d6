package conformance

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/gogpu/conformance/interval"
)

// Evaluator produces float32 results for an operation, one per input
// tuple. Implementations are the CPU reference path in this package and
// the shader-based executor in the gpu subpackage.
type Evaluator interface {
	// Name identifies the evaluation path in logs and reports.
	Name() string

	// Eval applies op to each tuple in float32. The returned slice must
	// have one element per tuple.
	Eval(op interval.Op, tuples [][]float32) ([]float32, error)
}

// CPUEvaluator is the host reference evaluator. Arithmetic runs in IEEE
// single precision; transcendentals go through the correctly rounded
// float64 routines and round once to float32.
type CPUEvaluator struct{}

// Name implements Evaluator.
func (CPUEvaluator) Name() string { return "cpu" }

// Eval implements Evaluator.
func (CPUEvaluator) Eval(op interval.Op, tuples [][]float32) ([]float32, error) {
	out := make([]float32, len(tuples))
	for i, in := range tuples {
		if len(in) != op.Arity() {
			return nil, fmt.Errorf("%w: %s wants %d, tuple has %d", ErrArityMismatch, op, op.Arity(), len(in))
		}
		v, err := evalScalar32(op, in)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func evalScalar32(op interval.Op, in []float32) (float32, error) {
	switch op {
	case interval.OpIdentity:
		return in[0], nil
	case interval.OpNeg:
		return -in[0], nil
	case interval.OpAdd:
		return in[0] + in[1], nil
	case interval.OpSub:
		return in[0] - in[1], nil
	case interval.OpMul:
		return in[0] * in[1], nil
	case interval.OpDiv:
		return in[0] / in[1], nil
	case interval.OpAbs:
		return float32(math.Abs(float64(in[0]))), nil
	case interval.OpSqrt:
		return float32(math.Sqrt(float64(in[0]))), nil
	case interval.OpInverseSqrt:
		return float32(1 / math.Sqrt(float64(in[0]))), nil
	case interval.OpExp:
		return float32(math.Exp(float64(in[0]))), nil
	case interval.OpExp2:
		return float32(math.Exp2(float64(in[0]))), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedOp, op)
	}
}

// Case describes one precision check: an operation, the ranges its inputs
// are drawn from, and the tolerance its outputs must satisfy.
type Case struct {
	Name      string
	Op        interval.Op
	Inputs    []interval.Interval
	Tolerance Tolerance
}

// Expected returns the enclosure of the operation over the whole input
// box, widened by the case tolerance. Individual samples are checked
// against tighter per-tuple enclosures; this range form is useful for
// reporting and for pre-judging whether a case can fail at all.
func (c Case) Expected() interval.Interval {
	return c.Tolerance.Widen(c.Op.Eval(c.Inputs...))
}

// Verdict is the outcome of checking one output sample.
type Verdict struct {
	// Inputs is the concrete tuple the implementation was given.
	Inputs []float32

	// Output is the value the implementation produced.
	Output float32

	// Expected is the tolerance-widened enclosure the output was checked
	// against.
	Expected interval.Interval

	// Trivial marks a check against an unbounded enclosure, which cannot
	// fail and carries no information.
	Trivial bool

	// Passed reports whether Output lies inside Expected.
	Passed bool
}

// Result summarizes a case run.
type Result struct {
	Case     string
	Total    int
	Failed   int
	Trivial  int
	Verdicts []Verdict
}

// Passed reports whether no sample failed.
func (r Result) Passed() bool { return r.Failed == 0 }

// Runner samples cases, drives an evaluator and checks its outputs.
type Runner struct {
	eval    Evaluator
	samples int
	seed    int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSamples sets the number of samples drawn per input interval.
// The default is 16; values below 3 are raised to 3 so that both bounds
// and the midpoint are always exercised.
func WithSamples(n int) RunnerOption {
	return func(r *Runner) {
		if n < 3 {
			n = 3
		}
		r.samples = n
	}
}

// WithSeed sets the seed for the deterministic interior-point generator.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) { r.seed = seed }
}

// NewRunner creates a Runner driving the given evaluator.
func NewRunner(eval Evaluator, opts ...RunnerOption) *Runner {
	r := &Runner{eval: eval, samples: 16, seed: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks one case: it draws sample tuples from the input intervals,
// obtains the evaluator's outputs, and verifies each output against the
// tolerance-widened enclosure for its exact tuple.
func (r *Runner) Run(c Case) (Result, error) {
	res := Result{Case: c.Name}

	if len(c.Inputs) == 0 {
		return res, ErrNoInputs
	}
	if len(c.Inputs) != c.Op.Arity() {
		return res, fmt.Errorf("%w: %s wants %d, case has %d",
			ErrArityMismatch, c.Op, c.Op.Arity(), len(c.Inputs))
	}

	rng := rand.New(rand.NewSource(r.seed))
	grids := make([][]float32, len(c.Inputs))
	for i, in := range c.Inputs {
		g, err := samplePoints(in, r.samples, rng)
		if err != nil {
			return res, fmt.Errorf("input %d of %s: %w", i, c.Name, err)
		}
		grids[i] = g
	}

	tuples := make([][]float32, r.samples)
	for s := 0; s < r.samples; s++ {
		tuple := make([]float32, len(grids))
		for i, g := range grids {
			tuple[i] = g[s]
		}
		tuples[s] = tuple
	}

	outputs, err := r.eval.Eval(c.Op, tuples)
	if err != nil {
		return res, fmt.Errorf("evaluator %s: %w", r.eval.Name(), err)
	}
	if len(outputs) != len(tuples) {
		return res, fmt.Errorf("%w: got %d, want %d", ErrOutputCount, len(outputs), len(tuples))
	}

	log := Logger()
	for s, tuple := range tuples {
		v := checkSample(c, tuple, outputs[s])
		res.Verdicts = append(res.Verdicts, v)
		res.Total++
		if v.Trivial {
			res.Trivial++
		}
		if !v.Passed {
			res.Failed++
			log.Debug("sample failed",
				slog.String("case", c.Name),
				slog.Any("inputs", v.Inputs),
				slog.Any("output", v.Output),
				slog.String("expected", v.Expected.String()))
		}
	}

	log.Info("case finished",
		slog.String("case", c.Name),
		slog.String("evaluator", r.eval.Name()),
		slog.Int("total", res.Total),
		slog.Int("failed", res.Failed),
		slog.Int("trivial", res.Trivial))
	return res, nil
}

// RunAll runs every case and reports the first hard error; check failures
// are not errors and are collected in the results.
func (r *Runner) RunAll(cases []Case) ([]Result, error) {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		res, err := r.Run(c)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Check verifies a batch of outputs against the tolerance-widened
// enclosure of the case's whole input box. It is the coarse form used
// when the per-output input tuples are not known, e.g. values read back
// from a rendered surface; Runner.Run checks per-tuple and is tighter.
func Check(c Case, outputs []float32) Verdict {
	expected := c.Expected()
	v := Verdict{
		Expected: expected,
		Trivial:  math.IsInf(expected.Lo(), -1) && math.IsInf(expected.Hi(), 1),
		Passed:   true,
	}
	for _, out := range outputs {
		v.Output = out
		if math.IsNaN(float64(out)) {
			if !expected.HasNaN() {
				v.Passed = false
				return v
			}
			continue
		}
		if !expected.Contains(interval.Point(float64(out))) {
			v.Passed = false
			return v
		}
	}
	return v
}

// checkSample verifies one output against the enclosure for its exact
// input tuple, widened by the case tolerance.
func checkSample(c Case, tuple []float32, output float32) Verdict {
	points := make([]interval.Interval, len(tuple))
	for i, x := range tuple {
		points[i] = interval.Point(float64(x))
	}
	expected := c.Tolerance.Widen(c.Op.Eval(points...))

	v := Verdict{
		Inputs:   tuple,
		Output:   output,
		Expected: expected,
		Trivial:  math.IsInf(expected.Lo(), -1) && math.IsInf(expected.Hi(), 1),
	}
	if math.IsNaN(float64(output)) {
		v.Passed = expected.HasNaN()
	} else {
		v.Passed = expected.Contains(interval.Point(float64(output)))
	}
	return v
}

// samplePoints draws n float32 values from iv: both bounds, the midpoint,
// then deterministic interior points. Bounds are clamped to the finite
// float32 range so unbounded inputs stay sampleable.
func samplePoints(iv interval.Interval, n int, rng *rand.Rand) ([]float32, error) {
	if iv.IsEmpty() {
		return nil, ErrUnsampleable
	}

	lo := math.Max(iv.Lo(), -math.MaxFloat32)
	hi := math.Min(iv.Hi(), math.MaxFloat32)

	out := make([]float32, 0, n)
	out = append(out, float32(lo), float32(hi), float32(0.5*(lo+hi)))
	for len(out) < n {
		out = append(out, float32(lo+rng.Float64()*(hi-lo)))
	}
	return out[:n], nil
}

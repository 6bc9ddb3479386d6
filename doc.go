// Package conformance provides floating-point precision conformance
// checking for GPU and shader operations.
//
// # Overview
//
// A conformance check answers one question: is the value an implementation
// produced for an operation within the error tolerance its specification
// allows? The package answers it with interval arithmetic. For each
// concrete input tuple, the expected result is computed as a conservative
// enclosure (see the interval subpackage), widened by the mandated
// tolerance, and the implementation's output is tested for containment.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/conformance"
//		"github.com/gogpu/conformance/interval"
//	)
//
//	r := conformance.NewRunner(conformance.CPUEvaluator{})
//	res, err := r.Run(conformance.Case{
//		Name:      "mul.highp",
//		Op:        interval.OpMul,
//		Inputs:    []interval.Interval{interval.Span(-4, 4), interval.Span(-4, 4)},
//		Tolerance: conformance.HighpTolerance(),
//	})
//
// # Architecture
//
// The library is organized into:
//   - Root: tolerance models, case running, containment verdicts, Pixmap
//   - interval: the enclosure engine every check depends on
//   - fuzzy: image-difference checking over pixel buffers
//   - hierarchy: cooperative walking of test-case trees
//   - gpu: a shader-based evaluator (WGSL through naga and wgpu)
//
// # Unbounded enclosures
//
// Some enclosures are legitimately unbounded, e.g. division by a range
// containing zero. A check against an unbounded enclosure passes trivially;
// the verdict marks this so callers can exclude such samples from coverage
// statistics instead of counting them as meaningful passes.
package conformance

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)

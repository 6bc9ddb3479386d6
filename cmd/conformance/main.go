// Command conformance runs floating point precision checks and reports
// per-case results. Cases are organized in a dotted hierarchy
// (precision.highp.add, precision.mediump.exp, ...) and can be filtered
// with a skip list file.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/conformance"
	"github.com/gogpu/conformance/fuzzy"
	"github.com/gogpu/conformance/gpu"
	"github.com/gogpu/conformance/hierarchy"
	"github.com/gogpu/conformance/interval"
)

func main() {
	var (
		useGPU   = flag.Bool("gpu", false, "evaluate through the WebGPU shader executor")
		samples  = flag.Int("samples", 16, "samples per input interval")
		seed     = flag.Int64("seed", 1, "seed for interior sample points")
		skipFile = flag.String("skip", "", "skip list file (one pattern per line)")
		heatmap  = flag.String("heatmap", "", "write a per-sample verdict image to this PNG file")
		imgDiff  = flag.String("imagediff", "", "run the fuzzy image comparison demo, writing <prefix>-ref.png and <prefix>-res.bmp")
		verbose  = flag.Bool("v", false, "log every failing sample")
	)
	flag.Parse()

	if *verbose {
		conformance.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	eval := pickEvaluator(*useGPU)
	runner := conformance.NewRunner(eval,
		conformance.WithSamples(*samples),
		conformance.WithSeed(*seed))

	var opts []hierarchy.IteratorOption
	if *skipFile != "" {
		f, err := os.Open(*skipFile)
		if err != nil {
			log.Fatalf("Failed to open skip list: %v", err)
		}
		skip, err := hierarchy.ParseSkipList(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("Failed to parse skip list: %v", err)
		}
		opts = append(opts, hierarchy.WithSkipList(skip))
	}

	var results []conformance.Result
	root := buildTree(runner, &results)

	err := hierarchy.Walk(root, func(ev hierarchy.Event) error {
		if ev.Kind == hierarchy.ExecuteCase {
			return ev.Node.Run()
		}
		return nil
	}, opts...)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	failed := 0
	for _, res := range results {
		status := "PASS"
		if !res.Passed() {
			status = "FAIL"
			failed++
		}
		log.Printf("%-4s %-32s samples=%d failed=%d trivial=%d",
			status, res.Case, res.Total, res.Failed, res.Trivial)
	}
	log.Printf("%d/%d cases passed (%s evaluator)", len(results)-failed, len(results), eval.Name())

	if *heatmap != "" {
		if err := saveHeatmap(*heatmap, results, *samples); err != nil {
			log.Fatalf("Failed to save heatmap: %v", err)
		}
		log.Printf("Heatmap saved to %s", *heatmap)
	}

	if *imgDiff != "" {
		if err := runImageDiff(*imgDiff); err != nil {
			log.Fatalf("Image diff demo failed: %v", err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// runImageDiff renders two slightly shifted gradients, scores them with
// the fuzzy comparator, and writes both as inspection artifacts.
func runImageDiff(prefix string) error {
	const size = 128

	ref := renderGradient(size, 0)
	res := renderGradient(size, 1)

	score, ok := fuzzy.Compare(ref, res, 0.05, fuzzy.WithSamples(16))
	log.Printf("fuzzy score %.5f, pass=%v", score, ok)

	if err := ref.SavePNG(prefix + "-ref.png"); err != nil {
		return err
	}
	return res.SaveBMP(prefix + "-res.bmp")
}

func renderGradient(size, shift int) *conformance.Pixmap {
	p := conformance.NewPixmap(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8((x + y + shift) * 255 / (2 * size))
			p.SetRGBA(x, y, v, 255-v, 128, 255)
		}
	}
	return p
}

func pickEvaluator(useGPU bool) conformance.Evaluator {
	if !useGPU {
		return conformance.CPUEvaluator{}
	}
	e, err := gpu.OpenExecutor()
	if err != nil {
		log.Printf("GPU executor unavailable, using CPU: %v", err)
		return conformance.CPUEvaluator{}
	}
	return e
}

// caseSpec is one leaf in the generated tree.
type caseSpec struct {
	op     interval.Op
	inputs []interval.Interval
}

// buildTree assembles the precision.<tier>.<op> hierarchy. Every leaf
// runs one case through the runner and appends its result.
func buildTree(runner *conformance.Runner, results *[]conformance.Result) *hierarchy.Node {
	span := interval.Span(-64, 64)
	positive := interval.Span(0.25, 64)

	specs := []caseSpec{
		{interval.OpAdd, []interval.Interval{span, span}},
		{interval.OpSub, []interval.Interval{span, span}},
		{interval.OpMul, []interval.Interval{span, span}},
		{interval.OpDiv, []interval.Interval{span, positive}},
		{interval.OpNeg, []interval.Interval{span}},
		{interval.OpAbs, []interval.Interval{span}},
		{interval.OpSqrt, []interval.Interval{positive}},
		{interval.OpInverseSqrt, []interval.Interval{positive}},
		{interval.OpExp, []interval.Interval{interval.Span(-4, 4)}},
		{interval.OpExp2, []interval.Interval{interval.Span(-8, 8)}},
	}

	tiers := []struct {
		name string
		tol  conformance.Tolerance
	}{
		{"highp", conformance.HighpTolerance()},
		{"mediump", conformance.MediumpTolerance()},
		{"relaxed", conformance.RelaxedTolerance()},
	}

	root := hierarchy.NewGroup("precision")
	for _, tier := range tiers {
		group := hierarchy.NewGroup(tier.name)
		for _, spec := range specs {
			c := conformance.Case{
				Name:      "precision." + tier.name + "." + spec.op.String(),
				Op:        spec.op,
				Inputs:    spec.inputs,
				Tolerance: tier.tol,
			}
			group.AddChild(hierarchy.NewCase(spec.op.String(), func() error {
				res, err := runner.Run(c)
				if err != nil {
					return err
				}
				*results = append(*results, res)
				return nil
			}))
		}
		root.AddChild(group)
	}
	return root
}

// saveHeatmap renders one row per case and one column per sample:
// green for pass, red for fail, gray for trivially passing samples whose
// expected range was unbounded.
func saveHeatmap(path string, results []conformance.Result, samples int) error {
	if len(results) == 0 || samples <= 0 {
		return nil
	}
	p := conformance.NewPixmap(samples, len(results))
	for y, res := range results {
		for x, v := range res.Verdicts {
			if x >= samples {
				break
			}
			switch {
			case v.Trivial:
				p.SetRGBA(x, y, 128, 128, 128, 255)
			case v.Passed:
				p.SetRGBA(x, y, 32, 192, 32, 255)
			default:
				p.SetRGBA(x, y, 224, 32, 32, 255)
			}
		}
	}
	return p.SavePNG(path)
}

//go:build !nogpu

package gpu

import (
	"fmt"
	"math"

	"github.com/gogpu/conformance"
	"github.com/gogpu/conformance/interval"
)

// shaderWGSL builds the compute shader for one operation. The generated
// module always declares two input buffers; unary operations simply never
// read input_b, which keeps a single pipeline layout valid for every op.
func shaderWGSL(op interval.Op) (string, error) {
	expr, err := opExpr(op)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`struct Config {
    count: u32,
    pad0: u32,
    pad1: u32,
    pad2: u32,
}

@group(0) @binding(0) var<uniform> config: Config;
@group(0) @binding(1) var<storage, read> input_a: array<f32>;
@group(0) @binding(2) var<storage, read> input_b: array<f32>;
@group(1) @binding(0) var<storage, read_write> output: array<f32>;

@compute @workgroup_size(64)
fn cs_eval(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= config.count) {
        return;
    }
    let a = input_a[i];
    let b = input_b[i];
    output[i] = %s;
}
`, expr), nil
}

// opExpr returns the WGSL expression for op over scalars a and b.
func opExpr(op interval.Op) (string, error) {
	switch op {
	case interval.OpIdentity:
		return "a", nil
	case interval.OpNeg:
		return "-a", nil
	case interval.OpAdd:
		return "a + b", nil
	case interval.OpSub:
		return "a - b", nil
	case interval.OpMul:
		return "a * b", nil
	case interval.OpDiv:
		return "a / b", nil
	case interval.OpAbs:
		return "abs(a)", nil
	case interval.OpSqrt:
		return "sqrt(a)", nil
	case interval.OpInverseSqrt:
		return "inverseSqrt(a)", nil
	case interval.OpExp:
		return "exp(a)", nil
	case interval.OpExp2:
		return "exp2(a)", nil
	default:
		return "", fmt.Errorf("%w: %s", conformance.ErrUnsupportedOp, op)
	}
}

// evalMirror evaluates one tuple the way the generated shader does,
// in IEEE single precision. Transcendentals use the host libm rounded
// once to float32; real shader cores are allowed to be far looser, which
// is exactly what the interval tolerances account for.
func evalMirror(op interval.Op, in []float32) (float32, error) {
	a := in[0]
	var b float32
	if len(in) > 1 {
		b = in[1]
	}
	switch op {
	case interval.OpIdentity:
		return a, nil
	case interval.OpNeg:
		return -a, nil
	case interval.OpAdd:
		return a + b, nil
	case interval.OpSub:
		return a - b, nil
	case interval.OpMul:
		return a * b, nil
	case interval.OpDiv:
		return a / b, nil
	case interval.OpAbs:
		return float32(math.Abs(float64(a))), nil
	case interval.OpSqrt:
		return float32(math.Sqrt(float64(a))), nil
	case interval.OpInverseSqrt:
		return float32(1 / math.Sqrt(float64(a))), nil
	case interval.OpExp:
		return float32(math.Exp(float64(a))), nil
	case interval.OpExp2:
		return float32(math.Exp2(float64(a))), nil
	default:
		return 0, fmt.Errorf("%w: %s", conformance.ErrUnsupportedOp, op)
	}
}

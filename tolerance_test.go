package conformance

import (
	"math"
	"testing"

	"github.com/gogpu/conformance/interval"
)

func TestULPDiff32(t *testing.T) {
	tests := []struct {
		name string
		a, b float32
		want uint64
	}{
		{"equal", 1.0, 1.0, 0},
		{"adjacent", 1.0, math.Nextafter32(1.0, 2.0), 1},
		{"two steps", 1.0, math.Nextafter32(math.Nextafter32(1.0, 2.0), 2.0), 2},
		{"zero signs", float32(math.Copysign(0, -1)), 0, 0},
		{"across zero", -math.SmallestNonzeroFloat32, math.SmallestNonzeroFloat32, 2},
		{"nan", float32(math.NaN()), 1.0, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ULPDiff32(tt.a, tt.b); got != tt.want {
				t.Errorf("ULPDiff32(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := ULPDiff32(tt.b, tt.a); got != tt.want {
				t.Errorf("ULPDiff32 not symmetric for (%v, %v)", tt.a, tt.b)
			}
		})
	}
}

func TestF32BelowAbove(t *testing.T) {
	// 0.1 is not representable in float32; the nearest float32 is above it.
	v := 0.1
	below := f32Below(v)
	above := f32Above(v)
	if float64(below) > v {
		t.Errorf("f32Below(%v) = %v, above the input", v, below)
	}
	if float64(above) < v {
		t.Errorf("f32Above(%v) = %v, below the input", v, above)
	}
	if ULPDiff32(below, above) != 1 {
		t.Errorf("f32Below/f32Above of a non-representable value should be adjacent")
	}

	// Exactly representable values map to themselves.
	if f32Below(0.5) != 0.5 || f32Above(0.5) != 0.5 {
		t.Errorf("f32Below/f32Above moved an exactly representable value")
	}

	// Values beyond the float32 range clamp to the largest finite value.
	if f32Below(math.MaxFloat64) != math.MaxFloat32 {
		t.Errorf("f32Below(huge) = %v, want MaxFloat32", f32Below(math.MaxFloat64))
	}
}

func TestTolerance_Widen(t *testing.T) {
	iv := interval.Span(1, 2)
	got := Tolerance{ULPs: 2}.Widen(iv)

	if !got.Contains(iv) {
		t.Fatalf("widened interval %v does not contain original %v", got, iv)
	}
	if d := ULPDiff32(float32(got.Lo()), 1.0); d != 2 {
		t.Errorf("lower bound moved %d ULPs, want 2", d)
	}
	if d := ULPDiff32(float32(got.Hi()), 2.0); d != 2 {
		t.Errorf("upper bound moved %d ULPs, want 2", d)
	}
}

func TestTolerance_WidenAbsBound(t *testing.T) {
	got := Tolerance{AbsBound: 0.25}.Widen(interval.Span(0, 1))
	if got.Lo() != -0.25 || got.Hi() != 1.25 {
		t.Errorf("Widen with AbsBound = %v, want [-0.25, 1.25]", got)
	}
}

func TestTolerance_WidenPreservesSpecials(t *testing.T) {
	if got := (Tolerance{ULPs: 4}).Widen(interval.Empty()); !got.Equal(interval.Empty()) {
		t.Errorf("Widen(empty) = %v, want empty", got)
	}
	if got := (Tolerance{ULPs: 4}).Widen(interval.NaN); !got.HasNaN() {
		t.Errorf("Widen dropped NaN flag")
	}
	got := Tolerance{ULPs: 4}.Widen(interval.Unbounded(false))
	if !got.Equal(interval.Unbounded(false)) {
		t.Errorf("Widen(unbounded) = %v, want unchanged", got)
	}
}

func TestWidenULP32(t *testing.T) {
	iv := interval.Point(1)
	got := WidenULP32(iv, 1)
	next := float64(math.Nextafter32(1.0, 2.0))
	prev := float64(math.Nextafter32(1.0, 0.0))
	if got.Lo() != prev || got.Hi() != next {
		t.Errorf("WidenULP32([1,1], 1) = %v, want [%v, %v]", got, prev, next)
	}
}

func TestPresets(t *testing.T) {
	if h, m := HighpTolerance(), MediumpTolerance(); h.ULPs >= m.ULPs {
		t.Errorf("highp budget (%d) should be tighter than mediump (%d)", h.ULPs, m.ULPs)
	}
	if m, r := MediumpTolerance(), RelaxedTolerance(); m.ULPs >= r.ULPs {
		t.Errorf("mediump budget (%d) should be tighter than relaxed (%d)", m.ULPs, r.ULPs)
	}
}

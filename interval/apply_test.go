package interval

import (
	"math"
	"testing"
)

func TestApply1(t *testing.T) {
	double := func(v float64) Interval { return Point(2 * v) }

	tests := []struct {
		name string
		in   Interval
		want Interval
	}{
		{"ordinary", Span(1, 3), Span(2, 6)},
		{"point", Point(5), Point(10)},
		{"empty no nan", Empty(), Empty()},
		{"nan only", NaN, NaN},
		{"range and nan", Make(true, 1, 3), Make(true, 2, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply1(tt.in, double); !got.Equal(tt.want) {
				t.Errorf("Apply1(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApply1_IntervalBody(t *testing.T) {
	// A body with intrinsic uncertainty: half a unit of slack either side.
	slack := func(v float64) Interval { return Span(v-0.5, v+0.5) }

	got := Apply1(Span(1, 3), slack)
	if !got.Equal(Span(0.5, 3.5)) {
		t.Errorf("Apply1 with slack body = %v, want [0.5, 3.5]", got)
	}
}

func TestApply2(t *testing.T) {
	sum := func(a, b float64) Interval { return Point(a + b) }

	tests := []struct {
		name string
		x, y Interval
		want Interval
	}{
		{"ordinary", Span(1, 2), Span(3, 4), Span(4, 6)},
		{"x empty", Empty(), Span(3, 4), Empty()},
		{"y empty", Span(1, 2), Empty(), Empty()},
		{"x nan", Make(true, 1, 2), Span(3, 4), Make(true, 4, 6)},
		{"y nan only", Span(1, 2), NaN, NaN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply2(tt.x, tt.y, sum); !got.Equal(tt.want) {
				t.Errorf("Apply2(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestApply3(t *testing.T) {
	sum3 := func(a, b, c float64) Interval { return Point(a + b + c) }

	got := Apply3(Span(0, 1), Span(10, 20), Span(100, 200), sum3)
	if !got.Equal(Span(110, 221)) {
		t.Errorf("Apply3 sum = %v, want [110, 221]", got)
	}
}

func TestApply3_NaNPropagation(t *testing.T) {
	sum3 := func(a, b, c float64) Interval { return Point(a + b + c) }

	got := Apply3(Span(0, 1), Make(true, 10, 20), Span(100, 200), sum3)
	if !got.HasNaN() {
		t.Errorf("Apply3 lost argument NaN flag: %v", got)
	}

	// A NaN produced at a corner must also propagate.
	nanAtCorner := func(a, b, c float64) Interval {
		if a == 0 {
			return NaN
		}
		return Point(a + b + c)
	}
	got = Apply3(Span(0, 1), Span(10, 20), Span(100, 200), nanAtCorner)
	if !got.HasNaN() {
		t.Errorf("Apply3 lost corner NaN flag: %v", got)
	}
}

func TestApply3_EmptyArg(t *testing.T) {
	sum3 := func(a, b, c float64) Interval { return Point(a + b + c) }

	got := Apply3(Span(0, 1), Empty(), Span(100, 200), sum3)
	if !got.IsEmpty() {
		t.Errorf("Apply3 with empty argument = %v, want empty", got)
	}
}

func TestApply1Scalar(t *testing.T) {
	tests := []struct {
		name string
		f    ScalarFunc1
		in   Interval
		want Interval
	}{
		{"exp", math.Exp, Span(0, 1), Span(1, math.Exp(1))},
		{"sqrt", math.Sqrt, Span(4, 9), Span(2, 3)},
		{"nan result", math.Sqrt, Span(-4, -1), NaN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply1Scalar(tt.in, tt.f); !got.Equal(tt.want) {
				t.Errorf("Apply1Scalar(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApply2Scalar(t *testing.T) {
	got := Apply2Scalar(Span(1, 2), Span(3, 4), func(a, b float64) float64 { return a * b })
	if !got.Equal(Span(3, 8)) {
		t.Errorf("Apply2Scalar product = %v, want [3, 8]", got)
	}
}

func TestEval1_MatchesApply1(t *testing.T) {
	body := func(v float64) Interval { return Span(v, v*v) }

	for _, iv := range []Interval{Span(1, 3), Point(2), Empty(), NaN, Make(true, 1, 2)} {
		a, e := Apply1(iv, body), Eval1(iv, body)
		if !a.Equal(e) {
			t.Errorf("Eval1(%v) = %v, Apply1 = %v; want equal", iv, e, a)
		}
	}
}

func TestEval2_MatchesApply2(t *testing.T) {
	body := func(a, b float64) Interval { return Span(a+b, a*b) }

	pairs := [][2]Interval{
		{Span(1, 2), Span(3, 4)},
		{Empty(), Span(3, 4)},
		{Make(true, 1, 2), Span(3, 4)},
		{NaN, NaN},
	}
	for _, p := range pairs {
		a, e := Apply2(p[0], p[1], body), Eval2(p[0], p[1], body)
		if !a.Equal(e) {
			t.Errorf("Eval2(%v, %v) = %v, Apply2 = %v; want equal", p[0], p[1], e, a)
		}
	}
}

func TestBoundsOf(t *testing.T) {
	got := BoundsOf(
		func() float64 { return 1 },
		func() float64 { return 2 },
	)
	if !got.Equal(Span(1, 2)) {
		t.Errorf("BoundsOf = %v, want [1, 2]", got)
	}

	// A NaN evaluation contributes possible-NaN, not a bound.
	got = BoundsOf(
		func() float64 { return math.NaN() },
		func() float64 { return 2 },
	)
	if !got.Equal(Make(true, 2, 2)) {
		t.Errorf("BoundsOf with NaN = %v, want [2, 2] U NaN", got)
	}
}

func TestExact(t *testing.T) {
	if got := Exact(func() float64 { return 7 }); !got.Equal(Point(7)) {
		t.Errorf("Exact = %v, want [7, 7]", got)
	}
}

// Package fuzzy compares rendered images while tolerating the resampling
// and rounding noise that legitimate implementations produce.
//
// A strict pixel-for-pixel comparison rejects images that differ only by
// subpixel sampling decisions, which every rasterizer is allowed to make.
// Compare instead probes the result image at several stochastically
// jittered positions around each reference pixel, samples it with
// fixed-point bilinear interpolation, and keeps the best match. Only error
// above a per-channel noise floor counts toward the score.
package fuzzy

import (
	"math"
	"math/rand"

	"github.com/gogpu/conformance"
)

// subBits is the number of fractional bits in fixed-point sample
// coordinates; weights are derived from the fractional part.
const subBits = 8

const subOne = 1 << subBits

type options struct {
	samples int
	seed    int64
	minErr  float64
}

// Option configures a comparison.
type Option func(*options)

// WithSamples sets the number of jittered probes per reference pixel.
// More probes tolerate more legitimate subpixel variation at higher cost.
// The default is 8.
func WithSamples(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.samples = n
	}
}

// WithSeed sets the seed for the jitter generator. Comparisons with the
// same seed are fully deterministic. The default seed is 1.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMinError sets the per-channel noise floor in [0, 1] units.
// Differences at or below the floor are attributed to rounding and do not
// count toward the score. The default is 4/255.
func WithMinError(e float64) Option {
	return func(o *options) { o.minErr = e }
}

func defaultOptions() options {
	return options{samples: 8, seed: 1, minErr: 4.0 / 255.0}
}

// Compare computes a difference score between a reference image and a
// result image and reports whether the score is at or below threshold.
// The score is the root mean square of per-pixel residual error, in
// normalized [0, 1] color units; identical images score zero.
//
// The images may have different dimensions: the result is resampled onto
// the reference grid through the same bilinear sampler used for jittered
// probing.
func Compare(ref, res *conformance.Pixmap, threshold float64, opts ...Option) (float64, bool) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	w, h := ref.Width(), ref.Height()
	if w == 0 || h == 0 {
		return 0, true
	}

	// Scale from reference pixel space to result pixel space, for
	// size-mismatched buffers.
	sx := float64(res.Width()) / float64(w)
	sy := float64(res.Height()) / float64(h)

	rng := rand.New(rand.NewSource(o.seed))

	var total float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rr, rg, rb, ra := ref.GetRGBA(x, y)

			best := math.Inf(1)
			for s := 0; s < o.samples; s++ {
				// Jitter within half a pixel of the pixel center.
				dx := rng.Float64() - 0.5
				dy := rng.Float64() - 0.5
				cx := (float64(x) + 0.5 + dx) * sx
				cy := (float64(y) + 0.5 + dy) * sy

				cr, cg, cb, ca := SampleBilinear(res, cx, cy)
				e := residual(rr, cr, o.minErr) +
					residual(rg, cg, o.minErr) +
					residual(rb, cb, o.minErr) +
					residual(ra, ca, o.minErr)
				if e < best {
					best = e
				}
				if best == 0 {
					break
				}
			}
			total += best
		}
	}

	score := math.Sqrt(total / float64(w*h))
	pass := score <= threshold

	conformance.Logger().Debug("fuzzy compare",
		"score", score,
		"threshold", threshold,
		"pass", pass)
	return score, pass
}

// residual is the squared error of one channel pair after subtracting the
// noise floor. Channels are 8-bit; the result is in normalized units.
func residual(a, b uint8, floor float64) float64 {
	d := math.Abs(float64(a)-float64(b))/255.0 - floor
	if d <= 0 {
		return 0
	}
	return d * d
}

// SampleBilinear samples p at the continuous pixel coordinate (cx, cy)
// using fixed-point bilinear interpolation with subBits fractional bits.
// The coordinate convention matches texture sampling: integer coordinates
// fall on pixel edges, so (x+0.5, y+0.5) is the center of pixel (x, y).
// Out-of-bounds coordinates clamp to the edge.
func SampleBilinear(p *conformance.Pixmap, cx, cy float64) (r, g, b, a uint8) {
	w, h := p.Width(), p.Height()

	// Shift to the texel grid and quantize to fixed point.
	fx := int64(math.Floor((cx - 0.5) * subOne))
	fy := int64(math.Floor((cy - 0.5) * subOne))

	x0 := int(fx >> subBits)
	y0 := int(fy >> subBits)
	wx := int64(fx & (subOne - 1))
	wy := int64(fy & (subOne - 1))

	x1 := clamp(x0+1, 0, w-1)
	y1 := clamp(y0+1, 0, h-1)
	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)

	r00, g00, b00, a00 := p.GetRGBA(x0, y0)
	r10, g10, b10, a10 := p.GetRGBA(x1, y0)
	r01, g01, b01, a01 := p.GetRGBA(x0, y1)
	r11, g11, b11, a11 := p.GetRGBA(x1, y1)

	r = blend2D(r00, r10, r01, r11, wx, wy)
	g = blend2D(g00, g10, g01, g11, wx, wy)
	b = blend2D(b00, b10, b01, b11, wx, wy)
	a = blend2D(a00, a10, a01, a11, wx, wy)
	return r, g, b, a
}

// blend2D interpolates four corner samples with integer weights. The
// accumulated products carry 2*subBits fractional bits; adding half of
// that scale before the shift rounds to nearest.
func blend2D(c00, c10, c01, c11 uint8, wx, wy int64) uint8 {
	v := int64(c00)*(subOne-wx)*(subOne-wy) +
		int64(c10)*wx*(subOne-wy) +
		int64(c01)*(subOne-wx)*wy +
		int64(c11)*wx*wy
	return uint8((v + subOne*subOne/2) >> (2 * subBits))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package conformance

import (
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixmap_SetGet(t *testing.T) {
	p := NewPixmap(4, 4)

	p.SetRGBA(1, 2, 10, 20, 30, 40)
	r, g, b, a := p.GetRGBA(1, 2)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Errorf("GetRGBA(1,2) = (%d,%d,%d,%d), want (10,20,30,40)", r, g, b, a)
	}

	// Out-of-range writes are ignored, reads come back transparent.
	p.SetRGBA(-1, 0, 255, 255, 255, 255)
	p.SetRGBA(4, 0, 255, 255, 255, 255)
	if r, g, b, a := p.GetRGBA(-1, 0); r|g|b|a != 0 {
		t.Errorf("out-of-range read = (%d,%d,%d,%d), want zeros", r, g, b, a)
	}
}

func TestPixmap_Clear(t *testing.T) {
	p := NewPixmap(3, 3)
	p.Clear(1, 2, 3, 4)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if r, g, b, a := p.GetRGBA(x, y); r != 1 || g != 2 || b != 3 || a != 4 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d) after Clear", x, y, r, g, b, a)
			}
		}
	}
}

func TestPixmap_Format(t *testing.T) {
	p := NewPixmap(1, 1)
	if got := p.Format(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", got)
	}
}

func TestPixmap_ImageInterface(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetRGBA(0, 0, 200, 100, 50, 255)

	bounds := p.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("Bounds() = %v, want 2x2", bounds)
	}

	// Round-trip through the image.Image interface.
	back := FromImage(p)
	if r, _, _, _ := back.GetRGBA(0, 0); r != 200 {
		t.Errorf("FromImage(p) lost pixel data: r = %d, want 200", r)
	}
}

func TestPixmap_PNGRoundTrip(t *testing.T) {
	p := NewPixmap(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.SetRGBA(x, y, uint8(x*32), uint8(y*32), 128, 255)
		}
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := p.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error: %v", err)
	}

	back, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG() error: %v", err)
	}
	if back.Width() != 8 || back.Height() != 8 {
		t.Fatalf("loaded size = %dx%d, want 8x8", back.Width(), back.Height())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			wr, wg, wb, wa := p.GetRGBA(x, y)
			gr, gg, gb, ga := back.GetRGBA(x, y)
			if wr != gr || wg != gg || wb != gb || wa != ga {
				t.Fatalf("pixel (%d,%d) changed in PNG round trip", x, y)
			}
		}
	}
}

func TestPixmap_SaveBMP(t *testing.T) {
	p := NewPixmap(4, 4)
	p.Clear(255, 0, 0, 255)

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := p.SaveBMP(path); err != nil {
		t.Fatalf("SaveBMP() error: %v", err)
	}
}

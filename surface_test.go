package art0

import (
	"image"
	"image/color"
	"testing"
)

func TestRasterSurfaceDrawOpaque(t *testing.T) {
	s := NewRasterSurface(10, 10)
	red := solidImage(2, 2, color.RGBA{R: 255, A: 255})
	s.DrawImage(red, Rect{X: 0, Y: 0, Width: 10, Height: 10}, 1)

	for _, p := range []image.Point{{0, 0}, {5, 5}, {9, 9}} {
		if got := s.Target.RGBAAt(p.X, p.Y); got != (color.RGBA{R: 255, A: 255}) {
			t.Errorf("pixel %v = %v, want opaque red", p, got)
		}
	}
}

func TestRasterSurfaceAlpha(t *testing.T) {
	s := NewRasterSurface(4, 4)
	s.DrawImage(solidImage(4, 4, colorWhite), Rect{Width: 4, Height: 4}, 0.5)

	got := s.Target.RGBAAt(1, 1)
	if got.A < 126 || got.A > 129 {
		t.Errorf("alpha = %d, want ~128", got.A)
	}
}

func TestRasterSurfaceScale(t *testing.T) {
	s := NewRasterSurface(20, 20)
	s.SetScale(2)
	s.DrawImage(solidImage(2, 2, colorWhite), Rect{Width: 10, Height: 10}, 1)

	if got := s.Target.RGBAAt(19, 19); got.A != 255 {
		t.Errorf("pixel (19,19) alpha = %d, want 255 at scale 2", got.A)
	}
}

func TestRasterSurfaceClipsPlacement(t *testing.T) {
	s := NewRasterSurface(10, 10)
	s.DrawImage(solidImage(2, 2, colorWhite), Rect{X: 5, Y: 0, Width: 5, Height: 5}, 1)

	if got := s.Target.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("pixel (2,2) = %v, want untouched", got)
	}
	if got := s.Target.RGBAAt(7, 2); got.A != 255 {
		t.Errorf("pixel (7,2) = %v, want drawn", got)
	}
}

func TestRasterSurfaceSkipsForeignImages(t *testing.T) {
	s := NewRasterSurface(4, 4)
	s.DrawImage(boundsOnly{image.Rect(0, 0, 4, 4)}, Rect{Width: 4, Height: 4}, 1)
	for _, b := range s.Target.Pix {
		if b != 0 {
			t.Fatal("surface drew an image it cannot read")
		}
	}
}

func TestRasterSurfaceClear(t *testing.T) {
	s := NewRasterSurface(4, 4)
	s.DrawImage(solidImage(1, 1, colorWhite), Rect{Width: 4, Height: 4}, 1)
	s.Clear()
	if got := s.Target.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("pixel after Clear = %v, want transparent", got)
	}
	if s.Capture() != s.Target {
		t.Error("Capture did not return the target")
	}
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{
		64, 32, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	img := unpremultiply(pix, 3, 1)
	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{R: 127, G: 63, B: 0, A: 128}},
		{1, color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{2, color.NRGBA{}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}
}

// boundsOnly is an Image that is not an image.Image.
type boundsOnly struct{ r image.Rectangle }

func (b boundsOnly) Bounds() image.Rectangle { return b.r }

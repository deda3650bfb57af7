package art0

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Capturer is implemented by surfaces whose pixels can be read back, for
// screenshots and headless frame output.
type Capturer interface {
	Capture() image.Image
}

// EbitenSurface draws onto an *ebiten.Image. Images handed to DrawImage must
// be *ebiten.Image; anything else is skipped.
type EbitenSurface struct {
	Target *ebiten.Image
	scale  float64
}

// NewEbitenSurface wraps target.
func NewEbitenSurface(target *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{Target: target, scale: 1}
}

// Clear makes every pixel transparent.
func (s *EbitenSurface) Clear() {
	if s.Target != nil {
		s.Target.Clear()
	}
}

// SetScale sets the logical-to-device scale applied after positioning.
func (s *EbitenSurface) SetScale(v float64) { s.scale = v }

// DrawImage draws img stretched to dst at the given opacity.
func (s *EbitenSurface) DrawImage(img Image, dst Rect, alpha float64) {
	src, ok := img.(*ebiten.Image)
	if !ok || s.Target == nil {
		return
	}
	w, h := imageSize(src)
	if w <= 0 || h <= 0 || dst.Empty() {
		return
	}
	scale := s.scale
	if !(scale > 0) {
		scale = 1
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(dst.Width/float64(w), dst.Height/float64(h))
	op.GeoM.Translate(dst.X, dst.Y)
	op.GeoM.Scale(scale, scale)
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	op.Filter = ebiten.FilterLinear
	s.Target.DrawImage(src, &op)
}

// Capture reads the target back as straight-alpha NRGBA. Only valid while the
// ebiten game loop is running.
func (s *EbitenSurface) Capture() image.Image {
	if s.Target == nil {
		return nil
	}
	bounds := s.Target.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	s.Target.ReadPixels(pixels)
	return unpremultiply(pixels, w, h)
}

// unpremultiply converts premultiplied RGBA bytes to an NRGBA image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// RasterSurface draws onto an in-memory RGBA image with x/image/draw. It
// needs no GPU and backs headless rendering. Images handed to DrawImage must
// implement image.Image.
type RasterSurface struct {
	Target       *image.RGBA
	Interpolator draw.Interpolator
	scale        float64
}

// NewRasterSurface allocates a transparent width x height surface.
func NewRasterSurface(width, height int) *RasterSurface {
	return &RasterSurface{
		Target:       image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		Interpolator: draw.BiLinear,
		scale:        1,
	}
}

// Clear makes every pixel transparent.
func (s *RasterSurface) Clear() {
	clear(s.Target.Pix)
}

// SetScale sets the logical-to-device scale applied after positioning.
func (s *RasterSurface) SetScale(v float64) { s.scale = v }

// DrawImage scales img into dst and composites it over the target at the
// given opacity.
func (s *RasterSurface) DrawImage(img Image, dst Rect, alpha float64) {
	src, ok := img.(image.Image)
	if !ok || dst.Empty() {
		return
	}
	scale := s.scale
	if !(scale > 0) {
		scale = 1
	}
	r := image.Rect(
		int(math.Round(dst.X*scale)),
		int(math.Round(dst.Y*scale)),
		int(math.Round((dst.X+dst.Width)*scale)),
		int(math.Round((dst.Y+dst.Height)*scale)),
	)
	if r.Empty() || src.Bounds().Empty() {
		return
	}

	var opts *draw.Options
	if a := clamp01(alpha); a < 1 {
		opts = &draw.Options{
			SrcMask: image.NewUniform(color.Alpha16{A: uint16(a * 0xffff)}),
		}
	}
	interp := s.Interpolator
	if interp == nil {
		interp = draw.BiLinear
	}
	interp.Scale(s.Target, r, src, src.Bounds(), draw.Over, opts)
}

// Capture returns the target image itself.
func (s *RasterSurface) Capture() image.Image {
	return s.Target
}

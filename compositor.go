package art0

import (
	"math"

	"github.com/rs/zerolog"
)

const (
	// alphaEpsilon is the opacity below which a draw is skipped.
	alphaEpsilon = 0.001

	// maxDevicePixelRatio caps the backing-store scale.
	maxDevicePixelRatio = 2.0

	// background + frame + two layers for each of eight zones
	defaultCommandCap = 18
)

// DrawCommand is a single draw instruction produced by the compositor.
type DrawCommand struct {
	Layer    Layer
	Category Category // empty for background and frame
	Image    Image
	Dst      Rect    // logical coordinates
	Alpha    float64 // final opacity, already multiplied by the transition alpha
}

// Surface is a 2D drawing target. Implementations draw in logical units and
// apply the scale set by SetScale to reach backing-store pixels.
type Surface interface {
	Clear()
	SetScale(s float64)
	DrawImage(img Image, dst Rect, alpha float64)
}

// Compositor turns zone states into an ordered list of draws, back to front:
// background, then each zone's current and incoming images in category
// order, then the frame overlay.
type Compositor struct {
	log zerolog.Logger

	width, height float64 // logical size
	dpr           float64

	background Image
	frame      Image

	commands []DrawCommand
}

// NewCompositor creates a compositor with an empty canvas and a device pixel
// ratio of 1.
func NewCompositor(logger zerolog.Logger) *Compositor {
	return &Compositor{
		log:      logger,
		dpr:      1,
		commands: make([]DrawCommand, 0, defaultCommandCap),
	}
}

// Resize sets the logical canvas size and the device pixel ratio. The ratio
// is capped at 2.
func (c *Compositor) Resize(width, height, dpr float64) {
	c.width, c.height = width, height
	c.dpr = effectiveDPR(dpr)
	if !(width > 0) || !(height > 0) {
		c.log.Warn().
			Str("event", "compositor.degenerate_canvas").
			Float64("width", width).
			Float64("height", height).
			Msg("canvas has no area; frames will be empty")
	}
}

// effectiveDPR caps a reported device pixel ratio at 2; unusable values
// become 1.
func effectiveDPR(dpr float64) float64 {
	if !(dpr > 0) {
		return 1
	}
	return math.Min(dpr, maxDevicePixelRatio)
}

// Size returns the logical canvas size.
func (c *Compositor) Size() (width, height float64) { return c.width, c.height }

// DevicePixelRatio returns the effective (capped) device pixel ratio.
func (c *Compositor) DevicePixelRatio() float64 { return c.dpr }

// BackingSize returns the backing-store size in device pixels.
func (c *Compositor) BackingSize() (width, height int) {
	if !(c.width > 0) || !(c.height > 0) {
		return 0, 0
	}
	return int(math.Ceil(c.width * c.dpr)), int(math.Ceil(c.height * c.dpr))
}

// SetBackground sets the image drawn beneath every zone. nil removes it. An
// image without area is kept but never drawn, and is logged once here.
func (c *Compositor) SetBackground(img Image) {
	c.warnDegenerate(LayerBackground, img)
	c.background = img
}

// SetFrame sets the overlay drawn above every zone. nil removes it.
func (c *Compositor) SetFrame(img Image) {
	c.warnDegenerate(LayerFrame, img)
	c.frame = img
}

func (c *Compositor) warnDegenerate(layer Layer, img Image) {
	if img == nil {
		return
	}
	if w, h := imageSize(img); w <= 0 || h <= 0 {
		c.log.Warn().
			Str("event", "compositor.degenerate_image").
			Str("layer", layer.String()).
			Int("width", w).
			Int("height", h).
			Msg("image has no area; it will not be drawn")
	}
}

// Background returns the current background image.
func (c *Compositor) Background() Image { return c.background }

// Frame returns the current frame overlay image.
func (c *Compositor) Frame() Image { return c.frame }

// Commands returns the draw list built by the last Build or Render. The
// returned slice MUST NOT be mutated and is reused by the next call.
func (c *Compositor) Commands() []DrawCommand { return c.commands }

// Build computes the draw list for zones under the global transition alpha.
func (c *Compositor) Build(zones []ZoneState, transitionAlpha float64) []DrawCommand {
	c.commands = c.commands[:0]
	if !(c.width > 0) || !(c.height > 0) {
		return c.commands
	}
	ta := clamp01(transitionAlpha)

	c.emit(LayerBackground, "", c.background, ta)
	for i := range zones {
		z := &zones[i]
		c.emit(LayerCurrent, z.Category, z.Current, ta)
		if z.Incoming != nil && z.Alpha >= alphaEpsilon {
			c.emit(LayerIncoming, z.Category, z.Incoming, clamp01(z.Alpha)*ta)
		}
	}
	c.emit(LayerFrame, "", c.frame, ta)
	return c.commands
}

func (c *Compositor) emit(layer Layer, cat Category, img Image, alpha float64) {
	if img == nil || alpha < alphaEpsilon {
		return
	}
	w, h := imageSize(img)
	dst, ok := FitRect(float64(w), float64(h), c.width, c.height)
	if !ok {
		return
	}
	c.commands = append(c.commands, DrawCommand{
		Layer:    layer,
		Category: cat,
		Image:    img,
		Dst:      dst,
		Alpha:    alpha,
	})
}

// Render clears dst and draws one fully composited frame. It returns the
// number of images drawn.
func (c *Compositor) Render(dst Surface, zones []ZoneState, transitionAlpha float64) int {
	cmds := c.Build(zones, transitionAlpha)
	dst.Clear()
	dst.SetScale(c.dpr)
	for i := range cmds {
		dst.DrawImage(cmds[i].Image, cmds[i].Dst, cmds[i].Alpha)
	}
	return len(cmds)
}

// FitRect scales an image of iw x ih uniformly to fit inside a cw x ch canvas
// and centers it. It reports false when either size has no area.
func FitRect(iw, ih, cw, ch float64) (Rect, bool) {
	if !(iw > 0) || !(ih > 0) || !(cw > 0) || !(ch > 0) {
		return Rect{}, false
	}
	scale := math.Min(cw/iw, ch/ih)
	w, h := iw*scale, ih*scale
	return Rect{X: (cw - w) / 2, Y: (ch - h) / 2, Width: w, Height: h}, true
}

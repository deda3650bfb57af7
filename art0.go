package art0

import "image"

// Category names one zone. The order of the category list handed to the
// scheduler is both the animation sequence and the compositing z-order.
type Category string

// DefaultCategories are the eight zone colors in display order.
var DefaultCategories = []Category{"pink", "green", "cyan", "red", "yellow", "orange", "blue", "indigo"}

// Image is a decoded image handle owned by an external cache. Both
// *ebiten.Image and image.Image satisfy it. The engine only reads Bounds and
// hands the value to a Surface; it never mutates or frees it.
type Image interface {
	Bounds() image.Rectangle
}

// ImageProvider resolves an image identifier to a loaded handle. Get must not
// block and returns nil when the image is not available.
type ImageProvider interface {
	Get(id string) Image
}

// ImageProviderFunc adapts an ordinary function to ImageProvider.
type ImageProviderFunc func(id string) Image

// Get calls f(id).
func (f ImageProviderFunc) Get(id string) Image { return f(id) }

// Rect is an axis-aligned rectangle in logical (CSS pixel) units. The origin
// is the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// AnimationState is the scheduler's current phase.
type AnimationState uint8

const (
	StateIdle    AnimationState = iota // not started, or reset
	StateFading                        // the active zone's incoming image is fading in
	StateHolding                       // the active zone is shown at full opacity
)

func (s AnimationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFading:
		return "fading"
	case StateHolding:
		return "holding"
	default:
		return "unknown"
	}
}

// QualityTier is a coarse rendering-cost hint published when the achieved
// frame rate drops. It never changes animation timing.
type QualityTier uint8

const (
	TierA QualityTier = iota // full effects
	TierB                    // reduced effects
	TierC                    // minimal effects
)

func (t QualityTier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	case TierC:
		return "C"
	default:
		return "?"
	}
}

// Layer identifies where a draw command sits in the composition.
type Layer uint8

const (
	LayerBackground Layer = iota // style background / intro image
	LayerCurrent                 // a zone's settled image
	LayerIncoming                // a zone's image being faded in
	LayerFrame                   // cadre overlay, always on top
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerCurrent:
		return "current"
	case LayerIncoming:
		return "incoming"
	case LayerFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// imageSize returns the pixel dimensions of img, or zeros for nil.
func imageSize(img Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v > 0:
		return v
	default:
		// also catches NaN
		return 0
	}
}

package art0

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// ReducedMotionFade is the fade duration, in seconds, used while the
// reduced-motion preference is active. Short enough to read as a cut.
const ReducedMotionFade = 0.12

// DefaultEasing returns the S-curve applied to crossfades.
func DefaultEasing() ease.TweenFunc { return ease.InOutCubic }

var easings = map[string]ease.TweenFunc{
	"linear": ease.Linear,
	"sine":   ease.InOutSine,
	"quad":   ease.InOutQuad,
	"cubic":  ease.InOutCubic,
	"quart":  ease.InOutQuart,
	"quint":  ease.InOutQuint,
	"expo":   ease.InOutExpo,
}

// EasingByName returns the named in-out easing curve.
func EasingByName(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// EasingNames lists the accepted easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// motionPolicy decides how fade progress maps to opacity. Reduced motion
// wins over the configured easing.
type motionPolicy struct {
	easing  ease.TweenFunc
	reduced bool
}

// fade returns the fade duration actually used for d seconds.
func (m motionPolicy) fade(d float64) float64 {
	if !(d > 0) {
		return 0
	}
	if m.reduced && d > ReducedMotionFade {
		return ReducedMotionFade
	}
	return d
}

// curve returns the tween function for transitions driven by gween.
func (m motionPolicy) curve() ease.TweenFunc {
	if m.reduced || m.easing == nil {
		return ease.Linear
	}
	return m.easing
}

// apply maps linear progress p in [0,1] to eased opacity in [0,1].
func (m motionPolicy) apply(p float64) float64 {
	p = clamp01(p)
	if m.reduced || m.easing == nil {
		return p
	}
	return clamp01(float64(m.easing(float32(p), 0, 1, 1)))
}

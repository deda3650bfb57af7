package art0

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// transition animates the global alpha that multiplies the whole frame. A
// fade-out is started explicitly; once it reaches zero a fade back in starts
// on its own whenever alpha is below one and no fade-out is active.
//
// There is no global animation manager; the driver calls update each tick.
type transition struct {
	alpha float64
	out   bool
	tween *gween.Tween
}

func newTransition() transition {
	return transition{alpha: 1}
}

// begin starts a fade-out from full opacity over duration seconds.
func (t *transition) begin(duration float64, fn ease.TweenFunc) {
	t.out = true
	t.alpha = 1
	t.tween = gween.New(1, 0, float32(duration), fn)
}

// update advances the active tween by dt seconds and reports whether a
// fade-out finished during this call.
func (t *transition) update(dt, duration float64, fn ease.TweenFunc) bool {
	if t.out {
		if t.tween == nil {
			t.tween = gween.New(float32(t.alpha), 0, float32(duration), fn)
		}
		val, finished := t.tween.Update(float32(dt))
		t.alpha = clamp01(float64(val))
		if finished || t.alpha <= 0 {
			t.alpha = 0
			t.out = false
			t.tween = nil
			return true
		}
		return false
	}

	if t.alpha >= 1 {
		t.alpha = 1
		return false
	}
	if t.tween == nil {
		t.tween = gween.New(float32(t.alpha), 1, float32(duration), fn)
	}
	val, finished := t.tween.Update(float32(dt))
	t.alpha = clamp01(float64(val))
	if finished {
		t.alpha = 1
		t.tween = nil
	}
	return false
}

// active reports whether a fade-out or fade-in is in progress.
func (t *transition) active() bool {
	return t.out || t.alpha < 1
}

package art0

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTransitionStartsOpaque(t *testing.T) {
	tr := newTransition()
	if tr.alpha != 1 || tr.active() {
		t.Errorf("alpha = %f active = %v, want 1 false", tr.alpha, tr.active())
	}
	if tr.update(1, 1, ease.Linear) {
		t.Error("idle transition reported completion")
	}
}

func TestTransitionFadeOutLinear(t *testing.T) {
	tr := newTransition()
	tr.begin(1, ease.Linear)

	if tr.update(0.5, 1, ease.Linear) {
		t.Fatal("completed at half time")
	}
	if math.Abs(tr.alpha-0.5) > 1e-6 {
		t.Errorf("alpha = %f, want ~0.5", tr.alpha)
	}
	if !tr.update(0.5, 1, ease.Linear) {
		t.Fatal("not completed at full time")
	}
	if tr.alpha != 0 || tr.out {
		t.Errorf("alpha = %f out = %v, want 0 false", tr.alpha, tr.out)
	}
}

func TestTransitionFadesBackIn(t *testing.T) {
	tr := newTransition()
	tr.begin(0.5, ease.Linear)
	tr.update(0.5, 0.5, ease.Linear)

	tr.update(0.25, 0.5, ease.Linear)
	if math.Abs(tr.alpha-0.5) > 1e-6 {
		t.Errorf("alpha = %f, want ~0.5 halfway back in", tr.alpha)
	}
	tr.update(0.25, 0.5, ease.Linear)
	if tr.alpha != 1 || tr.active() {
		t.Errorf("alpha = %f active = %v, want 1 false", tr.alpha, tr.active())
	}
}

func TestTransitionRestartDuringFadeIn(t *testing.T) {
	tr := newTransition()
	tr.begin(1, ease.Linear)
	tr.update(1, 1, ease.Linear)
	tr.update(0.5, 1, ease.Linear)

	tr.begin(1, ease.Linear)
	if tr.alpha != 1 || !tr.out {
		t.Errorf("alpha = %f out = %v after restart, want 1 true", tr.alpha, tr.out)
	}
}

func TestTransitionZeroDuration(t *testing.T) {
	tr := newTransition()
	tr.begin(0, ease.Linear)
	if !tr.update(0, 0, ease.Linear) {
		t.Error("zero-length fade-out did not complete on the first update")
	}
}

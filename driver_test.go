package art0

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestDriver(cfg DriverConfig) (*Driver, *Scheduler, *ManualClock, *Observers) {
	images, cats := twoByTwo()
	obs := &Observers{}
	s := NewScheduler(providerFor(images), obs, SchedulerConfig{
		FadeDuration: 1,
		HoldDuration: 1,
		Rand:         seededRand(),
		Logger:       zerolog.Nop(),
	})
	s.SetImages(images, cats)
	c := NewCompositor(zerolog.Nop())
	c.Resize(100, 100, 1)

	clock := NewManualClock(time.Unix(0, 0))
	cfg.Clock = clock
	d := NewDriver(s, c, obs, cfg)
	s.Start()
	d.Start()
	return d, s, clock, obs
}

func TestDriverFirstTickIsZero(t *testing.T) {
	d, s, _, _ := newTestDriver(DriverConfig{})
	if !d.Tick(nil) {
		t.Fatal("first tick not accepted")
	}
	if p := s.Progress(); p.Elapsed != 0 {
		t.Errorf("Elapsed = %f after first tick, want 0", p.Elapsed)
	}
}

func TestDriverClampsLongDelta(t *testing.T) {
	d, s, clock, _ := newTestDriver(DriverConfig{})
	d.Tick(nil)

	clock.Advance(5 * time.Second)
	d.Tick(nil)
	if p := s.Progress(); math.Abs(p.Elapsed-maxFrameDelta.Seconds()) > 1e-9 {
		t.Errorf("Elapsed = %f after 5s stall, want %f", p.Elapsed, maxFrameDelta.Seconds())
	}
}

func TestDriverNegativeDeltaIsZero(t *testing.T) {
	d, s, clock, _ := newTestDriver(DriverConfig{})
	d.Tick(nil)
	clock.Advance(-time.Second)
	d.Tick(nil)
	if p := s.Progress(); p.Elapsed != 0 {
		t.Errorf("Elapsed = %f after clock went backwards, want 0", p.Elapsed)
	}
}

func TestDriverFrameLimit(t *testing.T) {
	d, s, clock, _ := newTestDriver(DriverConfig{FrameLimit: true, TargetFPS: 60})
	d.Tick(nil)

	clock.Advance(5 * time.Millisecond)
	if d.Tick(nil) {
		t.Error("tick 5ms after the last was accepted")
	}
	if p := s.Progress(); p.Elapsed != 0 {
		t.Errorf("skipped tick advanced the scheduler to %f", p.Elapsed)
	}

	// skipped ticks do not move the baseline
	clock.Advance(12 * time.Millisecond)
	if !d.Tick(nil) {
		t.Fatal("tick 17ms after the last was rejected")
	}
	if p := s.Progress(); math.Abs(p.Elapsed-0.017) > 1e-9 {
		t.Errorf("Elapsed = %f, want 0.017", p.Elapsed)
	}

	d.SetFrameLimit(false)
	clock.Advance(time.Millisecond)
	if !d.Tick(nil) {
		t.Error("tick rejected with the limiter off")
	}
}

func TestDriverFPSAndQualityDowngrade(t *testing.T) {
	d, _, clock, obs := newTestDriver(DriverConfig{AdaptiveQuality: true})

	var fps []int
	var quality []QualityEvent
	obs.OnFPS(func(v int) { fps = append(fps, v) })
	obs.OnQualityChange(func(ev QualityEvent) { quality = append(quality, ev) })

	d.Tick(nil)
	// 20 fps for two windows
	for i := 0; i < 40; i++ {
		clock.Advance(50 * time.Millisecond)
		d.Tick(nil)
	}

	if len(fps) != 2 || fps[0] != 20 || fps[1] != 20 {
		t.Errorf("fps events = %v, want [20 20]", fps)
	}
	if len(quality) != 2 {
		t.Fatalf("quality events = %d, want 2", len(quality))
	}
	if quality[0].Previous != TierA || quality[0].Tier != TierB {
		t.Errorf("first downgrade = %v -> %v, want A -> B", quality[0].Previous, quality[0].Tier)
	}
	if quality[1].Previous != TierB || quality[1].Tier != TierC {
		t.Errorf("second downgrade = %v -> %v, want B -> C", quality[1].Previous, quality[1].Tier)
	}
	if d.Tier() != TierC || d.FPS() != 20 {
		t.Errorf("Tier = %v FPS = %d, want C 20", d.Tier(), d.FPS())
	}
}

func TestDriverQualityNeverUpgrades(t *testing.T) {
	d, _, clock, _ := newTestDriver(DriverConfig{AdaptiveQuality: true})
	d.Tick(nil)
	for i := 0; i < 20; i++ {
		clock.Advance(50 * time.Millisecond)
		d.Tick(nil)
	}
	if d.Tier() != TierB {
		t.Fatalf("Tier = %v, want B", d.Tier())
	}
	for i := 0; i < 120; i++ {
		clock.Advance(time.Second / 60)
		d.Tick(nil)
	}
	if d.Tier() != TierB {
		t.Errorf("Tier = %v after recovery, want B", d.Tier())
	}
}

func TestDriverQualityDisabled(t *testing.T) {
	d, _, clock, obs := newTestDriver(DriverConfig{})
	changes := 0
	obs.OnQualityChange(func(QualityEvent) { changes++ })

	d.Tick(nil)
	for i := 0; i < 40; i++ {
		clock.Advance(50 * time.Millisecond)
		d.Tick(nil)
	}
	if changes != 0 || d.Tier() != TierA {
		t.Errorf("tier = %v after %d changes, want A with none", d.Tier(), changes)
	}
}

func TestDriverQualityLogsDowngrade(t *testing.T) {
	var buf bytes.Buffer
	d, _, clock, _ := newTestDriver(DriverConfig{AdaptiveQuality: true, Logger: bufLogger(&buf)})
	d.Tick(nil)
	for i := 0; i < 20; i++ {
		clock.Advance(50 * time.Millisecond)
		d.Tick(nil)
	}
	if !strings.Contains(buf.String(), "quality.downgrade") {
		t.Errorf("expected quality.downgrade log, got %q", buf.String())
	}
}

func TestDriverPauseResumeNoJump(t *testing.T) {
	d, s, clock, _ := newTestDriver(DriverConfig{})
	d.Tick(nil)
	clock.Advance(50 * time.Millisecond)
	d.Tick(nil)
	before := s.Progress().Elapsed

	d.Pause()
	clock.Advance(10 * time.Millisecond)
	if d.Tick(nil) {
		t.Error("tick accepted while paused")
	}
	clock.Advance(time.Hour)

	d.Resume()
	d.Tick(nil)
	if got := s.Progress().Elapsed; got != before {
		t.Errorf("Elapsed = %f after resume, want %f", got, before)
	}
	clock.Advance(50 * time.Millisecond)
	d.Tick(nil)
	if got := s.Progress().Elapsed; math.Abs(got-before-0.05) > 1e-9 {
		t.Errorf("Elapsed = %f, want %f", got, before+0.05)
	}
}

func TestDriverStopped(t *testing.T) {
	d, _, _, _ := newTestDriver(DriverConfig{})
	d.Stop()
	if d.Tick(&recordingSurface{}) {
		t.Error("tick accepted after Stop")
	}
}

func TestDriverRendersOntoSurface(t *testing.T) {
	d, _, clock, _ := newTestDriver(DriverConfig{})
	surf := &recordingSurface{}
	d.Tick(surf)
	clock.Advance(500 * time.Millisecond)
	d.Tick(surf)
	if surf.clears != 2 {
		t.Errorf("clears = %d, want 2", surf.clears)
	}
	if len(surf.draws) != 1 {
		t.Errorf("draws = %d, want the incoming pink image", len(surf.draws))
	}
}

func TestDriverTransitionCompletes(t *testing.T) {
	d, _, clock, obs := newTestDriver(DriverConfig{})
	completed := 0
	obs.OnTransitionComplete(func() { completed++ })

	d.Tick(nil)
	d.BeginTransition()
	if !d.Transitioning() {
		t.Fatal("not transitioning after BeginTransition")
	}

	sawZero := false
	for i := 0; i < 15; i++ {
		clock.Advance(100 * time.Millisecond)
		d.Tick(nil)
		a := d.TransitionAlpha()
		if a < 0 || a > 1 {
			t.Fatalf("TransitionAlpha = %f out of range", a)
		}
		if completed == 1 && !sawZero {
			sawZero = a == 0
		}
	}
	if completed != 1 {
		t.Fatalf("transition completions = %d, want 1", completed)
	}
	if !sawZero {
		t.Error("alpha was not zero on the completing tick")
	}

	// fades back in over one fade duration
	for i := 0; i < 15; i++ {
		clock.Advance(100 * time.Millisecond)
		d.Tick(nil)
	}
	if d.TransitionAlpha() != 1 || d.Transitioning() {
		t.Errorf("TransitionAlpha = %f transitioning = %v, want 1 false", d.TransitionAlpha(), d.Transitioning())
	}
}

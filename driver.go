package art0

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// maxFrameDelta caps the time fed to one update after a stall.
	maxFrameDelta = 100 * time.Millisecond

	// DefaultTargetFPS is the frame rate the limiter aims for.
	DefaultTargetFPS = 60

	// frameSlack is the fraction of the target interval a tick may arrive
	// early and still be accepted.
	frameSlack = 0.12
)

// DriverConfig holds the tunables for NewDriver.
type DriverConfig struct {
	Clock           Clock // nil uses SystemClock
	TargetFPS       int   // <= 0 uses DefaultTargetFPS
	FrameLimit      bool  // skip ticks that arrive faster than TargetFPS
	AdaptiveQuality bool  // downgrade the quality tier on low fps
	Thresholds      QualityThresholds
	Logger          zerolog.Logger
}

// Driver runs one scheduler update and one compositor render per accepted
// tick. The host calls Tick from its per-frame callback (ebiten's Draw, or a
// headless loop). Ticks never overlap; the driver holds no locks.
type Driver struct {
	clock      Clock
	scheduler  *Scheduler
	compositor *Compositor
	observers  *Observers
	log        zerolog.Logger

	running bool
	paused  bool
	hasLast bool
	last    time.Time

	limit       bool
	minInterval time.Duration

	quality    qualityMonitor
	transition transition
}

// NewDriver wires a driver to its scheduler and compositor.
func NewDriver(s *Scheduler, c *Compositor, observers *Observers, cfg DriverConfig) *Driver {
	if observers == nil {
		observers = &Observers{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	d := &Driver{
		clock:      clock,
		scheduler:  s,
		compositor: c,
		observers:  observers,
		log:        cfg.Logger,
		limit:      cfg.FrameLimit,
		quality:    newQualityMonitor(cfg.AdaptiveQuality, cfg.Thresholds),
		transition: newTransition(),
	}
	d.SetTargetFPS(cfg.TargetFPS)
	return d
}

// SetTargetFPS sets the limiter's target rate.
func (d *Driver) SetTargetFPS(fps int) {
	if fps <= 0 {
		fps = DefaultTargetFPS
	}
	interval := time.Second / time.Duration(fps)
	d.minInterval = time.Duration(float64(interval) * (1 - frameSlack))
}

// SetFrameLimit turns the frame-rate limiter on or off.
func (d *Driver) SetFrameLimit(on bool) { d.limit = on }

// SetAdaptiveQuality turns quality downgrades on or off. The current tier is
// kept.
func (d *Driver) SetAdaptiveQuality(on bool) { d.quality.enabled = on }

// Start arms the driver. The first tick after Start samples the clock
// baseline and advances by zero.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.hasLast = false
	d.quality.stop()
}

// Stop disarms the driver; further ticks do nothing until Start.
func (d *Driver) Stop() {
	d.running = false
}

// Pause halts ticking, typically because the page or window became hidden.
// No time accumulates while paused.
func (d *Driver) Pause() {
	d.paused = true
}

// Resume continues after Pause. The clock baseline is resampled on the next
// tick so the hidden duration is not fed to the scheduler.
func (d *Driver) Resume() {
	if !d.paused {
		return
	}
	d.paused = false
	d.hasLast = false
	d.quality.stop()
}

// Running reports whether the driver is armed.
func (d *Driver) Running() bool { return d.running }

// Paused reports whether the driver is paused.
func (d *Driver) Paused() bool { return d.paused }

// Tier returns the current quality tier.
func (d *Driver) Tier() QualityTier { return d.quality.tier }

// FPS returns the fps measured by the last closed window.
func (d *Driver) FPS() int { return d.quality.fps }

// TransitionAlpha returns the global opacity multiplier.
func (d *Driver) TransitionAlpha() float64 { return d.transition.alpha }

// Transitioning reports whether a style-switch fade-out is in progress.
func (d *Driver) Transitioning() bool { return d.transition.out }

// BeginTransition starts fading the whole composition out over one fade
// duration. Observers registered with OnTransitionComplete are notified when
// it reaches zero; the composition then fades back in.
func (d *Driver) BeginTransition() {
	d.transition.begin(d.scheduler.EffectiveFadeDuration(), d.scheduler.motion.curve())
}

// Tick runs one frame: delta computation, limiter, fps accounting,
// transition, scheduler update and render onto dst. It reports whether the
// tick was accepted and rendered. dst may be nil to advance without drawing.
func (d *Driver) Tick(dst Surface) bool {
	if !d.running || d.paused {
		return false
	}
	now := d.clock.Now()

	var raw time.Duration
	if d.hasLast {
		raw = now.Sub(d.last)
		if d.limit && raw < d.minInterval {
			return false
		}
	}
	d.last = now
	d.hasLast = true

	dt := min(max(raw, 0), maxFrameDelta).Seconds()

	if fps, closed := d.quality.frame(now); closed {
		d.observers.emitFPS(fps)
		if prev, changed := d.quality.evaluate(fps); changed {
			d.log.Info().
				Str("event", "quality.downgrade").
				Str("from", prev.String()).
				Str("to", d.quality.tier.String()).
				Int("fps", fps).
				Msg("quality tier downgraded")
			d.observers.emitQuality(QualityEvent{Tier: d.quality.tier, Previous: prev, FPS: fps})
		}
	}

	if d.transition.update(dt, d.scheduler.EffectiveFadeDuration(), d.scheduler.motion.curve()) {
		d.observers.emitTransitionComplete()
	}

	d.scheduler.Update(dt)

	if dst != nil {
		d.compositor.Render(dst, d.scheduler.Zones(), d.transition.alpha)
	}
	return true
}

// Redraw renders the current state onto dst without advancing time.
func (d *Driver) Redraw(dst Surface) int {
	if dst == nil {
		return 0
	}
	return d.compositor.Render(dst, d.scheduler.Zones(), d.transition.alpha)
}

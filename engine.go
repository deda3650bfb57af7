package art0

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

// defaultPostCap bounds the cross-goroutine command queue.
const defaultPostCap = 64

// Options configures New. Zero values pick the documented defaults.
type Options struct {
	FadeDuration    float64        // seconds; 0 means 3
	HoldDuration    float64        // seconds; 0 means 2
	Easing          ease.TweenFunc // nil means DefaultEasing
	ReducedMotion   bool
	TargetFPS       int
	FrameLimit      bool
	AdaptiveQuality bool
	Thresholds      QualityThresholds
	Clock           Clock
	Rand            *rand.Rand
	Logger          *zerolog.Logger // nil discards
}

const (
	defaultFadeDuration = 3.0
	defaultHoldDuration = 2.0
)

// Snapshot is an immutable copy of the engine's observable state, safe to read
// from any goroutine.
type Snapshot struct {
	State           AnimationState
	Category        Category
	Index           int
	Set             int
	Fraction        float64
	FPS             int
	Tier            QualityTier
	TransitionAlpha float64
	Transitioning   bool
	Running         bool
	Paused          bool
	ReducedMotion   bool
	FadeDuration    float64
	HoldDuration    float64
}

// Engine owns the scheduler, compositor, frame driver and observer registry
// for one canvas. All methods except Post and Snapshot must be called from
// the goroutine that calls Tick.
type Engine struct {
	scheduler  *Scheduler
	compositor *Compositor
	driver     *Driver
	observers  *Observers
	log        zerolog.Logger

	posted   chan func(*Engine)
	snapshot atomic.Pointer[Snapshot]

	debug bool

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string
}

// New creates an engine that resolves image ids through provider.
func New(provider ImageProvider, opts Options) *Engine {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.FadeDuration == 0 {
		opts.FadeDuration = defaultFadeDuration
	}
	if opts.HoldDuration == 0 {
		opts.HoldDuration = defaultHoldDuration
	}

	obs := &Observers{}
	s := NewScheduler(provider, obs, SchedulerConfig{
		FadeDuration:  opts.FadeDuration,
		HoldDuration:  opts.HoldDuration,
		Easing:        opts.Easing,
		ReducedMotion: opts.ReducedMotion,
		Rand:          opts.Rand,
		Logger:        logger.With().Str("component", "scheduler").Logger(),
	})
	c := NewCompositor(logger.With().Str("component", "compositor").Logger())
	d := NewDriver(s, c, obs, DriverConfig{
		Clock:           opts.Clock,
		TargetFPS:       opts.TargetFPS,
		FrameLimit:      opts.FrameLimit,
		AdaptiveQuality: opts.AdaptiveQuality,
		Thresholds:      opts.Thresholds,
		Logger:          logger.With().Str("component", "driver").Logger(),
	})

	e := &Engine{
		scheduler:     s,
		compositor:    c,
		driver:        d,
		observers:     obs,
		log:           logger,
		posted:        make(chan func(*Engine), defaultPostCap),
		ScreenshotDir: "screenshots",
	}
	e.publish()
	return e
}

// Scheduler returns the zone scheduler.
func (e *Engine) Scheduler() *Scheduler { return e.scheduler }

// Compositor returns the compositor.
func (e *Engine) Compositor() *Compositor { return e.compositor }

// Driver returns the frame driver.
func (e *Engine) Driver() *Driver { return e.driver }

// Observers returns the callback registry.
func (e *Engine) Observers() *Observers { return e.observers }

// SetImages replaces the image pool and category order and resets the
// scheduler. Call Start afterwards to animate.
func (e *Engine) SetImages(images map[Category][]string, categories []Category) {
	e.scheduler.SetImages(images, categories)
	e.publish()
}

// SetBackground sets the image drawn beneath every zone.
func (e *Engine) SetBackground(img Image) { e.compositor.SetBackground(img) }

// SetFrame sets the overlay drawn above every zone.
func (e *Engine) SetFrame(img Image) { e.compositor.SetFrame(img) }

// Start begins animating. It is idempotent.
func (e *Engine) Start() {
	e.scheduler.Start()
	e.driver.Start()
	e.publish()
}

// Stop halts ticking and keeps all state.
func (e *Engine) Stop() {
	e.driver.Stop()
	e.scheduler.Stop()
	e.publish()
}

// Reset stops the engine and clears the cursor, used-image sets and zones.
func (e *Engine) Reset() {
	e.driver.Stop()
	e.scheduler.Reset()
	e.publish()
}

// Pause halts ticking while the output is hidden.
func (e *Engine) Pause() {
	e.driver.Pause()
	e.publish()
}

// Resume continues after Pause without a time jump.
func (e *Engine) Resume() {
	e.driver.Resume()
	e.publish()
}

// BeginTransition fades the whole composition out; see Driver.BeginTransition.
func (e *Engine) BeginTransition() {
	e.driver.BeginTransition()
	e.publish()
}

// SetFadeDuration sets the fade length in seconds from the next tick on.
func (e *Engine) SetFadeDuration(seconds float64) {
	e.scheduler.SetFadeDuration(seconds)
	e.publish()
}

// SetHoldDuration sets the hold length in seconds from the next tick on.
func (e *Engine) SetHoldDuration(seconds float64) {
	e.scheduler.SetHoldDuration(seconds)
	e.publish()
}

// SetReducedMotion applies the platform reduced-motion preference.
func (e *Engine) SetReducedMotion(on bool) {
	e.scheduler.SetReducedMotion(on)
	e.publish()
}

// SetEasing replaces the crossfade curve.
func (e *Engine) SetEasing(fn ease.TweenFunc) { e.scheduler.SetEasing(fn) }

// Resize updates the canvas geometry and immediately redraws the current
// state onto dst, which may be nil.
func (e *Engine) Resize(width, height, dpr float64, dst Surface) {
	e.compositor.Resize(width, height, dpr)
	e.driver.Redraw(dst)
}

// Post queues fn to run at the start of the next tick on the tick goroutine.
// It is the only way for other goroutines to change engine state. Post
// reports false when the queue is full.
func (e *Engine) Post(fn func(*Engine)) bool {
	select {
	case e.posted <- fn:
		return true
	default:
		e.log.Warn().Str("event", "engine.post_dropped").Msg("command queue full; dropping command")
		return false
	}
}

// drainPosted runs every queued command.
func (e *Engine) drainPosted() {
	for {
		select {
		case fn := <-e.posted:
			fn(e)
		default:
			return
		}
	}
}

// Tick drains posted commands and runs one driver tick onto dst. It reports
// whether a frame was rendered.
func (e *Engine) Tick(dst Surface) bool {
	e.drainPosted()

	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	rendered := e.driver.Tick(dst)
	if !rendered {
		return false
	}

	if e.debug {
		e.debugLog(frameStats{
			tickTime:     time.Since(t0),
			commandCount: len(e.compositor.Commands()),
			state:        e.scheduler.State(),
		})
	}

	if c, ok := dst.(Capturer); ok {
		e.flushScreenshots(c)
	}
	e.publish()
	return true
}

// Snapshot returns the state published by the last tick or control call.
func (e *Engine) Snapshot() Snapshot {
	return *e.snapshot.Load()
}

func (e *Engine) publish() {
	p := e.scheduler.Progress()
	e.snapshot.Store(&Snapshot{
		State:           p.State,
		Category:        p.Category,
		Index:           p.Index,
		Set:             p.Set,
		Fraction:        p.Fraction,
		FPS:             e.driver.FPS(),
		Tier:            e.driver.Tier(),
		TransitionAlpha: e.driver.TransitionAlpha(),
		Transitioning:   e.driver.Transitioning(),
		Running:         e.driver.Running() && e.scheduler.Running(),
		Paused:          e.driver.Paused(),
		ReducedMotion:   e.scheduler.ReducedMotion(),
		FadeDuration:    e.scheduler.FadeDuration(),
		HoldDuration:    e.scheduler.HoldDuration(),
	})
}

// SetDebugMode enables or disables per-frame timing logs at debug level.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

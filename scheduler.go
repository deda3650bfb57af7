package art0

import (
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

// maxSet bounds the cycle counter. It is display-only.
const maxSet = 1000

// phaseEpsilon absorbs float drift when summed frame deltas land a hair short
// of a phase boundary (ten 0.1s ticks sum to 0.9999999999999999).
const phaseEpsilon = 1e-9

// ZoneState is the visual state of one zone. Current and Incoming are
// non-owning references into the image provider's cache. Alpha is the fade
// progress of Incoming and is meaningful only while Incoming is set.
type ZoneState struct {
	Category   Category
	Current    Image
	CurrentID  string
	Incoming   Image
	IncomingID string
	Alpha      float64
}

// Progress describes where the scheduler is within its current phase.
type Progress struct {
	State    AnimationState
	Category Category
	Index    int
	Set      int     // 1-based
	Elapsed  float64 // seconds into the phase
	Duration float64 // seconds the phase lasts
	Fraction float64 // Elapsed / Duration, clamped to [0,1]
}

// SchedulerConfig holds the tunables for NewScheduler.
type SchedulerConfig struct {
	FadeDuration  float64 // seconds
	HoldDuration  float64 // seconds
	Easing        ease.TweenFunc
	ReducedMotion bool
	Rand          *rand.Rand // nil seeds from the runtime
	Logger        zerolog.Logger
}

// Scheduler is the zone state machine. It fades one zone at a time through
// the category order, holding each for HoldDuration before moving on:
//
//	IDLE -> FADING -> HOLDING -> FADING -> HOLDING -> ...
//
// Update must be called from a single goroutine at a steady cadence.
type Scheduler struct {
	provider  ImageProvider
	observers *Observers
	log       zerolog.Logger
	sel       *selector
	motion    motionPolicy

	categories []Category
	images     map[Category][]string
	zones      []ZoneState

	state        AnimationState
	running      bool
	elapsed      float64
	fadeDuration float64
	holdDuration float64

	zoneIndex int
	set       int
}

// NewScheduler creates an idle scheduler. provider resolves image ids chosen
// by the scheduler; observers receives status events and may be nil.
func NewScheduler(provider ImageProvider, observers *Observers, cfg SchedulerConfig) *Scheduler {
	if observers == nil {
		observers = &Observers{}
	}
	if provider == nil {
		provider = ImageProviderFunc(func(string) Image { return nil })
	}
	easing := cfg.Easing
	if easing == nil {
		easing = DefaultEasing()
	}
	s := &Scheduler{
		provider:  provider,
		observers: observers,
		log:       cfg.Logger,
		sel:       newSelector(cfg.Rand),
		motion:    motionPolicy{easing: easing, reduced: cfg.ReducedMotion},
		images:    make(map[Category][]string),
	}
	s.SetFadeDuration(cfg.FadeDuration)
	s.SetHoldDuration(cfg.HoldDuration)
	return s
}

// SetImages replaces the image pool and category order and resets all
// scheduler state. A category with no images keeps its slot in the cycle but
// never shows anything.
func (s *Scheduler) SetImages(images map[Category][]string, categories []Category) {
	s.categories = append([]Category(nil), categories...)
	s.images = make(map[Category][]string, len(categories))
	s.zones = make([]ZoneState, len(categories))
	for i, cat := range categories {
		ids := images[cat]
		s.images[cat] = append([]string(nil), ids...)
		s.zones[i].Category = cat
		if len(ids) == 0 {
			s.log.Warn().
				Str("event", "zone.empty_category").
				Str("category", string(cat)).
				Msg("category has no images; zone will stay empty")
		}
	}
	if len(categories) == 0 {
		s.log.Warn().
			Str("event", "scheduler.empty_input").
			Msg("no categories assigned; nothing will animate")
	}
	s.Reset()
}

// Start begins the fade cycle. It is a no-op while already running. A
// scheduler stopped mid-cycle resumes where it stopped.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	if s.state == StateIdle && len(s.categories) > 0 {
		s.beginFade()
	}
}

// Stop halts the state machine without discarding its state.
func (s *Scheduler) Stop() {
	s.running = false
}

// Running reports whether Start has been called without a matching Stop or
// Reset.
func (s *Scheduler) Running() bool {
	return s.running
}

// Reset stops the scheduler and returns the cursor, used-image sets, and all
// zone states to their initial empty values. The image pool is kept.
func (s *Scheduler) Reset() {
	s.running = false
	s.state = StateIdle
	s.elapsed = 0
	s.zoneIndex = 0
	s.set = 0
	s.sel.reset()
	for i := range s.zones {
		s.zones[i] = ZoneState{Category: s.zones[i].Category}
	}
}

// Update advances the state machine by dt seconds. At most one phase change
// happens per call; time beyond the phase boundary is discarded.
func (s *Scheduler) Update(dt float64) {
	if !s.running || len(s.categories) == 0 || !(dt > 0) {
		return
	}
	s.elapsed += dt

	switch s.state {
	case StateFading:
		fade := s.motion.fade(s.fadeDuration)
		p := 1.0
		if fade > 0 {
			p = s.elapsed / fade
		}
		z := &s.zones[s.zoneIndex]
		if z.Incoming != nil {
			z.Alpha = s.motion.apply(p)
		}
		if s.elapsed+phaseEpsilon >= fade {
			s.completeFade()
		}
	case StateHolding:
		if s.elapsed+phaseEpsilon >= s.holdDuration {
			s.advance()
			s.beginFade()
		}
	}
}

// beginFade selects the next image for the active zone and enters FADING.
func (s *Scheduler) beginFade() {
	cat := s.categories[s.zoneIndex]
	z := &s.zones[s.zoneIndex]
	z.Incoming, z.IncomingID, z.Alpha = nil, "", 0

	if id, ok := s.sel.pick(cat, s.images[cat]); ok {
		img := s.provider.Get(id)
		w, h := imageSize(img)
		switch {
		case img == nil:
			s.log.Warn().
				Str("event", "zone.missing_image").
				Str("category", string(cat)).
				Str("image", id).
				Msg("selected image is not loaded; zone skips this fade")
		case w <= 0 || h <= 0:
			s.log.Warn().
				Str("event", "compositor.degenerate_image").
				Str("category", string(cat)).
				Str("image", id).
				Msg("selected image has no area; zone skips this fade")
		default:
			z.Incoming, z.IncomingID = img, id
		}
	}

	s.state = StateFading
	s.elapsed = 0
	s.observers.emitStatus(StatusEvent{Category: cat, Index: s.zoneIndex, Set: s.set + 1})
}

// completeFade promotes the incoming image and enters HOLDING. The previous
// current image is dropped.
func (s *Scheduler) completeFade() {
	z := &s.zones[s.zoneIndex]
	if z.Incoming != nil {
		z.Current, z.CurrentID = z.Incoming, z.IncomingID
	}
	z.Incoming, z.IncomingID, z.Alpha = nil, "", 0
	s.state = StateHolding
	s.elapsed = 0
}

// advance moves the cursor one zone forward, bumping the set on wrap.
func (s *Scheduler) advance() {
	s.zoneIndex++
	if s.zoneIndex >= len(s.categories) {
		s.zoneIndex = 0
		s.set = (s.set + 1) % maxSet
	}
}

// SetFadeDuration sets the fade length in seconds. It applies from the next
// Update; negative values are treated as zero.
func (s *Scheduler) SetFadeDuration(seconds float64) {
	if !(seconds > 0) {
		seconds = 0
	}
	s.fadeDuration = seconds
}

// SetHoldDuration sets the hold length in seconds. It applies from the next
// Update; negative values are treated as zero.
func (s *Scheduler) SetHoldDuration(seconds float64) {
	if !(seconds > 0) {
		seconds = 0
	}
	s.holdDuration = seconds
}

// SetReducedMotion switches linear, near-instant fades on or off.
func (s *Scheduler) SetReducedMotion(on bool) {
	s.motion.reduced = on
}

// SetEasing replaces the crossfade curve. nil restores DefaultEasing.
func (s *Scheduler) SetEasing(fn ease.TweenFunc) {
	if fn == nil {
		fn = DefaultEasing()
	}
	s.motion.easing = fn
}

// ReducedMotion reports whether the reduced-motion preference is active.
func (s *Scheduler) ReducedMotion() bool { return s.motion.reduced }

// FadeDuration returns the configured fade length in seconds.
func (s *Scheduler) FadeDuration() float64 { return s.fadeDuration }

// HoldDuration returns the configured hold length in seconds.
func (s *Scheduler) HoldDuration() float64 { return s.holdDuration }

// EffectiveFadeDuration returns the fade length after the reduced-motion
// clamp.
func (s *Scheduler) EffectiveFadeDuration() float64 {
	return s.motion.fade(s.fadeDuration)
}

// State returns the current animation state.
func (s *Scheduler) State() AnimationState { return s.state }

// Categories returns the category order. The returned slice MUST NOT be
// mutated.
func (s *Scheduler) Categories() []Category { return s.categories }

// Cursor returns the active zone index and the 1-based set counter.
func (s *Scheduler) Cursor() (index, set int) {
	return s.zoneIndex, s.set + 1
}

// Progress returns timing for the current phase.
func (s *Scheduler) Progress() Progress {
	p := Progress{
		State:   s.state,
		Index:   s.zoneIndex,
		Set:     s.set + 1,
		Elapsed: s.elapsed,
	}
	if len(s.categories) > 0 {
		p.Category = s.categories[s.zoneIndex]
	}
	switch s.state {
	case StateFading:
		p.Duration = s.EffectiveFadeDuration()
	case StateHolding:
		p.Duration = s.holdDuration
	}
	if p.Duration > 0 {
		p.Fraction = clamp01(p.Elapsed / p.Duration)
	} else if s.state != StateIdle {
		p.Fraction = 1
	}
	return p
}

// Zone returns a copy of the zone state for cat.
func (s *Scheduler) Zone(cat Category) (ZoneState, bool) {
	for _, z := range s.zones {
		if z.Category == cat {
			return z, true
		}
	}
	return ZoneState{}, false
}

// Zones returns the zone states in category order. The returned slice MUST
// NOT be mutated.
func (s *Scheduler) Zones() []ZoneState { return s.zones }

package art0

import "time"

// frameStats holds per-tick timing and draw metrics.
// Only populated when the engine is in debug mode.
type frameStats struct {
	tickTime     time.Duration
	commandCount int
	state        AnimationState
}

// debugLog writes tick stats at debug level.
func (e *Engine) debugLog(stats frameStats) {
	if !e.debug {
		return
	}
	p := e.scheduler.Progress()
	e.log.Debug().
		Str("event", "engine.frame").
		Dur("tick", stats.tickTime).
		Int("draws", stats.commandCount).
		Str("state", stats.state.String()).
		Str("zone", string(p.Category)).
		Int("set", p.Set).
		Float64("transition_alpha", e.driver.TransitionAlpha()).
		Msg("frame")
}

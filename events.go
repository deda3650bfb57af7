package art0

import "slices"

// EventType identifies a kind of engine notification.
type EventType uint8

const (
	EventStatus             EventType = iota // a zone fade started
	EventFPS                                 // a one-second fps window closed
	EventQualityChange                       // the adaptive quality tier was downgraded
	EventTransitionComplete                  // a style-switch fade-out reached zero
)

// StatusEvent is emitted every time a zone starts fading in.
type StatusEvent struct {
	Category Category
	Index    int // zone index within the category order
	Set      int // 1-based cycle counter
}

// QualityEvent is emitted when the quality tier is downgraded.
type QualityEvent struct {
	Tier     QualityTier
	Previous QualityTier
	FPS      int
}

type handler[F any] struct {
	id uint32
	fn F
}

// Observers holds the registered engine callbacks. All callbacks run on the
// tick that produced the event; they must not block.
type Observers struct {
	status     []handler[func(StatusEvent)]
	fps        []handler[func(int)]
	quality    []handler[func(QualityEvent)]
	transition []handler[func()]
	nextID     uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *Observers
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventStatus:
		h.reg.status = removeHandler(h.reg.status, h.id)
	case EventFPS:
		h.reg.fps = removeHandler(h.reg.fps, h.id)
	case EventQualityChange:
		h.reg.quality = removeHandler(h.reg.quality, h.id)
	case EventTransitionComplete:
		h.reg.transition = removeHandler(h.reg.transition, h.id)
	}
}

// removeHandler returns a new slice without id. The old backing array is
// left untouched because an emit may still be ranging over it.
func removeHandler[F any](s []handler[F], id uint32) []handler[F] {
	if !slices.ContainsFunc(s, func(h handler[F]) bool { return h.id == id }) {
		return s
	}
	return slices.DeleteFunc(slices.Clone(s), func(h handler[F]) bool { return h.id == id })
}

// OnStatus registers fn to run whenever a zone fade starts.
func (o *Observers) OnStatus(fn func(StatusEvent)) CallbackHandle {
	o.nextID++
	o.status = append(o.status, handler[func(StatusEvent)]{id: o.nextID, fn: fn})
	return CallbackHandle{id: o.nextID, reg: o, event: EventStatus}
}

// OnFPS registers fn to receive the measured frames per second once per
// second.
func (o *Observers) OnFPS(fn func(int)) CallbackHandle {
	o.nextID++
	o.fps = append(o.fps, handler[func(int)]{id: o.nextID, fn: fn})
	return CallbackHandle{id: o.nextID, reg: o, event: EventFPS}
}

// OnQualityChange registers fn to run when the quality tier is downgraded.
func (o *Observers) OnQualityChange(fn func(QualityEvent)) CallbackHandle {
	o.nextID++
	o.quality = append(o.quality, handler[func(QualityEvent)]{id: o.nextID, fn: fn})
	return CallbackHandle{id: o.nextID, reg: o, event: EventQualityChange}
}

// OnTransitionComplete registers fn to run when a transition fade-out
// finishes.
func (o *Observers) OnTransitionComplete(fn func()) CallbackHandle {
	o.nextID++
	o.transition = append(o.transition, handler[func()]{id: o.nextID, fn: fn})
	return CallbackHandle{id: o.nextID, reg: o, event: EventTransitionComplete}
}

func (o *Observers) emitStatus(ev StatusEvent) {
	for _, h := range o.status {
		h.fn(ev)
	}
}

func (o *Observers) emitFPS(fps int) {
	for _, h := range o.fps {
		h.fn(fps)
	}
}

func (o *Observers) emitQuality(ev QualityEvent) {
	for _, h := range o.quality {
		h.fn(ev)
	}
}

func (o *Observers) emitTransitionComplete() {
	for _, h := range o.transition {
		h.fn()
	}
}

package art0

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// scriptStep is a single action in a timeline script.
type scriptStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Count   int     `json:"count,omitempty"`
	On      bool    `json:"on,omitempty"`
}

// scriptFile is the top-level JSON structure for a timeline script.
type scriptFile struct {
	FPS   float64      `json:"fps,omitempty"`
	Steps []scriptStep `json:"steps"`
}

// FrameSink receives every frame a script renders. label is empty for
// ordinary frames and set for "screenshot" steps.
type FrameSink func(frame int, label string) error

// Script drives an engine through a fixed timeline against a ManualClock so
// headless renders are reproducible.
//
// Actions:
//
//	{"action":"frames","count":N}          render N frames, each sent to the sink
//	{"action":"advance","seconds":S}       tick for S seconds without output
//	{"action":"screenshot","label":"x"}    render one frame and send it labeled
//	{"action":"transition"}                begin a style-switch fade-out
//	{"action":"pause"} / {"action":"resume"}
//	{"action":"wait","seconds":S}          move the clock without ticking
//	{"action":"reduced_motion","on":true}
//	{"action":"start"} / {"action":"stop"} / {"action":"reset"}
type Script struct {
	fps   float64
	steps []scriptStep
}

// DefaultScriptFPS is the frame rate used when a script does not set one.
const DefaultScriptFPS = 60

var scriptActions = map[string]bool{
	"frames": true, "advance": true, "screenshot": true, "transition": true,
	"pause": true, "resume": true, "wait": true, "reduced_motion": true,
	"start": true, "stop": true, "reset": true,
}

// LoadScript parses a JSON timeline script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	if f.FPS <= 0 {
		f.FPS = DefaultScriptFPS
	}
	return &Script{fps: f.FPS, steps: f.Steps}, nil
}

// FramesScript returns a script that renders seconds worth of frames at fps.
func FramesScript(seconds, fps float64) *Script {
	if fps <= 0 {
		fps = DefaultScriptFPS
	}
	return &Script{
		fps:   fps,
		steps: []scriptStep{{Action: "frames", Count: int(math.Ceil(seconds * fps))}},
	}
}

// FPS returns the script's frame rate.
func (s *Script) FPS() float64 { return s.fps }

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// Run executes the script. Each tick advances clock by one frame interval.
// The engine must have been created with clock as its Clock and should not
// use the frame limiter.
func (s *Script) Run(e *Engine, clock *ManualClock, dst Surface, sink FrameSink) error {
	step := time.Duration(float64(time.Second) / s.fps)
	frame := 0

	tick := func(emit bool, label string) error {
		clock.Advance(step)
		if !e.Tick(dst) || !emit || sink == nil {
			return nil
		}
		frame++
		return sink(frame, label)
	}

	for i, st := range s.steps {
		var err error
		switch st.Action {
		case "frames":
			for n := 0; n < st.Count && err == nil; n++ {
				err = tick(true, "")
			}
		case "advance":
			n := int(math.Ceil(st.Seconds * s.fps))
			for k := 0; k < n && err == nil; k++ {
				err = tick(false, "")
			}
		case "screenshot":
			label := st.Label
			if label == "" {
				label = "unlabeled"
			}
			err = tick(true, label)
		case "transition":
			e.BeginTransition()
		case "pause":
			e.Pause()
		case "resume":
			e.Resume()
		case "wait":
			clock.Advance(time.Duration(st.Seconds * float64(time.Second)))
		case "reduced_motion":
			e.SetReducedMotion(st.On)
		case "start":
			e.Start()
		case "stop":
			e.Stop()
		case "reset":
			e.Reset()
		}
		if err != nil {
			return fmt.Errorf("script step %d (%s): %w", i, st.Action, err)
		}
	}
	return nil
}

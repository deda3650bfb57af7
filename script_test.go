package art0

import (
	"errors"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"fps": 30,
		"steps": [
			{"action": "start"},
			{"action": "frames", "count": 3},
			{"action": "screenshot", "label": "mid-fade"},
			{"action": "reduced_motion", "on": true},
			{"action": "wait", "seconds": 2}
		]
	}`)

	s, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.FPS() != 30 || s.Len() != 5 {
		t.Fatalf("fps = %v len = %d, want 30 5", s.FPS(), s.Len())
	}
	if s.steps[1].Action != "frames" || s.steps[1].Count != 3 {
		t.Error("step 1 mismatch")
	}
	if s.steps[2].Label != "mid-fade" {
		t.Error("step 2 mismatch")
	}
	if !s.steps[3].On {
		t.Error("step 3 mismatch")
	}
	if s.steps[4].Seconds != 2 {
		t.Error("step 4 mismatch")
	}
}

func TestLoadScript_DefaultFPS(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [{"action": "start"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.FPS() != DefaultScriptFPS {
		t.Errorf("FPS = %v, want %v", s.FPS(), DefaultScriptFPS)
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	for name, data := range map[string]string{
		"not json":       `not json`,
		"empty steps":    `{"steps": []}`,
		"unknown action": `{"steps": [{"action": "click"}]}`,
	} {
		if _, err := LoadScript([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFramesScript(t *testing.T) {
	s := FramesScript(1.5, 10)
	if s.Len() != 1 || s.steps[0].Count != 15 {
		t.Errorf("steps = %+v, want one frames step of 15", s.steps)
	}
	if FramesScript(1, 0).FPS() != DefaultScriptFPS {
		t.Error("zero fps not defaulted")
	}
}

type sinkCall struct {
	frame int
	label string
}

func TestScriptRun(t *testing.T) {
	images, cats := twoByTwo()
	e, clock := newTestEngine(t, images, cats, Options{FadeDuration: 0.3, HoldDuration: 1})

	s, err := LoadScript([]byte(`{
		"fps": 10,
		"steps": [
			{"action": "start"},
			{"action": "frames", "count": 2},
			{"action": "pause"},
			{"action": "frames", "count": 5},
			{"action": "resume"},
			{"action": "advance", "seconds": 0.3},
			{"action": "screenshot", "label": "held"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	var calls []sinkCall
	surf := NewRasterSurface(100, 100)
	err = s.Run(e, clock, surf, func(frame int, label string) error {
		calls = append(calls, sinkCall{frame, label})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []sinkCall{{1, ""}, {2, ""}, {3, "held"}}
	if len(calls) != len(want) {
		t.Fatalf("sink calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
	// fade time: 0.1 before the pause, then 0 + 0.1 + 0.1 after resuming
	if e.Snapshot().State != StateHolding {
		t.Errorf("State = %v, want holding", e.Snapshot().State)
	}
}

func TestScriptRunSinkError(t *testing.T) {
	images, cats := twoByTwo()
	e, clock := newTestEngine(t, images, cats, Options{})
	e.Start()

	boom := errors.New("disk full")
	err := FramesScript(1, 10).Run(e, clock, NewRasterSurface(10, 10), func(int, string) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

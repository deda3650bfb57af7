package art0

import (
	"strings"
	"testing"
)

func TestHUDText(t *testing.T) {
	snap := Snapshot{
		State:    StateHolding,
		Category: "cyan",
		Index:    2,
		Set:      5,
		FPS:      58,
		Tier:     TierB,
	}
	got := hudText(snap, 59.94)
	want := "FPS: 58 (59.9)\nTier: B\nZone: cyan #3\nSet: 5\nState: holding"
	if got != want {
		t.Errorf("hudText = %q, want %q", got, want)
	}

	snap.Paused = true
	if got := hudText(snap, 0); !strings.HasSuffix(got, "holding (paused)") {
		t.Errorf("paused text = %q", got)
	}
}

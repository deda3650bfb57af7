package art0

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is how often the overlay text is rebuilt.
const hudRefresh = 500 * time.Millisecond

// hud is the debug overlay: measured fps, quality tier, active zone and set.
// Its text is rebuilt every ~0.5 seconds into a small offscreen image.
type hud struct {
	img      *ebiten.Image
	last     time.Time
	text     string
	lastText string
}

func newHUD() *hud {
	// 190x64 is enough for five short lines of debug text
	return &hud{img: ebiten.NewImage(190, 64)}
}

// update rebuilds the overlay text from snap when the refresh interval has
// passed.
func (h *hud) update(snap Snapshot) {
	now := time.Now()
	if !h.last.IsZero() && now.Sub(h.last) < hudRefresh {
		return
	}
	h.last = now
	h.text = hudText(snap, ebiten.ActualFPS())
	if h.text == h.lastText {
		return
	}
	h.lastText = h.text

	h.img.Clear()
	// semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, h.text)
}

func (h *hud) draw(screen *ebiten.Image) {
	screen.DrawImage(h.img, nil)
}

func hudText(snap Snapshot, actual float64) string {
	paused := ""
	if snap.Paused {
		paused = " (paused)"
	}
	return fmt.Sprintf("FPS: %d (%.1f)\nTier: %s\nZone: %s #%d\nSet: %d\nState: %s%s",
		snap.FPS, actual, snap.Tier, snap.Category, snap.Index+1, snap.Set, snap.State, paused)
}

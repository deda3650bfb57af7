package art0

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures Run.
type RunConfig struct {
	Title  string
	Width  int // initial window width in logical pixels
	Height int // initial window height in logical pixels

	// ShowHUD draws the debug overlay (fps, tier, zone, set).
	ShowHUD bool

	// PauseOnBlur pauses the engine while the window is unfocused, the
	// desktop stand-in for page visibility.
	PauseOnBlur bool

	// Quit, when set, is polled every update; returning true closes the
	// window.
	Quit func() bool
}

// Game adapts an Engine to ebiten.Game. Ticks run from Draw, which ebiten
// calls once per vsync.
type Game struct {
	engine  *Engine
	cfg     RunConfig
	surface EbitenSurface
	hud     *hud

	outsideW, outsideH int
	dpr                float64
	resized            bool
	focused            bool
}

// NewGame wraps e for ebiten.RunGame.
func NewGame(e *Engine, cfg RunConfig) *Game {
	g := &Game{
		engine:  e,
		cfg:     cfg,
		surface: EbitenSurface{scale: 1},
		focused: true,
	}
	if cfg.ShowHUD {
		g.hud = newHUD()
	}
	return g
}

// Update relays focus changes as pause/resume and ends the game once Quit
// reports true. Animation time is advanced in Draw.
func (g *Game) Update() error {
	if g.cfg.Quit != nil && g.cfg.Quit() {
		return ebiten.Termination
	}
	if !g.cfg.PauseOnBlur {
		return nil
	}
	focused := ebiten.IsFocused()
	if focused == g.focused {
		return nil
	}
	g.focused = focused
	if focused {
		g.engine.Resume()
	} else {
		g.engine.Pause()
	}
	return nil
}

// Draw runs one engine tick onto screen. Frames skipped by the limiter keep
// the previous image because the screen is not cleared between frames.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.Target = screen
	if g.resized {
		g.resized = false
		g.engine.Resize(float64(g.outsideW), float64(g.outsideH), g.dpr, &g.surface)
	}
	rendered := g.engine.Tick(&g.surface)
	if g.hud != nil {
		g.hud.update(g.engine.Snapshot())
		if rendered {
			g.hud.draw(screen)
		}
	}
}

// Layout reports a backing store scaled by the device pixel ratio (capped at
// 2) and records size changes for an immediate redraw.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH || dpr != g.dpr {
		g.outsideW, g.outsideH, g.dpr = outsideWidth, outsideHeight, dpr
		g.resized = true
	}
	scale := effectiveDPR(dpr)
	return max(int(math.Ceil(float64(outsideWidth)*scale)), 1),
		max(int(math.Ceil(float64(outsideHeight)*scale)), 1)
}

// Run opens a window and drives e until the window is closed.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "art0"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(NewGame(e, cfg))
}

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/art0"
	"github.com/phanxgames/art0/internal/config"
	xlog "github.com/phanxgames/art0/internal/log"
)

type renderOptions struct {
	Out     string
	Script  string // JSON timeline; empty renders Seconds at FPS
	Seconds float64
	FPS     float64
	Width   int
	Height  int
	DPR     float64
	Seed    uint64
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to PNG files without a window",
		Long: "Render drives the animation against a simulated clock and writes every frame as a PNG. " +
			"The same seed and script always produce the same frames.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if opts.Width <= 0 {
				opts.Width = cfg.Window.Width
			}
			if opts.Height <= 0 {
				opts.Height = cfg.Window.Height
			}
			n, err := runRender(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", n, opts.Out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.Out, "out", "o", "frames", "output directory")
	f.StringVar(&opts.Script, "script", "", "JSON timeline script")
	f.Float64Var(&opts.Seconds, "seconds", 10, "seconds to render when no script is given")
	f.Float64Var(&opts.FPS, "fps", 30, "frames per second when no script is given")
	f.IntVar(&opts.Width, "width", 0, "canvas width in logical pixels (default: window width)")
	f.IntVar(&opts.Height, "height", 0, "canvas height in logical pixels (default: window height)")
	f.Float64Var(&opts.DPR, "dpr", 1, "device pixel ratio")
	f.Uint64Var(&opts.Seed, "seed", 1, "random seed for image selection")
	return cmd
}

// runRender writes the rendered frames into opts.Out and returns how many
// were written.
func runRender(ctx context.Context, cfg config.Config, opts renderOptions) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	script, err := renderScript(opts)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	logger := xlog.WithComponent("render")
	sc, err := openScene(ctx, cfg, nil, logger)
	if err != nil {
		return 0, err
	}

	clock := art0.NewManualClock(time.Unix(0, 0).UTC())
	e := newEngine(sc, cfg, art0.Options{
		Clock: clock,
		Rand:  rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
	}, xlog.WithComponent("engine"))
	e.Driver().SetFrameLimit(false)
	e.Driver().SetAdaptiveQuality(false)
	e.ScreenshotDir = opts.Out

	e.Resize(float64(opts.Width), float64(opts.Height), opts.DPR, nil)
	bw, bh := e.Compositor().BackingSize()
	surface := art0.NewRasterSurface(bw, bh)

	written := 0
	sink := func(frame int, label string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fmt.Sprintf("frame_%05d.png", frame)
		if label != "" {
			name = fmt.Sprintf("frame_%05d_%s.png", frame, fileLabel(label))
		}
		if err := art0.SavePNG(filepath.Join(opts.Out, name), surface.Capture()); err != nil {
			return err
		}
		written++
		return nil
	}

	e.Start()
	err = script.Run(e, clock, surface, sink)
	logger.Info().
		Str("event", "render.done").
		Int("frames", written).
		Str("out", opts.Out).
		Msg("render finished")
	return written, err
}

func renderScript(opts renderOptions) (*art0.Script, error) {
	if opts.Script == "" {
		if !(opts.Seconds > 0) || !(opts.FPS > 0) {
			return nil, fmt.Errorf("seconds and fps must be positive")
		}
		return art0.FramesScript(opts.Seconds, opts.FPS), nil
	}
	data, err := os.ReadFile(opts.Script)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return art0.LoadScript(data)
}

// fileLabel keeps letters, digits, '-' and '_' and replaces the rest with
// '_'.
func fileLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, label)
}

package main

import (
	"context"
	"errors"
	"image"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/phanxgames/art0"
	"github.com/phanxgames/art0/internal/config"
	xlog "github.com/phanxgames/art0/internal/log"
	"github.com/phanxgames/art0/internal/metrics"
	"github.com/phanxgames/art0/internal/server"
)

func newPlayCmd(flags *rootFlags) *cobra.Command {
	var (
		hud    bool
		listen string
		debug  bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open a window and play the animation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("hud") {
				cfg.HUD = hud
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			return runPlay(cmd.Context(), flags.configPath, cfg, debug)
		},
	}
	cmd.Flags().BoolVar(&hud, "hud", false, "draw the fps/zone overlay")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP API address (empty disables)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every scheduler step")
	return cmd
}

func ebitenImage(img image.Image) art0.Image {
	return ebiten.NewImageFromImage(img)
}

func runPlay(parent context.Context, path string, cfg config.Config, debug bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger := xlog.WithComponent("play")

	sc, err := openScene(ctx, cfg, ebitenImage, logger)
	if err != nil {
		return err
	}
	engineLog := xlog.WithComponent("engine")
	e := newEngine(sc, cfg, art0.Options{}, engineLog)
	e.SetDebugMode(debug)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics.NewRecorder(reg).Attach(e.Observers())

	holder := config.NewHolder(cfg, path, xlog.WithComponent("config"))
	if err := holder.StartWatcher(ctx); err != nil {
		logger.Warn().Err(err).Str("event", "config.watcher_failed").Msg("hot reload disabled")
	}
	defer holder.Stop()
	go watchConfig(ctx, holder, newSwitcher(sc, e, cfg, logger), logger)

	if cfg.Listen != "" {
		srv := &http.Server{
			Addr: cfg.Listen,
			Handler: server.New(server.Config{
				Catalog:  sc.cat,
				Status:   e,
				Gatherer: reg,
				Logger:   xlog.WithComponent("http"),
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go serveHTTP(srv, logger)
		defer shutdownHTTP(srv, logger)
	}

	var quit atomic.Bool
	go func() {
		<-ctx.Done()
		quit.Store(true)
	}()

	e.Start()
	return art0.Run(e, art0.RunConfig{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		ShowHUD:     cfg.HUD,
		PauseOnBlur: true,
		Quit:        quit.Load,
	})
}

func serveHTTP(srv *http.Server, logger zerolog.Logger) {
	logger.Info().Str("event", "http.listening").Str("addr", srv.Addr).Msg("HTTP API listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Str("event", "http.failed").Msg("HTTP API stopped")
	}
}

func shutdownHTTP(srv *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Str("event", "http.shutdown_failed").Msg("HTTP API shutdown")
	}
}

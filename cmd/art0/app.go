package main

import (
	"context"
	"errors"
	"image"

	"github.com/rs/zerolog"

	"github.com/phanxgames/art0"
	"github.com/phanxgames/art0/internal/catalog"
	"github.com/phanxgames/art0/internal/config"
	"github.com/phanxgames/art0/internal/imagecache"
)

// scene bundles what every engine-backed command needs.
type scene struct {
	cat   *catalog.Catalog
	cache *imagecache.Cache
	sel   catalog.Selection
}

// openScene resolves the configured style and preloads its images. Images
// that fail to decode are logged and left out; the scheduler treats them as
// absent.
func openScene(ctx context.Context, cfg config.Config, convert func(image.Image) art0.Image, logger zerolog.Logger) (*scene, error) {
	cat := catalog.Open(cfg.Assets)
	sel, err := cat.Select(cfg.Style, cfg.Resolution, cfg.Intro, cfg.Frame)
	if err != nil {
		return nil, err
	}
	cache := imagecache.New(cat.FS(), imagecache.Config{
		Convert: convert,
		Logger:  logger.With().Str("component", "imagecache").Logger(),
	})
	if err := cache.Preload(ctx, sel.IDs(), 0); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn().Err(err).Str("event", "scene.partial_preload").Msg("some images failed to load")
	}
	logger.Info().
		Str("event", "scene.ready").
		Str("style", sel.Style).
		Int("resolution", sel.Resolution).
		Int("images", cache.Len()).
		Msg("style loaded")
	return &scene{cat: cat, cache: cache, sel: sel}, nil
}

// install points e at the scene's selection. It does not start the engine.
func (s *scene) install(e *art0.Engine) {
	e.SetImages(s.sel.Images, s.cat.Categories())
	e.SetBackground(s.lookup(s.sel.Background))
	e.SetFrame(s.lookup(s.sel.Frame))
}

func (s *scene) lookup(id string) art0.Image {
	if id == "" {
		return nil
	}
	return s.cache.Get(id)
}

// newEngine builds an engine from cfg. Apply runs after New so a zero fade
// from the file is kept rather than replaced by the default.
func newEngine(s *scene, cfg config.Config, opts art0.Options, logger zerolog.Logger) *art0.Engine {
	base := cfg.EngineOptions()
	base.Clock = opts.Clock
	base.Rand = opts.Rand
	base.Logger = &logger
	e := art0.New(s.cache, base)
	cfg.Apply(e)
	s.install(e)
	return e
}

// switcher swaps styles on a running engine: the new selection is preloaded
// off the tick goroutine, the engine fades out, and the images are replaced
// when the fade-out completes.
type switcher struct {
	scene  *scene
	engine *art0.Engine
	log    zerolog.Logger

	current config.Config
	pending *catalog.Selection // touched only on the tick goroutine
}

func newSwitcher(s *scene, e *art0.Engine, cfg config.Config, logger zerolog.Logger) *switcher {
	sw := &switcher{scene: s, engine: e, log: logger, current: cfg}
	e.Observers().OnTransitionComplete(sw.complete)
	return sw
}

func styleChanged(a, b config.Config) bool {
	return a.Style != b.Style || a.Resolution != b.Resolution ||
		a.Frame != b.Frame || a.Intro != b.Intro || a.Assets != b.Assets
}

// apply handles a reloaded configuration. It must not run on the tick
// goroutine because it may block on decoding.
func (sw *switcher) apply(ctx context.Context, cfg config.Config) error {
	prev := sw.current
	sw.current = cfg
	sw.engine.Post(cfg.Apply)
	if !styleChanged(prev, cfg) {
		return nil
	}
	if cfg.Assets != prev.Assets {
		sw.log.Warn().Str("event", "scene.assets_ignored").Msg("assets directory changes need a restart")
	}

	sel, err := sw.scene.cat.Select(cfg.Style, cfg.Resolution, cfg.Intro, cfg.Frame)
	if err != nil {
		return err
	}
	if err := sw.scene.cache.Preload(ctx, sel.IDs(), 0); err != nil {
		if ctx.Err() != nil {
			return err
		}
		sw.log.Warn().Err(err).Str("event", "scene.partial_preload").Msg("some images failed to load")
	}
	ok := sw.engine.Post(func(e *art0.Engine) {
		sw.pending = &sel
		e.BeginTransition()
	})
	if !ok {
		return errors.New("style switch dropped: engine queue full")
	}
	sw.log.Info().
		Str("event", "scene.switching").
		Str("style", sel.Style).
		Int("resolution", sel.Resolution).
		Msg("switching style")
	return nil
}

func (sw *switcher) complete() {
	if sw.pending == nil {
		return
	}
	sel := *sw.pending
	sw.pending = nil

	sw.scene.sel = sel
	sw.scene.install(sw.engine)
	sw.engine.Start()
	sw.scene.cache.Retain(sel.IDs())
}

// watchConfig feeds reloads from h into sw until ctx is done.
func watchConfig(ctx context.Context, h *config.Holder, sw *switcher, logger zerolog.Logger) {
	updates := make(chan config.Config, 1)
	h.Subscribe(updates)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-updates:
			if err := sw.apply(ctx, cfg); err != nil {
				logger.Error().Err(err).Str("event", "scene.switch_failed").Msg("style switch failed")
			}
		}
	}
}

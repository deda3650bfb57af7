package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDebounce coalesces the burst of events editors produce on save.
const reloadDebounce = 250 * time.Millisecond

// Holder holds the current configuration and reloads it when the file
// changes. A reload that fails to parse or validate keeps the old config.
type Holder struct {
	mu      sync.RWMutex
	current Config
	path    string
	logger  zerolog.Logger

	listenMu  sync.RWMutex
	listeners []chan<- Config

	cancel context.CancelFunc
	done   chan struct{}
}

// NewHolder creates a holder with initial config loaded from path.
func NewHolder(initial Config, path string, logger zerolog.Logger) *Holder {
	return &Holder{
		current: initial,
		path:    path,
		logger:  logger,
	}
}

// Get returns the current configuration.
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload reads and validates the file, then swaps it in and notifies
// listeners.
func (h *Holder) Reload() error {
	h.logger.Info().Str("event", "config.reload_start").Msg("reloading configuration")

	next, err := Load(h.path)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("keeping previous configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()

	h.logChanges(prev, next)
	h.notify(next)
	h.logger.Info().Str("event", "config.reload_success").Msg("configuration reloaded")
	return nil
}

// Subscribe registers ch to receive every successfully reloaded config.
// Sends never block; a full channel misses that update.
func (h *Holder) Subscribe(ch chan<- Config) {
	h.listenMu.Lock()
	defer h.listenMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notify(cfg Config) {
	h.listenMu.RLock()
	defer h.listenMu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.logger.Warn().
				Str("event", "config.listener_skip").
				Msg("listener channel full; update skipped")
		}
	}
}

// StartWatcher watches the config file and reloads on change until ctx is
// done or Stop is called. It is a no-op without a file path.
//
// The parent directory is watched rather than the file, so editors that
// save by rename keep triggering reloads.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.path == "" {
		h.logger.Info().
			Str("event", "config.watcher_disabled").
			Msg("no config file; watcher disabled")
		return nil
	}
	if h.done != nil {
		return fmt.Errorf("config watcher already started")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(h.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	h.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", h.path).
		Msg("watching config file for changes")

	go h.watchLoop(ctx, w)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	defer close(h.done)
	defer func() { _ = w.Close() }()

	target := filepath.Clean(h.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			h.logger.Debug().
				Str("event", "config.file_changed").
				Str("op", ev.Op.String()).
				Msg("config file changed")
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_ = h.Reload()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop ends the watcher and waits for it to exit.
func (h *Holder) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Holder) logChanges(prev, next Config) {
	if prev.Style != next.Style || prev.Resolution != next.Resolution {
		h.logger.Info().
			Str("event", "config.style_changed").
			Str("old", prev.Style).
			Str("new", next.Style).
			Int("resolution", next.Resolution).
			Msg("config changed: style")
	}
	if prev.FadeSeconds != next.FadeSeconds || prev.HoldSeconds != next.HoldSeconds {
		h.logger.Info().
			Float64("fade", next.FadeSeconds).
			Float64("hold", next.HoldSeconds).
			Msg("config changed: timing")
	}
	if prev.ReducedMotion != next.ReducedMotion {
		h.logger.Info().
			Bool("old", prev.ReducedMotion).
			Bool("new", next.ReducedMotion).
			Msg("config changed: reduced_motion")
	}
}

// Package server exposes the asset catalog, the asset files and the live
// engine status over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/phanxgames/art0"
	"github.com/phanxgames/art0/internal/catalog"
)

// StatusSource supplies the latest engine snapshot. *art0.Engine satisfies
// it.
type StatusSource interface {
	Snapshot() art0.Snapshot
}

// Config configures New.
type Config struct {
	Catalog  *catalog.Catalog
	Status   StatusSource        // nil answers /api/status with 503
	Gatherer prometheus.Gatherer // nil disables /metrics

	RequestLimit int           // per IP per Window; 0 means 600
	Window       time.Duration // 0 means one minute
	Logger       zerolog.Logger
}

type server struct {
	cat    *catalog.Catalog
	status StatusSource
	log    zerolog.Logger
}

// New builds the HTTP handler.
func New(cfg Config) http.Handler {
	if cfg.RequestLimit <= 0 {
		cfg.RequestLimit = 600
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	s := &server{cat: cfg.Catalog, status: cfg.Status, log: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(AccessLog(cfg.Logger))

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(cfg.RequestLimit, cfg.Window))
		r.Get("/api/styles", s.handleStyles)
		r.Get("/api/style/{name}", s.handleStyle)
		r.Get("/api/style/{name}/{resolution}", s.handleStyleResolution)
		r.Get("/api/status", s.handleStatus)
	})

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(cfg.Catalog.FS())))

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type stylesResponse struct {
	Styles     map[string][]int          `json:"styles"`
	Frames     map[string]*string        `json:"frames"`
	Intros     map[int]map[string]string `json:"intros"`
	Categories []art0.Category           `json:"categories"`
}

type styleResponse struct {
	Style      string                     `json:"style"`
	Resolution int                        `json:"resolution"`
	Images     map[art0.Category][]string `json:"images"`
}

type statusResponse struct {
	State           string  `json:"state"`
	Category        string  `json:"category"`
	Index           int     `json:"index"`
	Set             int     `json:"set"`
	Fraction        float64 `json:"fraction"`
	FPS             int     `json:"fps"`
	Tier            string  `json:"tier"`
	TransitionAlpha float64 `json:"transition_alpha"`
	Transitioning   bool    `json:"transitioning"`
	Running         bool    `json:"running"`
	Paused          bool    `json:"paused"`
	ReducedMotion   bool    `json:"reduced_motion"`
	FadeSeconds     float64 `json:"fade_seconds"`
	HoldSeconds     float64 `json:"hold_seconds"`
}

func (s *server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	styles, err := s.cat.Styles()
	if err != nil {
		s.fail(w, err)
		return
	}
	frames, err := s.cat.Frames()
	if err != nil {
		s.fail(w, err)
		return
	}
	intros, err := s.cat.Intros()
	if err != nil {
		s.fail(w, err)
		return
	}

	out := stylesResponse{
		Styles:     styles,
		Frames:     make(map[string]*string, len(frames)),
		Intros:     intros,
		Categories: s.cat.Categories(),
	}
	for name, id := range frames {
		if id == "" {
			out.Frames[name] = nil
			continue
		}
		out.Frames[name] = &id
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleStyle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	res, err := s.cat.Resolve(name, catalog.PreferredResolution)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeStyle(w, name, res)
}

func (s *server) handleStyleResolution(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	res, err := strconv.Atoi(chi.URLParam(r, "resolution"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.writeStyle(w, name, res)
}

func (s *server) writeStyle(w http.ResponseWriter, name string, res int) {
	images, err := s.cat.Images(name, res)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, styleResponse{Style: name, Resolution: res, Images: images})
}

func (s *server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if s.status == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "No engine running"})
		return
	}
	snap := s.status.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		State:           snap.State.String(),
		Category:        string(snap.Category),
		Index:           snap.Index,
		Set:             snap.Set,
		Fraction:        snap.Fraction,
		FPS:             snap.FPS,
		Tier:            snap.Tier.String(),
		TransitionAlpha: snap.TransitionAlpha,
		Transitioning:   snap.Transitioning,
		Running:         snap.Running,
		Paused:          snap.Paused,
		ReducedMotion:   snap.ReducedMotion,
		FadeSeconds:     snap.FadeDuration,
		HoldSeconds:     snap.HoldDuration,
	})
}

// fail maps catalog errors onto 404s and everything else onto 500.
func (s *server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrStyleNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Style not found"})
	case errors.Is(err, catalog.ErrResolutionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Resolution not available"})
	default:
		s.log.Error().Err(err).Str("event", "catalog.scan_failed").Msg("catalog request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

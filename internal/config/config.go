// Package config loads, validates and hot-reloads the art0 YAML
// configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phanxgames/art0"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig classifies validation failures. Use errors.Is.
var ErrInvalidConfig = errors.New("invalid config")

// EnvReducedMotion forces reduced motion when set to a true value.
const EnvReducedMotion = "ART0_REDUCED_MOTION"

// Window is the desktop window geometry.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config is the full art0 configuration.
type Config struct {
	Assets     string `yaml:"assets"`
	Style      string `yaml:"style"`      // empty picks the first style
	Resolution int    `yaml:"resolution"` // preferred; falls back to the lowest available
	Frame      string `yaml:"frame"`      // cadre name or "none"
	Intro      string `yaml:"intro"`      // intro prefix used as background, "" for none

	FadeSeconds   float64 `yaml:"fade_seconds"`
	HoldSeconds   float64 `yaml:"hold_seconds"`
	ReducedMotion bool    `yaml:"reduced_motion"`
	Easing        string  `yaml:"easing"`

	FrameLimit      bool `yaml:"frame_limit"`
	TargetFPS       int  `yaml:"target_fps"`
	AdaptiveQuality bool `yaml:"adaptive_quality"`

	Window   Window `yaml:"window"`
	LogLevel string `yaml:"log_level"`
	Listen   string `yaml:"listen"` // HTTP API address, "" disables it
	HUD      bool   `yaml:"hud"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Assets:          "assets",
		Resolution:      1680,
		Frame:           "none",
		Intro:           "intro",
		FadeSeconds:     3,
		HoldSeconds:     2,
		Easing:          "cubic",
		FrameLimit:      true,
		TargetFPS:       art0.DefaultTargetFPS,
		AdaptiveQuality: true,
		Window:          Window{Width: 1280, Height: 720, Title: "art0"},
		LogLevel:        "info",
		Listen:          ":5000",
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode parses YAML strictly: unknown keys are errors.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvReducedMotion); ok {
		if on, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.ReducedMotion = on
		}
	}
}

// Validate reports every problem in cfg, each wrapped with ErrInvalidConfig.
func Validate(cfg Config) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if cfg.FadeSeconds < 0 {
		bad("fade_seconds must be >= 0, got %v", cfg.FadeSeconds)
	}
	if cfg.HoldSeconds < 0 {
		bad("hold_seconds must be >= 0, got %v", cfg.HoldSeconds)
	}
	if _, err := art0.EasingByName(cfg.Easing); err != nil {
		bad("easing must be one of %s, got %q", strings.Join(art0.EasingNames(), ", "), cfg.Easing)
	}
	if cfg.TargetFPS <= 0 {
		bad("target_fps must be > 0, got %d", cfg.TargetFPS)
	}
	if cfg.Resolution < 0 {
		bad("resolution must be >= 0, got %d", cfg.Resolution)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		bad("window must have a positive size, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Assets == "" {
		bad("assets must be set")
	}
	return errors.Join(errs...)
}

// EngineOptions maps the animation settings onto art0.Options. Clock, Rand
// and Logger are left for the caller.
func (c Config) EngineOptions() art0.Options {
	fn, err := art0.EasingByName(c.Easing)
	if err != nil {
		fn = art0.DefaultEasing()
	}
	return art0.Options{
		FadeDuration:    c.FadeSeconds,
		HoldDuration:    c.HoldSeconds,
		Easing:          fn,
		ReducedMotion:   c.ReducedMotion,
		TargetFPS:       c.TargetFPS,
		FrameLimit:      c.FrameLimit,
		AdaptiveQuality: c.AdaptiveQuality,
	}
}

// Apply pushes the animation settings onto a live engine. It must run on the
// engine's tick goroutine, typically through Engine.Post.
func (c Config) Apply(e *art0.Engine) {
	opts := c.EngineOptions()
	e.SetFadeDuration(c.FadeSeconds)
	e.SetHoldDuration(c.HoldSeconds)
	e.SetReducedMotion(c.ReducedMotion)
	e.SetEasing(opts.Easing)
	d := e.Driver()
	d.SetFrameLimit(c.FrameLimit)
	d.SetTargetFPS(c.TargetFPS)
	d.SetAdaptiveQuality(c.AdaptiveQuality)
}

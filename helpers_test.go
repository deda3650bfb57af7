package art0

import (
	"bytes"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// stubProvider serves images from a map; missing ids resolve to nil.
type stubProvider map[string]Image

func (p stubProvider) Get(id string) Image {
	img, ok := p[id]
	if !ok {
		return nil
	}
	return img
}

// providerFor creates a 4x4 image for every id in images.
func providerFor(images map[Category][]string) stubProvider {
	p := stubProvider{}
	for _, ids := range images {
		for _, id := range ids {
			p[id] = image.NewRGBA(image.Rect(0, 0, 4, 4))
		}
	}
	return p
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestScheduler(images map[Category][]string, cats []Category, fade, hold float64) (*Scheduler, *Observers) {
	obs := &Observers{}
	s := NewScheduler(providerFor(images), obs, SchedulerConfig{
		FadeDuration: fade,
		HoldDuration: hold,
		Rand:         seededRand(),
		Logger:       zerolog.Nop(),
	})
	s.SetImages(images, cats)
	return s, obs
}

// bufLogger returns a logger writing JSON lines into buf.
func bufLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf).Level(zerolog.DebugLevel)
}

type recordedDraw struct {
	img   Image
	dst   Rect
	alpha float64
}

// recordingSurface records every call made by the compositor.
type recordingSurface struct {
	clears int
	scale  float64
	draws  []recordedDraw
}

func (s *recordingSurface) Clear() {
	s.clears++
	s.draws = s.draws[:0]
}

func (s *recordingSurface) SetScale(v float64) { s.scale = v }

func (s *recordingSurface) DrawImage(img Image, dst Rect, alpha float64) {
	s.draws = append(s.draws, recordedDraw{img: img, dst: dst, alpha: alpha})
}

// newTestEngine returns an engine on a manual clock with a seeded rand.
func newTestEngine(t *testing.T, images map[Category][]string, cats []Category, opts Options) (*Engine, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	opts.Clock = clock
	if opts.Rand == nil {
		opts.Rand = seededRand()
	}
	e := New(providerFor(images), opts)
	e.SetImages(images, cats)
	e.Resize(100, 100, 1, nil)
	return e, clock
}

func twoByTwo() (map[Category][]string, []Category) {
	return map[Category][]string{
			"pink":  {"pink-1.png", "pink-2.png"},
			"green": {"green-1.png", "green-2.png"},
		},
		[]Category{"pink", "green"}
}

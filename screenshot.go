package art0

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
)

// Screenshot queues a labeled screenshot to be captured after the next
// rendered frame. The PNG is written to ScreenshotDir with a timestamped
// filename. Only surfaces implementing Capturer can be captured.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

// flushScreenshots captures the rendered frame once and writes it for every
// queued label.
func (e *Engine) flushScreenshots(c Capturer) {
	if len(e.screenshotQueue) == 0 {
		return
	}
	defer func() { e.screenshotQueue = e.screenshotQueue[:0] }()

	if err := os.MkdirAll(e.ScreenshotDir, 0o755); err != nil {
		e.log.Warn().Err(err).Str("event", "screenshot.mkdir_failed").Str("dir", e.ScreenshotDir).Msg("screenshot skipped")
		return
	}
	img := c.Capture()
	if img == nil {
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range e.screenshotQueue {
		path := filepath.Join(e.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := SavePNG(path, img); err != nil {
			e.log.Warn().Err(err).Str("event", "screenshot.write_failed").Str("path", path).Msg("screenshot skipped")
		}
	}
}

// SavePNG atomically writes img as a PNG file at path. Readers never see a
// partially written file.
func SavePNG(path string, img image.Image) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = pending.Cleanup() }()

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(pending, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

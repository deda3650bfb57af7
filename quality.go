package art0

import (
	"math"
	"time"
)

// QualityThresholds are the minimum sustained fps for staying at a tier.
type QualityThresholds struct {
	TierA float64 // below this while at A, downgrade to B
	TierB float64 // below this while at B, downgrade to C
}

// DefaultQualityThresholds downgrade below 55fps at A and 45fps at B.
var DefaultQualityThresholds = QualityThresholds{TierA: 55, TierB: 45}

// fpsWindow is the length of one frame-rate measurement window.
const fpsWindow = time.Second

// qualityMonitor measures achieved fps over rolling one-second windows and
// downgrades the tier when a window falls below the threshold for the
// current tier. It never upgrades.
type qualityMonitor struct {
	enabled    bool
	thresholds QualityThresholds
	tier       QualityTier

	started     bool
	windowStart time.Time
	frames      int
	fps         int
}

func newQualityMonitor(enabled bool, th QualityThresholds) qualityMonitor {
	if th == (QualityThresholds{}) {
		th = DefaultQualityThresholds
	}
	return qualityMonitor{enabled: enabled, thresholds: th}
}

// stop discards the current window; the next frame opens a new one.
func (m *qualityMonitor) stop() {
	m.started = false
	m.frames = 0
}

// restart begins a fresh window at now, discarding partial counts.
func (m *qualityMonitor) restart(now time.Time) {
	m.started = true
	m.windowStart = now
	m.frames = 0
}

// frame records a rendered frame at now. When a window closes it returns the
// measured fps and true.
func (m *qualityMonitor) frame(now time.Time) (int, bool) {
	if !m.started {
		m.restart(now)
		return 0, false
	}
	m.frames++
	elapsed := now.Sub(m.windowStart)
	if elapsed < fpsWindow {
		return 0, false
	}
	m.fps = int(math.Round(float64(m.frames) / elapsed.Seconds()))
	m.restart(now)
	return m.fps, true
}

// evaluate applies a closed window's fps to the tier. It reports the previous
// tier and whether a downgrade happened.
func (m *qualityMonitor) evaluate(fps int) (QualityTier, bool) {
	prev := m.tier
	if !m.enabled {
		return prev, false
	}
	switch m.tier {
	case TierA:
		if float64(fps) < m.thresholds.TierA {
			m.tier = TierB
		}
	case TierB:
		if float64(fps) < m.thresholds.TierB {
			m.tier = TierC
		}
	}
	return prev, m.tier != prev
}

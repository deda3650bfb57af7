// Package metrics exports engine events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phanxgames/art0"
)

// Recorder owns the art0 collectors on one registry.
type Recorder struct {
	fps         prometheus.Gauge
	tier        prometheus.Gauge
	set         prometheus.Gauge
	fades       *prometheus.CounterVec
	transitions prometheus.Counter
	downgrades  prometheus.Counter
}

// NewRecorder registers the collectors on reg. A nil reg uses the default
// registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		fps: f.NewGauge(prometheus.GaugeOpts{
			Name: "art0_fps",
			Help: "Frames per second measured over the last one-second window",
		}),
		tier: f.NewGauge(prometheus.GaugeOpts{
			Name: "art0_quality_tier",
			Help: "Current quality tier (0 = A, 1 = B, 2 = C)",
		}),
		set: f.NewGauge(prometheus.GaugeOpts{
			Name: "art0_set",
			Help: "Current 1-based cycle counter",
		}),
		fades: f.NewCounterVec(prometheus.CounterOpts{
			Name: "art0_fades_total",
			Help: "Zone fades started, by category",
		}, []string{"category"}),
		transitions: f.NewCounter(prometheus.CounterOpts{
			Name: "art0_transitions_total",
			Help: "Style-switch fade-outs completed",
		}),
		downgrades: f.NewCounter(prometheus.CounterOpts{
			Name: "art0_quality_downgrades_total",
			Help: "Adaptive quality downgrades",
		}),
	}
}

// Attach subscribes the recorder to engine events. Call it before the engine
// starts ticking, or from the tick goroutine.
func (r *Recorder) Attach(obs *art0.Observers) []art0.CallbackHandle {
	return []art0.CallbackHandle{
		obs.OnStatus(r.recordStatus),
		obs.OnFPS(func(fps int) { r.fps.Set(float64(fps)) }),
		obs.OnQualityChange(func(ev art0.QualityEvent) {
			r.tier.Set(float64(ev.Tier))
			r.downgrades.Inc()
		}),
		obs.OnTransitionComplete(r.transitions.Inc),
	}
}

func (r *Recorder) recordStatus(ev art0.StatusEvent) {
	r.fades.WithLabelValues(string(ev.Category)).Inc()
	r.set.Set(float64(ev.Set))
}

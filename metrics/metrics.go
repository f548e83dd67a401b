// Package metrics exports geoview frame timing to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phanxgames/geoview"
)

const subsystem = "geoview"

// Phase label values, one per FrameStats bucket.
const (
	PhaseFrame   = "frame"
	PhaseEvents  = "events"
	PhaseUpdate  = "update"
	PhaseRecord  = "record"
	PhasePresent = "present"
)

// FrameCollector records every frame's stats as Prometheus histograms. It
// implements geoview.StatsObserver.
type FrameCollector struct {
	duration *prometheus.HistogramVec
	frames   prometheus.Counter
}

// NewFrameCollector creates a collector and registers it with reg.
func NewFrameCollector(reg prometheus.Registerer) (*FrameCollector, error) {
	c := &FrameCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      "frame_phase_duration_seconds",
				Help:      "Duration of each phase of a frame, in seconds.",
				// 100µs to ~3.3s.
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
			},
			[]string{"phase"},
		),
		frames: prometheus.NewCounter(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      "frames_total",
				Help:      "Count of frames recorded and presented.",
			},
		),
	}
	for _, col := range []prometheus.Collector{c.duration, c.frames} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveFrame implements geoview.StatsObserver.
func (c *FrameCollector) ObserveFrame(stats geoview.FrameStats) {
	c.duration.WithLabelValues(PhaseFrame).Observe(stats.Frame.Seconds())
	c.duration.WithLabelValues(PhaseEvents).Observe(stats.Events.Seconds())
	c.duration.WithLabelValues(PhaseUpdate).Observe(stats.Update.Seconds())
	c.duration.WithLabelValues(PhaseRecord).Observe(stats.Record.Seconds())
	c.duration.WithLabelValues(PhasePresent).Observe(stats.Present.Seconds())
	c.frames.Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

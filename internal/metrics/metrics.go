// Package metrics exports pipeline events as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline collectors. It implements pixelsort.Observer.
type Metrics struct {
	FramesDecoded     prometheus.Counter
	FramesTransformed prometheus.Counter
	FramesEncoded     prometheus.Counter

	TransformDuration prometheus.Histogram
	GateWaitDuration  prometheus.Histogram

	// SequenceGate is the next sequence number the sink will write.
	SequenceGate prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors with reg, a fresh registry when nil.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		FramesDecoded: f.NewCounter(prometheus.CounterOpts{
			Name: "pixelsort_frames_decoded_total",
			Help: "Total number of frames read from the decoder",
		}),
		FramesTransformed: f.NewCounter(prometheus.CounterOpts{
			Name: "pixelsort_frames_transformed_total",
			Help: "Total number of frames sorted by the workers",
		}),
		FramesEncoded: f.NewCounter(prometheus.CounterOpts{
			Name: "pixelsort_frames_encoded_total",
			Help: "Total number of frames written to the encoder",
		}),
		TransformDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pixelsort_transform_duration_seconds",
			Help:    "Time spent transforming a single frame",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		GateWaitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pixelsort_gate_wait_duration_seconds",
			Help:    "Time a transformed frame waited for its turn at the sink",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}),
		SequenceGate: f.NewGauge(prometheus.GaugeOpts{
			Name: "pixelsort_sequence_gate",
			Help: "Next sequence number to be written to the encoder",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) FrameDecoded(uint64) {
	m.FramesDecoded.Inc()
}

func (m *Metrics) FrameTransformed(_ uint64, elapsed time.Duration) {
	m.FramesTransformed.Inc()
	m.TransformDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) GateWaited(_ uint64, elapsed time.Duration) {
	m.GateWaitDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) FrameEncoded(seq uint64) {
	m.FramesEncoded.Inc()
	m.SequenceGate.Set(float64(seq + 1))
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

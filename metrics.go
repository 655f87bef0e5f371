package main

import (
	"net/http"
	"time"

	"github.com/humboldt-xie/blockworld/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports the chunk pipeline counters next to pprof.
type Metrics struct {
	rebuilt  prometheus.Counter
	failed   prometheus.Counter
	dirty    prometheus.Gauge
	drawn    prometheus.Gauge
	culled   prometheus.Gauge
	faces    prometheus.Gauge
	frameDur prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rebuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blockworld",
			Name:      "chunks_rebuilt_total",
			Help:      "Chunk meshes rebuilt and uploaded.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blockworld",
			Name:      "chunk_rebuild_failures_total",
			Help:      "Chunk rebuilds whose upload failed.",
		}),
		dirty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockworld",
			Name:      "chunks_dirty",
			Help:      "Chunks waiting for a rebuild.",
		}),
		drawn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockworld",
			Name:      "chunks_drawn",
			Help:      "Chunks drawn in the last frame.",
		}),
		culled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockworld",
			Name:      "chunks_culled",
			Help:      "Chunks outside the view frustum in the last frame.",
		}),
		faces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockworld",
			Name:      "faces_drawn",
			Help:      "Block faces drawn in the last frame.",
		}),
		frameDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blockworld",
			Name:      "frame_seconds",
			Help:      "Time spent building and drawing one frame.",
			Buckets:   []float64{.002, .004, .008, .016, .033, .066, .1},
		}),
	}
	reg.MustRegister(m.rebuilt, m.failed, m.dirty, m.drawn, m.culled, m.faces, m.frameDur)
	return m
}

// Frame records one frame of the render loop.
func (m *Metrics) Frame(build render.BuildStat, stat render.Stat, d time.Duration) {
	m.rebuilt.Add(float64(build.Rebuilt))
	m.failed.Add(float64(build.Failed))
	m.dirty.Set(float64(stat.DirtyChunks))
	m.drawn.Set(float64(stat.RendingChunks))
	m.culled.Set(float64(stat.CulledChunks))
	m.faces.Set(float64(stat.Faces))
	m.frameDur.Observe(d.Seconds())
}

// Handle mounts /metrics on the default mux served by -pprof.
func (m *Metrics) Handle() {
	http.Handle("/metrics", promhttp.Handler())
}

package main

import (
	"testing"
	"time"

	"github.com/humboldt-xie/blockworld/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsFrame(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Frame(render.BuildStat{Rebuilt: 3, Failed: 1}, render.Stat{DirtyChunks: 5, RendingChunks: 7, CulledChunks: 2, Faces: 40}, 5*time.Millisecond)
	m.Frame(render.BuildStat{Rebuilt: 2}, render.Stat{DirtyChunks: 3, RendingChunks: 8}, 5*time.Millisecond)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.rebuilt))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failed))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.dirty))
	assert.Equal(t, float64(8), testutil.ToFloat64(m.drawn))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.faces))
}

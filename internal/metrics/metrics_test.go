package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverEvents(t *testing.T) {
	m := New(prometheus.NewRegistry())

	for seq := uint64(0); seq < 3; seq++ {
		m.FrameDecoded(seq)
		m.FrameTransformed(seq, 2*time.Millisecond)
		m.GateWaited(seq, time.Millisecond)
		m.FrameEncoded(seq)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.FramesDecoded))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FramesTransformed))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FramesEncoded))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SequenceGate))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TransformDuration, "pixelsort_transform_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GateWaitDuration, "pixelsort_gate_wait_duration_seconds"))

	assert.InDelta(t, 3.0, histogramCount(t, m.TransformDuration), 0)
	assert.InDelta(t, 0.006, histogramSum(t, m.TransformDuration), 1e-9)
	assert.InDelta(t, 3.0, histogramCount(t, m.GateWaitDuration), 0)
}

func TestGatherTransformedCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	for seq := uint64(0); seq < 3; seq++ {
		m.FrameTransformed(seq, time.Millisecond)
	}

	want := `
# HELP pixelsort_frames_transformed_total Total number of frames sorted by the workers
# TYPE pixelsort_frames_transformed_total counter
pixelsort_frames_transformed_total 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "pixelsort_frames_transformed_total"))
	assert.Equal(t, uint64(3), uint64(histogramCount(t, m.TransformDuration)))
}

func histogramMetric(t *testing.T, h prometheus.Histogram) *dto.Histogram {
	t.Helper()
	var out dto.Metric
	require.NoError(t, h.Write(&out))
	require.NotNil(t, out.Histogram)
	return out.Histogram
}

func histogramCount(t *testing.T, h prometheus.Histogram) float64 {
	t.Helper()
	return float64(histogramMetric(t, h).GetSampleCount())
}

func histogramSum(t *testing.T, h prometheus.Histogram) float64 {
	t.Helper()
	return histogramMetric(t, h).GetSampleSum()
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.FrameDecoded(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.FramesDecoded))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FramesDecoded))
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.FrameEncoded(41)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pixelsort_sequence_gate 42")
	assert.Contains(t, string(body), "pixelsort_frames_encoded_total 1")
}

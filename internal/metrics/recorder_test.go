package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_CountsAndObserves(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncStageResult("render", ResultSuccess)
	rec.IncStageResult("render", ResultSuccess)
	rec.IncBuildOutcome("success")
	rec.AddPagesRendered(12)
	rec.IncRebuild("watch")
	rec.IncRebuildSkipped()
	rec.ObserveStageDuration("render", 50*time.Millisecond)
	rec.ObserveBuildDuration(time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.stageResults.WithLabelValues("render", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.buildOutcome.WithLabelValues("success")))
	assert.Equal(t, 12.0, testutil.ToFloat64(rec.pagesRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.rebuilds.WithLabelValues("watch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.rebuildsSkipped))
}

func TestPrometheusRecorder_NilRegistryGetsOwn(t *testing.T) {
	rec := NewPrometheusRecorder(nil)
	require.NotNil(t, rec.Handler())
	rec.IncBuildOutcome("failed")
}

func TestNoopRecorder_IsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("x", ResultFatal)
	r.IncBuildOutcome("canceled")
	r.AddPagesRendered(1)
	r.IncRebuild("manual")
	r.IncRebuildSkipped()
}

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	pagesRendered   prom.Counter
	rebuilds        *prom.CounterVec
	rebuildsSkipped prom.Counter
}

// NewPrometheusRecorder constructs and registers docsite metrics on the given
// registry (a fresh one when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}
	pr := &PrometheusRecorder{registry: reg}

	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "docsite",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "docsite",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docsite",
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docsite",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.pagesRendered = prom.NewCounter(prom.CounterOpts{
		Namespace: "docsite",
		Name:      "pages_rendered_total",
		Help:      "Total pages rendered across builds",
	})
	pr.rebuilds = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docsite",
		Name:      "rebuilds_total",
		Help:      "Rebuilds by trigger",
	}, []string{"trigger"})
	pr.rebuildsSkipped = prom.NewCounter(prom.CounterOpts{
		Namespace: "docsite",
		Name:      "rebuilds_skipped_total",
		Help:      "Rebuilds skipped because the content set was unchanged",
	})

	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults,
		pr.buildOutcome, pr.pagesRendered, pr.rebuilds, pr.rebuildsSkipped)
	return pr
}

// Handler exposes the registry for the /metrics endpoint.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(n int) {
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) IncRebuild(trigger string) {
	p.rebuilds.WithLabelValues(trigger).Inc()
}

func (p *PrometheusRecorder) IncRebuildSkipped() {
	p.rebuildsSkipped.Inc()
}

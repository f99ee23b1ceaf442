package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gunkustom_docs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	pagesWritten   *prom.CounterVec
	diagramFetches *prom.CounterVec
	policyFindings *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Pages written by kind",
		}, []string{"kind"}),
		diagramFetches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagram_fetches_total",
			Help:      "Diagram fetches by outcome",
		}, []string{"outcome"}),
		policyFindings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "policy_findings_total",
			Help:      "Content findings reported under a site policy",
		}, []string{"kind", "policy"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome,
		pr.pagesWritten, pr.diagramFetches, pr.policyFindings)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPagesWritten(kind string) {
	p.pagesWritten.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncDiagramFetch(outcome string) {
	p.diagramFetches.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPolicyFinding(kind, policy string) {
	p.policyFindings.WithLabelValues(kind, policy).Inc()
}

// Handler serves the recorder's registry.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

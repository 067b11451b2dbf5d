package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "griddle"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	conversions   *prom.CounterVec
	buildOutcome  *prom.CounterVec
	navLeaves     prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg,
// or with a fresh registry when reg is nil.
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
		conversions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Converted source files by format and result",
		}, []string{"format", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		navLeaves: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "navigation_leaves",
			Help:      "Pages listed in the navigation of the last build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.conversions, pr.buildOutcome, pr.navLeaves)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage Stage, d time.Duration) {
	p.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncConversion(format string, result ResultLabel) {
	p.conversions.WithLabelValues(format, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetNavigationLeaves(n int) {
	p.navLeaves.Set(float64(n))
}

// WriteTextfile writes the current values in the text exposition format, for
// node_exporter's textfile collector. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "site_builder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	builds             *prom.CounterVec
	buildDuration      prom.Histogram
	pagesGenerated     prom.Counter
	validationErrors   prom.Counter
	validationWarnings prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		builds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Finished site builds by final status",
		}, []string{"status"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		pagesGenerated: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_generated_total",
			Help:      "Pages rendered across all builds",
		}),
		validationErrors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Content validation errors reported",
		}),
		validationWarnings: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_warnings_total",
			Help:      "Content validation warnings reported",
		}),
	}
	reg.MustRegister(pr.builds, pr.buildDuration, pr.pagesGenerated, pr.validationErrors, pr.validationWarnings)
	return pr
}

func (p *PrometheusRecorder) IncBuild(status string) {
	if p == nil {
		return
	}
	p.builds.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddPagesGenerated(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesGenerated.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveValidation(errors, warnings int) {
	if p == nil {
		return
	}
	if errors > 0 {
		p.validationErrors.Add(float64(errors))
	}
	if warnings > 0 {
		p.validationWarnings.Add(float64(warnings))
	}
}

// HTTPHandler serves the metrics gathered by g.
func HTTPHandler(g prom.Gatherer) http.Handler {
	if g == nil {
		g = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

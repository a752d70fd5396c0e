package metrics

import (
	"strconv"

	"studyroom-be/pkg/rag/prompt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studyroom_kb"

// Metrics aggregates context builds as they come off the telemetry topic.
type Metrics struct {
	registry  *prometheus.Registry
	builds    *prometheus.CounterVec
	tokens    prometheus.Histogram
	fragments prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_builds_total",
			Help:      "Context builds by mode, degradation reason and fallback.",
		}, []string{"mode", "reason", "fallback"}),
		tokens: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "context_estimated_tokens",
			Help:      "Estimated token cost of delivered context blocks.",
			Buckets:   prometheus.ExponentialBuckets(250, 2, 8),
		}),
		fragments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "context_fragments",
			Help:      "Fragments per delivered context block.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.builds, m.tokens, m.fragments,
	)
	return m
}

// ObserveBuild records one manifest. Gate-disabled builds only count, they
// carry no size.
func (m *Metrics) ObserveBuild(manifest prompt.Manifest) {
	mode := string(manifest.Mode)
	if manifest.GateDisabled {
		mode = "disabled"
	}
	m.builds.WithLabelValues(mode, string(manifest.DegradationReason), strconv.FormatBool(manifest.UsedFallback)).Inc()
	if manifest.GateDisabled {
		return
	}
	m.tokens.Observe(float64(manifest.EstimatedTokens))
	m.fragments.Observe(float64(len(manifest.Fragments)))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RenderRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetink_render_runs_total",
		Help: "Total render runs",
	})
	RenderErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetink_render_errors_total",
		Help: "Total failed render runs by failing stage",
	}, []string{"stage"})
	RenderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tweetink_render_duration_seconds",
		Help:    "Render run duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	RenderVariants = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetink_render_variant_total",
		Help: "Composed canvases by body variant",
	}, []string{"variant"})
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetink_api_requests_total",
		Help: "Outgoing HTTP requests by endpoint and status code (0 = transport error)",
	}, []string{"endpoint", "code"})
)

func init() {
	prometheus.MustRegister(RenderRuns, RenderErrors, RenderDuration, RenderVariants, APIRequests)
}

// WriteTextfile dumps the default registry to path in the node_exporter
// textfile collector format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// ObserveRenderDuration records a run duration
func ObserveRenderDuration(start time.Time) {
	RenderDuration.Observe(time.Since(start).Seconds())
}

// IncRenderError counts a failed run at stage (fetch, pick, layout, compose, output).
func IncRenderError(stage string) { RenderErrors.WithLabelValues(stage).Inc() }

// IncVariant counts a composed canvas of the given body variant.
func IncVariant(variant string) { RenderVariants.WithLabelValues(variant).Inc() }

// ObserveAPIRequest counts one HTTP request.
func ObserveAPIRequest(endpoint string, code int) {
	APIRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

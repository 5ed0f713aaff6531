package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clave_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clave_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	plannerAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clave_planner_attempts_total",
			Help: "Planner completion attempts by retry stage.",
		},
		[]string{"stage"},
	)

	executorQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clave_executor_queries_total",
			Help: "Aggregation queries executed by query id.",
		},
		[]string{"query_id"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		plannerAttemptsTotal,
		executorQueriesTotal,
	)
}

func ObserveRequest(method, path, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, path, status).Observe(seconds)
}

func PlannerAttempt(stage string) {
	plannerAttemptsTotal.WithLabelValues(stage).Inc()
}

func ExecutorQuery(queryID string) {
	executorQueriesTotal.WithLabelValues(queryID).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
